package typesystem

import (
	"errors"
	"fmt"
	"strings"
)

// CauseKind tags why a relation check failed. The set is closed: only the
// relation engine produces causes and only diagnostics consume them.
type CauseKind int

const (
	CauseOther              CauseKind = iota
	CauseKindMismatch                 // different constructors or shapes
	CauseArityMismatch                // tuple length, parameter count, type argument count
	CauseRegionMismatch               // a region does not outlive the required one
	CauseMutabilityMismatch           // &T where &mut T is required
	CauseUnsatisfiedBound             // a type does not implement a required interface
	CauseFieldMismatch                // missing or extra record fields
	CauseUnionMember                  // a type is not a member of a union
	CauseInfiniteType                 // occurs check
	CauseHigherKindMismatch           // binding a variable to a type of another kind
)

func (k CauseKind) String() string {
	switch k {
	case CauseKindMismatch:
		return "kind mismatch"
	case CauseArityMismatch:
		return "arity mismatch"
	case CauseRegionMismatch:
		return "lifetime mismatch"
	case CauseMutabilityMismatch:
		return "mutability mismatch"
	case CauseUnsatisfiedBound:
		return "unsatisfied bound"
	case CauseFieldMismatch:
		return "field mismatch"
	case CauseUnionMember:
		return "not a union member"
	case CauseInfiniteType:
		return "infinite type"
	case CauseHigherKindMismatch:
		return "higher-kind mismatch"
	default:
		return "type error"
	}
}

// MismatchCause describes why two types failed a relation.
// Expected and Found follow the engine's own orientation and may differ from
// the roles the caller of the demand layer assigned to the operands.
type MismatchCause struct {
	Kind     CauseKind
	Expected Type
	Found    Type
	Detail   string
	Context  []string // outermost first, e.g. "record field 'x'"
}

func (c *MismatchCause) Error() string {
	var b strings.Builder
	for _, ctx := range c.Context {
		b.WriteString("in ")
		b.WriteString(ctx)
		b.WriteString(": ")
	}
	b.WriteString(c.Kind.String())
	if c.Expected != nil && c.Found != nil {
		fmt.Fprintf(&b, ": expected %s, found %s", c.Expected, c.Found)
	}
	if c.Detail != "" {
		b.WriteString(" (")
		b.WriteString(c.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// Swap returns a copy with Expected and Found exchanged.
func (c *MismatchCause) Swap() *MismatchCause {
	out := *c
	out.Expected, out.Found = c.Found, c.Expected
	return &out
}

// Within returns a copy nested under an additional outer context.
func (c *MismatchCause) Within(ctx string) *MismatchCause {
	out := *c
	out.Context = append([]string{ctx}, c.Context...)
	return &out
}

// AsCause extracts the MismatchCause from err. Errors of any other type are
// wrapped as CauseOther so callers always get a cause.
func AsCause(err error) *MismatchCause {
	if err == nil {
		return nil
	}
	var cause *MismatchCause
	if errors.As(err, &cause) {
		return cause
	}
	return &MismatchCause{Kind: CauseOther, Detail: err.Error()}
}

func mismatch(kind CauseKind, expected, found Type, detail string) *MismatchCause {
	return &MismatchCause{Kind: kind, Expected: expected, Found: found, Detail: detail}
}

func errUnify(t1, t2 Type) error {
	return mismatch(CauseKindMismatch, t1, t2, "")
}

func errUnifyMsg(kind CauseKind, t1, t2 Type, msg string) error {
	return mismatch(kind, t1, t2, msg)
}

func errUnifyContext(ctx string, err error) error {
	return AsCause(err).Within(ctx)
}
