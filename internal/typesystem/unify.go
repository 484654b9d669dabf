package typesystem

import (
	"fmt"
	"reflect"

	"github.com/funvibe/typedemand/internal/config"
)

// Resolver allows Unify to look up type definitions (e.g. from SymbolTable)
// to handle nominal types, aliases and regions that are not locally resolved.
type Resolver interface {
	ResolveTypeAlias(Type) Type
	ResolveTCon(name string) (TCon, bool)
	IsStrictMode() bool
	Outlives(longer, shorter string) bool
}

// Unify attempts to find a substitution that makes t1 and t2 equal.
// It enforces strict equality (invariant). t1 is the expected side of any
// returned MismatchCause.
func Unify(t1, t2 Type) (Subst, error) {
	return unifyInternal(t1, t2, false, nil, nil)
}

// UnifyWithResolver attempts to find a substitution using a resolver for type aliases.
func UnifyWithResolver(t1, t2 Type, resolver Resolver) (Subst, error) {
	return unifyInternal(t1, t2, false, nil, resolver)
}

// UnifyAllowExtra checks that t2 is a subtype of t1.
// t1 is the Expected type (supertype), t2 is the Actual type (subtype).
// Records allow width subtyping, unions accept their members, function
// parameters are contravariant and shared references are covariant in their
// region and element.
func UnifyAllowExtra(t1, t2 Type) (Subst, error) {
	return unifyInternal(t1, t2, true, nil, nil)
}

// UnifyAllowExtraWithResolver is UnifyAllowExtra with a resolver.
func UnifyAllowExtraWithResolver(t1, t2 Type, resolver Resolver) (Subst, error) {
	return unifyInternal(t1, t2, true, nil, resolver)
}

// typePair represents a pair of types being compared for co-induction
type typePair struct {
	t1 Type
	t2 Type
}

func unifyInternal(t1, t2 Type, allowExtra bool, visited []typePair, resolver Resolver) (Subst, error) {
	// Co-induction: a pair already on the stack is assumed to hold
	for _, p := range visited {
		if reflect.DeepEqual(p.t1, t1) && reflect.DeepEqual(p.t2, t2) {
			return Subst{}, nil
		}
	}
	visited = append(visited, typePair{t1: t1, t2: t2})

	if reflect.DeepEqual(t1, t2) {
		return Subst{}, nil
	}

	// The error type already produced a diagnostic elsewhere
	if IsError(t1) || IsError(t2) {
		return Subst{}, nil
	}

	if tv, ok := t1.(TVar); ok {
		return Bind(tv, t2)
	}
	if tv, ok := t2.(TVar); ok {
		s, err := Bind(tv, t1)
		if err != nil {
			return nil, AsCause(err).Swap()
		}
		return s, nil
	}

	// If t2 is a TCon alias and t1 is structural, unwrap t2 first.
	if _, t1IsTCon := t1.(TCon); !t1IsTCon {
		if t2Con, ok := t2.(TCon); ok {
			if t2Con.UnderlyingType != nil {
				return unifyInternal(t1, UnwrapUnderlying(t2Con), allowExtra, visited, resolver)
			}
			if resolver != nil {
				r2 := resolver.ResolveTypeAlias(t2)
				if !reflect.DeepEqual(r2, t2) {
					return unifyInternal(t1, r2, allowExtra, visited, resolver)
				}
			}
		}
	}

	// Parameterized aliases: Pair<Int> ~ (Int, Int)
	if tApp, ok := t1.(TApp); ok {
		if _, isTApp := t2.(TApp); !isTApp {
			if expanded, ok := expandApp(tApp, resolver); ok {
				return unifyInternal(expanded, t2, allowExtra, visited, resolver)
			}
		}
	}
	if tApp, ok := t2.(TApp); ok {
		if _, isTApp := t1.(TApp); !isTApp {
			if expanded, ok := expandApp(tApp, resolver); ok {
				return unifyInternal(t1, expanded, allowExtra, visited, resolver)
			}
		}
	}

	// Subtyping with a union on the actual side: every member must fit.
	if union, ok := t2.(TUnion); ok && allowExtra {
		target, targetIsUnion := t1.(TUnion)
		s := Subst{}
		for _, member := range union.Types {
			var s2 Subst
			var err error
			if targetIsUnion {
				s2, err = unifyMember(target, member.Apply(s), visited, resolver)
			} else {
				s2, err = unifyInternal(t1.Apply(s), member.Apply(s), true, visited, resolver)
			}
			if err != nil {
				return nil, errUnifyContext("union member "+member.String(), err)
			}
			s = s.Compose(s2)
		}
		return s, nil
	}

	// Union on the expected side only: T <: T | U
	if union, ok := t1.(TUnion); ok {
		if _, ok := t2.(TUnion); !ok {
			if !allowExtra {
				return nil, errUnifyMsg(CauseKindMismatch, t1, t2, "")
			}
			if resolver != nil && resolver.IsStrictMode() {
				return nil, errUnifyMsg(CauseUnionMember, t1, t2, "implicit union injection is disabled")
			}
			return unifyMember(union, t2, visited, resolver)
		}
	}

	switch t1 := t1.(type) {
	case TApp:
		expanded1 := ExpandTypeAlias(t1)
		if !reflect.DeepEqual(expanded1, t1) {
			return unifyInternal(expanded1, t2, allowExtra, visited, resolver)
		}

		switch t2 := t2.(type) {
		case TApp:
			expanded2 := ExpandTypeAlias(t2)
			if !reflect.DeepEqual(expanded2, t2) {
				return unifyInternal(t1, expanded2, allowExtra, visited, resolver)
			}

			// F<A> ~ Map<String, E>: bind F to the partially applied constructor
			if t1Var, ok := t1.Constructor.(TVar); ok && len(t1.Args) <= len(t2.Args) {
				numExtra := len(t2.Args) - len(t1.Args)
				var partialType Type = t2.Constructor
				if numExtra > 0 {
					partialType = TApp{Constructor: t2.Constructor, Args: t2.Args[:numExtra]}
				}
				s1, err := Bind(t1Var, partialType)
				if err != nil {
					return nil, err
				}
				return unifyArgs(t1.Args, t2.Args[numExtra:], s1, visited, resolver)
			}

			if t2Var, ok := t2.Constructor.(TVar); ok && len(t2.Args) <= len(t1.Args) {
				numExtra := len(t1.Args) - len(t2.Args)
				var partialType Type = t1.Constructor
				if numExtra > 0 {
					partialType = TApp{Constructor: t1.Constructor, Args: t1.Args[:numExtra]}
				}
				s1, err := Bind(t2Var, partialType)
				if err != nil {
					return nil, AsCause(err).Swap()
				}
				return unifyArgs(t1.Args[numExtra:], t2.Args, s1, visited, resolver)
			}

			s1, err := unifyInternal(t1.Constructor, t2.Constructor, false, visited, resolver)
			if err != nil {
				return nil, errUnify(t1, t2)
			}
			if len(t1.Args) != len(t2.Args) {
				return nil, errUnifyMsg(CauseArityMismatch, t1, t2,
					fmt.Sprintf("type arguments length mismatch: %d vs %d", len(t1.Args), len(t2.Args)))
			}
			// Type arguments are invariant
			return unifyArgs(t1.Args, t2.Args, s1, visited, resolver)
		default:
			return nil, errUnify(t1, t2)
		}

	case TCon:
		switch t2 := t2.(type) {
		case TCon:
			if t1.Name == t2.Name {
				return Subst{}, nil
			}
			if t1.UnderlyingType != nil || t2.UnderlyingType != nil {
				return unifyInternal(UnwrapUnderlying(t1), UnwrapUnderlying(t2), allowExtra, visited, resolver)
			}
			if resolver != nil {
				r1 := resolver.ResolveTypeAlias(t1)
				r2 := resolver.ResolveTypeAlias(t2)
				if !reflect.DeepEqual(r1, t1) || !reflect.DeepEqual(r2, t2) {
					return unifyInternal(r1, r2, allowExtra, visited, resolver)
				}
			}
			return nil, errUnify(t1, t2)
		default:
			if t1.UnderlyingType != nil {
				return unifyInternal(UnwrapUnderlying(t1), t2, allowExtra, visited, resolver)
			}
			if resolver != nil {
				r1 := resolver.ResolveTypeAlias(t1)
				if !reflect.DeepEqual(r1, t1) {
					return unifyInternal(r1, t2, allowExtra, visited, resolver)
				}
			}
			return nil, errUnify(t1, t2)
		}

	case TTuple:
		t2Tuple, ok := t2.(TTuple)
		if !ok {
			return nil, errUnify(t1, t2)
		}
		if len(t1.Elements) != len(t2Tuple.Elements) {
			return nil, errUnifyMsg(CauseArityMismatch, t1, t2,
				fmt.Sprintf("tuple length mismatch: %d vs %d", len(t1.Elements), len(t2Tuple.Elements)))
		}
		s1 := Subst{}
		for i := range t1.Elements {
			// Tuples are immutable, so elements are covariant under subtyping
			s2, err := unifyInternal(t1.Elements[i].Apply(s1), t2Tuple.Elements[i].Apply(s1), allowExtra, visited, resolver)
			if err != nil {
				return nil, errUnifyContext(fmt.Sprintf("tuple element %d", i), err)
			}
			s1 = s1.Compose(s2)
		}
		return s1, nil

	case TRecord:
		t2Rec, ok := t2.(TRecord)
		if !ok {
			return nil, errUnify(t1, t2)
		}
		return unifyRecords(t1, t2Rec, allowExtra, visited, resolver)

	case TUnion:
		t2Union, ok := t2.(TUnion)
		if !ok {
			return nil, errUnify(t1, t2)
		}
		// Only reached for equality: normalized unions compare pairwise
		if len(t1.Types) != len(t2Union.Types) {
			return nil, errUnifyMsg(CauseArityMismatch, t1, t2,
				fmt.Sprintf("union type mismatch: %d vs %d members", len(t1.Types), len(t2Union.Types)))
		}
		s := Subst{}
		for i := range t1.Types {
			s2, err := unifyInternal(t1.Types[i].Apply(s), t2Union.Types[i].Apply(s), false, visited, resolver)
			if err != nil {
				return nil, errUnifyContext("union member", err)
			}
			s = s.Compose(s2)
		}
		return s, nil

	case TFunc:
		t2Func, ok := t2.(TFunc)
		if !ok {
			return nil, errUnify(t1, t2)
		}
		if t1.IsVariadic != t2Func.IsVariadic {
			return nil, errUnifyMsg(CauseArityMismatch, t1, t2, "variadic and non-variadic functions")
		}
		if len(t1.Params) != len(t2Func.Params) {
			return nil, errUnifyMsg(CauseArityMismatch, t1, t2,
				fmt.Sprintf("function parameter count mismatch: %d vs %d", len(t1.Params), len(t2Func.Params)))
		}
		s1 := Subst{}
		for i := range t1.Params {
			p1 := t1.Params[i].Apply(s1)
			p2 := t2Func.Params[i].Apply(s1)
			var s2 Subst
			var err error
			if allowExtra {
				// Contravariant: the expected function's parameter must fit the actual one's
				s2, err = unifyInternal(p2, p1, true, visited, resolver)
				if err != nil {
					err = AsCause(err).Swap()
				}
			} else {
				s2, err = unifyInternal(p1, p2, false, visited, resolver)
			}
			if err != nil {
				return nil, errUnifyContext(fmt.Sprintf("parameter %d", i+1), err)
			}
			s1 = s1.Compose(s2)
		}
		s3, err := unifyInternal(t1.ReturnType.Apply(s1), t2Func.ReturnType.Apply(s1), allowExtra, visited, resolver)
		if err != nil {
			return nil, errUnifyContext("return type", err)
		}
		return s1.Compose(s3), nil

	case TRef:
		t2Ref, ok := t2.(TRef)
		if !ok {
			return nil, errUnify(t1, t2)
		}
		if t1.Mutable != t2Ref.Mutable {
			return nil, errUnifyMsg(CauseMutabilityMismatch, t1, t2, "")
		}
		if !regionFits(t2Ref.Region, t1.Region, allowExtra, resolver) {
			return nil, errUnifyMsg(CauseRegionMismatch, t1, t2,
				fmt.Sprintf("'%s does not outlive '%s", t2Ref.Region, t1.Region))
		}
		// &mut T is invariant in T
		s, err := unifyInternal(t1.Elem, t2Ref.Elem, allowExtra && !t1.Mutable, visited, resolver)
		if err != nil {
			return nil, errUnifyContext("referenced type", err)
		}
		return s, nil

	default:
		return nil, errUnifyMsg(CauseOther, t1, t2, fmt.Sprintf("unknown type %T", t1))
	}
}

func unifyArgs(args1, args2 []Type, s1 Subst, visited []typePair, resolver Resolver) (Subst, error) {
	for i := range args1 {
		s2, err := unifyInternal(args1[i].Apply(s1), args2[i].Apply(s1), false, visited, resolver)
		if err != nil {
			return nil, errUnifyContext(fmt.Sprintf("type argument %d", i+1), err)
		}
		s1 = s1.Compose(s2)
	}
	return s1, nil
}

// unifyMember succeeds if t is a subtype of some member of u.
func unifyMember(u TUnion, t Type, visited []typePair, resolver Resolver) (Subst, error) {
	for _, member := range u.Types {
		if s, err := unifyInternal(member, t, true, visited, resolver); err == nil {
			return s, nil
		}
	}
	return nil, errUnifyMsg(CauseUnionMember, u, t, "")
}

func expandApp(tApp TApp, resolver Resolver) (Type, bool) {
	tCon, isTCon := tApp.Constructor.(TCon)
	if !isTCon {
		return nil, false
	}
	// A TCon passed by value may be stale; refresh it from the resolver
	if tCon.UnderlyingType == nil && resolver != nil {
		if updated, found := resolver.ResolveTCon(tCon.Name); found {
			tCon = updated
		}
	}
	if tCon.UnderlyingType == nil {
		return nil, false
	}
	expanded := ExpandTypeAlias(TApp{Constructor: tCon, Args: tApp.Args})
	if _, still := expanded.(TApp); still && reflect.DeepEqual(expanded, TApp{Constructor: tCon, Args: tApp.Args}) {
		return nil, false
	}
	return expanded, true
}

// regionFits reports whether a reference living for actual may be used where
// one living for expected is required.
func regionFits(actual, expected string, allowExtra bool, resolver Resolver) bool {
	if actual == expected || actual == "" || expected == "" {
		return true
	}
	if !allowExtra {
		return false
	}
	if actual == config.StaticRegion {
		return true
	}
	return resolver != nil && resolver.Outlives(actual, expected)
}

func unifyRecords(t1, t2 TRecord, allowExtra bool, visited []typePair, resolver Resolver) (Subst, error) {
	s1 := Subst{}

	// 1. Common fields are invariant
	for k, v1 := range t1.Fields {
		if v2, ok := t2.Fields[k]; ok {
			s2, err := unifyInternal(v1.Apply(s1), v2.Apply(s1), false, visited, resolver)
			if err != nil {
				return nil, errUnifyContext(fmt.Sprintf("record field '%s'", k), err)
			}
			s1 = s1.Compose(s2)
		}
	}

	// 2. Collect fields present on one side only
	extra1 := map[string]Type{}
	for k, v := range t1.Fields {
		if _, ok := t2.Fields[k]; !ok {
			extra1[k] = v.Apply(s1)
		}
	}
	extra2 := map[string]Type{}
	for k, v := range t2.Fields {
		if _, ok := t1.Fields[k]; !ok {
			extra2[k] = v.Apply(s1)
		}
	}

	// 3. Row variables absorb the other side's extras
	if len(extra2) > 0 {
		if t1.Row != nil {
			var tail Type
			if t2.Row != nil {
				tail = t2.Row.Apply(s1)
			}
			expectedTail := TRecord{Fields: extra2, Row: tail, IsOpen: tail != nil}
			s2, err := unifyInternal(t1.Row.Apply(s1), expectedTail, allowExtra, visited, resolver)
			if err != nil {
				return nil, errUnifyContext("record row extension", err)
			}
			s1 = s1.Compose(s2)
		} else if !allowExtra && !t1.IsOpen {
			return nil, errUnifyMsg(CauseFieldMismatch, t1, t2, fmt.Sprintf("record has extra fields: %s", fieldNames(extra2)))
		}
	}

	if len(extra1) > 0 {
		if t2.Row != nil {
			var tail Type
			if t1.Row != nil {
				tail = t1.Row.Apply(s1)
			}
			expectedTail := TRecord{Fields: extra1, Row: tail, IsOpen: tail != nil}
			s2, err := unifyInternal(t2.Row.Apply(s1), expectedTail, allowExtra, visited, resolver)
			if err != nil {
				return nil, errUnifyContext("record row extension", err)
			}
			s1 = s1.Compose(s2)
		} else {
			// The actual record lacks fields the expected one requires
			return nil, errUnifyMsg(CauseFieldMismatch, t1, t2, fmt.Sprintf("record missing fields: %s", fieldNames(extra1)))
		}
	}

	if len(extra1) == 0 && len(extra2) == 0 && t1.Row != nil && t2.Row != nil {
		s2, err := unifyInternal(t1.Row.Apply(s1), t2.Row.Apply(s1), allowExtra, visited, resolver)
		if err != nil {
			return nil, err
		}
		s1 = s1.Compose(s2)
	}

	return s1, nil
}

func fieldNames(fields map[string]Type) string {
	return TRecord{Fields: fields}.String()
}

// Bind binds a type variable to a type, performing the kind and occurs checks.
// A returned cause has the variable as Expected.
func Bind(tv TVar, t Type) (Subst, error) {
	if tVal, ok := t.(TVar); ok && tVal.Name == tv.Name {
		return Subst{}, nil
	}

	// Binding a * -> * variable to a * type would make later applications ill-kinded
	if !tv.Kind().Equal(t.Kind()) {
		return nil, errUnifyMsg(CauseHigherKindMismatch, tv, t,
			fmt.Sprintf("variable %s has kind %s, but %s has kind %s", tv.Name, tv.Kind(), t, t.Kind()))
	}

	if OccursCheck(tv, t) {
		return nil, errUnifyMsg(CauseInfiniteType, tv, t, fmt.Sprintf("%s occurs in %s", tv, t))
	}

	return Subst{tv.Name: t}, nil
}

// OccursCheck returns true if tv appears free in t.
func OccursCheck(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.Name == tv.Name {
			return true
		}
	}
	return false
}
