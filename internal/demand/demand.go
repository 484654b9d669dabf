// Package demand is the narrow interface through which a type checker asserts
// that two types stand in a required relation. Each operation makes exactly
// one call to the relation engine and, when the engine refuses, hands exactly
// one Mismatch to a handler. It never decides compatibility itself, never
// retries and never touches inference state directly.
package demand

import (
	"context"
	"log/slog"

	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/token"
	"github.com/funvibe/typedemand/internal/typesystem"
)

// Relation is the relation a demand asserts.
type Relation int

const (
	Equal Relation = iota
	SubtypeOf
	CoercibleTo
)

func (r Relation) String() string {
	switch r {
	case Equal:
		return "equal"
	case SubtypeOf:
		return "subtype"
	case CoercibleTo:
		return "coercible"
	default:
		return "unknown"
	}
}

// Mismatch describes one failed demand. Expected and Actual always carry the
// roles the caller gave them, whatever order the engine saw the operands in.
// Cause is produced by the engine and passed through untouched.
type Mismatch struct {
	Span     token.Token
	Relation Relation
	Expected typesystem.Type
	Actual   typesystem.Type
	Cause    *typesystem.MismatchCause
}

// Engine decides relations between types within a checking session.
type Engine interface {
	UnifyEqual(span token.Token, a, b typesystem.Type) error
	// UnifySubtype checks sub <: sup. expectedIsRHS only affects which side the
	// engine calls "expected" in its own cause.
	UnifySubtype(expectedIsRHS bool, span token.Token, sub, sup typesystem.Type) error
	UnifyAssignable(expr ast.Expression, exprType, target typesystem.Type) error
}

// Session is the per-item inference state a demand is checked against.
// A session must not be shared between goroutines.
type Session interface {
	Engine
	// ResolveTypeVariables substitutes every variable the session has bound so
	// far. It is idempotent and never fails.
	ResolveTypeVariables(t typesystem.Type) typesystem.Type
	// TypeOf returns the type already computed for expr.
	TypeOf(expr ast.Expression) typesystem.Type
}

// Sink receives mismatches on the default reporting path.
type Sink interface {
	ReportMismatch(m Mismatch)
}

// Checker issues demands. It holds no per-call state and may be shared by
// goroutines that each drive their own Session.
type Checker struct {
	sink   Sink
	logger *slog.Logger
}

type Option func(*Checker)

// WithLogger sets the logger used for per-demand debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(sink Sink, opts ...Option) *Checker {
	c := &Checker{
		sink:   sink,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sink returns the sink used by the default handler.
func (c *Checker) Sink() Sink {
	return c.sink
}

// EqType requires expected and actual to be interchangeable.
func (c *Checker) EqType(s Session, span token.Token, expected, actual typesystem.Type) {
	c.trace("eqtype", span, expected, actual)
	if err := s.UnifyEqual(span, actual, expected); err != nil {
		c.dispatch(DefaultHandler(c.sink), span, Equal, expected, actual, err)
	}
}

// SupType requires actual to be a subtype of expected.
func (c *Checker) SupType(s Session, span token.Token, expected, actual typesystem.Type) {
	c.SupTypeWithHandler(s, span, false, expected, actual, DefaultHandler(c.sink))
}

// SupTypeWithHandler is SupType with a caller-chosen failure handler.
//
// The engine receives actual as the sub operand and expected as the sup
// operand. h receives the caller's (expected, actual), never the engine order.
// A nil handler means the default one.
func (c *Checker) SupTypeWithHandler(s Session, span token.Token, expectedIsRHS bool, expected, actual typesystem.Type, h Handler) {
	if h == nil {
		h = DefaultHandler(c.sink)
	}
	c.trace("suptype", span, expected, actual, slog.Bool("expected_is_rhs", expectedIsRHS))
	if err := s.UnifySubtype(expectedIsRHS, span, actual, expected); err != nil {
		c.dispatch(h, span, SubtypeOf, expected, actual, err)
	}
}

// Coerce requires the type of expr to be coercible to expected.
//
// expected is resolved against the session's current bindings before the
// check. The expression's type is taken as the session reports it.
func (c *Checker) Coerce(s Session, span token.Token, expected typesystem.Type, expr ast.Expression) {
	exprType := s.TypeOf(expr)
	c.trace("coerce", span, expected, exprType, slog.String("expr", exprLiteral(expr)))
	resolved := s.ResolveTypeVariables(expected)
	if err := s.UnifyAssignable(expr, exprType, resolved); err != nil {
		c.dispatch(DefaultHandler(c.sink), span, CoercibleTo, resolved, exprType, err)
	}
}

func exprLiteral(expr ast.Expression) string {
	if expr == nil {
		return ""
	}
	return expr.TokenLiteral()
}

func (c *Checker) dispatch(h Handler, span token.Token, rel Relation, expected, actual typesystem.Type, err error) {
	m := Mismatch{
		Span:     span,
		Relation: rel,
		Expected: expected,
		Actual:   actual,
		Cause:    typesystem.AsCause(err),
	}
	c.logger.Debug("demand failed",
		slog.String("relation", rel.String()),
		slog.String("at", span.Position()),
		slog.String("cause", m.Cause.Kind.String()))
	h.HandleMismatch(m)
}

func (c *Checker) trace(op string, span token.Token, expected, actual typesystem.Type, extra ...any) {
	if !c.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	args := append([]any{
		slog.String("at", span.Position()),
		slog.Any("expected", expected),
		slog.Any("actual", actual),
	}, extra...)
	c.logger.Debug(op, args...)
}
