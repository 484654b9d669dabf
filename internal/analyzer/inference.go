package analyzer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/demand"
	"github.com/funvibe/typedemand/internal/symbols"
	"github.com/funvibe/typedemand/internal/typesystem"
)

// InferenceContext is the state of one checking session. It is not safe for
// concurrent use; run one per goroutine.
type InferenceContext struct {
	// ID identifies the session in diagnostics and the mismatch log.
	ID uuid.UUID

	counter int
	// TypeMap maps AST nodes to their types: expression handles to the type
	// computed for them, type nodes to the type they denote.
	TypeMap map[ast.Node]typesystem.Type
	// GlobalSubst stores the accumulated substitution for the entire session
	GlobalSubst typesystem.Subst

	table *symbols.SymbolTable
}

var _ demand.Session = (*InferenceContext)(nil)

func NewInferenceContext(table *symbols.SymbolTable) *InferenceContext {
	return &InferenceContext{
		ID:          uuid.New(),
		TypeMap:     make(map[ast.Node]typesystem.Type),
		GlobalSubst: make(typesystem.Subst),
		table:       table,
	}
}

// SymbolTable returns the table the session resolves names against.
func (ctx *InferenceContext) SymbolTable() *symbols.SymbolTable {
	return ctx.table
}

// FreshVar generates a fresh type variable with a unique name and default kind Star.
func (ctx *InferenceContext) FreshVar() typesystem.TVar {
	return ctx.FreshVarWithKind(typesystem.Star)
}

// FreshVarWithKind generates a fresh type variable with a unique name and specific kind.
// Fresh names carry a '$' prefix, which the type lexer never produces, so
// they cannot collide with variables written in a suite.
func (ctx *InferenceContext) FreshVarWithKind(k typesystem.Kind) typesystem.TVar {
	ctx.counter++
	name := fmt.Sprintf("%s%d", typesystem.FreshVarPrefix, ctx.counter)
	return typesystem.TVar{Name: name, KindVal: k}
}

// SetType records the type of node.
func (ctx *InferenceContext) SetType(node ast.Node, t typesystem.Type) {
	ctx.TypeMap[node] = t
}

// ResolveTypeVariables applies every binding made so far.
func (ctx *InferenceContext) ResolveTypeVariables(t typesystem.Type) typesystem.Type {
	if t == nil || len(ctx.GlobalSubst) == 0 {
		return t
	}
	return t.Apply(ctx.GlobalSubst)
}

// TypeOf returns the recorded type of expr, falling back to a declared
// expression of the same name. Unknown expressions have the error type.
// The result is not resolved against GlobalSubst.
func (ctx *InferenceContext) TypeOf(expr ast.Expression) typesystem.Type {
	if t, ok := ctx.TypeMap[expr]; ok {
		return t
	}
	if ident, ok := expr.(*ast.Identifier); ok && ident != nil && ctx.table != nil {
		if t, ok := ctx.table.FindExpr(ident.Value); ok {
			return t
		}
	}
	return typesystem.ErrorType()
}

// commit composes a successful unifier into the session.
func (ctx *InferenceContext) commit(s typesystem.Subst) {
	if len(s) == 0 {
		return
	}
	ctx.GlobalSubst = s.Compose(ctx.GlobalSubst)
}
