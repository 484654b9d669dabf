package analyzer

import (
	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/demand"
	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/pipeline"
	"github.com/funvibe/typedemand/internal/suite"
	"github.com/funvibe/typedemand/internal/symbols"
	"github.com/funvibe/typedemand/internal/token"
	"github.com/funvibe/typedemand/internal/typesystem"
)

// DeclareProcessor builds the symbol table of a suite and opens its checking
// session: interfaces, aliases, regions, implementations and expressions are
// declared, then every demand operand is converted to a type.
type DeclareProcessor struct{}

func (dp *DeclareProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Suite == nil {
		return ctx
	}
	f := ctx.Suite
	path := ctx.FilePath
	fileTok := token.At(path, 0, 0)

	table := symbols.NewSymbolTable()
	table.SetStrictMode(ctx.StrictUnions)
	ic := NewInferenceContext(table)
	ic.ID = ctx.SessionID

	for _, name := range f.Interfaces {
		if declared(table, name) {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrA004, fileTok, name))
			continue
		}
		table.DefineInterface(name, path)
	}

	// Aliases may refer to each other in any order, so every name is declared
	// before any body is built.
	var aliases []suite.Alias
	for _, a := range f.Aliases {
		if declared(table, a.Name) {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrA004, typeExprToken(path, a.Type), a.Name))
			continue
		}
		placeholder := typesystem.TCon{Name: a.Name}
		if len(a.Params) > 0 {
			placeholder.KindVal = constructorKind(len(a.Params))
		}
		table.DefineType(a.Name, placeholder, path)
		table.RegisterKind(a.Name, placeholder.Kind())
		aliases = append(aliases, a)
	}
	for _, a := range aliases {
		body := typesystem.ErrorType()
		if a.Type.Node != nil {
			body = BuildCheckedType(a.Type.Node, table, &ctx.Errors)
		}
		table.DefineTypeAlias(a.Name, a.Params, body, path)
	}

	for _, o := range f.Outlives {
		table.RegisterOutlives(o.Longer, o.Shorter)
	}

	for _, impl := range f.Impls {
		if impl.Type.Node == nil {
			continue
		}
		tok := typeExprToken(path, impl.Type)
		if !table.IsInterface(impl.Interface) {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrA002, tok, impl.Interface))
			continue
		}
		t := BuildCheckedType(impl.Type.Node, table, &ctx.Errors)
		if typesystem.IsError(t) {
			continue
		}
		if err := table.RegisterImplementation(impl.Interface, t); err != nil {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrA007, tok, impl.Interface, t))
		}
	}

	for _, e := range f.Exprs {
		tok := fileTok
		if !e.Type.IsZero() {
			tok = typeExprToken(path, e.Type)
		}
		if declared(table, e.Name) {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrA004, tok, e.Name))
			continue
		}

		var t typesystem.Type
		switch {
		case e.Type.IsZero():
			t = ic.FreshVar()
		case e.Type.Node == nil:
			t = typesystem.ErrorType()
		default:
			t = BuildCheckedType(e.Type.Node, table, &ctx.Errors)
		}
		table.Define(e.Name, t, path)

		ident := &ast.Identifier{
			Token: token.Token{Type: token.LookupIdent(e.Name), Lexeme: e.Name, File: path, Line: tok.Line, Column: tok.Column},
			Value: e.Name,
		}
		ctx.Exprs[e.Name] = ident
		ic.SetType(ident, t)
	}

	for i := range f.Demands {
		d := &f.Demands[i]
		for _, te := range []*suite.TypeExpr{&d.Expected, &d.Actual} {
			if te.Node == nil {
				continue
			}
			ic.SetType(te.Node, BuildCheckedType(te.Node, table, &ctx.Errors))
		}
	}

	ctx.SymbolTable = table
	ctx.Session = ic
	return ctx
}

func declared(table *symbols.SymbolTable, name string) bool {
	_, found := table.Find(name)
	return found
}

func typeExprToken(path string, te suite.TypeExpr) token.Token {
	return token.At(path, te.Line, te.Column)
}

// CheckProcessor issues every demand of the suite, in order, against the
// session opened by DeclareProcessor.
type CheckProcessor struct{}

func (cp *CheckProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Suite == nil {
		return ctx
	}
	ic, ok := ctx.Session.(*InferenceContext)
	if !ok || ic == nil {
		return ctx
	}

	if ctx.Sink == nil {
		ctx.Sink = diagnostics.NewReporter(ctx.Bag).ForSession(ctx.SessionID.String())
	}
	if ctx.Checker == nil {
		ctx.Checker = demand.New(ctx.Sink, demand.WithLogger(ctx.Logger))
	}
	checker := ctx.Checker

	// Batched failures are reported after the last demand.
	var batch demand.Recorder
	checked := 0

	for _, d := range ctx.Suite.Demands {
		span := token.At(ctx.FilePath, d.Line, d.Column)
		expected, ok := operand(ic, d.Expected)
		if !ok {
			continue
		}

		switch d.Op {
		case suite.OpEqType:
			actual, ok := operand(ic, d.Actual)
			if !ok {
				continue
			}
			checker.EqType(ic, span, expected, actual)

		case suite.OpSupType:
			actual, ok := operand(ic, d.Actual)
			if !ok {
				continue
			}
			expectedIsRHS := false
			var h demand.Handler
			switch d.Handler {
			case suite.HandlerSuppress:
				h = demand.Suppress
			case suite.HandlerBatch:
				h = &batch
			case suite.HandlerRHS:
				expectedIsRHS = true
				h = demand.DefaultHandler(checker.Sink())
			default:
				h = demand.DefaultHandler(checker.Sink())
			}
			if d.Context != "" {
				h = demand.TransformCause(demand.WithContext(d.Context), h)
			}
			checker.SupTypeWithHandler(ic, span, expectedIsRHS, expected, actual, h)

		case suite.OpCoerce:
			expr, ok := ctx.Exprs[d.Expr]
			if !ok {
				ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrA001, span, d.Expr))
				expr = &ast.Identifier{
					Token: token.Token{Type: token.LookupIdent(d.Expr), Lexeme: d.Expr, File: ctx.FilePath, Line: d.Line, Column: d.Column},
					Value: d.Expr,
				}
			}
			checker.Coerce(ic, span, expected, expr)

		default:
			continue
		}
		checked++
	}

	flushed := batch.Flush(checker.Sink())
	ctx.Logger.Debug("suite checked",
		"file", ctx.FilePath,
		"demands", checked,
		"batched", flushed,
		"session", ctx.SessionID.String())
	return ctx
}

// operand returns the type built for te. Operands that failed to parse are
// skipped; their parse error is already reported.
func operand(ic *InferenceContext, te suite.TypeExpr) (typesystem.Type, bool) {
	if te.Node == nil {
		return nil, false
	}
	t, ok := ic.TypeMap[te.Node]
	return t, ok
}
