package pipeline

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/demand"
	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/suite"
	"github.com/funvibe/typedemand/internal/symbols"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one suite through the stages. Each suite gets its
// own context and therefore its own checking session.
type PipelineContext struct {
	FilePath   string
	SourceCode string

	// SessionID tags diagnostics and recorded mismatches of this run.
	SessionID uuid.UUID

	// StrictUnions comes from the settings; a suite may override it.
	StrictUnions bool

	Suite       *suite.File
	SymbolTable *symbols.SymbolTable

	// Session is the inference state demands are checked against.
	Session demand.Session
	// Exprs maps declared expression names to their handles.
	Exprs map[string]*ast.Identifier

	// Sink receives failed demands. Defaults to a Reporter writing into Bag.
	Sink    demand.Sink
	Checker *demand.Checker
	Bag     *diagnostics.Bag

	// Errors collects stage errors (load, parse, declaration).
	Errors []*diagnostics.DiagnosticError

	Logger *slog.Logger
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{
		SourceCode: sourceCode,
		SessionID:  uuid.New(),
		Exprs:      make(map[string]*ast.Identifier),
		Bag:        diagnostics.NewBag(),
		Logger:     slog.New(slog.DiscardHandler),
	}
}

// Diagnostics returns stage errors and reported mismatches ordered by position.
func (ctx *PipelineContext) Diagnostics() []*diagnostics.DiagnosticError {
	diags := append([]*diagnostics.DiagnosticError{}, ctx.Errors...)
	diags = append(diags, ctx.Bag.Diagnostics()...)

	all := diagnostics.NewBag()
	for _, d := range diags {
		// The session's bag shares these values; fill in the file on a copy
		if d.File == "" {
			c := *d
			c.File = ctx.FilePath
			d = &c
		}
		all.Add(d)
	}
	return all.Sorted()
}
