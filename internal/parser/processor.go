package parser

import (
	"github.com/funvibe/typedemand/internal/pipeline"
)

// ParserProcessor parses every type expression of the loaded suite.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Suite == nil {
		return ctx
	}

	for _, te := range ctx.Suite.TypeExprs() {
		node, errs := ParseAt(te.Source, ctx.FilePath, te.Line, te.Column)
		te.Node = node
		ctx.Errors = append(ctx.Errors, errs...)
	}

	// Ensure all errors have file path set
	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	return ctx
}
