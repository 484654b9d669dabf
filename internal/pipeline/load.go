package pipeline

import (
	"os"

	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/suite"
	"github.com/funvibe/typedemand/internal/token"
)

// LoadProcessor reads FilePath (unless SourceCode is already set) and parses
// it as a suite.
type LoadProcessor struct{}

func (lp *LoadProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Suite != nil {
		return ctx
	}

	if ctx.SourceCode == "" && ctx.FilePath != "" {
		data, err := os.ReadFile(ctx.FilePath)
		if err != nil {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrS001, token.At(ctx.FilePath, 0, 0), err.Error()))
			return ctx
		}
		ctx.SourceCode = string(data)
	}

	f, err := suite.Parse([]byte(ctx.SourceCode), ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrS001, token.At(ctx.FilePath, 0, 0), err.Error()))
		return ctx
	}
	ctx.Suite = f
	if f.StrictUnions != nil {
		ctx.StrictUnions = *f.StrictUnions
	}
	ctx.Logger.Debug("suite loaded",
		"file", ctx.FilePath,
		"demands", len(f.Demands),
		"session", ctx.SessionID.String())
	return ctx
}
