package parser

import (
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/pipeline"
	"github.com/kthxbye/lolc/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		err := diagnostics.NewError(diagnostics.ErrP001, token.LexedToken{}, "parser: token stream is nil")
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	program, errs := Parse(ctx.TokenStream)
	program.File = ctx.FilePath
	ctx.AstRoot = program

	for _, err := range errs {
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
	}

	return ctx
}
