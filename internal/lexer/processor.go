package lexer

import (
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/pipeline"
	"github.com/kthxbye/lolc/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	ctx.TokenStream = l.Tokens()

	for _, t := range ctx.TokenStream {
		if t.Token.Type == token.ILLEGAL {
			err := diagnostics.NewError(diagnostics.ErrL001, t, t.Token.Cause.String())
			err.File = ctx.FilePath
			ctx.Errors = append(ctx.Errors, err)
		}
	}

	return ctx
}
