package codegen

import (
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/pipeline"
	"github.com/kthxbye/lolc/internal/token"
)

// CodegenProcessor lowers the AST produced by the parser. Unlike the
// recovering front-end stages it refuses to run over a broken input: any
// earlier diagnostic leaves the context untouched.
type CodegenProcessor struct {
	Options Options
}

func (cp *CodegenProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Errors) > 0 {
		return ctx
	}
	if ctx.AstRoot == nil {
		err := diagnostics.NewError(diagnostics.ErrC001, token.LexedToken{}, "codegen: AST root is nil")
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	opts := cp.Options
	if opts.StackSize == 0 && opts.HeapSize == 0 {
		opts = DefaultOptions()
	}

	module, errs := Lower(ctx.AstRoot, opts)
	if len(errs) > 0 {
		for _, err := range errs {
			err.File = ctx.FilePath
			ctx.Errors = append(ctx.Errors, err)
		}
		return ctx
	}

	if err := module.Validate(); err != nil {
		diag := diagnostics.NewError(diagnostics.ErrC001, token.LexedToken{}, "codegen: "+err.Error())
		diag.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, diag)
		return ctx
	}

	ctx.IR = module
	return ctx
}
