package pipeline

import (
	"github.com/kthxbye/lolc/internal/ast"
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/ir"
	"github.com/kthxbye/lolc/internal/token"
)

// Processor is a single pipeline stage. Each stage reads what earlier
// stages left in the context and writes its own product back.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the artifacts of a compilation through the
// pipeline. Each field is owned by exactly one stage after it is set:
// TokenStream by the parser after lex, AstRoot by the code generator
// after parse, IR by the serializer after lowering.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	TokenStream []token.LexedToken
	AstRoot     *ast.Program
	IR          *ir.Module

	Errors []*diagnostics.Error
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{SourceCode: sourceCode}
}
