// Package ast defines the tree the parser produces. Every node keeps the
// lexed token(s) it originated from, so later phases can report spans into
// the source buffer.
package ast

import (
	"strconv"

	"github.com/kthxbye/lolc/internal/token"
)

// TokenNode wraps a single lexed token inside the tree.
type TokenNode struct {
	Token token.LexedToken
}

// Statement is a node that represents one statement of a program.
type Statement interface {
	statementNode()
	GetToken() token.LexedToken
}

// Expression is a node that represents a value-producing form.
type Expression interface {
	expressionNode()
	GetToken() token.LexedToken
}

// Program is the root node of every AST the parser produces.
type Program struct {
	File       string
	Statements []Statement
}

// ExpressionStatement is a bare expression used as a statement. Its value
// is stored into the implicit IT variable.
type ExpressionStatement struct {
	Expr Expression
}

func (es *ExpressionStatement) statementNode()             {}
func (es *ExpressionStatement) GetToken() token.LexedToken { return es.Expr.GetToken() }

// VariableDeclaration is I HAS A <ident> [ITZ <type>]. Type is nil when the
// ITZ clause is omitted; the variable starts out as NOOB.
type VariableDeclaration struct {
	Ident TokenNode
	Type  *TokenNode
}

func (vd *VariableDeclaration) statementNode()             {}
func (vd *VariableDeclaration) GetToken() token.LexedToken { return vd.Ident.Token }

// VariableAssignment is <ident> R <expr>. When the parser rewrites a
// trailing declaration into declaration-with-initializer form, Decl holds
// the rewritten declaration and Ident mirrors its identifier.
type VariableAssignment struct {
	Ident TokenNode
	Decl  *VariableDeclaration
	Expr  Expression
}

func (va *VariableAssignment) statementNode()             {}
func (va *VariableAssignment) GetToken() token.LexedToken { return va.Ident.Token }

// VariableCast is <ident> IS NOW A <type>, the in-place cast form.
type VariableCast struct {
	Ident TokenNode
	Type  TokenNode
}

func (vc *VariableCast) statementNode()             {}
func (vc *VariableCast) GetToken() token.LexedToken { return vc.Ident.Token }

// VisibleStatement prints its expressions. A trailing '!' suppresses the
// implicit newline.
type VisibleStatement struct {
	Token       token.LexedToken // the VISIBLE keyword
	Exprs       []Expression
	Exclamation *TokenNode
}

func (vs *VisibleStatement) statementNode()             {}
func (vs *VisibleStatement) GetToken() token.LexedToken { return vs.Token }

// GimmehStatement reads a line of input into a variable.
type GimmehStatement struct {
	Token token.LexedToken // the GIMMEH keyword
	Ident TokenNode
}

func (gs *GimmehStatement) statementNode()             {}
func (gs *GimmehStatement) GetToken() token.LexedToken { return gs.Token }

// ProgramEnd is the KTHXBYE marker.
type ProgramEnd struct {
	Token token.LexedToken
}

func (pe *ProgramEnd) statementNode()             {}
func (pe *ProgramEnd) GetToken() token.LexedToken { return pe.Token }

// NumberLiteral is an integer literal.
type NumberLiteral struct {
	Token token.LexedToken
}

func (nl *NumberLiteral) expressionNode()            {}
func (nl *NumberLiteral) GetToken() token.LexedToken { return nl.Token }

// Value parses the literal. The lexer only emits digit runs, so the parse
// cannot fail on well-formed streams.
func (nl *NumberLiteral) Value() int32 {
	v, _ := strconv.ParseInt(nl.Token.Token.Lexeme, 10, 32)
	return int32(v)
}

// NumbarLiteral is a float literal.
type NumbarLiteral struct {
	Token token.LexedToken
}

func (nl *NumbarLiteral) expressionNode()            {}
func (nl *NumbarLiteral) GetToken() token.LexedToken { return nl.Token }

func (nl *NumbarLiteral) Value() float32 {
	v, _ := strconv.ParseFloat(nl.Token.Token.Lexeme, 32)
	return float32(v)
}

// YarnLiteral is a string literal. The token's Literal field holds the
// escape-resolved bytes.
type YarnLiteral struct {
	Token token.LexedToken
}

func (yl *YarnLiteral) expressionNode()            {}
func (yl *YarnLiteral) GetToken() token.LexedToken { return yl.Token }

func (yl *YarnLiteral) Value() string { return yl.Token.Token.Literal }

// TroofLiteral is WIN or FAIL.
type TroofLiteral struct {
	Token token.LexedToken
}

func (tl *TroofLiteral) expressionNode()            {}
func (tl *TroofLiteral) GetToken() token.LexedToken { return tl.Token }

func (tl *TroofLiteral) Value() bool { return tl.Token.Token.Type == token.WIN }

// VariableReference names a declared variable.
type VariableReference struct {
	Ident TokenNode
}

func (vr *VariableReference) expressionNode()            {}
func (vr *VariableReference) GetToken() token.LexedToken { return vr.Ident.Token }

// ItReference is the implicit IT variable.
type ItReference struct {
	Token token.LexedToken
}

func (ir *ItReference) expressionNode()            {}
func (ir *ItReference) GetToken() token.LexedToken { return ir.Token }
