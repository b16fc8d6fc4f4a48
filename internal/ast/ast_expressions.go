package ast

import "github.com/kthxbye/lolc/internal/token"

// ArithmeticExpression covers the prefix-form binary arithmetic operators:
// SUM, DIFF, PRODUKT, QUOSHUNT, MOD, BIGGR, SMALLR. Op is the operator
// keyword token.
type ArithmeticExpression struct {
	Op    TokenNode
	Left  Expression
	Right Expression
}

func (ae *ArithmeticExpression) expressionNode()            {}
func (ae *ArithmeticExpression) GetToken() token.LexedToken { return ae.Op.Token }

// LogicalExpression covers BOTH OF, EITHER OF and WON OF. Op is the
// leading keyword (BOTH, EITHER or WON).
type LogicalExpression struct {
	Op    TokenNode
	Left  Expression
	Right Expression
}

func (le *LogicalExpression) expressionNode()            {}
func (le *LogicalExpression) GetToken() token.LexedToken { return le.Op.Token }

// NotExpression is the unary NOT.
type NotExpression struct {
	Op   TokenNode
	Expr Expression
}

func (ne *NotExpression) expressionNode()            {}
func (ne *NotExpression) GetToken() token.LexedToken { return ne.Op.Token }

// VariadicBoolExpression covers ALL OF and ANY OF, terminated by MKAY.
type VariadicBoolExpression struct {
	Op    TokenNode // ALL or ANY
	Exprs []Expression
}

func (vb *VariadicBoolExpression) expressionNode()            {}
func (vb *VariadicBoolExpression) GetToken() token.LexedToken { return vb.Op.Token }

// ComparisonExpression covers BOTH SAEM and DIFFRINT OF.
type ComparisonExpression struct {
	Op    TokenNode // SAEM or DIFFRINT
	Left  Expression
	Right Expression
}

func (ce *ComparisonExpression) expressionNode()            {}
func (ce *ComparisonExpression) GetToken() token.LexedToken { return ce.Op.Token }

// SmooshExpression concatenates YARN operands, terminated by MKAY.
type SmooshExpression struct {
	Op    TokenNode
	Exprs []Expression
}

func (se *SmooshExpression) expressionNode()            {}
func (se *SmooshExpression) GetToken() token.LexedToken { return se.Op.Token }

// MaekExpression is the expression-form cast: MAEK <expr> A <type>.
type MaekExpression struct {
	Op   TokenNode
	Expr Expression
	Type TokenNode
}

func (me *MaekExpression) expressionNode()            {}
func (me *MaekExpression) GetToken() token.LexedToken { return me.Op.Token }
