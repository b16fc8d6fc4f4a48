package parser_test

import (
	"testing"

	"github.com/kthxbye/lolc/internal/ast"
	"github.com/kthxbye/lolc/internal/lexer"
	"github.com/kthxbye/lolc/internal/parser"
)

func parseOK(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, errs := parser.Parse(lexer.New(input).Tokens())
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Message)
		}
		t.Fatalf("unexpected parse errors: %v", msgs)
	}
	return program
}

func TestMinimalProgram(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nKTHXBYE\n")

	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	if _, ok := program.Statements[0].(*ast.ProgramEnd); !ok {
		t.Fatalf("expected ProgramEnd, got %T", program.Statements[0])
	}
}

func TestCommaTerminators(t *testing.T) {
	program := parseOK(t, "HAI 1.2,VISIBLE 1,KTHXBYE")

	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
}

func TestVariableDeclaration(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nI HAS A x ITZ NUMBER\nKTHXBYE")

	decl, ok := program.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", program.Statements[0])
	}
	if decl.Ident.Token.Token.Lexeme != "x" {
		t.Errorf("identifier: got %q", decl.Ident.Token.Token.Lexeme)
	}
	if decl.Type == nil || decl.Type.Token.Token.Lexeme != "NUMBER" {
		t.Errorf("type: got %+v", decl.Type)
	}
}

func TestVariableDeclarationWithoutType(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nI HAS A x\nKTHXBYE")

	decl, ok := program.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", program.Statements[0])
	}
	if decl.Type != nil {
		t.Errorf("expected nil type for NOOB declaration, got %+v", decl.Type)
	}
}

func TestAssignment(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nI HAS A x ITZ NUMBER\nx R SUM OF 1 AN 2\nKTHXBYE")

	assign, ok := program.Statements[1].(*ast.VariableAssignment)
	if !ok {
		t.Fatalf("expected VariableAssignment, got %T", program.Statements[1])
	}
	sum, ok := assign.Expr.(*ast.ArithmeticExpression)
	if !ok {
		t.Fatalf("expected ArithmeticExpression, got %T", assign.Expr)
	}
	if sum.Op.Token.Token.Lexeme != "SUM" {
		t.Errorf("op: got %q", sum.Op.Token.Token.Lexeme)
	}
}

func TestDeclarationWithInitializerRewrite(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nI HAS A x ITZ NUMBER R 5\nKTHXBYE")

	// The trailing declaration is rewritten into the assignment's LHS.
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	assign, ok := program.Statements[0].(*ast.VariableAssignment)
	if !ok {
		t.Fatalf("expected VariableAssignment, got %T", program.Statements[0])
	}
	if assign.Decl == nil {
		t.Fatal("expected rewritten declaration on assignment")
	}
	if assign.Decl.Ident.Token.Token.Lexeme != "x" {
		t.Errorf("identifier: got %q", assign.Decl.Ident.Token.Token.Lexeme)
	}
}

func TestInitializerOnNextLine(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nI HAS A x ITZ YARN\nR \"hello\"\nKTHXBYE")

	assign, ok := program.Statements[0].(*ast.VariableAssignment)
	if !ok {
		t.Fatalf("expected VariableAssignment, got %T", program.Statements[0])
	}
	if assign.Decl == nil {
		t.Fatal("expected rewritten declaration on assignment")
	}
}

func TestVariableCast(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nI HAS A x ITZ NUMBER\nx IS NOW A NUMBAR\nKTHXBYE")

	cast, ok := program.Statements[1].(*ast.VariableCast)
	if !ok {
		t.Fatalf("expected VariableCast, got %T", program.Statements[1])
	}
	if cast.Type.Token.Token.Lexeme != "NUMBAR" {
		t.Errorf("type: got %q", cast.Type.Token.Token.Lexeme)
	}
}

func TestVisible(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nVISIBLE \"a\" \"b\"\nKTHXBYE")

	vis, ok := program.Statements[0].(*ast.VisibleStatement)
	if !ok {
		t.Fatalf("expected VisibleStatement, got %T", program.Statements[0])
	}
	if len(vis.Exprs) != 2 {
		t.Errorf("expected 2 expressions, got %d", len(vis.Exprs))
	}
	if vis.Exclamation != nil {
		t.Error("unexpected exclamation")
	}
}

func TestVisibleExclamation(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nVISIBLE \"hi\"!\nKTHXBYE")

	vis := program.Statements[0].(*ast.VisibleStatement)
	if vis.Exclamation == nil {
		t.Error("expected exclamation marker")
	}
}

func TestGimmeh(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nI HAS A line ITZ YARN\nGIMMEH line\nKTHXBYE")

	gim, ok := program.Statements[1].(*ast.GimmehStatement)
	if !ok {
		t.Fatalf("expected GimmehStatement, got %T", program.Statements[1])
	}
	if gim.Ident.Token.Token.Lexeme != "line" {
		t.Errorf("identifier: got %q", gim.Ident.Token.Token.Lexeme)
	}
}

func TestExpressionForms(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		check func(t *testing.T, e ast.Expression)
	}{
		{"nested_arithmetic", "SUM OF PRODUKT OF 2 AN 3 AN 4", func(t *testing.T, e ast.Expression) {
			sum := e.(*ast.ArithmeticExpression)
			if _, ok := sum.Left.(*ast.ArithmeticExpression); !ok {
				t.Errorf("left: got %T", sum.Left)
			}
		}},
		{"both_of", "BOTH OF WIN AN FAIL", func(t *testing.T, e ast.Expression) {
			if _, ok := e.(*ast.LogicalExpression); !ok {
				t.Errorf("got %T", e)
			}
		}},
		{"both_saem_lookahead", "BOTH SAEM 1 AN 2", func(t *testing.T, e ast.Expression) {
			cmp, ok := e.(*ast.ComparisonExpression)
			if !ok {
				t.Fatalf("got %T", e)
			}
			if cmp.Op.Token.Token.Lexeme != "SAEM" {
				t.Errorf("op: got %q", cmp.Op.Token.Token.Lexeme)
			}
		}},
		{"diffrint", "DIFFRINT OF 1 AN 2", func(t *testing.T, e ast.Expression) {
			if _, ok := e.(*ast.ComparisonExpression); !ok {
				t.Errorf("got %T", e)
			}
		}},
		{"not", "NOT WIN", func(t *testing.T, e ast.Expression) {
			if _, ok := e.(*ast.NotExpression); !ok {
				t.Errorf("got %T", e)
			}
		}},
		{"all_of", "ALL OF WIN AN FAIL AN WIN MKAY", func(t *testing.T, e ast.Expression) {
			all := e.(*ast.VariadicBoolExpression)
			if len(all.Exprs) != 3 {
				t.Errorf("expected 3 operands, got %d", len(all.Exprs))
			}
		}},
		{"any_of", "ANY OF FAIL AN WIN MKAY", func(t *testing.T, e ast.Expression) {
			any := e.(*ast.VariadicBoolExpression)
			if len(any.Exprs) != 2 {
				t.Errorf("expected 2 operands, got %d", len(any.Exprs))
			}
		}},
		{"smoosh", `SMOOSH "a" AN "b" MKAY`, func(t *testing.T, e ast.Expression) {
			sm := e.(*ast.SmooshExpression)
			if len(sm.Exprs) != 2 {
				t.Errorf("expected 2 operands, got %d", len(sm.Exprs))
			}
		}},
		{"maek", "MAEK 1 A NUMBAR", func(t *testing.T, e ast.Expression) {
			mk := e.(*ast.MaekExpression)
			if mk.Type.Token.Token.Lexeme != "NUMBAR" {
				t.Errorf("type: got %q", mk.Type.Token.Token.Lexeme)
			}
		}},
		{"it_reference", "SUM OF IT AN 1", func(t *testing.T, e ast.Expression) {
			sum := e.(*ast.ArithmeticExpression)
			if _, ok := sum.Left.(*ast.ItReference); !ok {
				t.Errorf("left: got %T", sum.Left)
			}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			program := parseOK(t, "HAI 1.2\n"+tc.input+"\nKTHXBYE")
			es, ok := program.Statements[0].(*ast.ExpressionStatement)
			if !ok {
				t.Fatalf("expected ExpressionStatement, got %T", program.Statements[0])
			}
			tc.check(t, es.Expr)
		})
	}
}

func TestNewlinesInsideExpression(t *testing.T) {
	program := parseOK(t, "HAI 1.2\nVISIBLE SUM OF\n1 AN\n2\nKTHXBYE")

	vis := program.Statements[0].(*ast.VisibleStatement)
	if len(vis.Exprs) != 1 {
		t.Fatalf("expected 1 expression, got %d", len(vis.Exprs))
	}
	if _, ok := vis.Exprs[0].(*ast.ArithmeticExpression); !ok {
		t.Errorf("got %T", vis.Exprs[0])
	}
}

func TestCommentsAreInvisible(t *testing.T) {
	program := parseOK(t, "HAI 1.2 BTW greeting\nOBTW\nlong explanation\nTLDR VISIBLE 1\nKTHXBYE")

	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
}
