package parser

import (
	"github.com/kthxbye/lolc/internal/ast"
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/token"
)

// ParseProgram parses HAI <version> TERM statement* and requires the last
// statement to be KTHXBYE. Statements parsed before a failure are kept so
// later phases can still inspect the partial tree.
func (p *Parser) ParseProgram() *ast.Program {
	p.enter()
	defer p.leave()

	program := &ast.Program{}
	defer func() { program.Statements = p.stmts }()

	if p.consume(token.HAI) == nil {
		p.errorf(diagnostics.ErrP001, p.peek(), "Expected HAI token to start program")
		return program
	}

	version := p.consume(token.NUMBAR_VALUE)
	if version == nil {
		p.errorf(diagnostics.ErrP001, p.peek(), "Expected valid version numbar")
		return program
	}
	if version.Token.Token.Lexeme != "1.2" {
		// Release the version token so the post-parse filter does not
		// drop the error as sitting on a consumed token.
		p.reset(p.current - 1)
		p.errorf(diagnostics.ErrP001, version.Token, "Expected version 1.2")
		return program
	}

	if !p.checkEnding() {
		p.errorf(diagnostics.ErrP004, p.peek(), "Expected comma or newline to end statement")
		return program
	}

	for !p.atEnd() {
		stmt := p.parseStatement()
		if stmt == nil {
			p.errorf(diagnostics.ErrP002, p.peek(), "Expected valid statement")
			return program
		}
		p.stmts = append(p.stmts, stmt)
	}

	if len(p.stmts) == 0 {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected KTHXBYE statement to end program")
		return program
	}
	if _, ok := p.stmts[len(p.stmts)-1].(*ast.ProgramEnd); !ok {
		// KTHXBYE mid-program leaves trailing statements in the tree;
		// they are an error but do not block AST construction.
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected KTHXBYE statement to end program")
	}

	return program
}

func (p *Parser) parseStatement() ast.Statement {
	p.enter()
	defer p.leave()

	if decl := p.parseVariableDeclaration(); decl != nil {
		// A following R keyword means declaration-with-initializer: the
		// assignment parse on the next round pops and rewrites this node.
		if !p.checkEnding() && !p.check(token.R) {
			p.errorf(diagnostics.ErrP004, p.peek(), "Expected comma or newline to end statement")
			return nil
		}
		return decl
	}

	if assign := p.parseVariableAssignment(); assign != nil {
		if !p.checkEnding() {
			p.errorf(diagnostics.ErrP004, p.peek(), "Expected comma or newline to end statement")
			return nil
		}
		return assign
	}

	if cast := p.parseVariableCast(); cast != nil {
		if !p.checkEnding() {
			p.errorf(diagnostics.ErrP004, p.peek(), "Expected comma or newline to end statement")
			return nil
		}
		return cast
	}

	if bye := p.consume(token.KTHXBYE); bye != nil {
		if !p.checkEnding() && !p.atEnd() {
			p.errorf(diagnostics.ErrP004, p.peek(), "Expected comma or newline to end statement")
			return nil
		}
		return &ast.ProgramEnd{Token: bye.Token}
	}

	if visible := p.parseVisibleStatement(); visible != nil {
		// visible consumes its own terminator
		return visible
	}

	if gimmeh := p.parseGimmehStatement(); gimmeh != nil {
		if !p.checkEnding() {
			p.errorf(diagnostics.ErrP004, p.peek(), "Expected comma or newline to end statement")
			return nil
		}
		return gimmeh
	}

	if expr := p.parseExpression(); expr != nil {
		if !p.checkEnding() {
			p.errorf(diagnostics.ErrP004, p.peek(), "Expected comma or newline to end statement")
			return nil
		}
		return &ast.ExpressionStatement{Expr: expr}
	}

	return nil
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	p.enter()
	defer p.leave()
	start := p.current

	if p.consume(token.I) == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected I keyword to declare variable")
		return nil
	}
	if p.consume(token.HAS) == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected HAS keyword to declare variable")
		p.reset(start)
		return nil
	}
	if p.consume(token.A) == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected A keyword to declare variable")
		p.reset(start)
		return nil
	}

	ident := p.consume(token.IDENTIFIER)
	if ident == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected identifier for variable declaration")
		p.reset(start)
		return nil
	}

	if p.consume(token.ITZ) == nil {
		// No ITZ clause: the variable starts out as NOOB.
		return &ast.VariableDeclaration{Ident: *ident}
	}

	typ := p.consumeType()
	if typ == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected valid type for variable declaration")
		p.reset(start)
		return nil
	}

	return &ast.VariableDeclaration{Ident: *ident, Type: typ}
}

func (p *Parser) parseVariableAssignment() *ast.VariableAssignment {
	p.enter()
	defer p.leave()
	start := p.current

	ident := p.consume(token.IDENTIFIER)
	var decl *ast.VariableDeclaration

	if ident == nil {
		// An R with no LHS attaches to a preceding declaration, turning
		// it into declaration-with-initializer form.
		if !p.check(token.R) || len(p.stmts) == 0 {
			p.errorf(diagnostics.ErrP002, p.peek(), "Expected identifier or variable declaration for variable assignment")
			return nil
		}
		prev, ok := p.stmts[len(p.stmts)-1].(*ast.VariableDeclaration)
		if !ok {
			p.errorf(diagnostics.ErrP002, p.peek(), "Expected identifier or variable declaration for variable assignment")
			return nil
		}
		p.stmts = p.stmts[:len(p.stmts)-1]
		decl = prev
		ident = &ast.TokenNode{Token: prev.Ident.Token}
	}

	if p.consume(token.R) == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected R keyword to assign variable")
		p.reset(start)
		return nil
	}

	p.skipNewlines()
	expr := p.parseExpression()
	if expr == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for variable assignment")
		p.reset(start)
		return nil
	}

	return &ast.VariableAssignment{Ident: *ident, Decl: decl, Expr: expr}
}

func (p *Parser) parseVariableCast() *ast.VariableCast {
	p.enter()
	defer p.leave()
	start := p.current

	ident := p.consume(token.IDENTIFIER)
	if ident == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected identifier for variable cast")
		return nil
	}
	if p.consume(token.IS) == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected IS keyword for variable cast")
		p.reset(start)
		return nil
	}
	if p.consume(token.NOW) == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected NOW keyword for variable cast")
		p.reset(start)
		return nil
	}
	if p.consume(token.A) == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected A keyword for variable cast")
		p.reset(start)
		return nil
	}

	typ := p.consumeType()
	if typ == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected valid type for variable cast")
		p.reset(start)
		return nil
	}

	return &ast.VariableCast{Ident: *ident, Type: *typ}
}

func (p *Parser) parseVisibleStatement() *ast.VisibleStatement {
	p.enter()
	defer p.leave()
	start := p.current

	visTok := p.consume(token.VISIBLE)
	if visTok == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected VISIBLE keyword to output to console")
		return nil
	}

	stmt := &ast.VisibleStatement{Token: visTok.Token}
	for !p.atEnd() {
		expr := p.parseExpression()
		if expr == nil {
			p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for VISIBLE statement")
			p.reset(start)
			return nil
		}
		stmt.Exprs = append(stmt.Exprs, expr)

		if p.check(token.EXCLAMATION) {
			break
		}
		if p.checkEnding() {
			return stmt
		}
	}

	if excl := p.consume(token.EXCLAMATION); excl != nil {
		stmt.Exclamation = excl
		if !p.checkEnding() {
			p.errorf(diagnostics.ErrP004, p.peek(), "Expected comma or newline to end statement")
			p.reset(start)
			return nil
		}
	}

	return stmt
}

func (p *Parser) parseGimmehStatement() *ast.GimmehStatement {
	p.enter()
	defer p.leave()
	start := p.current

	gimTok := p.consume(token.GIMMEH)
	if gimTok == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected GIMMEH keyword to get input")
		return nil
	}

	ident := p.consume(token.IDENTIFIER)
	if ident == nil {
		p.errorf(diagnostics.ErrP002, p.peek(), "Expected identifier for GIMMEH statement")
		p.reset(start)
		return nil
	}

	return &ast.GimmehStatement{Token: gimTok.Token, Ident: *ident}
}
