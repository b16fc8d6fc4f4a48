package parser

import (
	"github.com/kthxbye/lolc/internal/ast"
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/token"
)

func (p *Parser) parseExpression() ast.Expression {
	p.enter()
	defer p.leave()

	var expr ast.Expression
	switch p.peek().Token.Type {
	case token.NUMBER_VALUE:
		tok := p.consume(token.NUMBER_VALUE)
		return &ast.NumberLiteral{Token: tok.Token}
	case token.NUMBAR_VALUE:
		tok := p.consume(token.NUMBAR_VALUE)
		return &ast.NumbarLiteral{Token: tok.Token}
	case token.YARN_VALUE:
		tok := p.consume(token.YARN_VALUE)
		return &ast.YarnLiteral{Token: tok.Token}
	case token.WIN, token.FAIL:
		p.advance()
		return &ast.TroofLiteral{Token: p.previous()}
	case token.IDENTIFIER:
		tok := p.consume(token.IDENTIFIER)
		return &ast.VariableReference{Ident: *tok}
	case token.IT:
		tok := p.consume(token.IT)
		return &ast.ItReference{Token: tok.Token}

	case token.SUM, token.DIFF, token.PRODUKT, token.QUOSHUNT,
		token.MOD, token.BIGGR, token.SMALLR:
		expr = p.parseArithmeticExpression()

	case token.BOTH:
		if p.peekAt(1).Token.Type == token.SAEM {
			expr = p.parseBothSaemExpression()
		} else {
			expr = p.parseLogicalExpression()
		}
	case token.EITHER, token.WON:
		expr = p.parseLogicalExpression()
	case token.NOT:
		expr = p.parseNotExpression()
	case token.ALL, token.ANY:
		expr = p.parseVariadicBoolExpression()
	case token.DIFFRINT:
		expr = p.parseDiffrintExpression()
	case token.SMOOSH:
		expr = p.parseSmooshExpression()
	case token.MAEK:
		expr = p.parseMaekExpression()
	}

	if expr != nil {
		return expr
	}

	p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression")
	return nil
}

// parseOfAnPair parses "OF e AN e" after a binary operator keyword has been
// consumed. name is the operator's lexeme, used in error messages.
func (p *Parser) parseOfAnPair(name string, start int) (ast.Expression, ast.Expression, bool) {
	if p.consume(token.OF) == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected OF keyword for %s", name)
		p.reset(start)
		return nil, nil, false
	}

	p.skipNewlines()
	left := p.parseExpression()
	if left == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for %s", name)
		p.reset(start)
		return nil, nil, false
	}

	if p.consume(token.AN) == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected AN keyword for %s", name)
		p.reset(start)
		return nil, nil, false
	}

	p.skipNewlines()
	right := p.parseExpression()
	if right == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for %s", name)
		p.reset(start)
		return nil, nil, false
	}

	return left, right, true
}

func (p *Parser) parseArithmeticExpression() ast.Expression {
	p.enter()
	defer p.leave()
	start := p.current

	p.advance()
	op := ast.TokenNode{Token: p.previous()}

	left, right, ok := p.parseOfAnPair(op.Token.Token.Lexeme, start)
	if !ok {
		return nil
	}
	return &ast.ArithmeticExpression{Op: op, Left: left, Right: right}
}

func (p *Parser) parseLogicalExpression() ast.Expression {
	p.enter()
	defer p.leave()
	start := p.current

	p.advance()
	op := ast.TokenNode{Token: p.previous()}

	left, right, ok := p.parseOfAnPair(op.Token.Token.Lexeme, start)
	if !ok {
		return nil
	}
	return &ast.LogicalExpression{Op: op, Left: left, Right: right}
}

func (p *Parser) parseNotExpression() ast.Expression {
	p.enter()
	defer p.leave()
	start := p.current

	p.advance()
	op := ast.TokenNode{Token: p.previous()}

	p.skipNewlines()
	expr := p.parseExpression()
	if expr == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for NOT")
		p.reset(start)
		return nil
	}
	return &ast.NotExpression{Op: op, Expr: expr}
}

func (p *Parser) parseVariadicBoolExpression() ast.Expression {
	p.enter()
	defer p.leave()
	start := p.current

	p.advance()
	op := ast.TokenNode{Token: p.previous()}
	name := op.Token.Token.Lexeme

	if p.consume(token.OF) == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected OF keyword for %s", name)
		p.reset(start)
		return nil
	}

	var exprs []ast.Expression
	for {
		p.skipNewlines()
		expr := p.parseExpression()
		if expr == nil {
			p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for %s", name)
			p.reset(start)
			return nil
		}
		exprs = append(exprs, expr)

		if p.consume(token.MKAY) != nil {
			break
		}
		if p.consume(token.AN) == nil {
			p.errorf(diagnostics.ErrP003, p.peek(), "Expected AN or MKAY keyword for %s", name)
			p.reset(start)
			return nil
		}
	}

	return &ast.VariadicBoolExpression{Op: op, Exprs: exprs}
}

func (p *Parser) parseBothSaemExpression() ast.Expression {
	p.enter()
	defer p.leave()
	start := p.current

	p.advance() // BOTH
	p.advance() // SAEM
	op := ast.TokenNode{Token: p.previous()}

	p.skipNewlines()
	left := p.parseExpression()
	if left == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for BOTH SAEM")
		p.reset(start)
		return nil
	}

	if p.consume(token.AN) == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected AN keyword for BOTH SAEM")
		p.reset(start)
		return nil
	}

	p.skipNewlines()
	right := p.parseExpression()
	if right == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for BOTH SAEM")
		p.reset(start)
		return nil
	}

	return &ast.ComparisonExpression{Op: op, Left: left, Right: right}
}

func (p *Parser) parseDiffrintExpression() ast.Expression {
	p.enter()
	defer p.leave()
	start := p.current

	p.advance()
	op := ast.TokenNode{Token: p.previous()}

	left, right, ok := p.parseOfAnPair(op.Token.Token.Lexeme, start)
	if !ok {
		return nil
	}
	return &ast.ComparisonExpression{Op: op, Left: left, Right: right}
}

func (p *Parser) parseSmooshExpression() ast.Expression {
	p.enter()
	defer p.leave()
	start := p.current

	p.advance()
	op := ast.TokenNode{Token: p.previous()}

	var exprs []ast.Expression
	for {
		p.skipNewlines()
		expr := p.parseExpression()
		if expr == nil {
			p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for SMOOSH")
			p.reset(start)
			return nil
		}
		exprs = append(exprs, expr)

		if p.consume(token.MKAY) != nil {
			break
		}
		if p.consume(token.AN) == nil {
			p.errorf(diagnostics.ErrP003, p.peek(), "Expected AN or MKAY keyword for SMOOSH")
			p.reset(start)
			return nil
		}
	}

	return &ast.SmooshExpression{Op: op, Exprs: exprs}
}

func (p *Parser) parseMaekExpression() ast.Expression {
	p.enter()
	defer p.leave()
	start := p.current

	p.advance()
	op := ast.TokenNode{Token: p.previous()}

	p.skipNewlines()
	expr := p.parseExpression()
	if expr == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid expression for MAEK")
		p.reset(start)
		return nil
	}

	if p.consume(token.A) == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected A keyword for MAEK")
		p.reset(start)
		return nil
	}

	typ := p.consumeType()
	if typ == nil {
		p.errorf(diagnostics.ErrP003, p.peek(), "Expected valid type for MAEK")
		p.reset(start)
		return nil
	}

	return &ast.MaekExpression{Op: op, Expr: expr, Type: *typ}
}
