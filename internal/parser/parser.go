// Package parser implements the error-tolerant recursive-descent parser.
// Productions attempt to match and reset the token cursor on failure; every
// failure is recorded with the production depth at which it happened, and a
// post-parse filter reduces the raw record to the diagnostics worth showing.
package parser

import (
	"fmt"

	"github.com/kthxbye/lolc/internal/ast"
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/token"
)

type Parser struct {
	tokens   []token.LexedToken
	current  int
	consumed []bool
	level    int
	raw      []*diagnostics.Error
	stmts    []ast.Statement
}

func New(tokens []token.LexedToken) *Parser {
	return &Parser{
		tokens:   tokens,
		consumed: make([]bool, len(tokens)),
	}
}

// Parse runs the parser over a token sequence and returns the program
// together with the filtered error list. The parser always returns a
// program; on failure it holds the statements parsed so far.
func Parse(tokens []token.LexedToken) (*ast.Program, []*diagnostics.Error) {
	p := New(tokens)
	program := p.ParseProgram()
	return program, p.Errors()
}

func (p *Parser) enter() { p.level++ }
func (p *Parser) leave() { p.level-- }

func (p *Parser) peek() token.LexedToken {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *Parser) peekAt(n int) token.LexedToken {
	idx := p.current + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() token.LexedToken {
	return p.tokens[p.current-1]
}

func (p *Parser) check(t token.TokenType) bool {
	return p.peek().Token.Type == t
}

func (p *Parser) atEnd() bool {
	return p.check(token.EOF)
}

func (p *Parser) advance() {
	if !p.atEnd() {
		p.consumed[p.current] = true
		p.current++
	}
}

// consume advances over a token of the expected type, or returns nil
// without moving the cursor.
func (p *Parser) consume(t token.TokenType) *ast.TokenNode {
	if !p.check(t) {
		return nil
	}
	p.advance()
	return &ast.TokenNode{Token: p.previous()}
}

// consumeType accepts any of the five type keywords.
func (p *Parser) consumeType() *ast.TokenNode {
	if !token.IsTypeKeyword(p.peek().Token.Type) {
		return nil
	}
	p.advance()
	return &ast.TokenNode{Token: p.previous()}
}

// reset is the backtracking primitive: it restores the cursor and clears
// the consumed flags of everything the failed production touched.
func (p *Parser) reset(start int) {
	for i := start; i < p.current; i++ {
		p.consumed[i] = false
	}
	p.current = start
}

func (p *Parser) consumeNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

// skipNewlines discards newline tokens at operand positions inside a
// committed expression.
func (p *Parser) skipNewlines() {
	p.consumeNewlines()
}

// checkEnding consumes a statement terminator: a run of newlines or a
// single comma.
func (p *Parser) checkEnding() bool {
	if p.check(token.NEWLINE) {
		p.consumeNewlines()
		return true
	}
	if p.check(token.COMMA) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.LexedToken, format string, args ...interface{}) {
	err := diagnostics.NewError(code, tok, fmt.Sprintf(format, args...))
	err.Level = p.level
	p.raw = append(p.raw, err)
}

// Errors filters the raw error record down to the user-facing list:
//
//  1. errors whose token was eventually consumed were speculative — drop;
//  2. two or more errors at the same depth mean sibling alternatives all
//     failed at that depth — the context is covered by an error elsewhere,
//     drop the whole group (outermost level excepted);
//  3. a surviving deeper error at a later token supersedes shallow
//     catch-alls recorded at the backtrack position;
//  4. identical (message, token) pairs collapse to one.
func (p *Parser) Errors() []*diagnostics.Error {
	var kept []*diagnostics.Error
	for _, e := range p.raw {
		if e.Token.Index < len(p.consumed) && p.consumed[e.Token.Index] {
			continue
		}
		kept = append(kept, e)
	}

	perLevel := make(map[int]int)
	for _, e := range kept {
		perLevel[e.Level]++
	}
	var unique []*diagnostics.Error
	for _, e := range kept {
		if perLevel[e.Level] > 1 && e.Level > 1 {
			continue
		}
		unique = append(unique, e)
	}

	var filtered []*diagnostics.Error
	for _, e := range unique {
		superseded := false
		for _, other := range unique {
			if other.Level > e.Level && other.Token.Index > e.Token.Index {
				superseded = true
				break
			}
		}
		if !superseded {
			filtered = append(filtered, e)
		}
	}

	seen := make(map[string]bool)
	var out []*diagnostics.Error
	for _, e := range filtered {
		key := fmt.Sprintf("%d:%s", e.Token.Index, e.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
