// Package codegen lowers a parsed program into stack-machine IR. The
// generator walks the AST once, tracking a static type per value and
// binding every live value to a hook slot (a reserved cell at the bottom
// of the stack). Expression visits leave their result on the stack top and
// peek-copied into the returned hook.
package codegen

import (
	"fmt"

	"github.com/kthxbye/lolc/internal/ast"
	"github.com/kthxbye/lolc/internal/config"
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/ir"
	"github.com/kthxbye/lolc/internal/token"
)

// Options parameterize one lowering run. Frame selects the base-pointer
// convention used when emitting function frames; mixing variants silently
// corrupts frames, so the choice is fixed per module.
type Options struct {
	StackSize int32
	HeapSize  int32
	Frame     ir.FrameVariant
}

func DefaultOptions() Options {
	return Options{
		StackSize: config.DefaultStackSize,
		HeapSize:  config.DefaultHeapSize,
		Frame:     ir.BaseIsStackPointer,
	}
}

type Generator struct {
	opts    Options
	scope   *Scope
	entry   []ir.Statement
	maxHook int32
	used    map[int32]bool
	errors  []*diagnostics.Error
}

// Lower translates a program into an IR module. It runs after parsing
// succeeds and is non-recovering: on the first structural error the pass
// finishes collecting diagnostics but returns no module.
func Lower(program *ast.Program, opts Options) (*ir.Module, []*diagnostics.Error) {
	g := &Generator{
		opts:  opts,
		scope: newScope("main"),
		used:  make(map[int32]bool),
	}

	// IT occupies the first hook slot. The slot is reserved as a zeroed
	// cell by the entry prologue, so no initialization is emitted.
	it := &Variable{Hook: g.getHook(), Type: noobType}
	g.scope.add("IT", it)

	for _, stmt := range program.Statements {
		g.visitStatement(stmt)
	}

	if len(g.errors) > 0 {
		return nil, g.errors
	}

	entry := ir.NewEntry(opts.StackSize, opts.HeapSize, g.entry)
	module := ir.NewModule(nil, entry, g.maxHook)
	module.Frame = opts.Frame
	return module, nil
}

func (g *Generator) add(stmts ...ir.Statement) {
	g.entry = append(g.entry, stmts...)
}

func (g *Generator) errorf(code diagnostics.ErrorCode, tok token.LexedToken, format string, args ...interface{}) {
	g.errors = append(g.errors, diagnostics.NewError(code, tok, fmt.Sprintf(format, args...)))
}

// getHook returns a free hook slot, reusing released slots before growing
// the reservation.
func (g *Generator) getHook() int32 {
	for h := int32(0); h < g.maxHook; h++ {
		if !g.used[h] {
			g.used[h] = true
			return h
		}
	}
	h := g.maxHook
	g.maxHook++
	g.used[h] = true
	return h
}

func (g *Generator) freeHook(h int32) {
	if h >= 0 {
		delete(g.used, h)
	}
}

// hookTop allocates a hook and copies the stack top into it without
// popping.
func (g *Generator) hookTop() int32 {
	h := g.getHook()
	g.add(ir.Hook{Slot: h})
	return h
}

// drop removes the stack top. Popping the value as a loop condition and
// immediately pushing a false one discards it whether or not it was
// truthy.
func (g *Generator) drop() {
	g.add(ir.BeginWhile{}, ir.Push{Value: 0}, ir.EndWhile{})
}

func (g *Generator) visitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		g.visitExpressionStatement(s)
	case *ast.VariableDeclaration:
		g.visitVariableDeclaration(s)
	case *ast.VariableAssignment:
		g.visitVariableAssignment(s)
	case *ast.VariableCast:
		g.visitVariableCast(s)
	case *ast.VisibleStatement:
		g.visitVisibleStatement(s)
	case *ast.GimmehStatement:
		g.visitGimmehStatement(s)
	case *ast.ProgramEnd:
		g.add(ir.Halt{})
	}
}

// visitExpressionStatement stores the expression value into IT, releasing
// whatever IT held before.
func (g *Generator) visitExpressionStatement(s *ast.ExpressionStatement) {
	it := g.scope.get("IT")
	g.add(it.free()...)

	v, _ := g.visitExpression(s.Expr)
	if v.Hook < 0 {
		return
	}

	it.Type = v.Type
	g.add(ir.RefHook{Slot: it.Hook}, ir.Mov{})
	g.freeHook(v.Hook)
}

func (g *Generator) visitVariableDeclaration(s *ast.VariableDeclaration) {
	name := s.Ident.Token.Token.Lexeme
	if g.scope.get(name) != nil {
		g.errorf(diagnostics.ErrC001, s.Ident.Token, "Variable %s already declared", name)
		return
	}

	typ := noobType
	if s.Type != nil {
		typ = typeForKeyword(s.Type.Token.Token.Type)
	}

	var hook int32
	switch typ.Kind {
	case KindYarn:
		g.add(ir.Push{Value: 1}, ir.Allocate{})
		hook = g.hookTop()
		g.drop()
	case KindNoob:
		// Never read before an assignment retypes it; no init needed.
		hook = g.getHook()
	default:
		g.add(ir.Push{Value: 0})
		hook = g.hookTop()
		g.drop()
	}

	g.scope.add(name, &Variable{Hook: hook, Type: typ})
}

func (g *Generator) visitVariableAssignment(s *ast.VariableAssignment) {
	if s.Decl != nil {
		g.visitVariableDeclaration(s.Decl)
	}
	name := s.Ident.Token.Token.Lexeme

	v, tok := g.visitExpression(s.Expr)
	if v.Hook < 0 {
		return
	}

	target := g.scope.get(name)
	if target == nil {
		g.errorf(diagnostics.ErrC001, s.Ident.Token, "Variable %s not declared", name)
		return
	}

	// A NOOB variable adopts the type of its first assignment; afterwards
	// assignments must keep the kind.
	if !target.Type.Is(KindNoob) && target.Type.Kind != v.Type.Kind {
		g.errorf(diagnostics.ErrC002, tok,
			"Variable %s is of type %s but expression is of type %s", name, target.Type, v.Type)
		return
	}

	g.add(target.free()...)
	target.Type = v.Type
	g.add(ir.RefHook{Slot: target.Hook}, ir.Mov{})
	g.freeHook(v.Hook)
}

// visitVariableCast lowers the in-place cast: the variable's value is
// converted and stored back, and its static type updated.
func (g *Generator) visitVariableCast(s *ast.VariableCast) {
	name := s.Ident.Token.Token.Lexeme
	target := g.scope.get(name)
	if target == nil {
		g.errorf(diagnostics.ErrC001, s.Ident.Token, "Variable %s not declared", name)
		return
	}

	ref := &ast.VariableReference{Ident: s.Ident}
	v, tok := g.visitExpression(ref)
	if v.Hook < 0 {
		return
	}

	converted, ok := g.emitCast(v, tok, s.Type.Token.Token.Type)
	if !ok {
		return
	}

	g.add(target.free()...)
	target.Type = converted.Type
	g.add(ir.RefHook{Slot: target.Hook}, ir.Mov{})
	g.freeHook(converted.Hook)
}

// visitVisibleStatement prints each argument, dispatching on its static
// type. NUMBER and TROOF values go through int_to_string, NUMBAR through
// prn, YARN through print_string. The trailing newline is suppressed by
// the '!' marker.
func (g *Generator) visitVisibleStatement(s *ast.VisibleStatement) {
	for _, expr := range s.Exprs {
		v, tok := g.visitExpression(expr)
		if v.Hook < 0 {
			return
		}

		switch v.Type.Kind {
		case KindYarn:
			g.add(ir.Push{Value: float32(v.Type.Size)}, ir.CallForeign{Name: "print_string"})
			g.add(v.free()...)
		case KindNumbar:
			g.add(ir.CallForeign{Name: "prn"})
		case KindNumber, KindTroof:
			g.add(ir.CallForeign{Name: "int_to_string"})
			tmp := g.hookTop()
			g.add(ir.Push{Value: config.NumberStringCells}, ir.CallForeign{Name: "print_string"})
			g.add(
				ir.Push{Value: config.NumberStringCells},
				ir.RefHook{Slot: tmp},
				ir.Copy{},
				ir.Free{},
			)
			g.freeHook(tmp)
		default:
			g.errorf(diagnostics.ErrC002, tok, "Cannot print NOOB value")
			return
		}
		g.freeHook(v.Hook)
	}

	if s.Exclamation == nil {
		g.add(ir.CallForeign{Name: "prend"})
	}
}

func (g *Generator) visitGimmehStatement(s *ast.GimmehStatement) {
	name := s.Ident.Token.Token.Lexeme
	target := g.scope.get(name)
	if target == nil {
		g.errorf(diagnostics.ErrC001, s.Ident.Token, "Variable %s not declared", name)
		return
	}
	if !target.Type.Is(KindYarn) {
		g.errorf(diagnostics.ErrC002, s.Ident.Token, "Variable %s is not of type YARN", name)
		return
	}

	g.add(target.free()...)
	g.add(ir.CallForeign{Name: "read_string"})
	target.Type = yarnType(config.ReadBufferCells)
	g.add(ir.RefHook{Slot: target.Hook}, ir.Mov{})
}
