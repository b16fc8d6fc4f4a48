package codegen

import (
	"github.com/kthxbye/lolc/internal/ast"
	"github.com/kthxbye/lolc/internal/config"
	"github.com/kthxbye/lolc/internal/diagnostics"
	"github.com/kthxbye/lolc/internal/ir"
	"github.com/kthxbye/lolc/internal/token"
)

// noValue marks a failed expression visit. Callers short-circuit on a
// negative hook.
var noValue = Variable{Hook: -1, Type: noobType}

// visitExpression emits the instructions computing an expression. On
// success the value sits on the stack top and is peek-copied into the
// returned variable's hook slot; the token is the expression's anchor for
// error reporting.
func (g *Generator) visitExpression(expr ast.Expression) (Variable, token.LexedToken) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		g.add(ir.Push{Value: float32(e.Value())})
		return Variable{Hook: g.hookTop(), Type: numberType}, e.Token

	case *ast.NumbarLiteral:
		g.add(ir.Push{Value: e.Value()})
		return Variable{Hook: g.hookTop(), Type: numbarType}, e.Token

	case *ast.TroofLiteral:
		value := float32(0)
		if e.Value() {
			value = 1
		}
		g.add(ir.Push{Value: value})
		return Variable{Hook: g.hookTop(), Type: troofType}, e.Token

	case *ast.YarnLiteral:
		return g.visitYarnLiteral(e)

	case *ast.VariableReference:
		return g.visitVariableReference(e.Ident.Token, e.Ident.Token.Token.Lexeme)

	case *ast.ItReference:
		return g.visitVariableReference(e.Token, "IT")

	case *ast.ArithmeticExpression:
		return g.visitArithmeticExpression(e)

	case *ast.LogicalExpression:
		return g.visitLogicalExpression(e)

	case *ast.NotExpression:
		return g.visitNotExpression(e)

	case *ast.VariadicBoolExpression:
		return g.visitVariadicBoolExpression(e)

	case *ast.ComparisonExpression:
		return g.visitComparisonExpression(e)

	case *ast.SmooshExpression:
		return g.visitSmooshExpression(e)

	case *ast.MaekExpression:
		return g.visitMaekExpression(e)
	}

	return noValue, token.LexedToken{}
}

// visitYarnLiteral allocates the string on the heap and leaves the address
// on the stack. The empty string is address zero with no allocation.
func (g *Generator) visitYarnLiteral(e *ast.YarnLiteral) (Variable, token.LexedToken) {
	bytes := e.Value()
	size := int32(len(bytes))

	if size == 0 {
		g.add(ir.Push{Value: 0})
		return Variable{Hook: g.hookTop(), Type: yarnType(0)}, e.Token
	}

	g.add(ir.Push{Value: float32(size)}, ir.Allocate{})
	hook := g.hookTop()

	for i := 0; i < len(bytes); i++ {
		g.add(ir.Push{Value: float32(bytes[i])})
	}
	g.add(ir.RefHook{Slot: hook}, ir.Copy{}, ir.Store{Size: size})

	return Variable{Hook: hook, Type: yarnType(size)}, e.Token
}

// visitVariableReference copies the variable's value into a fresh hook.
// YARN values are deep-copied so the reference owns its heap block.
func (g *Generator) visitVariableReference(tok token.LexedToken, name string) (Variable, token.LexedToken) {
	src := g.scope.get(name)
	if src == nil {
		g.errorf(diagnostics.ErrC001, tok, "Variable %s not found", name)
		return noValue, tok
	}

	switch src.Type.Kind {
	case KindNoob:
		if name == "IT" {
			g.errorf(diagnostics.ErrC002, tok, "IT variable not initialized")
		} else {
			g.errorf(diagnostics.ErrC002, tok, "Variable %s has no value", name)
		}
		return noValue, tok

	case KindYarn:
		size := src.Type.Size
		g.add(ir.Push{Value: float32(size)}, ir.Allocate{})
		hook := g.hookTop()
		g.add(
			ir.RefHook{Slot: src.Hook},
			ir.Copy{},
			ir.Load{Size: size},
			ir.RefHook{Slot: hook},
			ir.Copy{},
			ir.Store{Size: size},
		)
		return Variable{Hook: hook, Type: src.Type}, tok

	default:
		g.add(ir.RefHook{Slot: src.Hook}, ir.Copy{})
		return Variable{Hook: g.hookTop(), Type: src.Type}, tok
	}
}

// visitArithmeticExpression lowers SUM, DIFF, PRODUKT, QUOSHUNT, MOD,
// BIGGR and SMALLR. Operands are emitted left then right, so the opcode's
// second-popped operand is the left one. NUMBER and NUMBAR mix freely and
// promote to NUMBAR; MOD is integer-only.
func (g *Generator) visitArithmeticExpression(e *ast.ArithmeticExpression) (Variable, token.LexedToken) {
	left, ltok := g.visitExpression(e.Left)
	right, rtok := g.visitExpression(e.Right)
	if left.Hook < 0 || right.Hook < 0 {
		return noValue, ltok
	}

	op := e.Op.Token.Token.Type
	if op == token.MOD {
		if !left.Type.Is(KindNumber) {
			g.errorf(diagnostics.ErrC002, ltok, "Expected NUMBER type")
			return noValue, ltok
		}
		if !right.Type.Is(KindNumber) {
			g.errorf(diagnostics.ErrC002, rtok, "Expected NUMBER type")
			return noValue, rtok
		}
	} else {
		if !left.Type.Numeric() {
			g.errorf(diagnostics.ErrC002, ltok, "Expected NUMBER or NUMBAR type")
			return noValue, ltok
		}
		if !right.Type.Numeric() {
			g.errorf(diagnostics.ErrC002, rtok, "Expected NUMBER or NUMBAR type")
			return noValue, rtok
		}
	}

	switch op {
	case token.BIGGR, token.SMALLR:
		return g.emitMinMax(e, left, right, ltok)
	case token.SUM:
		g.add(ir.Add{})
	case token.DIFF:
		g.add(ir.Subtract{})
	case token.PRODUKT:
		g.add(ir.Multiply{})
	case token.QUOSHUNT:
		g.add(ir.Divide{})
	case token.MOD:
		g.add(ir.Modulo{})
	}

	g.freeHook(left.Hook)
	g.freeHook(right.Hook)

	result := promote(left.Type, right.Type)
	if op == token.MOD {
		result = numberType
	}
	return Variable{Hook: g.hookTop(), Type: result}, ltok
}

// emitMinMax computes BIGGR as (l + r + |l - r|) / 2 and SMALLR as
// (l + r - |l - r|) / 2; |x| is x * sign(x). Both operands are on the
// stack and hooked when this is called.
func (g *Generator) emitMinMax(e *ast.ArithmeticExpression, left, right Variable, ltok token.LexedToken) (Variable, token.LexedToken) {
	g.add(ir.Subtract{})
	diff := g.hookTop()
	g.add(
		ir.Sign{},
		ir.RefHook{Slot: diff},
		ir.Copy{},
		ir.Multiply{},
	)
	if e.Op.Token.Token.Type == token.SMALLR {
		g.add(ir.Push{Value: -1}, ir.Multiply{})
	}
	g.add(
		ir.RefHook{Slot: left.Hook},
		ir.Copy{},
		ir.Add{},
		ir.RefHook{Slot: right.Hook},
		ir.Copy{},
		ir.Add{},
		ir.Push{Value: 2},
		ir.Divide{},
	)

	g.freeHook(diff)
	g.freeHook(left.Hook)
	g.freeHook(right.Hook)

	return Variable{Hook: g.hookTop(), Type: promote(left.Type, right.Type)}, ltok
}

// visitLogicalExpression lowers BOTH OF, EITHER OF and WON OF over TROOF
// operands. TROOF values are always 0 or 1, so AND is a product and XOR is
// a sum mod 2; OR renormalizes the sum through an accumulator slot.
func (g *Generator) visitLogicalExpression(e *ast.LogicalExpression) (Variable, token.LexedToken) {
	op := e.Op.Token.Token.Type

	var acc int32
	if op == token.EITHER {
		acc = g.getHook()
		g.add(ir.Push{Value: 0}, ir.Hook{Slot: acc})
		g.drop()
	}

	left, ltok := g.visitExpression(e.Left)
	right, rtok := g.visitExpression(e.Right)
	if left.Hook < 0 || right.Hook < 0 {
		return noValue, ltok
	}

	if !left.Type.Is(KindTroof) {
		g.errorf(diagnostics.ErrC002, ltok, "Expected TROOF type")
		return noValue, ltok
	}
	if !right.Type.Is(KindTroof) {
		g.errorf(diagnostics.ErrC002, rtok, "Expected TROOF type")
		return noValue, rtok
	}

	g.freeHook(left.Hook)
	g.freeHook(right.Hook)

	switch op {
	case token.BOTH:
		g.add(ir.Multiply{})
		return Variable{Hook: g.hookTop(), Type: troofType}, ltok

	case token.EITHER:
		g.add(
			ir.Add{},
			ir.BeginWhile{},
			ir.Push{Value: 1},
			ir.RefHook{Slot: acc},
			ir.Mov{},
			ir.Push{Value: 0},
			ir.EndWhile{},
			ir.RefHook{Slot: acc},
			ir.Copy{},
		)
		return Variable{Hook: acc, Type: troofType}, ltok

	default: // WON
		g.add(ir.Add{}, ir.Push{Value: 2}, ir.Modulo{})
		return Variable{Hook: g.hookTop(), Type: troofType}, ltok
	}
}

func (g *Generator) visitNotExpression(e *ast.NotExpression) (Variable, token.LexedToken) {
	v, tok := g.visitExpression(e.Expr)
	if v.Hook < 0 {
		return noValue, tok
	}
	if !v.Type.Is(KindTroof) {
		g.errorf(diagnostics.ErrC002, tok, "Expected TROOF type")
		return noValue, tok
	}

	g.freeHook(v.Hook)
	g.add(ir.Push{Value: 1}, ir.Add{}, ir.Push{Value: 2}, ir.Modulo{})
	return Variable{Hook: g.hookTop(), Type: troofType}, tok
}

// visitVariadicBoolExpression lowers ALL OF and ANY OF. The accumulator
// slot starts at the identity (1 for ALL, 0 for ANY) and each operand
// conditionally flips it through the while sentinel; the operand cell is
// consumed by the loop condition either way.
func (g *Generator) visitVariadicBoolExpression(e *ast.VariadicBoolExpression) (Variable, token.LexedToken) {
	all := e.Op.Token.Token.Type == token.ALL

	acc := g.getHook()
	identity := float32(0)
	if all {
		identity = 1
	}
	g.add(ir.Push{Value: identity}, ir.Hook{Slot: acc})
	g.drop()

	anchor := e.Op.Token
	for _, operand := range e.Exprs {
		v, tok := g.visitExpression(operand)
		if v.Hook < 0 {
			return noValue, tok
		}
		if !v.Type.Is(KindTroof) {
			g.errorf(diagnostics.ErrC002, tok, "Expected TROOF type")
			return noValue, tok
		}
		anchor = tok
		g.freeHook(v.Hook)

		if all {
			// A false operand (inverted to true) clears the accumulator.
			g.add(ir.Push{Value: 1}, ir.Add{}, ir.Push{Value: 2}, ir.Modulo{})
			g.add(
				ir.BeginWhile{},
				ir.Push{Value: 0},
				ir.RefHook{Slot: acc},
				ir.Mov{},
				ir.Push{Value: 0},
				ir.EndWhile{},
			)
		} else {
			g.add(
				ir.BeginWhile{},
				ir.Push{Value: 1},
				ir.RefHook{Slot: acc},
				ir.Mov{},
				ir.Push{Value: 0},
				ir.EndWhile{},
			)
		}
	}

	g.add(ir.RefHook{Slot: acc}, ir.Copy{})
	return Variable{Hook: acc, Type: troofType}, anchor
}

// visitComparisonExpression lowers BOTH SAEM and DIFFRINT. Scalars compare
// by subtraction; YARN values compare cell-by-cell when the sizes match
// and are unequal otherwise. DIFFRINT is the inverted result.
func (g *Generator) visitComparisonExpression(e *ast.ComparisonExpression) (Variable, token.LexedToken) {
	left, ltok := g.visitExpression(e.Left)
	right, rtok := g.visitExpression(e.Right)
	if left.Hook < 0 || right.Hook < 0 {
		return noValue, ltok
	}

	comparable := (left.Type.Numeric() && right.Type.Numeric()) ||
		(left.Type.Kind == right.Type.Kind)
	if !comparable {
		g.errorf(diagnostics.ErrC002, rtok,
			"Expected %s type but got %s", left.Type, right.Type)
		return noValue, rtok
	}

	var result Variable
	if left.Type.Is(KindYarn) {
		result = g.emitYarnEquality(left, right)
	} else {
		acc := g.getHook()
		g.add(ir.Push{Value: 1}, ir.Hook{Slot: acc})
		g.drop()
		g.add(
			ir.Subtract{},
			ir.BeginWhile{},
			ir.Push{Value: 0},
			ir.RefHook{Slot: acc},
			ir.Mov{},
			ir.Push{Value: 0},
			ir.EndWhile{},
			ir.RefHook{Slot: acc},
			ir.Copy{},
		)
		g.freeHook(left.Hook)
		g.freeHook(right.Hook)
		result = Variable{Hook: acc, Type: troofType}
	}

	if e.Op.Token.Token.Type == token.DIFFRINT {
		g.freeHook(result.Hook)
		g.add(ir.Push{Value: 1}, ir.Add{}, ir.Push{Value: 2}, ir.Modulo{})
		result = Variable{Hook: g.hookTop(), Type: troofType}
	}

	return result, ltok
}

// emitYarnEquality compares two heap strings. Both operand addresses are
// on the stack; they are discarded and the comparison reads through the
// hooks.
func (g *Generator) emitYarnEquality(left, right Variable) Variable {
	g.drop()
	g.drop()

	if left.Type.Size != right.Type.Size {
		g.add(left.free()...)
		g.add(right.free()...)
		g.freeHook(left.Hook)
		g.freeHook(right.Hook)
		g.add(ir.Push{Value: 0})
		return Variable{Hook: g.hookTop(), Type: troofType}
	}

	acc := g.getHook()
	g.add(ir.Push{Value: 1}, ir.Hook{Slot: acc})
	g.drop()

	for i := int32(0); i < left.Type.Size; i++ {
		g.add(
			ir.RefHook{Slot: left.Hook},
			ir.Copy{},
			ir.Push{Value: float32(i)},
			ir.Add{},
			ir.Load{Size: 1},
			ir.RefHook{Slot: right.Hook},
			ir.Copy{},
			ir.Push{Value: float32(i)},
			ir.Add{},
			ir.Load{Size: 1},
			ir.Subtract{},
			ir.BeginWhile{},
			ir.Push{Value: 0},
			ir.RefHook{Slot: acc},
			ir.Mov{},
			ir.Push{Value: 0},
			ir.EndWhile{},
		)
	}

	g.add(left.free()...)
	g.add(right.free()...)
	g.freeHook(left.Hook)
	g.freeHook(right.Hook)

	g.add(ir.RefHook{Slot: acc}, ir.Copy{})
	return Variable{Hook: acc, Type: troofType}
}

// visitSmooshExpression concatenates YARN operands into one fresh
// allocation. Operands are visited twice: a rolled-back dry run computes
// the total size, then the real pass copies each operand into place.
func (g *Generator) visitSmooshExpression(e *ast.SmooshExpression) (Variable, token.LexedToken) {
	mark := len(g.entry)
	usedSnap := make(map[int32]bool, len(g.used))
	for k, v := range g.used {
		usedSnap[k] = v
	}
	maxSnap := g.maxHook

	total := int32(0)
	for _, operand := range e.Exprs {
		v, tok := g.visitExpression(operand)
		if v.Hook < 0 {
			g.entry = g.entry[:mark]
			return noValue, tok
		}
		if !v.Type.Is(KindYarn) {
			g.errorf(diagnostics.ErrC002, tok, "Expected YARN type")
			g.entry = g.entry[:mark]
			return noValue, tok
		}
		total += v.Type.Size
	}

	g.entry = g.entry[:mark]
	g.used = usedSnap
	g.maxHook = maxSnap

	if total == 0 {
		g.add(ir.Push{Value: 0})
		return Variable{Hook: g.hookTop(), Type: yarnType(0)}, e.Op.Token
	}

	g.add(ir.Push{Value: float32(total)}, ir.Allocate{})
	dest := g.hookTop()

	offset := int32(0)
	for _, operand := range e.Exprs {
		v, _ := g.visitExpression(operand)
		size := v.Type.Size
		if size > 0 {
			g.add(
				ir.Load{Size: size},
				ir.RefHook{Slot: dest},
				ir.Copy{},
				ir.Push{Value: float32(offset)},
				ir.Add{},
				ir.Store{Size: size},
			)
		} else {
			g.drop()
		}
		g.add(v.free()...)
		g.freeHook(v.Hook)
		offset += size
	}

	g.add(ir.RefHook{Slot: dest}, ir.Copy{})
	return Variable{Hook: dest, Type: yarnType(total)}, e.Op.Token
}

func (g *Generator) visitMaekExpression(e *ast.MaekExpression) (Variable, token.LexedToken) {
	v, tok := g.visitExpression(e.Expr)
	if v.Hook < 0 {
		return noValue, tok
	}
	converted, ok := g.emitCast(v, tok, e.Type.Token.Token.Type)
	if !ok {
		return noValue, tok
	}
	return converted, tok
}

// emitCast converts the value on the stack top (tracked by v) to the
// target type keyword. Identity conversions reuse the source hook.
func (g *Generator) emitCast(v Variable, tok token.LexedToken, target token.TokenType) (Variable, bool) {
	if v.Type.Is(KindNoob) {
		g.errorf(diagnostics.ErrC003, tok, "Cannot convert type NOOB to %s", target)
		return noValue, false
	}
	if target == token.NOOB {
		g.errorf(diagnostics.ErrC003, tok, "Cannot convert type %s to NOOB", v.Type)
		return noValue, false
	}

	switch target {
	case token.NUMBER:
		switch v.Type.Kind {
		case KindNumber:
			return v, true
		case KindNumbar:
			g.add(ir.CallForeign{Name: "float_to_int"})
		case KindTroof:
			return Variable{Hook: v.Hook, Type: numberType}, true
		case KindYarn:
			g.add(ir.Push{Value: float32(v.Type.Size)}, ir.CallForeign{Name: "string_to_int"})
			g.add(v.free()...)
		}
		g.freeHook(v.Hook)
		return Variable{Hook: g.hookTop(), Type: numberType}, true

	case token.NUMBAR:
		switch v.Type.Kind {
		case KindNumbar:
			return v, true
		case KindNumber:
			g.add(ir.CallForeign{Name: "int_to_float"})
		case KindTroof:
			g.add(ir.CallForeign{Name: "int_to_float"})
		case KindYarn:
			g.add(ir.Push{Value: float32(v.Type.Size)}, ir.CallForeign{Name: "string_to_float"})
			g.add(v.free()...)
		}
		g.freeHook(v.Hook)
		return Variable{Hook: g.hookTop(), Type: numbarType}, true

	case token.TROOF:
		switch v.Type.Kind {
		case KindTroof:
			return v, true
		case KindNumber, KindNumbar:
			// Renormalize to 0/1: any non-zero value is WIN.
			acc := g.getHook()
			g.add(ir.Push{Value: 0}, ir.Hook{Slot: acc})
			g.drop()
			g.add(
				ir.BeginWhile{},
				ir.Push{Value: 1},
				ir.RefHook{Slot: acc},
				ir.Mov{},
				ir.Push{Value: 0},
				ir.EndWhile{},
				ir.RefHook{Slot: acc},
				ir.Copy{},
			)
			g.freeHook(v.Hook)
			return Variable{Hook: acc, Type: troofType}, true
		case KindYarn:
			// An empty string is FAIL; sizes are static.
			value := float32(0)
			if v.Type.Size > 0 {
				value = 1
			}
			g.drop()
			g.add(v.free()...)
			g.freeHook(v.Hook)
			g.add(ir.Push{Value: value})
			return Variable{Hook: g.hookTop(), Type: troofType}, true
		}

	case token.YARN:
		switch v.Type.Kind {
		case KindYarn:
			return v, true
		case KindNumber, KindTroof:
			g.add(ir.CallForeign{Name: "int_to_string"})
		case KindNumbar:
			g.add(ir.CallForeign{Name: "float_to_string"})
		}
		g.freeHook(v.Hook)
		return Variable{Hook: g.hookTop(), Type: yarnType(config.NumberStringCells)}, true
	}

	g.errorf(diagnostics.ErrC003, tok, "Expected valid type for cast")
	return noValue, false
}
