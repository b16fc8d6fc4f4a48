package codegen

import (
	"github.com/kthxbye/lolc/internal/ir"
	"github.com/kthxbye/lolc/internal/token"
)

type Kind int

const (
	KindNoob Kind = iota
	KindNumber
	KindNumbar
	KindYarn
	KindTroof
)

// ValueType is the static type the generator tracks per value. Size is the
// heap cell count of a YARN; other kinds occupy a single stack cell.
type ValueType struct {
	Kind Kind
	Size int32
}

var (
	noobType   = ValueType{Kind: KindNoob}
	numberType = ValueType{Kind: KindNumber}
	numbarType = ValueType{Kind: KindNumbar}
	troofType  = ValueType{Kind: KindTroof}
)

func yarnType(size int32) ValueType {
	return ValueType{Kind: KindYarn, Size: size}
}

func (t ValueType) Is(k Kind) bool { return t.Kind == k }

func (t ValueType) Numeric() bool {
	return t.Kind == KindNumber || t.Kind == KindNumbar
}

func (t ValueType) String() string {
	switch t.Kind {
	case KindNumber:
		return "NUMBER"
	case KindNumbar:
		return "NUMBAR"
	case KindYarn:
		return "YARN"
	case KindTroof:
		return "TROOF"
	default:
		return "NOOB"
	}
}

// promote gives the result type of mixed numeric arithmetic: NUMBAR wins.
func promote(a, b ValueType) ValueType {
	if a.Kind == KindNumbar || b.Kind == KindNumbar {
		return numbarType
	}
	return numberType
}

func typeForKeyword(t token.TokenType) ValueType {
	switch t {
	case token.NUMBER:
		return numberType
	case token.NUMBAR:
		return numbarType
	case token.TROOF:
		return troofType
	case token.YARN:
		return yarnType(1)
	default:
		return noobType
	}
}

// Variable binds a hook slot to the static type of the value it holds.
type Variable struct {
	Hook int32
	Type ValueType
}

// free returns the instructions releasing the variable's heap block. Only
// YARN values own heap memory.
func (v *Variable) free() []ir.Statement {
	if v.Type.Kind != KindYarn || v.Type.Size < 0 {
		return nil
	}
	return []ir.Statement{
		ir.Push{Value: float32(v.Type.Size)},
		ir.RefHook{Slot: v.Hook},
		ir.Copy{},
		ir.Free{},
	}
}

// Scope is the flat symbol table of one function. Declarations assign hook
// slots; order is kept so scope teardown frees heap blocks
// deterministically.
type Scope struct {
	name  string
	vars  map[string]*Variable
	order []string
}

func newScope(name string) *Scope {
	return &Scope{name: name, vars: make(map[string]*Variable)}
}

func (s *Scope) get(name string) *Variable {
	return s.vars[name]
}

func (s *Scope) add(name string, v *Variable) {
	if _, exists := s.vars[name]; !exists {
		s.order = append(s.order, name)
	}
	s.vars[name] = v
}

// freeAll returns the instructions releasing every heap-owning variable of
// the scope, in declaration order.
func (s *Scope) freeAll() []ir.Statement {
	var stmts []ir.Statement
	for _, name := range s.order {
		stmts = append(stmts, s.vars[name].free()...)
	}
	return stmts
}
