// Package ir defines the stack-machine intermediate representation. An IR
// module is a flat list of named functions plus a designated entry; each
// body is a linear sequence of instructions over the VM described by the
// runtime ABI. Values are built by the code generator and thereafter only
// read.
package ir

import (
	"github.com/kthxbye/lolc/internal/target"
)

// Statement is one stack-machine instruction. The set is closed; a target
// serializes each variant through the corresponding Target method.
type Statement interface {
	Assemble(t target.Target) string
}

type Push struct{ Value float32 }
type Add struct{}
type Subtract struct{}
type Multiply struct{}
type Divide struct{}
type Modulo struct{}
type Sign struct{}
type Allocate struct{}
type Free struct{}
type Store struct{ Size int32 }
type Load struct{ Size int32 }
type Copy struct{}
type Mov struct{}
type Hook struct{ Slot int32 }
type RefHook struct{ Slot int32 }
type Call struct{ Name string }
type CallForeign struct{ Name string }
type BeginWhile struct{}
type EndWhile struct{}
type LoadBasePtr struct{}
type EstablishStackFrame struct{}

type EndStackFrame struct {
	ArgSize    int32
	LocalsSize int32
}

type SetReturnRegister struct{}
type AccessReturnRegister struct{}
type Halt struct{}

func (s Push) Assemble(t target.Target) string        { return t.Push(s.Value) }
func (Add) Assemble(t target.Target) string           { return t.Add() }
func (Subtract) Assemble(t target.Target) string      { return t.Subtract() }
func (Multiply) Assemble(t target.Target) string      { return t.Multiply() }
func (Divide) Assemble(t target.Target) string        { return t.Divide() }
func (Modulo) Assemble(t target.Target) string        { return t.Modulo() }
func (Sign) Assemble(t target.Target) string          { return t.Sign() }
func (Allocate) Assemble(t target.Target) string      { return t.Allocate() }
func (Free) Assemble(t target.Target) string          { return t.Free() }
func (s Store) Assemble(t target.Target) string       { return t.Store(s.Size) }
func (s Load) Assemble(t target.Target) string        { return t.Load(s.Size) }
func (Copy) Assemble(t target.Target) string          { return t.Copy() }
func (Mov) Assemble(t target.Target) string           { return t.Mov() }
func (s Hook) Assemble(t target.Target) string        { return t.Hook(s.Slot) }
func (s RefHook) Assemble(t target.Target) string     { return t.RefHook(s.Slot) }
func (s Call) Assemble(t target.Target) string        { return t.CallFn(s.Name) }
func (s CallForeign) Assemble(t target.Target) string { return t.CallForeignFn(s.Name) }
func (BeginWhile) Assemble(t target.Target) string    { return t.BeginWhile() }
func (EndWhile) Assemble(t target.Target) string      { return t.EndWhile() }
func (LoadBasePtr) Assemble(t target.Target) string   { return t.LoadBasePtr() }
func (EstablishStackFrame) Assemble(t target.Target) string {
	return t.EstablishStackFrame()
}
func (s EndStackFrame) Assemble(t target.Target) string {
	return t.EndStackFrame(s.ArgSize, s.LocalsSize)
}
func (SetReturnRegister) Assemble(t target.Target) string    { return t.SetReturnRegister() }
func (AccessReturnRegister) Assemble(t target.Target) string { return t.AccessReturnRegister() }
func (Halt) Assemble(t target.Target) string                 { return t.Halt() }

// Function is a user-defined function: a name plus the instruction
// sequence forming its body.
type Function struct {
	Name string
	Body []Statement
}

func NewFunction(name string, body []Statement) Function {
	return Function{Name: name, Body: body}
}

func (f *Function) Assemble(t target.Target) string {
	var body string
	for _, stmt := range f.Body {
		body += stmt.Assemble(t)
	}
	return t.FnDefinition(f.Name, body)
}

// Entry is the program's main. StackSize and HeapSize are counts of
// addressable cells.
type Entry struct {
	StackSize int32
	HeapSize  int32
	Body      []Statement
}

func NewEntry(stackSize, heapSize int32, body []Statement) Entry {
	return Entry{StackSize: stackSize, HeapSize: heapSize, Body: body}
}

// Assemble emits the entry point. One zeroed cell per hook slot is pushed
// before the stack frame is established, reserving the slots at the bottom
// of the stack. The entry's frame is abandoned on program termination, so
// no return-address cell is pushed.
func (e *Entry) Assemble(t target.Target, hooks int32) string {
	var code string

	code += t.BeginEntryPoint(e.StackSize, e.HeapSize)
	for i := int32(0); i < hooks; i++ {
		code += t.Push(0)
	}
	code += t.EstablishStackFrame()
	for _, stmt := range e.Body {
		code += stmt.Assemble(t)
	}
	code += t.EndEntryPoint()

	return code
}

// Module is a complete IR program: the user-defined functions, the entry,
// and the number of hook slots the entry reserves. Frame records the
// base-pointer convention the module was emitted for; every function body
// must address its frame under the same variant.
type Module struct {
	Functions []Function
	Entry     Entry
	Hooks     int32
	Frame     FrameVariant
}

func NewModule(functions []Function, entry Entry, hooks int32) *Module {
	return &Module{Functions: functions, Entry: entry, Hooks: hooks}
}

// Assemble serializes the whole module for a target: runtime prelude,
// foreign-function library, function definitions, entry, postlude.
func (m *Module) Assemble(t target.Target) string {
	var code string

	code += t.CorePrelude()
	if t.IsStandard() {
		code += t.Std()
	}

	for i := range m.Functions {
		code += t.FnHeader(m.Functions[i].Name)
	}
	for i := range m.Functions {
		code += m.Functions[i].Assemble(t)
	}

	code += m.Entry.Assemble(t, m.Hooks)
	code += t.CorePostlude()

	return code
}
