// Package target defines the Assembler interface an IR backend implements.
// Each method returns the target-language text for one IR operation; the IR
// layer concatenates those fragments into a complete program.
package target

// Target serializes IR operations to a target-specific text form. Names
// passed to CallFn and CallForeignFn are opaque strings; the C backend
// resolves them to direct C symbols, an assembly backend would resolve
// them to integer IDs.
type Target interface {
	Name() string

	// CorePrelude is the runtime text every program starts with; Std is
	// the foreign-function library appended when the target is standard.
	CorePrelude() string
	Std() string
	CorePostlude() string
	IsStandard() bool

	BeginEntryPoint(stackSize, heapSize int32) string
	EndEntryPoint() string

	EstablishStackFrame() string
	EndStackFrame(argSize, localsSize int32) string
	SetReturnRegister() string
	AccessReturnRegister() string
	LoadBasePtr() string

	Push(n float32) string

	Add() string
	Subtract() string
	Multiply() string
	Divide() string
	Modulo() string
	Sign() string

	Allocate() string
	Free() string
	Store(size int32) string
	Load(size int32) string
	Copy() string
	Mov() string

	Hook(slot int32) string
	RefHook(slot int32) string

	FnHeader(name string) string
	FnDefinition(name, body string) string
	CallFn(name string) string
	CallForeignFn(name string) string

	BeginWhile() string
	EndWhile() string

	Halt() string
}
