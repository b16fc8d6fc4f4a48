// Package cvm serializes an IR module into a self-contained C translation
// unit: the embedded runtime, one C function per IR function, and a main
// that creates the machine and runs the entry body. The result is handed
// to an external C compiler.
package cvm

import (
	_ "embed"
	"fmt"
	"strconv"
)

//go:embed core.c
var coreC string

//go:embed std.c
var stdC string

type CVM struct{}

func New() *CVM { return &CVM{} }

func (c *CVM) Name() string { return "c" }

func (c *CVM) IsStandard() bool { return true }

func (c *CVM) CorePrelude() string { return coreC }

func (c *CVM) Std() string { return stdC }

func (c *CVM) CorePostlude() string { return "" }

func (c *CVM) BeginEntryPoint(stackSize, heapSize int32) string {
	return fmt.Sprintf("int main() {\nmachine *vm = machine_new(%d, %d);\n", stackSize, heapSize)
}

func (c *CVM) EndEntryPoint() string {
	return "\nmachine_drop(vm);\nreturn 0;\n}\n"
}

func (c *CVM) EstablishStackFrame() string {
	return "machine_establish_stack_frame(vm);\n"
}

func (c *CVM) EndStackFrame(argSize, localsSize int32) string {
	return fmt.Sprintf("machine_end_stack_frame(vm, %d, %d);\n", argSize, localsSize)
}

func (c *CVM) SetReturnRegister() string {
	return "machine_set_return_register(vm);\n"
}

func (c *CVM) AccessReturnRegister() string {
	return "machine_access_return_register(vm);\n"
}

func (c *CVM) LoadBasePtr() string {
	return "machine_load_base_ptr(vm);\n"
}

func (c *CVM) Push(n float32) string {
	return fmt.Sprintf("machine_push(vm, %s);\n", strconv.FormatFloat(float64(n), 'g', -1, 32))
}

func (c *CVM) Add() string      { return "machine_add(vm);\n" }
func (c *CVM) Subtract() string { return "machine_subtract(vm);\n" }
func (c *CVM) Multiply() string { return "machine_multiply(vm);\n" }
func (c *CVM) Divide() string   { return "machine_divide(vm);\n" }
func (c *CVM) Modulo() string   { return "machine_modulo(vm);\n" }
func (c *CVM) Sign() string     { return "machine_sign(vm);\n" }

func (c *CVM) Allocate() string { return "machine_allocate(vm);\n" }
func (c *CVM) Free() string     { return "machine_free(vm);\n" }

func (c *CVM) Store(size int32) string {
	return fmt.Sprintf("machine_store(vm, %d);\n", size)
}

func (c *CVM) Load(size int32) string {
	return fmt.Sprintf("machine_load(vm, %d);\n", size)
}

func (c *CVM) Copy() string { return "machine_copy(vm);\n" }
func (c *CVM) Mov() string  { return "machine_mov(vm);\n" }

func (c *CVM) Hook(slot int32) string {
	return fmt.Sprintf("machine_hook(vm, %d);\n", slot)
}

func (c *CVM) RefHook(slot int32) string {
	return fmt.Sprintf("machine_ref_hook(vm, %d);\n", slot)
}

func (c *CVM) FnHeader(name string) string {
	return fmt.Sprintf("void %s(machine* vm);\n", name)
}

func (c *CVM) FnDefinition(name, body string) string {
	return fmt.Sprintf("void %s(machine* vm) {\n%s}\n", name, body)
}

func (c *CVM) CallFn(name string) string {
	// The pushed cell stands in for a return address; its value is
	// irrelevant since C handles control flow.
	return fmt.Sprintf("machine_push(vm, 1);\n%s(vm);\n", name)
}

func (c *CVM) CallForeignFn(name string) string {
	return fmt.Sprintf("%s(vm);\n", name)
}

func (c *CVM) BeginWhile() string {
	return "while (machine_pop(vm)) {\n"
}

func (c *CVM) EndWhile() string {
	return "}\n"
}

func (c *CVM) Halt() string {
	return "machine_halt(vm);\n"
}
