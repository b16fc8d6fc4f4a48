package cvm_test

import (
	"strings"
	"testing"

	"github.com/kthxbye/lolc/internal/ir"
	"github.com/kthxbye/lolc/internal/target/cvm"
)

func TestAssembleEntry(t *testing.T) {
	entry := ir.NewEntry(4096, 4096, []ir.Statement{
		ir.Push{Value: 3},
		ir.Push{Value: 4},
		ir.Add{},
		ir.Halt{},
	})
	m := ir.NewModule(nil, entry, 2)

	code := m.Assemble(cvm.New())

	for _, want := range []string{
		"typedef struct machine",          // runtime prelude
		"void print_string(machine *vm)",  // foreign library
		"machine *vm = machine_new(4096, 4096);",
		"machine_push(vm, 3);",
		"machine_add(vm);",
		"machine_halt(vm);",
		"machine_establish_stack_frame(vm);",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("missing %q in assembled output", want)
		}
	}

	// Two hook slots are reserved before the frame is established.
	frame := strings.Index(code, "machine_establish_stack_frame(vm);")
	reserved := strings.Count(code[strings.Index(code, "int main()"):frame], "machine_push(vm, 0);")
	if reserved != 2 {
		t.Errorf("expected 2 reserved hook cells, got %d", reserved)
	}
}

func TestAssembleFunctions(t *testing.T) {
	b := ir.NewFunctionBuilder("twice", 1, 0, ir.FrameLayout{Variant: ir.BaseIsStackPointer})
	b.LoadArg(1)
	b.Emit(ir.Push{Value: 2}, ir.Multiply{})
	b.Return()

	entry := ir.NewEntry(64, 64, []ir.Statement{
		ir.Push{Value: 21},
		ir.Call{Name: "twice"},
		ir.AccessReturnRegister{},
		ir.Halt{},
	})
	m := ir.NewModule([]ir.Function{b.Build()}, entry, 0)

	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	code := m.Assemble(cvm.New())

	for _, want := range []string{
		"void twice(machine* vm);", // forward declaration
		"void twice(machine* vm) {",
		"machine_end_stack_frame(vm, 1, 0);",
		"machine_push(vm, 1);\ntwice(vm);", // call pushes a return-address cell
		"machine_access_return_register(vm);",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("missing %q in assembled output", want)
		}
	}
}

func TestPushFormatsFloats(t *testing.T) {
	c := cvm.New()

	if got := c.Push(3); got != "machine_push(vm, 3);\n" {
		t.Errorf("got %q", got)
	}
	if got := c.Push(3.5); got != "machine_push(vm, 3.5);\n" {
		t.Errorf("got %q", got)
	}
	if got := c.Push(-1); got != "machine_push(vm, -1);\n" {
		t.Errorf("got %q", got)
	}
}

func TestWhileSerialization(t *testing.T) {
	c := cvm.New()

	if got := c.BeginWhile(); !strings.Contains(got, "while (machine_pop(vm))") {
		t.Errorf("got %q", got)
	}
	if got := c.EndWhile(); got != "}\n" {
		t.Errorf("got %q", got)
	}
}
