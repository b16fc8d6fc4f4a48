package ir_test

import (
	"testing"

	"github.com/kthxbye/lolc/internal/ir"
)

func TestValidateResolvesCalls(t *testing.T) {
	double := ir.NewFunction("double", []ir.Statement{
		ir.EstablishStackFrame{},
		ir.Push{Value: 2},
		ir.Multiply{},
		ir.SetReturnRegister{},
		ir.EndStackFrame{ArgSize: 1, LocalsSize: 0},
	})
	entry := ir.NewEntry(64, 64, []ir.Statement{
		ir.Push{Value: 21},
		ir.Call{Name: "double"},
		ir.AccessReturnRegister{},
		ir.Halt{},
	})

	m := ir.NewModule([]ir.Function{double}, entry, 0)
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUndefinedCall(t *testing.T) {
	entry := ir.NewEntry(64, 64, []ir.Statement{ir.Call{Name: "nowhere"}, ir.Halt{}})

	m := ir.NewModule(nil, entry, 0)
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for undefined call target")
	}
}

func TestValidateRejectsUnknownForeign(t *testing.T) {
	entry := ir.NewEntry(64, 64, []ir.Statement{ir.CallForeign{Name: "launch_missiles"}, ir.Halt{}})

	m := ir.NewModule(nil, entry, 0)
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for unknown foreign function")
	}
}

func TestValidateAcceptsForeignTable(t *testing.T) {
	for name := range ir.ForeignFunctions {
		entry := ir.NewEntry(64, 64, []ir.Statement{ir.CallForeign{Name: name}, ir.Halt{}})
		if err := ir.NewModule(nil, entry, 0).Validate(); err != nil {
			t.Errorf("foreign %q: %v", name, err)
		}
	}
}

func TestValidateRejectsUnbalancedFrames(t *testing.T) {
	fn := ir.NewFunction("leaky", []ir.Statement{
		ir.EstablishStackFrame{},
		ir.Push{Value: 1},
		ir.SetReturnRegister{},
	})

	m := ir.NewModule([]ir.Function{fn}, ir.NewEntry(64, 64, []ir.Statement{ir.Halt{}}), 0)
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for unbalanced frame")
	}
}

func TestEntryMayAbandonFrame(t *testing.T) {
	entry := ir.NewEntry(64, 64, []ir.Statement{
		ir.EstablishStackFrame{},
		ir.Halt{},
	})

	if err := ir.NewModule(nil, entry, 0).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFrameLayoutOffsets(t *testing.T) {
	sp := ir.FrameLayout{Variant: ir.BaseIsStackPointer}
	// [base+0] saved base, [base+1] return address, [base+2] arg1,
	// [base-1] local_1.
	if got := sp.ArgOffset(1); got != 2 {
		t.Errorf("sp arg1: got %d", got)
	}
	if got := sp.ArgOffset(3); got != 4 {
		t.Errorf("sp arg3: got %d", got)
	}
	if got := sp.LocalOffset(1); got != -1 {
		t.Errorf("sp local1: got %d", got)
	}

	spm := ir.FrameLayout{Variant: ir.BaseIsStackPointerMinusOne}
	if got := spm.ArgOffset(1); got != 3 {
		t.Errorf("sp-1 arg1: got %d", got)
	}
	if got := spm.LocalOffset(1); got != 0 {
		t.Errorf("sp-1 local1: got %d", got)
	}
}

func TestFunctionBuilderBalancesFrame(t *testing.T) {
	b := ir.NewFunctionBuilder("add2", 2, 1, ir.FrameLayout{Variant: ir.BaseIsStackPointer})
	b.LoadArg(1)
	b.LoadArg(2)
	b.Emit(ir.Add{})
	b.StoreLocal(1)
	b.LoadLocal(1)
	b.Return()
	fn := b.Build()

	if _, ok := fn.Body[0].(ir.EstablishStackFrame); !ok {
		t.Errorf("expected frame prologue, got %T", fn.Body[0])
	}
	last, ok := fn.Body[len(fn.Body)-1].(ir.EndStackFrame)
	if !ok {
		t.Fatalf("expected frame epilogue, got %T", fn.Body[len(fn.Body)-1])
	}
	if last.ArgSize != 2 || last.LocalsSize != 1 {
		t.Errorf("epilogue sizes: got %+v", last)
	}

	m := ir.NewModule([]ir.Function{fn}, ir.NewEntry(64, 64, []ir.Statement{ir.Halt{}}), 0)
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
