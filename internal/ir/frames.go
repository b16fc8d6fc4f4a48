package ir

// FrameVariant selects the base-pointer convention the runtime uses.
// BaseIsStackPointer leaves the base at the stack pointer after the old
// base is pushed; BaseIsStackPointerMinusOne points it at the saved cell.
// The two shift every frame offset by one, so a module must be emitted
// for exactly one of them.
type FrameVariant int

const (
	BaseIsStackPointer FrameVariant = iota
	BaseIsStackPointerMinusOne
)

// FrameLayout computes frame-relative addresses under a variant. Stack
// addresses are 1-based: address a refers to the cell below it, which is
// what Copy and Mov expect.
type FrameLayout struct {
	Variant FrameVariant
}

// ArgOffset returns the base-relative offset of argument i (1-based).
// Arguments sit above the return-address cell, last argument highest.
func (l FrameLayout) ArgOffset(i int32) int32 {
	if l.Variant == BaseIsStackPointerMinusOne {
		return i + 2
	}
	return i + 1
}

// LocalOffset returns the base-relative offset of local k (1-based).
// Locals grow downward from the base.
func (l FrameLayout) LocalOffset(k int32) int32 {
	if l.Variant == BaseIsStackPointerMinusOne {
		return -k + 1
	}
	return -k
}

// FunctionBuilder assembles a function body that observes the calling
// convention: the frame is established on entry, locals are reserved as
// zeroed cells, and every terminating path runs EndStackFrame with the
// sizes given here.
type FunctionBuilder struct {
	name       string
	argSize    int32
	localsSize int32
	layout     FrameLayout
	body       []Statement
}

func NewFunctionBuilder(name string, argSize, localsSize int32, layout FrameLayout) *FunctionBuilder {
	return &FunctionBuilder{
		name:       name,
		argSize:    argSize,
		localsSize: localsSize,
		layout:     layout,
	}
}

func (b *FunctionBuilder) Emit(stmts ...Statement) {
	b.body = append(b.body, stmts...)
}

// LoadArg pushes the value of argument i (1-based) onto the stack.
func (b *FunctionBuilder) LoadArg(i int32) {
	b.Emit(LoadBasePtr{}, Push{Value: float32(b.layout.ArgOffset(i))}, Add{}, Copy{})
}

// LoadLocal pushes the value of local k (1-based) onto the stack.
func (b *FunctionBuilder) LoadLocal(k int32) {
	b.Emit(LoadBasePtr{}, Push{Value: float32(b.layout.LocalOffset(k))}, Add{}, Copy{})
}

// StoreLocal pops the stack top into local k (1-based).
func (b *FunctionBuilder) StoreLocal(k int32) {
	b.Emit(LoadBasePtr{}, Push{Value: float32(b.layout.LocalOffset(k))}, Add{}, Mov{})
}

// Return moves the stack top into the return register. The frame teardown
// emitted by Build pops locals and arguments afterwards.
func (b *FunctionBuilder) Return() {
	b.Emit(SetReturnRegister{})
}

// Build wraps the emitted body with the frame prologue and epilogue.
func (b *FunctionBuilder) Build() Function {
	stmts := make([]Statement, 0, len(b.body)+int(b.localsSize)+2)
	stmts = append(stmts, EstablishStackFrame{})
	for i := int32(0); i < b.localsSize; i++ {
		stmts = append(stmts, Push{Value: 0})
	}
	stmts = append(stmts, b.body...)
	stmts = append(stmts, EndStackFrame{ArgSize: b.argSize, LocalsSize: b.localsSize})
	return NewFunction(b.name, stmts)
}
