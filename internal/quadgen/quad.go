// Package quadgen generates Symphony's intermediate representation: a flat
// list of four-address quadruples plus the supporting constant pool and
// function table that the parser builds in a single pass (spec.md §4.4) and
// that internal/orchestra later executes directly, with no separate AST.
//
// Grounded structurally on the incremental-emission style of
// github.com/cwbudde/go-dws/internal/bytecode's compiler (one emit call per
// construct, a flat instruction slice, backpatched jump targets), and in its
// exact semantics on original_source/ProjectSimphony/Symphony/symphony_parser.py's
// QuadrupleGenerator class.
package quadgen

import "github.com/jorgelmarquez94/symphony/internal/symtype"

// NoAddr marks an unused quadruple operand. Real addresses start at 10000
// (spec.md §3), so -1 can never collide with one.
const NoAddr = -1

// Quad is one four-address instruction. A negative Arg1/Arg2/Res other than
// NoAddr is a pointer: the VM must read the address stored at that
// location and use it, rather than using the location directly. This is
// the one-level indirection computed array-element addresses need.
type Quad struct {
	Op   string
	Arg1 int
	Arg2 int
	Res  int
}

// Constant is one entry in the constant pool: a literal's parsed value,
// addressable like any variable.
type Constant struct {
	Type    symtype.Type
	Address int
	Literal string
}

// FunctionMeta is the runtime-facing summary of one compiled function,
// enough for internal/orchestra to set up and tear down its activation
// record without consulting the compile-time Directory.
type FunctionMeta struct {
	Name               string
	StartQuad          int
	ReturnAddress      int // valid only when !IsVoid
	IsVoid             bool
	ReturnType         symtype.Type
	ParameterAddresses []int
	ParameterTypes     []symtype.Type

	// LocalLow/LocalHigh bound this function's own slice of the Local
	// sector (parameters, plain locals, call-result holders, and the hidden
	// return slot): from the lowest of those addresses to one past the
	// highest. The VM snapshots and restores this span around a call — not
	// the whole Local sector — so an outer activation of the same function
	// gets its locals back after a recursive call. Local addresses are
	// handed out per type, so the spans of functions that use several types
	// can overlap.
	LocalLow, LocalHigh int
}

// Program is the complete output of compilation: everything
// internal/orchestra needs to run the source program.
type Program struct {
	Quads     []Quad
	Constants []Constant
	Functions []FunctionMeta
}
