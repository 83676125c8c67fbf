package quadgen

import (
	"github.com/jorgelmarquez94/symphony/internal/cerrors"
	"github.com/jorgelmarquez94/symphony/internal/directory"
	"github.com/jorgelmarquez94/symphony/internal/lexer"
	"github.com/jorgelmarquez94/symphony/internal/memmap"
	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

type operand struct {
	addr int
	typ  symtype.Type
}

// pendingCall tracks an in-progress argument list, whether to a
// user-defined function or a special built-in.
type pendingCall struct {
	name    string
	special bool
	args    []operand
}

// Generator drives quadruple emission as the parser recognizes constructs.
// It owns the operand stack consumed by ApplyBinary/OperateUnary plus the
// control-flow and call bookkeeping needed for the rest of the grammar.
type Generator struct {
	dir      *directory.Directory
	counters *memmap.Counters

	quads     []Quad
	constants []Constant
	constIdx  map[string]int // "type|literal" -> Constants index

	operands []operand

	jumpStack   []int // pending GOTOF/GOTO indices awaiting a target patch
	whileStarts []int // quad index of each enclosing while's condition
	breakStack  [][]int // one pending-break slice per enclosing while

	calls []pendingCall

	returnJumps map[string][]int // function name -> GOTO indices to patch at ENDPROC

	functions []FunctionMeta
	funcIndex map[string]int // function name -> index into functions, reserved at BeginFunction
}

// New creates a Generator sharing counters with dir so addresses are
// assigned from one monotonic source across declarations and temporaries.
func New(dir *directory.Directory, counters *memmap.Counters) *Generator {
	g := &Generator{
		dir:         dir,
		counters:    counters,
		constIdx:    make(map[string]int),
		returnJumps: make(map[string][]int),
		funcIndex:   make(map[string]int),
	}
	// Quad 0 is reserved for the GOTO into main; patched by PatchMainGoto
	// once the main body's first quad index is known.
	g.quads = append(g.quads, Quad{Op: "GOTO", Arg1: NoAddr, Arg2: NoAddr, Res: NoAddr})
	return g
}

// Quads exposes the emitted instruction stream.
func (g *Generator) Quads() []Quad { return g.quads }

// NextQuad is the index the next emitted quadruple will occupy.
func (g *Generator) NextQuad() int { return len(g.quads) }

func (g *Generator) emit(op string, a1, a2, res int) int {
	g.quads = append(g.quads, Quad{Op: op, Arg1: a1, Arg2: a2, Res: res})
	return len(g.quads) - 1
}

// PatchMainGoto points quad 0 at the main body's entry point.
func (g *Generator) PatchMainGoto(mainStart int) {
	g.quads[0].Res = mainStart
}

// Program assembles the finished Program once compilation is complete.
func (g *Generator) Program() *Program {
	return &Program{Quads: g.quads, Constants: g.constants, Functions: g.functions}
}

// --- operands, constants ---------------------------------------------------

// PushVariable pushes a plain (non-array) variable's address and type.
func (g *Generator) PushVariable(v directory.Variable) {
	g.operands = append(g.operands, operand{addr: v.Address, typ: v.Type})
}

// PushPointer pushes a one-level-indirection address (e.g. a computed
// array element) by encoding it as a negative address.
func (g *Generator) PushPointer(addr int, typ symtype.Type) {
	g.operands = append(g.operands, operand{addr: -addr, typ: typ})
}

// PushConstant interns literal (by type and source spelling) into the
// constant pool, assigning it a fresh Constant-sector address the first
// time it is seen, and pushes it as an operand.
func (g *Generator) PushConstant(typ symtype.Type, literal string) int {
	key := typ.String() + "|" + literal
	if idx, ok := g.constIdx[key]; ok {
		addr := g.constants[idx].Address
		g.operands = append(g.operands, operand{addr: addr, typ: typ})
		return addr
	}
	addr := g.counters.Allocate(memmap.Constant, typ, 1)
	g.constIdx[key] = len(g.constants)
	g.constants = append(g.constants, Constant{Type: typ, Address: addr, Literal: literal})
	g.operands = append(g.operands, operand{addr: addr, typ: typ})
	return addr
}

func (g *Generator) popOperand() operand {
	n := len(g.operands)
	op := g.operands[n-1]
	g.operands = g.operands[:n-1]
	return op
}

func (g *Generator) pushResult(addr int, typ symtype.Type) {
	g.operands = append(g.operands, operand{addr: addr, typ: typ})
}

// Discard drops the top operand without using it, for a call or
// increment/decrement used as a standalone statement.
func (g *Generator) Discard() {
	if len(g.operands) > 0 {
		g.operands = g.operands[:len(g.operands)-1]
	}
}

// --- binary expressions ----------------------------------------------------

// ApplyBinary pops the two most recently pushed operands, looks up their
// result type in the semantic cube, emits one quadruple, and pushes the
// result. The recursive-descent parser calls this immediately after
// parsing each operator's right-hand operand, which is what gives chains
// of same-precedence operators their left-associativity: the first pair
// combines before the next operator is even read.
func (g *Generator) ApplyBinary(op symtype.Op, pos lexer.Position) error {
	right := g.popOperand()
	left := g.popOperand()

	resultType, ok := symtype.Result(left.typ, right.typ, op)
	if !ok {
		return cerrors.New(cerrors.TypeError, pos,
			"operator %q is not defined between %s and %s", op, left.typ, right.typ)
	}

	// left.addr/right.addr are emitted as-is: a negative value is a
	// pointer (one-level indirection through a computed array-element
	// address), and the VM dereferences it at read time.
	temp := g.counters.Allocate(memmap.Temporal, resultType, 1)
	g.emit(string(op), left.addr, right.addr, temp)
	g.pushResult(temp, resultType)
	return nil
}

// OperateUnary applies a unary operator to the top operand. Increment and
// decrement update the operand's own address in place; everything else
// allocates a fresh temporary.
func (g *Generator) OperateUnary(op symtype.Op, pos lexer.Position) error {
	operandVal := g.popOperand()
	resultType, ok := symtype.UnaryResult(operandVal.typ, op)
	if !ok {
		return cerrors.New(cerrors.TypeError, pos, "operator %q is not defined for %s", op, operandVal.typ)
	}

	addr := operandVal.addr

	if symtype.IsSelfUpdating(op) {
		g.emit(string(op), addr, NoAddr, addr)
		g.pushResult(addr, resultType)
		return nil
	}

	temp := g.counters.Allocate(memmap.Temporal, resultType, 1)
	g.emit(symtype.UnaryQuadOp(op), addr, NoAddr, temp)
	g.pushResult(temp, resultType)
	return nil
}

// --- arrays ------------------------------------------------------------

// ArrayElementAddress pops the already-pushed index operand, emits a
// bounds check (VER) and an address computation (ACCESS) against v, and
// pushes nothing; it returns the computed pointer address and v's element
// type so the caller can either read it (PushPointer) or assign through it.
func (g *Generator) ArrayElementAddress(v directory.Variable, pos lexer.Position) (int, symtype.Type, error) {
	index := g.popOperand()
	if index.typ != symtype.INT {
		return 0, 0, cerrors.New(cerrors.TypeError, pos, "array index must be INT, got %s", index.typ)
	}
	indexAddr := index.addr

	zeroAddr := g.PushConstant(symtype.INT, "0")
	g.popOperand() // PushConstant pushed it as an operand; consume it here
	sizeAddr := g.PushConstant(symtype.INT, itoa(v.Size))
	g.popOperand()

	g.emit("VER", indexAddr, zeroAddr, sizeAddr)
	ptr := g.counters.Allocate(memmap.Temporal, v.ElemType, 1)
	g.emit("ACCESS", v.Address, indexAddr, ptr)
	return ptr, v.ElemType, nil
}

// --- assignment ----------------------------------------------------------

// Assign pops the right-hand operand and stores it at targetAddr
// (negative for a one-level-indirection array-element target),
// validating that targetType accepts the right-hand operand's type.
func (g *Generator) Assign(targetAddr int, targetType symtype.Type, pos lexer.Position) error {
	rhs := g.popOperand()
	if !assignable(targetType, rhs.typ) {
		return cerrors.New(cerrors.TypeError, pos, "cannot assign %s to a %s variable", rhs.typ, targetType)
	}
	g.emit("=", rhs.addr, NoAddr, targetAddr)
	return nil
}

func assignable(target, source symtype.Type) bool {
	if target == source {
		return true
	}
	return target == symtype.DEC && source == symtype.INT
}

// --- control flow ----------------------------------------------------------

// BeginIf pops the just-parsed boolean condition and emits a GOTOF whose
// target is patched by EndIf or BeginElse.
func (g *Generator) BeginIf(pos lexer.Position) error {
	cond := g.popOperand()
	if cond.typ != symtype.BOOL {
		return cerrors.New(cerrors.TypeError, pos, "if condition must be BOOL, got %s", cond.typ)
	}
	idx := g.emit("GOTOF", cond.addr, NoAddr, NoAddr)
	g.jumpStack = append(g.jumpStack, idx)
	return nil
}

// BeginElse patches the if's GOTOF to land just past a new unconditional
// GOTO (emitted to skip the else branch when the if branch ran), and
// leaves that GOTO's index for EndIf to patch.
func (g *Generator) BeginElse() {
	gotofIdx := g.popJump()
	gotoIdx := g.emit("GOTO", NoAddr, NoAddr, NoAddr)
	g.quads[gotofIdx].Res = len(g.quads)
	g.jumpStack = append(g.jumpStack, gotoIdx)
}

// EndIf patches the pending GOTOF (or, if an else ran, the else-skip GOTO)
// to the current instruction.
func (g *Generator) EndIf() {
	idx := g.popJump()
	g.quads[idx].Res = len(g.quads)
}

func (g *Generator) popJump() int {
	n := len(g.jumpStack)
	idx := g.jumpStack[n-1]
	g.jumpStack = g.jumpStack[:n-1]
	return idx
}

// BeginWhile records the loop's condition entry point and opens a fresh
// pending-break list for Break/EndWhile.
func (g *Generator) BeginWhile() {
	g.whileStarts = append(g.whileStarts, len(g.quads))
	g.breakStack = append(g.breakStack, nil)
}

// WhileCondition pops the loop condition and emits the GOTOF that exits
// the loop, exactly like BeginIf.
func (g *Generator) WhileCondition(pos lexer.Position) error {
	return g.BeginIf(pos)
}

// EndWhile emits the back-edge GOTO to the loop's condition, patches the
// exit GOTOF and every break inside this loop to the instruction past the
// back-edge, and closes the loop's bookkeeping.
func (g *Generator) EndWhile() {
	start := g.whileStarts[len(g.whileStarts)-1]
	g.whileStarts = g.whileStarts[:len(g.whileStarts)-1]

	g.emit("GOTO", NoAddr, NoAddr, start)

	exitAt := len(g.quads)
	gotofIdx := g.popJump()
	g.quads[gotofIdx].Res = exitAt

	breaks := g.breakStack[len(g.breakStack)-1]
	g.breakStack = g.breakStack[:len(g.breakStack)-1]
	for _, idx := range breaks {
		g.quads[idx].Res = exitAt
	}
}

// Break emits an unpatched GOTO to be resolved when the innermost
// enclosing while ends; it fails outside any while.
func (g *Generator) Break(pos lexer.Position) error {
	if len(g.breakStack) == 0 {
		return cerrors.New(cerrors.Misplaced, pos, "break used outside of a while loop")
	}
	idx := g.emit("GOTO", NoAddr, NoAddr, NoAddr)
	top := len(g.breakStack) - 1
	g.breakStack[top] = append(g.breakStack[top], idx)
	return nil
}

// --- functions ---------------------------------------------------------

// BeginFunction registers name in the directory, opens its return-jump
// bookkeeping, and reserves its FunctionMeta slot so that a call emitted
// anywhere inside its own body — including a self-recursive call made
// before the function's first `return` statement — has a funcIdx and a
// return slot to target immediately, with no later fix-up pass needed.
func (g *Generator) BeginFunction(returnType symtype.Type, isVoid bool, name string, pos lexer.Position) error {
	if err := g.dir.DefineFunction(returnType, isVoid, name, len(g.quads), pos); err != nil {
		return err
	}
	fn := g.dir.Functions[name]
	if !isVoid {
		addr := g.counters.Allocate(memmap.Local, returnType, 1)
		fn.ReturnAddress = &addr
	}
	g.returnJumps[name] = nil
	g.funcIndex[name] = len(g.functions)
	g.functions = append(g.functions, FunctionMeta{Name: name, StartQuad: fn.StartingQuad, IsVoid: isVoid, ReturnType: returnType})
	return nil
}

// FuncIndex returns the FunctionMeta slot reserved for name by
// BeginFunction, which GOSUB-emitting calls target.
func (g *Generator) FuncIndex(name string) (int, bool) {
	idx, ok := g.funcIndex[name]
	return idx, ok
}

// Return assigns the top operand into the current function's return slot
// and emits an unpatched GOTO to the function's ENDPROC, resolved by
// EndFunction.
func (g *Generator) Return(pos lexer.Position) error {
	fn := g.dir.Functions[g.dir.CurrentScope]
	if fn.IsVoid {
		return cerrors.New(cerrors.Misplaced, pos, "function %q is VOID and cannot return a value", fn.Name)
	}
	if err := g.Assign(*fn.ReturnAddress, fn.ReturnType, pos); err != nil {
		return err
	}
	idx := g.emit("GOTO", NoAddr, NoAddr, NoAddr)
	g.returnJumps[fn.Name] = append(g.returnJumps[fn.Name], idx)
	return nil
}

// EndFunction patches every pending return jump to the ENDPROC about to be
// emitted, validates that a non-VOID function actually returned at least
// once (ReturnAddress is reserved eagerly at BeginFunction regardless of
// whether a return statement runs, so this is checked against returnJumps,
// not against ReturnAddress's nilness), emits ENDPROC, finalizes the
// function's FunctionMeta (now that parameters are known), and resets
// scope to GLOBAL.
func (g *Generator) EndFunction(pos lexer.Position) error {
	fn := g.dir.Functions[g.dir.CurrentScope]
	jumps := g.returnJumps[fn.Name]
	if !fn.IsVoid && len(jumps) == 0 {
		return cerrors.New(cerrors.Misplaced, pos,
			"function %q must return a(n) %s but never does", fn.Name, fn.ReturnType)
	}

	endprocAt := len(g.quads)
	for _, idx := range jumps {
		g.quads[idx].Res = endprocAt
	}
	delete(g.returnJumps, fn.Name)

	if err := g.dir.EndDefinition(pos); err != nil {
		return err
	}
	funcIdx := g.funcIndex[fn.Name]
	g.emit("ENDPROC", NoAddr, NoAddr, funcIdx)

	meta := &g.functions[funcIdx]
	meta.ParameterAddresses = append([]int(nil), fn.ParameterAddresses...)
	meta.ParameterTypes = append([]symtype.Type(nil), fn.ParameterTypes...)
	if fn.ReturnAddress != nil {
		meta.ReturnAddress = *fn.ReturnAddress
	}
	meta.LocalLow, meta.LocalHigh = localSpan(fn)
	return nil
}

// localSpan computes the [low, high) range of Local-sector addresses a
// function's own parameters, plain locals, and hidden return slot occupy.
func localSpan(fn *directory.FunctionRecord) (int, int) {
	low, high := -1, -1
	grow := func(addr, size int) {
		if size < 1 {
			size = 1
		}
		if low == -1 || addr < low {
			low = addr
		}
		if end := addr + size; high == -1 || end > high {
			high = end
		}
	}
	for _, v := range fn.Variables {
		size := 1
		if v.IsArray() {
			size = v.Size
		}
		grow(v.Address, size)
	}
	if fn.ReturnAddress != nil {
		grow(*fn.ReturnAddress, 1)
	}
	if low == -1 {
		return 0, 0
	}
	return low, high
}

// --- calls ---------------------------------------------------------------

// BeginCall opens a new argument list for a call to name, which must
// already be a known function or special identifier.
func (g *Generator) BeginCall(name string, special bool) {
	g.calls = append(g.calls, pendingCall{name: name, special: special})
}

// Arg pops the top operand and appends it to the innermost open call's
// argument list.
func (g *Generator) Arg() {
	op := g.popOperand()
	top := len(g.calls) - 1
	g.calls[top].args = append(g.calls[top].args, op)
}

// EndUserCall validates arity/types against fn's signature, emits one
// PARAM quad per argument followed by GOSUB, and, for a non-VOID
// function, pushes a fresh Local-sector result holder with the copied
// return value. The holder is recorded among the caller's variables, so it
// falls inside the caller's saved span and survives a later recursive call
// in the same expression.
func (g *Generator) EndUserCall(fn *directory.FunctionRecord, funcIdx int, pos lexer.Position) error {
	call := g.popCall()
	if len(call.args) != len(fn.ParameterTypes) {
		return cerrors.New(cerrors.Arity, pos, "%q expects %d argument(s), got %d", fn.Name, len(fn.ParameterTypes), len(call.args))
	}
	for i, a := range call.args {
		if !assignable(fn.ParameterTypes[i], a.typ) {
			return cerrors.New(cerrors.TypeError, pos, "argument %d of %q must be %s, got %s", i+1, fn.Name, fn.ParameterTypes[i], a.typ)
		}
		g.emit("PARAM", a.addr, NoAddr, i)
	}
	g.emit("GOSUB", NoAddr, NoAddr, funcIdx)

	if !fn.IsVoid {
		holder := g.counters.Allocate(memmap.Local, fn.ReturnType, 1)
		caller := g.dir.Functions[g.dir.CurrentScope]
		caller.Variables["$call"+itoa(holder)] = directory.Variable{Type: fn.ReturnType, Address: holder}
		g.emit("=", *fn.ReturnAddress, NoAddr, holder)
		g.pushResult(holder, fn.ReturnType)
	}
	return nil
}

// EndSpecialCall validates and emits a call to a built-in, per Signatures.
func (g *Generator) EndSpecialCall(pos lexer.Position) error {
	call := g.popCall()
	sig, ok := Signatures[call.name]
	if !ok {
		return cerrors.New(cerrors.Undeclared, pos, "unknown special function %q", call.name)
	}
	if len(call.args) != len(sig.ParamTypes) {
		return cerrors.New(cerrors.Arity, pos, "%q expects %d argument(s), got %d", call.name, len(sig.ParamTypes), len(call.args))
	}
	var a1, a2 int = NoAddr, NoAddr
	for i, a := range call.args {
		want := sig.ParamTypes[i]
		if want != anyType && !assignable(want, a.typ) {
			return cerrors.New(cerrors.TypeError, pos, "argument %d of %q must be %s, got %s", i+1, call.name, want, a.typ)
		}
		if i == 0 {
			a1 = a.addr
		} else {
			a2 = a.addr
		}
	}
	result := NoAddr
	if !sig.IsVoid {
		result = g.counters.Allocate(memmap.Temporal, sig.ReturnType, 1)
	}
	g.emit(specialOpcode(call.name), a1, a2, result)
	if !sig.IsVoid {
		g.pushResult(result, sig.ReturnType)
	}
	return nil
}

func (g *Generator) popCall() pendingCall {
	n := len(g.calls)
	c := g.calls[n-1]
	g.calls = g.calls[:n-1]
	return c
}

func specialOpcode(name string) string {
	for _, n := range noteNames {
		if n == name {
			return "PLAY_NOTE_" + name
		}
	}
	switch name {
	case "print":
		return "PRINT"
	case "println":
		return "PRINTLN"
	case "read", "input":
		return "INPUT"
	case "sqrt":
		return "SQRT"
	case "log":
		return "LOG"
	case "floor":
		return "FLOOR"
	case "ceil":
		return "CEIL"
	case "random":
		return "RANDOM"
	case "length":
		return "LENGTH"
	case "to_str":
		return "TO_STR"
	case "copy":
		return "COPY"
	case "get":
		return "GET"
	default:
		return name
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
