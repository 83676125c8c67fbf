// Package orchestra is Symphony's virtual machine: it executes the flat
// quadruple stream internal/quadgen produces directly against a sectored
// memory image, with no further compilation step.
//
// Grounded structurally on github.com/cwbudde/go-dws/internal/bytecode's
// VM (a frame stack, a fetch-decode-execute loop switching on an
// instruction's opcode, builtins dispatched by name), reshaped from a
// stack machine with per-call locals slices to Symphony's fixed flat
// address space, where recursion safety comes from saving and restoring a
// callee's own Local-sector span around each call instead of allocating a
// fresh locals slice per frame.
package orchestra

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/jorgelmarquez94/symphony/internal/cerrors"
	"github.com/jorgelmarquez94/symphony/internal/quadgen"
	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

// frame is one pending call's activation record: where to resume the
// caller, and the callee's own Local-sector span as it stood just before
// the call (so ENDPROC can put it back).
type frame struct {
	returnPC int
	funcIdx  int
	low      int
	saved    []Value
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithStdin supplies the lines read() and input() consume, in order.
func WithStdin(lines []string) Option {
	return func(vm *VM) { vm.stdin = lines }
}

// WithSeed fixes the RNG random() draws from, for reproducible runs.
func WithSeed(seed int64) Option {
	return func(vm *VM) { vm.rng = rand.New(rand.NewSource(seed)) }
}

// VM executes one compiled Program to completion.
type VM struct {
	quads     []quadgen.Quad
	functions []quadgen.FunctionMeta
	mem       *Memory

	pc          int
	frames      []frame
	pendingArgs []Value

	prints []string
	notes  []string

	stdin    []string
	stdinPos int

	rng *rand.Rand
}

// New builds a VM over program, loading its constant pool into memory.
func New(program *quadgen.Program, opts ...Option) *VM {
	vm := &VM{
		quads:     program.Quads,
		functions: program.Functions,
		mem:       NewMemory(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(vm)
	}
	for _, c := range program.Constants {
		vm.mem.SetAbsolute(c.Address, parseLiteral(c.Type, c.Literal))
	}
	return vm
}

func parseLiteral(typ symtype.Type, literal string) Value {
	switch typ {
	case symtype.INT:
		n, _ := strconv.Atoi(literal)
		return IntValue(n)
	case symtype.DEC:
		f, _ := strconv.ParseFloat(literal, 64)
		return DecValue(f)
	case symtype.CHAR:
		r := rune(0)
		for _, ch := range literal {
			r = ch
			break
		}
		return CharValue(r)
	case symtype.BOOL:
		return BoolValue(literal == "true")
	default:
		return StrValue(literal)
	}
}

// Result is everything a finished run produced.
type Result struct {
	Prints []string
	Notes  []string
}

// Run executes the program to completion, returning every value printed
// (one entry per PRINT/PRINTLN) and every note played, in order.
func (vm *VM) Run() (Result, error) {
	for vm.pc < len(vm.quads) {
		q := vm.quads[vm.pc]
		jumped, err := vm.step(q)
		if err != nil {
			return Result{}, err
		}
		if !jumped {
			vm.pc++
		}
	}
	if vm.stdinPos < len(vm.stdin) {
		return Result{}, cerrors.NewRuntime(cerrors.Arity,
			"program finished without consuming %d supplied input line(s)", len(vm.stdin)-vm.stdinPos)
	}
	return Result{Prints: vm.prints, Notes: vm.notes}, nil
}

// step executes one quadruple. jumped reports whether it already set pc
// itself (a jump or call), so Run should not also advance it.
func (vm *VM) step(q quadgen.Quad) (jumped bool, err error) {
	switch q.Op {
	case "GOTO":
		vm.pc = q.Res
		return true, nil
	case "GOTOF":
		if !vm.mem.Load(q.Arg1).Bool() {
			vm.pc = q.Res
			return true, nil
		}
		return false, nil
	case "=":
		vm.mem.Store(q.Res, vm.mem.Load(q.Arg1))
		return false, nil
	case "VER":
		return false, vm.execVer(q)
	case "ACCESS":
		idx := vm.mem.LoadInt(q.Arg2)
		vm.mem.Store(q.Res, IntValue(q.Arg1+idx))
		return false, nil
	case "PARAM":
		idx := q.Res
		for len(vm.pendingArgs) <= idx {
			vm.pendingArgs = append(vm.pendingArgs, Value{})
		}
		vm.pendingArgs[idx] = vm.mem.Load(q.Arg1)
		return false, nil
	case "GOSUB":
		vm.execGosub(q.Res)
		return true, nil
	case "ENDPROC":
		vm.execEndproc(q.Res)
		return true, nil
	}

	if isUnaryOp(q.Op) {
		return false, vm.execUnary(q)
	}
	if isBinaryOp(q.Op) {
		return false, vm.execBinary(q)
	}
	return false, vm.execSpecial(q)
}

func (vm *VM) execVer(q quadgen.Quad) error {
	idx := vm.mem.LoadInt(q.Arg1)
	lo := vm.mem.LoadInt(q.Arg2)
	hi := vm.mem.LoadInt(q.Res)
	if idx < lo || idx >= hi {
		return cerrors.NewRuntime(cerrors.Index, "array index %d is out of bounds [%d, %d)", idx, lo, hi)
	}
	return nil
}

func (vm *VM) execGosub(funcIdx int) {
	meta := vm.functions[funcIdx]
	saved := append([]Value(nil), vm.mem.Slice(meta.LocalLow, meta.LocalHigh)...)
	for i, addr := range meta.ParameterAddresses {
		if i < len(vm.pendingArgs) {
			vm.mem.SetAbsolute(addr, vm.pendingArgs[i])
		}
	}
	vm.pendingArgs = vm.pendingArgs[:0]
	vm.frames = append(vm.frames, frame{
		returnPC: vm.pc + 1,
		funcIdx:  funcIdx,
		low:      meta.LocalLow,
		saved:    saved,
	})
	vm.pc = meta.StartQuad
}

func (vm *VM) execEndproc(funcIdx int) {
	meta := vm.functions[funcIdx]
	top := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	for i, v := range top.saved {
		addr := top.low + i
		if !meta.IsVoid && addr == meta.ReturnAddress {
			continue // the value just computed by return; do not clobber it
		}
		vm.mem.SetAbsolute(addr, v)
	}
	vm.pc = top.returnPC
}
