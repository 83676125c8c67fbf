package orchestra

import (
	"math"

	"github.com/jorgelmarquez94/symphony/internal/cerrors"
	"github.com/jorgelmarquez94/symphony/internal/quadgen"
	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "**": true, "mod": true,
	"equals": true, ">": true, "<": true, ">=": true, "<=": true,
	"and": true, "or": true,
}

var unaryOps = map[string]bool{
	"PLUS": true, "MIN": true, "not": true, "++": true, "--": true,
}

func isBinaryOp(op string) bool { return binaryOps[op] }
func isUnaryOp(op string) bool  { return unaryOps[op] }

// execBinary evaluates a two-operand arithmetic/comparison/logic quad and
// stores the result. Operand type compatibility was already validated
// against the semantic cube at compile time; this only picks the Go
// operation that matches the runtime values' own types (an INT left
// operand next to a DEC right operand promotes to float64 arithmetic).
func (vm *VM) execBinary(q quadgen.Quad) error {
	left := vm.mem.Load(q.Arg1)
	right := vm.mem.Load(q.Arg2)

	isDec := left.Type == symtype.DEC || right.Type == symtype.DEC
	isStrLike := left.Type == symtype.STR || left.Type == symtype.CHAR ||
		right.Type == symtype.STR || right.Type == symtype.CHAR

	switch q.Op {
	case "+":
		if isStrLike {
			vm.mem.Store(q.Res, StrValue(asString(left)+asString(right)))
			return nil
		}
		if isDec {
			vm.mem.Store(q.Res, DecValue(left.Dec()+right.Dec()))
			return nil
		}
		vm.mem.Store(q.Res, IntValue(left.Int()+right.Int()))
		return nil
	case "-":
		if isDec {
			vm.mem.Store(q.Res, DecValue(left.Dec()-right.Dec()))
			return nil
		}
		vm.mem.Store(q.Res, IntValue(left.Int()-right.Int()))
		return nil
	case "*":
		if isDec {
			vm.mem.Store(q.Res, DecValue(left.Dec()*right.Dec()))
			return nil
		}
		vm.mem.Store(q.Res, IntValue(left.Int()*right.Int()))
		return nil
	case "/":
		// INT / INT promotes to DEC per the semantic cube, so this is
		// always float division.
		if right.Dec() == 0 {
			return cerrors.NewRuntime(cerrors.DivisionByZero, "division by zero")
		}
		vm.mem.Store(q.Res, DecValue(left.Dec()/right.Dec()))
		return nil
	case "**":
		if isDec {
			vm.mem.Store(q.Res, DecValue(math.Pow(left.Dec(), right.Dec())))
			return nil
		}
		vm.mem.Store(q.Res, IntValue(int(math.Pow(float64(left.Int()), float64(right.Int())))))
		return nil
	case "mod":
		if isDec {
			if right.Dec() == 0 {
				return cerrors.NewRuntime(cerrors.DivisionByZero, "division by zero")
			}
			vm.mem.Store(q.Res, DecValue(math.Mod(left.Dec(), right.Dec())))
			return nil
		}
		if right.Int() == 0 {
			return cerrors.NewRuntime(cerrors.DivisionByZero, "division by zero")
		}
		vm.mem.Store(q.Res, IntValue(left.Int()%right.Int()))
		return nil
	case "equals":
		vm.mem.Store(q.Res, BoolValue(valuesEqual(left, right)))
		return nil
	case ">":
		vm.mem.Store(q.Res, BoolValue(compare(left, right, isDec, isStrLike) > 0))
		return nil
	case "<":
		vm.mem.Store(q.Res, BoolValue(compare(left, right, isDec, isStrLike) < 0))
		return nil
	case ">=":
		vm.mem.Store(q.Res, BoolValue(compare(left, right, isDec, isStrLike) >= 0))
		return nil
	case "<=":
		vm.mem.Store(q.Res, BoolValue(compare(left, right, isDec, isStrLike) <= 0))
		return nil
	case "and":
		vm.mem.Store(q.Res, BoolValue(left.Bool() && right.Bool()))
		return nil
	case "or":
		vm.mem.Store(q.Res, BoolValue(left.Bool() || right.Bool()))
		return nil
	}
	return cerrors.NewRuntime(cerrors.NotImplemented, "unknown binary opcode %q", q.Op)
}

func asString(v Value) string {
	if v.Type == symtype.CHAR {
		return string(v.Char())
	}
	return v.Str()
}

func valuesEqual(left, right Value) bool {
	switch {
	case left.Type == symtype.DEC || right.Type == symtype.DEC:
		return left.Dec() == right.Dec()
	case left.Type == symtype.STR || left.Type == symtype.CHAR:
		return asString(left) == asString(right)
	case left.Type == symtype.BOOL:
		return left.Bool() == right.Bool()
	default:
		return left.Int() == right.Int()
	}
}

func compare(left, right Value, isDec, isStrLike bool) int {
	switch {
	case isStrLike:
		a, b := asString(left), asString(right)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	case isDec:
		a, b := left.Dec(), right.Dec()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	default:
		return left.Int() - right.Int()
	}
}

// execUnary evaluates a single-operand quad. Increment/decrement store
// back into their own operand address (Arg1 == Res, emitted that way by
// the generator); everything else stores into a fresh temporary.
func (vm *VM) execUnary(q quadgen.Quad) error {
	v := vm.mem.Load(q.Arg1)
	switch q.Op {
	case "PLUS":
		vm.mem.Store(q.Res, v)
		return nil
	case "MIN":
		if v.Type == symtype.DEC {
			vm.mem.Store(q.Res, DecValue(-v.Dec()))
		} else {
			vm.mem.Store(q.Res, IntValue(-v.Int()))
		}
		return nil
	case "not":
		vm.mem.Store(q.Res, BoolValue(!v.Bool()))
		return nil
	case "++":
		if v.Type == symtype.DEC {
			vm.mem.Store(q.Res, DecValue(v.Dec()+1))
		} else {
			vm.mem.Store(q.Res, IntValue(v.Int()+1))
		}
		return nil
	case "--":
		if v.Type == symtype.DEC {
			vm.mem.Store(q.Res, DecValue(v.Dec()-1))
		} else {
			vm.mem.Store(q.Res, IntValue(v.Int()-1))
		}
		return nil
	}
	return cerrors.NewRuntime(cerrors.NotImplemented, "unknown unary opcode %q", q.Op)
}
