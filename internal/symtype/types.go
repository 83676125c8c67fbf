// Package symtype defines Symphony's closed type enumeration and the
// semantic cube that decides the result type of a binary or unary operator
// applied to a pair of operand types.
//
// Grounded on the shape of github.com/cwbudde/go-dws/internal/types (a
// closed Type enum feeding a compatibility table consulted by the operator
// analyzer), adapted to Symphony's five user types plus the non-user ARRAY
// tag and its fixed, pre-computed cube rather than DWScript's open-ended
// class/interface type graph.
package symtype

// Type is one of Symphony's five user types, or the internal Array tag.
type Type int

const (
	INT Type = iota
	CHAR
	STR
	BOOL
	DEC

	// ARRAY is not a user-facing type; it tags a declared variable as a
	// one-dimensional array of some user Type and never appears as an
	// operand or result type in the cube.
	ARRAY
)

func (t Type) String() string {
	switch t {
	case INT:
		return "INT"
	case CHAR:
		return "CHAR"
	case STR:
		return "STR"
	case BOOL:
		return "BOOL"
	case DEC:
		return "DEC"
	case ARRAY:
		return "ARRAY"
	default:
		return "UNKNOWN"
	}
}

// Op is a binary or unary operator symbol as it appears in source and in
// quadruples.
type Op string

// Binary operators: arithmetic (+ - * / ** mod), relational (equals > < >=
// <=), and logical (and or).
const (
	OpAdd      Op = "+"
	OpSub      Op = "-"
	OpMul      Op = "*"
	OpDiv      Op = "/"
	OpExp      Op = "**"
	OpMod      Op = "mod"
	OpEquals   Op = "equals"
	OpGT       Op = ">"
	OpLT       Op = "<"
	OpGE       Op = ">="
	OpLE       Op = "<="
	OpAnd      Op = "and"
	OpOr       Op = "or"
)

// Unary operators. Increment/decrement update their operand in place;
// PLUS/MIN are the quadruple opcodes emitted for unary +/- so the VM can
// tell them apart from the binary operators of the same source spelling.
const (
	OpIncrement Op = "++"
	OpDecrement Op = "--"
	OpUnaryPlus Op = "+"
	OpUnaryMin  Op = "-"
	OpNot       Op = "not"
)

// UnaryQuadOp returns the opcode name a unary operator is emitted as in a
// quadruple, disambiguating +/- from their binary counterparts.
func UnaryQuadOp(op Op) string {
	switch op {
	case OpUnaryPlus:
		return "PLUS"
	case OpUnaryMin:
		return "MIN"
	default:
		return string(op)
	}
}

type cubeKey struct {
	left, right Type
	op          Op
}

// cube maps (left type, right type, operator) to a result Type. Absence of
// an entry means the combination is invalid.
var cube = map[cubeKey]Type{}

func bin(left, right Type, op Op, result Type) {
	cube[cubeKey{left, right, op}] = result
}

func init() {
	arith := []Op{OpAdd, OpSub, OpMul, OpExp, OpMod}
	compare := []Op{OpEquals, OpGT, OpLT, OpGE, OpLE}

	// INT x INT: arithmetic -> INT except '/' -> DEC; comparisons -> BOOL.
	for _, op := range arith {
		bin(INT, INT, op, INT)
	}
	bin(INT, INT, OpDiv, DEC)
	for _, op := range compare {
		bin(INT, INT, op, BOOL)
	}

	// INT x DEC, DEC x INT, DEC x DEC: arithmetic -> DEC; comparisons -> BOOL.
	decPairs := [][2]Type{{INT, DEC}, {DEC, INT}, {DEC, DEC}}
	decArith := []Op{OpAdd, OpSub, OpMul, OpDiv, OpExp, OpMod}
	for _, pair := range decPairs {
		for _, op := range decArith {
			bin(pair[0], pair[1], op, DEC)
		}
		for _, op := range compare {
			bin(pair[0], pair[1], op, BOOL)
		}
	}

	// STR x STR: '+' concatenates; comparisons -> BOOL.
	bin(STR, STR, OpAdd, STR)
	for _, op := range compare {
		bin(STR, STR, op, BOOL)
	}

	// CHAR x CHAR: '+' -> STR; comparisons -> BOOL.
	bin(CHAR, CHAR, OpAdd, STR)
	for _, op := range compare {
		bin(CHAR, CHAR, op, BOOL)
	}

	// STR x CHAR and CHAR x STR: '+' -> STR only.
	bin(STR, CHAR, OpAdd, STR)
	bin(CHAR, STR, OpAdd, STR)

	// BOOL x BOOL: and/or -> BOOL; comparisons -> BOOL.
	bin(BOOL, BOOL, OpAnd, BOOL)
	bin(BOOL, BOOL, OpOr, BOOL)
	for _, op := range compare {
		bin(BOOL, BOOL, op, BOOL)
	}
}

// Result looks up the cube, returning the result type and whether the
// combination is valid.
func Result(left, right Type, op Op) (Type, bool) {
	t, ok := cube[cubeKey{left, right, op}]
	return t, ok
}

type unaryKey struct {
	operand Type
	op      Op
}

var unary = map[unaryKey]Type{
	{INT, OpUnaryPlus}: INT, {INT, OpUnaryMin}: INT,
	{INT, OpIncrement}: INT, {INT, OpDecrement}: INT,
	{DEC, OpUnaryPlus}: DEC, {DEC, OpUnaryMin}: DEC,
	{DEC, OpIncrement}: DEC, {DEC, OpDecrement}: DEC,
	{BOOL, OpNot}: BOOL,
}

// UnaryResult looks up the unary table.
func UnaryResult(operand Type, op Op) (Type, bool) {
	t, ok := unary[unaryKey{operand, op}]
	return t, ok
}

// IsSelfUpdating reports whether a unary operator stores its result back
// into its own operand's address rather than allocating a new temporary.
func IsSelfUpdating(op Op) bool {
	return op == OpIncrement || op == OpDecrement
}
