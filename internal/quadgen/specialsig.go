package quadgen

import "github.com/jorgelmarquez94/symphony/internal/symtype"

// anyType marks a parameter position that accepts any user type.
const anyType = symtype.Type(-1)

// Signature describes one special (built-in) function's fixed arity,
// parameter types, and return behavior. Grounded on the original's
// SPECIAL_SIGNATURES dict; Symphony's built-ins never exceed two
// parameters, which is why a Quad's two operand slots are enough to carry
// a call without a PARAM sequence.
type Signature struct {
	ParamTypes []symtype.Type
	// ParamIsAddress marks a parameter that receives the operand's address
	// rather than its value; the parser enforces that such a parameter was
	// passed as a bare variable reference, not a computed expression.
	ParamIsAddress []bool
	ReturnType     symtype.Type
	IsVoid         bool
}

// noteNames are the special single-pitch note functions (A through G) plus
// little_star, which plays a fixed multi-note phrase; all share the same
// zero-argument, VOID signature.
var noteNames = []string{"A", "B", "C", "D", "E", "F", "G", "little_star"}

// Signatures is keyed by the special identifier's source spelling. Per
// spec.md §9, to_str is listed once with return type STR (the source's
// duplicate SPECIAL_SIGNATURES entry is resolved in favor of the second).
var Signatures = map[string]Signature{
	// print/println accept any user type and format it per §4.5 (booleans
	// as lowercase true/false, everything else via native conversion).
	"print":   {ParamTypes: []symtype.Type{anyType}, IsVoid: true},
	"println": {ParamTypes: []symtype.Type{anyType}, IsVoid: true},
	"read":    {ReturnType: symtype.STR},
	"input":   {ReturnType: symtype.STR},

	"sqrt":   {ParamTypes: []symtype.Type{symtype.DEC}, ReturnType: symtype.DEC},
	"log":    {ParamTypes: []symtype.Type{symtype.DEC}, ReturnType: symtype.DEC},
	"floor":  {ParamTypes: []symtype.Type{symtype.DEC}, ReturnType: symtype.INT},
	"ceil":   {ParamTypes: []symtype.Type{symtype.DEC}, ReturnType: symtype.INT},
	"random": {ReturnType: symtype.DEC},

	"length": {ParamTypes: []symtype.Type{symtype.STR}, ReturnType: symtype.INT},
	"to_str": {ParamTypes: []symtype.Type{anyType}, ReturnType: symtype.STR},
	"concat": {ParamTypes: []symtype.Type{symtype.STR, symtype.STR}, ReturnType: symtype.STR},

	// get(string, index): the string is the quad's first operand and the
	// index its second; string[index] goes into the result address.
	"get": {ParamTypes: []symtype.Type{symtype.STR, symtype.INT}, ReturnType: symtype.CHAR},

	// copy(dst, src): dst must be a bare variable reference (address-of);
	// both operands are STR, per the original's SPECIAL_SIGNATURES entry.
	"copy": {
		ParamTypes:     []symtype.Type{symtype.STR, symtype.STR},
		ParamIsAddress: []bool{true, false},
		IsVoid:         true,
	},
}

func init() {
	for _, name := range noteNames {
		Signatures[name] = Signature{IsVoid: true}
	}
}

// IsSpecial reports whether name is a recognized special identifier.
func IsSpecial(name string) bool {
	_, ok := Signatures[name]
	return ok
}
