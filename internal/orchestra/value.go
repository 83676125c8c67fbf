package orchestra

import (
	"strconv"

	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

// Value is a single memory cell's tagged payload. Grounded on
// github.com/cwbudde/go-dws/internal/bytecode's Value{Data any; Type
// ValueType} shape, narrowed to Symphony's five user types plus the raw
// int addresses ACCESS computes for array elements (tagged INT regardless
// of the array's element type — only the compiler's bookkeeping cares
// about element type, not the runtime cell).
type Value struct {
	Type symtype.Type
	Data any
}

func IntValue(n int) Value      { return Value{symtype.INT, n} }
func DecValue(f float64) Value  { return Value{symtype.DEC, f} }
func CharValue(r rune) Value    { return Value{symtype.CHAR, r} }
func StrValue(s string) Value   { return Value{symtype.STR, s} }
func BoolValue(b bool) Value    { return Value{symtype.BOOL, b} }

func (v Value) Int() int {
	if n, ok := v.Data.(int); ok {
		return n
	}
	return 0
}

func (v Value) Dec() float64 {
	switch n := v.Data.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (v Value) Char() rune {
	if r, ok := v.Data.(rune); ok {
		return r
	}
	return 0
}

func (v Value) Str() string {
	if s, ok := v.Data.(string); ok {
		return s
	}
	return ""
}

func (v Value) Bool() bool {
	if b, ok := v.Data.(bool); ok {
		return b
	}
	return false
}

// Format renders v the way print/println display any user type: booleans
// as lowercase true/false, everything else via its natural conversion.
func (v Value) Format() string {
	switch v.Type {
	case symtype.BOOL:
		if v.Bool() {
			return "true"
		}
		return "false"
	case symtype.INT:
		return strconv.Itoa(v.Int())
	case symtype.DEC:
		return strconv.FormatFloat(v.Dec(), 'g', -1, 64)
	case symtype.CHAR:
		return string(v.Char())
	case symtype.STR:
		return v.Str()
	default:
		return ""
	}
}
