package orchestra

import "testing"

func TestValueFormat(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"bool true", BoolValue(true), "true"},
		{"bool false", BoolValue(false), "false"},
		{"int", IntValue(42), "42"},
		{"dec", DecValue(3.5), "3.5"},
		{"char", CharValue('Q'), "Q"},
		{"str", StrValue("hi"), "hi"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Format(); got != c.want {
				t.Errorf("Format() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestValueAccessorsIgnoreMismatchedType(t *testing.T) {
	v := StrValue("x")
	if v.Int() != 0 {
		t.Errorf("Int() on a STR value = %d, want 0", v.Int())
	}
	if v.Bool() != false {
		t.Errorf("Bool() on a STR value = %v, want false", v.Bool())
	}
}

func TestValueDecPromotesFromInt(t *testing.T) {
	v := IntValue(7)
	if got := v.Dec(); got != 7.0 {
		t.Errorf("Dec() on an INT value = %v, want 7.0", got)
	}
}
