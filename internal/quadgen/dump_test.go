package quadgen

import (
	"strings"
	"testing"
)

func TestDumpShowsPointerPrefixAndNoAddrDash(t *testing.T) {
	p := &Program{Quads: []Quad{
		{Op: "=", Arg1: -130000, Arg2: NoAddr, Res: 250000},
	}}
	out := p.Dump()
	if !strings.Contains(out, "&130000") {
		t.Errorf("Dump() = %q, want it to show a pointer operand as &130000", out)
	}
	if !strings.Contains(out, "-") {
		t.Errorf("Dump() = %q, want it to show NoAddr as a dash", out)
	}
	if !strings.Contains(out, "250000") {
		t.Errorf("Dump() = %q, want it to show the result address", out)
	}
}
