package quadgen

import (
	"fmt"
	"strings"
)

// Dump renders the program's quadruples as a numbered textual listing,
// grounded on go-dws/internal/bytecode/disasm.go's one-instruction-per-line
// disassembly format.
func (p *Program) Dump() string {
	var sb strings.Builder
	for i, q := range p.Quads {
		fmt.Fprintf(&sb, "%4d  %-10s %8s %8s %8s\n", i, q.Op, formatOperand(q.Arg1), formatOperand(q.Arg2), formatOperand(q.Res))
	}
	return sb.String()
}

func formatOperand(addr int) string {
	if addr == NoAddr {
		return "-"
	}
	if addr < 0 {
		return fmt.Sprintf("&%d", -addr)
	}
	return fmt.Sprintf("%d", addr)
}
