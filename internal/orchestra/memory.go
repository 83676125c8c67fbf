package orchestra

import "github.com/jorgelmarquez94/symphony/internal/memmap"

// Memory is the flat address space every quadruple operand indexes into
// directly, sized to cover every sector memmap.Counters can ever hand out.
//
// A negative address is one level of indirection: the cell at its absolute
// value holds another address (the one ACCESS just computed for an array
// element), and that address is the real target. Load/Store resolve this
// the same way on both the read and write side, so quads never need to
// know whether an operand is a plain address or a pointer to one.
type Memory struct {
	cells []Value
}

func NewMemory() *Memory {
	return &Memory{cells: make([]Value, memmap.AddressSpaceEnd)}
}

func (m *Memory) resolve(addr int) int {
	if addr < 0 {
		return m.cells[-addr].Int()
	}
	return addr
}

func (m *Memory) Load(addr int) Value {
	return m.cells[m.resolve(addr)]
}

func (m *Memory) Store(addr int, v Value) {
	m.cells[m.resolve(addr)] = v
}

// LoadInt loads addr and returns its payload as a plain int, for operands
// the VM knows are INT-typed (array indices, bounds, computed addresses).
func (m *Memory) LoadInt(addr int) int {
	return m.Load(addr).Int()
}

// Slice returns the [low, high) span of cells directly, for GOSUB/ENDPROC
// activation-record snapshot and restore.
func (m *Memory) Slice(low, high int) []Value {
	return m.cells[low:high]
}

// SetSlice overwrites the [low, high) span with vals.
func (m *Memory) SetSlice(low, high int, vals []Value) {
	copy(m.cells[low:high], vals)
}

// SetAbsolute writes addr directly with no indirection resolution, for
// GOSUB copying a staged argument into a callee's parameter address.
func (m *Memory) SetAbsolute(addr int, v Value) {
	m.cells[addr] = v
}
