// Package memmap implements Symphony's fixed address-space partitioning
// (spec.md §3): a single 32-bit address space split into four sectors,
// each further divided into five equal sub-ranges, one per user type in
// enum order. An address alone reveals which sector and type it belongs
// to, which is what lets the VM resolve operands without a side table.
package memmap

import "github.com/jorgelmarquez94/symphony/internal/symtype"

// Sector identifies one of the four address-space partitions.
type Sector int

const (
	Global Sector = iota
	Temporal
	Constant
	Local
)

func (s Sector) String() string {
	switch s {
	case Global:
		return "global_"
	case Temporal:
		return "temporal"
	case Constant:
		return "constant"
	case Local:
		return "local"
	default:
		return "unknown"
	}
}

// sectorBounds gives the [start, end) address range of each sector, per
// spec.md §3's table.
var sectorBounds = map[Sector][2]int{
	Global:   {10_000, 130_000},
	Temporal: {130_000, 200_000},
	Constant: {200_000, 250_000},
	Local:    {250_000, 350_000},
}

// AddressSpaceEnd is one past the highest address any sector can ever
// assign; a flat memory image sized to this can be indexed directly by any
// address this package allocates.
const AddressSpaceEnd = 350_000

// sectorOrder lists sectors from lowest to highest starting address, used
// to resolve an address to its owning sector.
var sectorOrder = []Sector{Global, Temporal, Constant, Local}

// userTypes lists the five user types in the fixed enum order that
// determines their position within a sector's five sub-ranges.
var userTypes = []symtype.Type{symtype.INT, symtype.CHAR, symtype.STR, symtype.BOOL, symtype.DEC}

// TypeStart returns the starting address of sector/typ's sub-range.
func TypeStart(sector Sector, typ symtype.Type) int {
	bounds := sectorBounds[sector]
	size := bounds[1] - bounds[0]
	typeSize := size / len(userTypes)
	for i, t := range userTypes {
		if t == typ {
			return bounds[0] + i*typeSize
		}
	}
	panic("memmap: not a user type: " + typ.String())
}

// TypeSize returns the number of addresses reserved for a single sector's
// sub-range of one user type.
func TypeSize(sector Sector) int {
	bounds := sectorBounds[sector]
	return (bounds[1] - bounds[0]) / len(userTypes)
}

// Resolve returns the sector and type that own addr. It reports ok=false
// if addr falls outside every declared sub-range (should not happen for
// addresses this module itself allocated).
func Resolve(addr int) (sector Sector, typ symtype.Type, ok bool) {
	for i := len(sectorOrder) - 1; i >= 0; i-- {
		s := sectorOrder[i]
		bounds := sectorBounds[s]
		if addr >= bounds[0] && addr < bounds[1] {
			typeSize := TypeSize(s)
			offset := addr - bounds[0]
			idx := offset / typeSize
			if idx >= len(userTypes) {
				return 0, 0, false
			}
			return s, userTypes[idx], true
		}
	}
	return 0, 0, false
}

// Counters tracks the next free address for every (sector, type) pair
// during compilation. Array declarations advance the relevant counter by
// the array's element count instead of by one.
type Counters struct {
	next map[Sector]map[symtype.Type]int
}

// NewCounters creates a Counters with every sub-range's cursor parked at
// its sector's starting address for that type.
func NewCounters() *Counters {
	c := &Counters{next: make(map[Sector]map[symtype.Type]int)}
	for _, s := range sectorOrder {
		c.next[s] = make(map[symtype.Type]int)
		for _, t := range userTypes {
			c.next[s][t] = TypeStart(s, t)
		}
	}
	return c
}

// Allocate reserves `count` consecutive addresses (1 for a scalar, the
// array size for an array declaration) in sector/typ and returns the first
// one.
func (c *Counters) Allocate(sector Sector, typ symtype.Type, count int) int {
	if count < 1 {
		count = 1
	}
	addr := c.next[sector][typ]
	c.next[sector][typ] = addr + count
	return addr
}
