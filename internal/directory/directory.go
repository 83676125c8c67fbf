// Package directory implements Symphony's symbol directory (spec.md §4.2):
// per-function scopes, parameter/variable declarations, function
// signatures, and the current-scope cursor the parser drives as it enters
// and leaves function bodies.
//
// Grounded on the shape of
// github.com/cwbudde/go-dws/internal/semantic/symbol_table.go (a
// map-backed symbol table with Define/Resolve), reshaped to Symphony's
// flat two-level model: one GLOBAL scope plus at most one active function
// scope, with addresses rather than pure compile-time types as the payload,
// since Symphony has no nested lexical scoping.
package directory

import (
	"github.com/jorgelmarquez94/symphony/internal/cerrors"
	"github.com/jorgelmarquez94/symphony/internal/lexer"
	"github.com/jorgelmarquez94/symphony/internal/memmap"
	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

// GlobalScope is the reserved name of the top-level "function" that holds
// the program's global variables and main-body code.
const GlobalScope = ""

// Variable describes one declared parameter or local/global variable.
type Variable struct {
	Type     symtype.Type // symtype.ARRAY for array declarations
	Address  int
	ElemType symtype.Type // meaningful only when Type == symtype.ARRAY
	Size     int          // array element count; 0 for scalars
}

// IsArray reports whether the variable was declared as an array.
func (v Variable) IsArray() bool { return v.Type == symtype.ARRAY }

// FunctionRecord holds everything the directory tracks about one function
// (or, for GlobalScope, the top-level program).
type FunctionRecord struct {
	Name                string
	ReturnType          symtype.Type
	IsVoid              bool
	Variables           map[string]Variable
	ParameterTypes      []symtype.Type
	ParameterAddresses  []int
	StartingQuad        int
	ReturnAddress       *int
}

// Declaration describes one variable or parameter awaiting address
// assignment: its type, name, and (for arrays) element count.
type Declaration struct {
	Type      symtype.Type
	Name      string
	IsArray   bool
	ArraySize int
	// SizeIsInt must be true for an array declaration (spec.md: a
	// non-INT array size literal is a TYPE error); the parser checks the
	// literal's type before building a Declaration and passes the result
	// here so the directory can raise the error with the declaration's
	// line number.
	SizeIsInt bool
}

// Directory tracks every function's signature and variables, plus which
// function is currently being declared into.
type Directory struct {
	Functions    map[string]*FunctionRecord
	CurrentScope string
	counters     *memmap.Counters
}

// New creates a Directory with the GLOBAL scope already defined, sharing
// counters with the quadruple generator so addresses are assigned from a
// single monotonic source.
func New(counters *memmap.Counters) *Directory {
	d := &Directory{
		Functions: make(map[string]*FunctionRecord),
		counters:  counters,
	}
	d.Functions[GlobalScope] = &FunctionRecord{
		Name:      GlobalScope,
		IsVoid:    true,
		Variables: make(map[string]Variable),
	}
	d.CurrentScope = GlobalScope
	return d
}

// DefineFunction registers a new function and makes it the current scope.
// startingQuad is the index of the next quadruple to be emitted, recorded
// as the function's entry point.
func (d *Directory) DefineFunction(returnType symtype.Type, isVoid bool, name string, startingQuad int, pos lexer.Position) error {
	if _, exists := d.Functions[name]; exists {
		return cerrors.New(cerrors.Redeclaration, pos, "function %q is already defined", name)
	}
	d.Functions[name] = &FunctionRecord{
		Name:         name,
		ReturnType:   returnType,
		IsVoid:       isVoid,
		Variables:    make(map[string]Variable),
		StartingQuad: startingQuad,
	}
	d.CurrentScope = name
	return nil
}

// DeclareParameter declares a function parameter, appending it to the
// signature in the order it is called; the recursive-descent parser calls
// this left to right, so declaration order is preserved without any
// reordering step.
func (d *Directory) DeclareParameter(decl Declaration, pos lexer.Position) error {
	addr, err := d.declareVariable(decl, false, pos)
	if err != nil {
		return err
	}
	fn := d.Functions[d.CurrentScope]
	fn.ParameterTypes = append(fn.ParameterTypes, decl.Type)
	fn.ParameterAddresses = append(fn.ParameterAddresses, addr)
	return nil
}

// DeclareVariable declares a plain (non-parameter) variable or array in
// the current scope; isGlobal routes the address into the global sector
// instead of the local one.
func (d *Directory) DeclareVariable(decl Declaration, isGlobal bool, pos lexer.Position) error {
	_, err := d.declareVariable(decl, isGlobal, pos)
	return err
}

func (d *Directory) declareVariable(decl Declaration, isGlobal bool, pos lexer.Position) (int, error) {
	fn := d.Functions[d.CurrentScope]
	if _, exists := fn.Variables[decl.Name]; exists {
		return 0, cerrors.New(cerrors.Redeclaration, pos, "variable %q is already declared", decl.Name)
	}

	sector := memmap.Local
	if isGlobal {
		sector = memmap.Global
	}

	if decl.IsArray {
		if !decl.SizeIsInt {
			return 0, cerrors.New(cerrors.TypeError, pos, "array size for %q must be an INT literal", decl.Name)
		}
		addr := d.counters.Allocate(sector, decl.Type, decl.ArraySize)
		fn.Variables[decl.Name] = Variable{Type: symtype.ARRAY, Address: addr, ElemType: decl.Type, Size: decl.ArraySize}
		return addr, nil
	}

	addr := d.counters.Allocate(sector, decl.Type, 1)
	fn.Variables[decl.Name] = Variable{Type: decl.Type, Address: addr}
	return addr, nil
}

// GetVariable resolves name in the current scope, falling back to GLOBAL.
func (d *Directory) GetVariable(name string, pos lexer.Position) (Variable, error) {
	fn := d.Functions[d.CurrentScope]
	if v, ok := fn.Variables[name]; ok {
		return v, nil
	}
	if d.CurrentScope != GlobalScope {
		if v, ok := d.Functions[GlobalScope].Variables[name]; ok {
			return v, nil
		}
	}
	return Variable{}, cerrors.New(cerrors.Undeclared, pos,
		"variable %q was not declared beforehand; check the spelling or whether it belongs to another function", name)
}

// GetFunction resolves a function by name, failing with UNDECLARED if it
// was never defined.
func (d *Directory) GetFunction(name string, pos lexer.Position) (*FunctionRecord, error) {
	fn, ok := d.Functions[name]
	if !ok {
		return nil, cerrors.New(cerrors.Undeclared, pos,
			"function %q was not defined beforehand; check the spelling", name)
	}
	return fn, nil
}

// EndDefinition closes out the function currently being declared and resets
// the scope cursor back to GLOBAL. Whether a non-VOID function actually
// returned is the quadruple generator's call to make (it owns the
// return-jump bookkeeping via Return); this method only resets scope.
func (d *Directory) EndDefinition(pos lexer.Position) error {
	d.CurrentScope = GlobalScope
	return nil
}
