package directory

import (
	"testing"

	"github.com/jorgelmarquez94/symphony/internal/lexer"
	"github.com/jorgelmarquez94/symphony/internal/memmap"
	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

func newDirectory() *Directory {
	return New(memmap.NewCounters())
}

func TestDeclareVariableAssignsAddressAndRejectsRedeclaration(t *testing.T) {
	d := newDirectory()
	pos := lexer.Position{Line: 1, Column: 1}

	if err := d.DeclareVariable(Declaration{Type: symtype.INT, Name: "x"}, true, pos); err != nil {
		t.Fatalf("DeclareVariable failed: %v", err)
	}
	v, err := d.GetVariable("x", pos)
	if err != nil {
		t.Fatalf("GetVariable failed: %v", err)
	}
	if v.Type != symtype.INT {
		t.Errorf("Type = %v, want INT", v.Type)
	}

	err = d.DeclareVariable(Declaration{Type: symtype.DEC, Name: "x"}, true, pos)
	if err == nil {
		t.Fatal("expected a redeclaration error, got nil")
	}
}

func TestDeclareVariableArrayRequiresIntSize(t *testing.T) {
	d := newDirectory()
	pos := lexer.Position{Line: 1, Column: 1}

	err := d.DeclareVariable(Declaration{Type: symtype.INT, Name: "arr", IsArray: true, ArraySize: 5, SizeIsInt: false}, true, pos)
	if err == nil {
		t.Fatal("expected a type error for a non-INT array size, got nil")
	}

	if err := d.DeclareVariable(Declaration{Type: symtype.INT, Name: "arr", IsArray: true, ArraySize: 5, SizeIsInt: true}, true, pos); err != nil {
		t.Fatalf("DeclareVariable with a valid INT size failed: %v", err)
	}
	v, err := d.GetVariable("arr", pos)
	if err != nil {
		t.Fatalf("GetVariable failed: %v", err)
	}
	if !v.IsArray() || v.Size != 5 {
		t.Errorf("got IsArray=%v Size=%d, want true 5", v.IsArray(), v.Size)
	}
}

func TestGetVariableFallsBackToGlobalScope(t *testing.T) {
	d := newDirectory()
	pos := lexer.Position{Line: 1, Column: 1}

	if err := d.DeclareVariable(Declaration{Type: symtype.INT, Name: "g"}, true, pos); err != nil {
		t.Fatalf("global declare failed: %v", err)
	}
	if err := d.DefineFunction(symtype.INT, false, "f", 0, pos); err != nil {
		t.Fatalf("DefineFunction failed: %v", err)
	}
	if _, err := d.GetVariable("g", pos); err != nil {
		t.Errorf("expected the global 'g' to be visible from inside 'f', got %v", err)
	}
}

func TestGetVariableUndeclaredFails(t *testing.T) {
	d := newDirectory()
	if _, err := d.GetVariable("missing", lexer.Position{Line: 1, Column: 1}); err == nil {
		t.Fatal("expected an undeclared-variable error, got nil")
	}
}

func TestDefineFunctionRejectsRedeclaration(t *testing.T) {
	d := newDirectory()
	pos := lexer.Position{Line: 1, Column: 1}

	if err := d.DefineFunction(symtype.INT, false, "f", 0, pos); err != nil {
		t.Fatalf("first DefineFunction failed: %v", err)
	}
	if err := d.DefineFunction(symtype.DEC, false, "f", 10, pos); err == nil {
		t.Fatal("expected a redeclaration error for a duplicate function name, got nil")
	}
}

func TestDeclareParameterAppendsToSignatureInOrder(t *testing.T) {
	d := newDirectory()
	pos := lexer.Position{Line: 1, Column: 1}

	if err := d.DefineFunction(symtype.INT, true, "f", 0, pos); err != nil {
		t.Fatalf("DefineFunction failed: %v", err)
	}
	if err := d.DeclareParameter(Declaration{Type: symtype.INT, Name: "a"}, pos); err != nil {
		t.Fatalf("DeclareParameter(a) failed: %v", err)
	}
	if err := d.DeclareParameter(Declaration{Type: symtype.STR, Name: "b"}, pos); err != nil {
		t.Fatalf("DeclareParameter(b) failed: %v", err)
	}

	fn := d.Functions["f"]
	if len(fn.ParameterTypes) != 2 || fn.ParameterTypes[0] != symtype.INT || fn.ParameterTypes[1] != symtype.STR {
		t.Errorf("ParameterTypes = %v, want [INT STR]", fn.ParameterTypes)
	}
	if len(fn.ParameterAddresses) != 2 || fn.ParameterAddresses[0] == fn.ParameterAddresses[1] {
		t.Errorf("ParameterAddresses = %v, want two distinct addresses", fn.ParameterAddresses)
	}
}

func TestGetFunctionUndeclaredFails(t *testing.T) {
	d := newDirectory()
	if _, err := d.GetFunction("missing", lexer.Position{Line: 1, Column: 1}); err == nil {
		t.Fatal("expected an undeclared-function error, got nil")
	}
}
