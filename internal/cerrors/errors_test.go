package cerrors

import (
	"strings"
	"testing"

	"github.com/jorgelmarquez94/symphony/internal/lexer"
)

func TestNewCarriesPosition(t *testing.T) {
	pos := lexer.Position{Line: 3, Column: 7}
	err := New(Undeclared, pos, "variable %q was never declared", "x")

	if err.Kind != Undeclared {
		t.Errorf("Kind = %v, want %v", err.Kind, Undeclared)
	}
	if !err.HasPos {
		t.Errorf("HasPos = false, want true for a compile-time error")
	}
	if err.Pos != pos {
		t.Errorf("Pos = %v, want %v", err.Pos, pos)
	}
	if err.Message != `variable "x" was never declared` {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewRuntimeHasNoPosition(t *testing.T) {
	err := NewRuntime(DivisionByZero, "division by zero")
	if err.HasPos {
		t.Errorf("HasPos = true, want false for a runtime error")
	}
	if err.Kind != DivisionByZero {
		t.Errorf("Kind = %v, want %v", err.Kind, DivisionByZero)
	}
}

func TestErrorStringIncludesKind(t *testing.T) {
	compileErr := New(TypeError, lexer.Position{Line: 1, Column: 1}, "bad type")
	if !strings.Contains(compileErr.Error(), string(TypeError)) {
		t.Errorf("Error() = %q, want it to mention %q", compileErr.Error(), TypeError)
	}

	runtimeErr := NewRuntime(Index, "out of bounds")
	if !strings.Contains(runtimeErr.Error(), string(Index)) {
		t.Errorf("Error() = %q, want it to mention %q", runtimeErr.Error(), Index)
	}
}

func TestSourceErrorFormatPointsAtColumn(t *testing.T) {
	source := "int x;\nx = totallyUndeclared;"
	pos := lexer.Position{Line: 2, Column: 5}
	err := New(Undeclared, pos, `variable "totallyUndeclared" was never declared`)
	se := &SourceError{Err: err, Source: source, File: "prog.sym"}

	plain := se.Format(false)
	if !strings.Contains(plain, "prog.sym") {
		t.Errorf("Format(false) should name the file, got %q", plain)
	}
	if !strings.Contains(plain, "x = totallyUndeclared;") {
		t.Errorf("Format(false) should quote the offending source line, got %q", plain)
	}
	if strings.Contains(plain, "\033[") {
		t.Errorf("Format(false) must not emit ANSI codes")
	}

	colored := se.Format(true)
	if !strings.Contains(colored, "\033[") {
		t.Errorf("Format(true) should emit ANSI codes")
	}
}

func TestSourceErrorFormatWithoutPosition(t *testing.T) {
	err := NewRuntime(Arity, "read past the last supplied input line")
	se := &SourceError{Err: err, File: "prog.sym"}
	out := se.Format(false)
	if !strings.Contains(out, "read past the last supplied input line") {
		t.Errorf("Format should still include the message, got %q", out)
	}
}
