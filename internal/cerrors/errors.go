// Package cerrors provides Symphony's typed compiler/runtime error kinds
// and source-context formatting.
//
// Grounded on github.com/cwbudde/go-dws/internal/errors: a CompilerError
// carrying a position, message, and source so it can render a source line
// with a caret pointing at the offending column, optionally ANSI-colored.
// Named cerrors (not errors) because this package's own code imports the
// standard library's errors package directly.
package cerrors

import (
	"fmt"
	"strings"

	"github.com/jorgelmarquez94/symphony/internal/lexer"
)

// Kind is one of Symphony's error categories (spec.md §7).
type Kind string

const (
	Grammatical    Kind = "GRAMMATICAL"
	Redeclaration  Kind = "REDECLARATION"
	Undeclared     Kind = "UNDECLARED"
	TypeError      Kind = "TYPE"
	Arity          Kind = "ARITY"
	Misplaced      Kind = "MISPLACED"
	Index          Kind = "INDEX"
	DivisionByZero Kind = "DIVISION_BY_ZERO"
	Uninitialized  Kind = "UNINITIALIZED"
	IO             Kind = "IO"
	NotImplemented Kind = "NOT_IMPLEMENTED"
)

// Error is a single Symphony diagnostic. Compile-time errors carry a source
// position; runtime errors (raised deep inside the VM, long after the
// source text and line map are out of scope) carry only a message.
type Error struct {
	Kind    Kind
	Message string
	Pos     lexer.Position
	HasPos  bool
}

func (e *Error) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New creates a compile-time Error with a source position.
func New(kind Kind, pos lexer.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, HasPos: true, Message: fmt.Sprintf(format, args...)}
}

// NewRuntime creates a runtime Error with no source position.
func NewRuntime(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// SourceError renders an Error with a source-line/caret, the way
// go-dws/internal/errors.CompilerError.Format does.
type SourceError struct {
	Err    *Error
	Source string
	File   string
}

// Format renders the error, with ANSI coloring when color is true.
func (e *SourceError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s", e.File)
	} else {
		sb.WriteString("Error")
	}
	if e.Err.HasPos {
		fmt.Fprintf(&sb, " (%s) at line %d, column %d\n", e.Err.Kind, e.Err.Pos.Line, e.Err.Pos.Column)
	} else {
		fmt.Fprintf(&sb, " (%s)\n", e.Err.Kind)
	}

	if e.Err.HasPos {
		if line := sourceLine(e.Source, e.Err.Pos.Line); line != "" {
			prefix := fmt.Sprintf("%4d | ", e.Err.Pos.Line)
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(prefix)+e.Err.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Err.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
