package symphony

import (
	"strings"
	"testing"

	"github.com/jorgelmarquez94/symphony/internal/cerrors"
)

func TestCompileAndRunIterativeFactorial(t *testing.T) {
	source := `program P;
fun int fact(int n) {
  int r;
  r = 1;
  while (n > 0) {
    r = r * n;
    n = n - 1;
  }
  return r;
}
int x;
x = 5;
print(fact(x));
`
	out, err := New().CompileAndRun(source)
	if err != nil {
		t.Fatalf("CompileAndRun failed: %v", err)
	}
	if got := strings.Join(out.Prints, ""); got != "120" {
		t.Errorf("prints = %q, want %q", got, "120")
	}
	if len(out.Notes) != 0 {
		t.Errorf("notes = %v, want none", out.Notes)
	}
}

func TestCompileAndRunRecursiveFactorial(t *testing.T) {
	source := `program P;
fun int f(int n) {
  if (n <= 1) {
    return 1;
  }
  return n * f(n - 1);
}
print(f(5));
`
	out, err := New().CompileAndRun(source)
	if err != nil {
		t.Fatalf("CompileAndRun failed: %v", err)
	}
	if got := strings.Join(out.Prints, ""); got != "120" {
		t.Errorf("prints = %q, want %q", got, "120")
	}
}

func TestCompileAndRunBubbleSortArray(t *testing.T) {
	source := `program P;
int a[3];
int i;
int j;
int t;
a[0] = 3;
a[1] = 1;
a[2] = 2;
i = 0;
while (i < 3) {
  j = 0;
  while (j < 2) {
    if (a[j] > a[j + 1]) {
      t = a[j];
      a[j] = a[j + 1];
      a[j + 1] = t;
    }
    j = j + 1;
  }
  i = i + 1;
}
println(a[0]);
println(a[1]);
println(a[2]);
`
	out, err := New().CompileAndRun(source)
	if err != nil {
		t.Fatalf("CompileAndRun failed: %v", err)
	}
	if got := strings.Join(out.Prints, ""); got != "1\n2\n3\n" {
		t.Errorf("prints = %q, want %q", got, "1\n2\n3\n")
	}
}

func TestCompileAndRunBooleanShortCircuitAbsence(t *testing.T) {
	source := `program P;
println(true or false);
println(1 equals 1 and 2 equals 3);
`
	out, err := New().CompileAndRun(source)
	if err != nil {
		t.Fatalf("CompileAndRun failed: %v", err)
	}
	if got := strings.Join(out.Prints, ""); got != "true\nfalse\n" {
		t.Errorf("prints = %q, want %q", got, "true\nfalse\n")
	}
}

func TestCompileAndRunMusicalLoop(t *testing.T) {
	source := `program P;
int n;
n = 3;
while (n > 0) {
  A();
  n = n - 1;
}
`
	out, err := New().CompileAndRun(source)
	if err != nil {
		t.Fatalf("CompileAndRun failed: %v", err)
	}
	want := []string{"A", "A", "A"}
	if len(out.Notes) != len(want) {
		t.Fatalf("notes = %v, want %v", out.Notes, want)
	}
	for i, n := range want {
		if out.Notes[i] != n {
			t.Errorf("notes[%d] = %q, want %q", i, out.Notes[i], n)
		}
	}
}

func TestCompileAndRunInputArityMismatchFails(t *testing.T) {
	source := `program P;
str s;
s = input();
`
	engine := New(WithStdin([]string{"line one", "line two"}))
	_, err := engine.CompileAndRun(source)
	if err == nil {
		t.Fatal("expected an ARITY error for unconsumed stdin lines, got nil")
	}
	assertRuntimeKind(t, err, cerrors.Arity)
}

func TestCompileAndRunDivisionByZeroFails(t *testing.T) {
	source := `program P;
print(1 / 0);
`
	_, err := New().CompileAndRun(source)
	if err == nil {
		t.Fatal("expected a DIVISION_BY_ZERO error, got nil")
	}
	assertRuntimeKind(t, err, cerrors.DivisionByZero)
}

func TestCompileAndRunArrayOutOfBoundsFails(t *testing.T) {
	source := `program P;
int a[2];
a[2] = 1;
`
	_, err := New().CompileAndRun(source)
	if err == nil {
		t.Fatal("expected an INDEX error, got nil")
	}
	assertRuntimeKind(t, err, cerrors.Index)
}

func TestCompileAndRunTypeMismatchFailsAtCompileTime(t *testing.T) {
	source := `program P;
int x;
x = "hi";
`
	_, err := New().CompileAndRun(source)
	if err == nil {
		t.Fatal("expected a compile-time TYPE error, got nil")
	}
	assertCompileKind(t, err, cerrors.TypeError)
}

func TestCompileAndRunBreakOutsideLoopFailsAtCompileTime(t *testing.T) {
	source := `program P;
break;
`
	_, err := New().CompileAndRun(source)
	if err == nil {
		t.Fatal("expected a compile-time MISPLACED error, got nil")
	}
	assertCompileKind(t, err, cerrors.Misplaced)
}

func assertRuntimeKind(t *testing.T, err error, kind cerrors.Kind) {
	t.Helper()
	symErr, ok := err.(*cerrors.Error)
	if !ok {
		t.Fatalf("error = %T, want *cerrors.Error", err)
	}
	if symErr.Kind != kind {
		t.Errorf("Kind = %v, want %v", symErr.Kind, kind)
	}
	if symErr.HasPos {
		t.Errorf("a runtime error should not carry a source position")
	}
}

func assertCompileKind(t *testing.T, err error, kind cerrors.Kind) {
	t.Helper()
	symErr, ok := err.(*cerrors.Error)
	if !ok {
		t.Fatalf("error = %T, want *cerrors.Error", err)
	}
	if symErr.Kind != kind {
		t.Errorf("Kind = %v, want %v", symErr.Kind, kind)
	}
	if !symErr.HasPos {
		t.Errorf("a compile-time error should carry a source position")
	}
}
