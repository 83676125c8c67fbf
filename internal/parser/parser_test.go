package parser

import "testing"

// TestGlobalDeclarationAfterFunctionDecl guards against regressing to a
// strict globals-then-functions-then-body grammar: spec.md's own worked
// iterative-factorial example declares fact() before the global it assigns
// into, so the top-level loop must accept declarations and functions in
// either order.
func TestGlobalDeclarationAfterFunctionDecl(t *testing.T) {
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
	if _, err := New(source).Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
}

func TestGlobalDeclarationBeforeFunctionDecl(t *testing.T) {
	source := `program P;
int x;
fun void noop() {
}
x = 1;
noop();
`
	if _, err := New(source).Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
}

func TestGlobalDeclarationsInterleaveWithFunctions(t *testing.T) {
	source := `program P;
int a;
fun int inc(int n) {
  return n + 1;
}
int b;
fun int decr(int n) {
  return n - 1;
}
a = 1;
b = 2;
print(inc(a));
print(decr(b));
`
	if _, err := New(source).Parse(); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
}

func TestParseRejectsUnexpectedTokenAtStatementStart(t *testing.T) {
	source := `program P;
}
`
	if _, err := New(source).Parse(); err == nil {
		t.Fatal("expected a grammatical error, got nil")
	}
}
