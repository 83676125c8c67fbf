package symtype

import "testing"

func TestResult(t *testing.T) {
	tests := []struct {
		name        string
		left, right Type
		op          Op
		want        Type
		wantOK      bool
	}{
		{"int plus int is int", INT, INT, OpAdd, INT, true},
		{"int div int promotes to dec", INT, INT, OpDiv, DEC, true},
		{"int compare int is bool", INT, INT, OpGT, BOOL, true},
		{"dec plus int is dec", DEC, INT, OpAdd, DEC, true},
		{"str plus str concatenates", STR, STR, OpAdd, STR, true},
		{"char plus char widens to str", CHAR, CHAR, OpAdd, STR, true},
		{"str plus char widens to str", STR, CHAR, OpAdd, STR, true},
		{"bool and bool is bool", BOOL, BOOL, OpAnd, BOOL, true},
		{"bool plus bool is invalid", BOOL, BOOL, OpAdd, 0, false},
		{"str times str is invalid", STR, STR, OpMul, 0, false},
		{"int and int is invalid", INT, INT, OpAnd, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Result(tt.left, tt.right, tt.op)
			if ok != tt.wantOK {
				t.Fatalf("Result(%v, %v, %v) ok = %v, want %v", tt.left, tt.right, tt.op, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Result(%v, %v, %v) = %v, want %v", tt.left, tt.right, tt.op, got, tt.want)
			}
		})
	}
}

func TestUnaryResult(t *testing.T) {
	if got, ok := UnaryResult(INT, OpUnaryMin); !ok || got != INT {
		t.Errorf("UnaryResult(INT, -) = %v, %v, want INT, true", got, ok)
	}
	if _, ok := UnaryResult(STR, OpUnaryMin); ok {
		t.Errorf("UnaryResult(STR, -) should be invalid")
	}
	if _, ok := UnaryResult(BOOL, OpUnaryMin); ok {
		t.Errorf("UnaryResult(BOOL, -) should be invalid")
	}
}

func TestUnaryQuadOp(t *testing.T) {
	if UnaryQuadOp(OpUnaryPlus) != "PLUS" {
		t.Errorf("UnaryQuadOp(+) = %q, want PLUS", UnaryQuadOp(OpUnaryPlus))
	}
	if UnaryQuadOp(OpUnaryMin) != "MIN" {
		t.Errorf("UnaryQuadOp(-) = %q, want MIN", UnaryQuadOp(OpUnaryMin))
	}
	if UnaryQuadOp(OpNot) != "not" {
		t.Errorf("UnaryQuadOp(not) = %q, want not", UnaryQuadOp(OpNot))
	}
}

func TestIsSelfUpdating(t *testing.T) {
	if !IsSelfUpdating(OpIncrement) || !IsSelfUpdating(OpDecrement) {
		t.Errorf("++ and -- must be self-updating")
	}
	if IsSelfUpdating(OpAdd) {
		t.Errorf("+ must not be self-updating")
	}
}
