package quadgen

import (
	"testing"

	"github.com/jorgelmarquez94/symphony/internal/directory"
	"github.com/jorgelmarquez94/symphony/internal/lexer"
	"github.com/jorgelmarquez94/symphony/internal/memmap"
	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

var pos = lexer.Position{Line: 1, Column: 1}

func newGenerator() (*Generator, *directory.Directory) {
	counters := memmap.NewCounters()
	dir := directory.New(counters)
	return New(dir, counters), dir
}

func TestApplyBinaryPromotesIntDivisionToDec(t *testing.T) {
	g, _ := newGenerator()
	g.PushConstant(symtype.INT, "6")
	g.PushConstant(symtype.INT, "2")
	if err := g.ApplyBinary(symtype.OpDiv, pos); err != nil {
		t.Fatalf("ApplyBinary(/) failed: %v", err)
	}

	quads := g.Quads()
	last := quads[len(quads)-1]
	if last.Op != "/" {
		t.Fatalf("last op = %q, want /", last.Op)
	}
	if _, typ, ok := memmap.Resolve(last.Res); !ok || typ != symtype.DEC {
		t.Errorf("result type = %v (ok=%v), want DEC", typ, ok)
	}
}

func TestApplyBinaryRejectsInvalidCombination(t *testing.T) {
	g, _ := newGenerator()
	g.PushConstant(symtype.BOOL, "true")
	g.PushConstant(symtype.BOOL, "false")
	if err := g.ApplyBinary(symtype.OpAdd, pos); err == nil {
		t.Fatal("expected a type error for BOOL + BOOL, got nil")
	}
}

func TestOperateUnaryIncrementSelfUpdates(t *testing.T) {
	g, dir := newGenerator()
	if err := dir.DeclareVariable(directory.Declaration{Type: symtype.INT, Name: "x"}, true, pos); err != nil {
		t.Fatalf("DeclareVariable failed: %v", err)
	}
	v, _ := dir.GetVariable("x", pos)
	g.PushVariable(v)
	if err := g.OperateUnary(symtype.OpIncrement, pos); err != nil {
		t.Fatalf("OperateUnary(++) failed: %v", err)
	}
	quads := g.Quads()
	last := quads[len(quads)-1]
	if last.Arg1 != v.Address || last.Res != v.Address {
		t.Errorf("++ should store back into its own operand, got Arg1=%d Res=%d want %d", last.Arg1, last.Res, v.Address)
	}
}

func TestArrayElementAddressEmitsBoundsCheckAndAccess(t *testing.T) {
	g, dir := newGenerator()
	if err := dir.DeclareVariable(directory.Declaration{Type: symtype.INT, Name: "arr", IsArray: true, ArraySize: 3, SizeIsInt: true}, true, pos); err != nil {
		t.Fatalf("DeclareVariable failed: %v", err)
	}
	v, _ := dir.GetVariable("arr", pos)

	g.PushConstant(symtype.INT, "1")
	ptr, elemType, err := g.ArrayElementAddress(v, pos)
	if err != nil {
		t.Fatalf("ArrayElementAddress failed: %v", err)
	}
	if elemType != symtype.INT {
		t.Errorf("elemType = %v, want INT", elemType)
	}

	quads := g.Quads()
	var sawVer, sawAccess bool
	for _, q := range quads {
		if q.Op == "VER" {
			sawVer = true
		}
		if q.Op == "ACCESS" && q.Res == ptr {
			sawAccess = true
		}
	}
	if !sawVer || !sawAccess {
		t.Errorf("expected a VER and matching ACCESS quad, sawVer=%v sawAccess=%v", sawVer, sawAccess)
	}
}

func TestArrayElementAddressRejectsNonIntIndex(t *testing.T) {
	g, dir := newGenerator()
	if err := dir.DeclareVariable(directory.Declaration{Type: symtype.INT, Name: "arr", IsArray: true, ArraySize: 3, SizeIsInt: true}, true, pos); err != nil {
		t.Fatalf("DeclareVariable failed: %v", err)
	}
	v, _ := dir.GetVariable("arr", pos)

	g.PushConstant(symtype.STR, "nope")
	if _, _, err := g.ArrayElementAddress(v, pos); err == nil {
		t.Fatal("expected a type error for a non-INT array index, got nil")
	}
}

func TestBreakOutsideWhileFails(t *testing.T) {
	g, _ := newGenerator()
	if err := g.Break(pos); err == nil {
		t.Fatal("expected a misplaced-break error, got nil")
	}
}

func TestEndFunctionRejectsMissingReturn(t *testing.T) {
	g, _ := newGenerator()
	if err := g.BeginFunction(symtype.INT, false, "f", pos); err != nil {
		t.Fatalf("BeginFunction failed: %v", err)
	}
	if err := g.EndFunction(pos); err == nil {
		t.Fatal("expected a misplaced error for a non-VOID function that never returns, got nil")
	}
}

func TestSelfRecursiveCallResolvesFuncIndexDuringOwnBody(t *testing.T) {
	g, dir := newGenerator()
	if err := g.BeginFunction(symtype.INT, false, "fact", pos); err != nil {
		t.Fatalf("BeginFunction failed: %v", err)
	}
	if err := dir.DeclareParameter(directory.Declaration{Type: symtype.INT, Name: "n"}, pos); err != nil {
		t.Fatalf("DeclareParameter failed: %v", err)
	}

	funcIdx, ok := g.FuncIndex("fact")
	if !ok {
		t.Fatal("FuncIndex(fact) not found from inside fact's own body")
	}

	n, _ := dir.GetVariable("n", pos)
	g.BeginCall("fact", false)
	g.PushVariable(n)
	g.Arg()
	fn, err := dir.GetFunction("fact", pos)
	if err != nil {
		t.Fatalf("GetFunction failed: %v", err)
	}
	if err := g.EndUserCall(fn, funcIdx, pos); err != nil {
		t.Fatalf("self-recursive EndUserCall failed: %v", err)
	}
	if err := g.Return(pos); err != nil {
		t.Fatalf("Return failed: %v", err)
	}
	if err := g.EndFunction(pos); err != nil {
		t.Fatalf("EndFunction failed: %v", err)
	}
}
