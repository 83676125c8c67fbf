package quadgen

import (
	"reflect"
	"testing"

	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

func TestEncodeDecodeRoundTrips(t *testing.T) {
	program := &Program{
		Quads: []Quad{
			{Op: "GOTO", Arg1: NoAddr, Arg2: NoAddr, Res: 3},
			{Op: "+", Arg1: 200000, Arg2: 200001, Res: 130000},
			{Op: "=", Arg1: -130000, Arg2: NoAddr, Res: 250000},
		},
		Constants: []Constant{
			{Type: symtype.INT, Address: 200000, Literal: "1"},
			{Type: symtype.STR, Address: 200050, Literal: "hello world\nwith a newline"},
			{Type: symtype.STR, Address: 200051, Literal: ""},
		},
		Functions: []FunctionMeta{
			{
				Name: "fact", StartQuad: 5, ReturnAddress: 250100, IsVoid: false,
				ReturnType: symtype.INT, LocalLow: 250000, LocalHigh: 250101,
				ParameterAddresses: []int{250000}, ParameterTypes: []symtype.Type{symtype.INT},
			},
			{
				Name: "noop", StartQuad: 20, IsVoid: true,
				LocalLow: 0, LocalHigh: 0,
			},
		},
	}

	decoded, err := Decode(program.Encode())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !reflect.DeepEqual(decoded.Quads, program.Quads) {
		t.Errorf("Quads round-trip mismatch:\ngot:  %+v\nwant: %+v", decoded.Quads, program.Quads)
	}
	if !reflect.DeepEqual(decoded.Constants, program.Constants) {
		t.Errorf("Constants round-trip mismatch:\ngot:  %+v\nwant: %+v", decoded.Constants, program.Constants)
	}
	if !reflect.DeepEqual(decoded.Functions, program.Functions) {
		t.Errorf("Functions round-trip mismatch:\ngot:  %+v\nwant: %+v", decoded.Functions, program.Functions)
	}
}

func TestEncodeDecodeEmptyProgram(t *testing.T) {
	program := &Program{}
	decoded, err := Decode(program.Encode())
	if err != nil {
		t.Fatalf("Decode of an empty program failed: %v", err)
	}
	if len(decoded.Quads) != 0 || len(decoded.Constants) != 0 || len(decoded.Functions) != 0 {
		t.Errorf("expected an empty decoded program, got %+v", decoded)
	}
}

func TestDecodeRejectsMalformedHeader(t *testing.T) {
	if _, err := Decode("NOT A HEADER\n"); err == nil {
		t.Fatal("expected an error decoding a malformed header, got nil")
	}
}
