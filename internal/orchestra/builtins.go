package orchestra

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jorgelmarquez94/symphony/internal/cerrors"
	"github.com/jorgelmarquez94/symphony/internal/quadgen"
)

// littleStarSequence is the fixed note sequence little_star plays, the
// opening phrase of Twinkle Twinkle Little Star spelled out in Symphony's
// note names.
var littleStarSequence = []string{"C", "C", "G", "G", "A", "A", "G", "F", "F", "E", "E", "D", "D", "C"}

// execSpecial dispatches a built-in call's quadruple. Every special
// function's opcode was chosen in quadgen.specialOpcode; this is the
// matching runtime half of that table.
func (vm *VM) execSpecial(q quadgen.Quad) error {
	switch q.Op {
	case "PRINT":
		vm.prints = append(vm.prints, vm.mem.Load(q.Arg1).Format())
		return nil
	case "PRINTLN":
		vm.prints = append(vm.prints, vm.mem.Load(q.Arg1).Format()+"\n")
		return nil
	case "INPUT":
		if vm.stdinPos >= len(vm.stdin) {
			return cerrors.NewRuntime(cerrors.Arity, "read past the last supplied input line")
		}
		line := vm.stdin[vm.stdinPos]
		vm.stdinPos++
		vm.mem.Store(q.Res, StrValue(line))
		return nil
	case "SQRT":
		vm.mem.Store(q.Res, DecValue(math.Sqrt(vm.mem.Load(q.Arg1).Dec())))
		return nil
	case "LOG":
		vm.mem.Store(q.Res, DecValue(math.Log(vm.mem.Load(q.Arg1).Dec())))
		return nil
	case "FLOOR":
		vm.mem.Store(q.Res, IntValue(int(math.Floor(vm.mem.Load(q.Arg1).Dec()))))
		return nil
	case "CEIL":
		vm.mem.Store(q.Res, IntValue(int(math.Ceil(vm.mem.Load(q.Arg1).Dec()))))
		return nil
	case "RANDOM":
		vm.mem.Store(q.Res, DecValue(vm.rng.Float64()))
		return nil
	case "LENGTH":
		vm.mem.Store(q.Res, IntValue(utf8.RuneCountInString(vm.mem.Load(q.Arg1).Str())))
		return nil
	case "TO_STR":
		vm.mem.Store(q.Res, StrValue(vm.mem.Load(q.Arg1).Format()))
		return nil
	case "concat":
		vm.mem.Store(q.Res, StrValue(vm.mem.Load(q.Arg1).Str()+vm.mem.Load(q.Arg2).Str()))
		return nil
	case "GET":
		s := vm.mem.Load(q.Arg1).Str()
		idx := vm.mem.LoadInt(q.Arg2)
		runes := []rune(s)
		if idx < 0 || idx >= len(runes) {
			return cerrors.NewRuntime(cerrors.Index, "string index %d is out of bounds [0, %d)", idx, len(runes))
		}
		vm.mem.Store(q.Res, CharValue(runes[idx]))
		return nil
	case "COPY":
		vm.mem.Store(q.Arg1, vm.mem.Load(q.Arg2))
		return nil
	}

	if strings.HasPrefix(q.Op, "PLAY_NOTE_") {
		return vm.playNote(strings.TrimPrefix(q.Op, "PLAY_NOTE_"))
	}
	return cerrors.NewRuntime(cerrors.NotImplemented, "unknown special opcode %q", q.Op)
}

func (vm *VM) playNote(name string) error {
	if name == "little_star" {
		vm.notes = append(vm.notes, littleStarSequence...)
		return nil
	}
	vm.notes = append(vm.notes, name)
	return nil
}
