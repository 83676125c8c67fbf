package quadgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jorgelmarquez94/symphony/internal/symtype"
)

// Encode renders a Program as a round-trippable text format — the .note
// file spec.md §6 calls an optional cache of compiled quadruples, so a
// second run of the same source can skip straight to internal/orchestra.
func (p *Program) Encode() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "QUADS %d\n", len(p.Quads))
	for _, q := range p.Quads {
		fmt.Fprintf(&sb, "%s %d %d %d\n", q.Op, q.Arg1, q.Arg2, q.Res)
	}
	fmt.Fprintf(&sb, "CONSTANTS %d\n", len(p.Constants))
	for _, c := range p.Constants {
		fmt.Fprintf(&sb, "%d %d %s\n", c.Type, c.Address, encodeLiteral(c.Literal))
	}
	fmt.Fprintf(&sb, "FUNCTIONS %d\n", len(p.Functions))
	for _, f := range p.Functions {
		fmt.Fprintf(&sb, "%s %d %d %t %d %d %d %s %s\n",
			encodeLiteral(f.Name), f.StartQuad, f.ReturnAddress, f.IsVoid, f.ReturnType,
			f.LocalLow, f.LocalHigh, intsCSV(f.ParameterAddresses), typesCSV(f.ParameterTypes))
	}
	return sb.String()
}

// Decode parses the text Encode produced back into a Program.
func Decode(data string) (*Program, error) {
	lines := strings.Split(strings.TrimRight(data, "\n"), "\n")
	idx := 0
	next := func() (string, error) {
		if idx >= len(lines) {
			return "", fmt.Errorf("quadgen: unexpected end of .note data")
		}
		line := lines[idx]
		idx++
		return line, nil
	}

	header, err := next()
	if err != nil {
		return nil, err
	}
	n, err := headerCount("QUADS", header)
	if err != nil {
		return nil, err
	}
	quads := make([]Quad, 0, n)
	for i := 0; i < n; i++ {
		line, err := next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("quadgen: malformed quad line %q", line)
		}
		a1, _ := strconv.Atoi(fields[1])
		a2, _ := strconv.Atoi(fields[2])
		res, _ := strconv.Atoi(fields[3])
		quads = append(quads, Quad{Op: fields[0], Arg1: a1, Arg2: a2, Res: res})
	}

	header, err = next()
	if err != nil {
		return nil, err
	}
	n, err = headerCount("CONSTANTS", header)
	if err != nil {
		return nil, err
	}
	constants := make([]Constant, 0, n)
	for i := 0; i < n; i++ {
		line, err := next()
		if err != nil {
			return nil, err
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("quadgen: malformed constant line %q", line)
		}
		typ, _ := strconv.Atoi(parts[0])
		addr, _ := strconv.Atoi(parts[1])
		constants = append(constants, Constant{Type: symtype.Type(typ), Address: addr, Literal: decodeLiteral(parts[2])})
	}

	header, err = next()
	if err != nil {
		return nil, err
	}
	n, err = headerCount("FUNCTIONS", header)
	if err != nil {
		return nil, err
	}
	functions := make([]FunctionMeta, 0, n)
	for i := 0; i < n; i++ {
		line, err := next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) != 9 {
			return nil, fmt.Errorf("quadgen: malformed function line %q", line)
		}
		startQuad, _ := strconv.Atoi(fields[1])
		returnAddr, _ := strconv.Atoi(fields[2])
		isVoid := fields[3] == "true"
		returnType, _ := strconv.Atoi(fields[4])
		localLow, _ := strconv.Atoi(fields[5])
		localHigh, _ := strconv.Atoi(fields[6])
		functions = append(functions, FunctionMeta{
			Name:               decodeLiteral(fields[0]),
			StartQuad:          startQuad,
			ReturnAddress:      returnAddr,
			IsVoid:             isVoid,
			ReturnType:         symtype.Type(returnType),
			LocalLow:           localLow,
			LocalHigh:          localHigh,
			ParameterAddresses: parseIntsCSV(fields[7]),
			ParameterTypes:     parseTypesCSV(fields[8]),
		})
	}

	return &Program{Quads: quads, Constants: constants, Functions: functions}, nil
}

func headerCount(tag, line string) (int, error) {
	var got string
	var n int
	if _, err := fmt.Sscanf(line, "%s %d", &got, &n); err != nil || got != tag {
		return 0, fmt.Errorf("quadgen: expected %q header, got %q", tag, line)
	}
	return n, nil
}

// encodeLiteral/decodeLiteral escape spaces and newlines so a STR literal
// containing them still round-trips on this format's line-oriented layout.
func encodeLiteral(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, " ", "\\s")
	s = strings.ReplaceAll(s, "\n", "\\n")
	if s == "" {
		return "\\e"
	}
	return s
}

func decodeLiteral(s string) string {
	if s == "\\e" {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 's':
				sb.WriteByte(' ')
			case 'n':
				sb.WriteByte('\n')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte(s[i])
				continue
			}
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func intsCSV(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func parseIntsCSV(s string) []int {
	if s == "-" {
		return nil
	}
	parts := strings.Split(s, ",")
	xs := make([]int, len(parts))
	for i, p := range parts {
		xs[i], _ = strconv.Atoi(p)
	}
	return xs
}

func typesCSV(ts []symtype.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = strconv.Itoa(int(t))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func parseTypesCSV(s string) []symtype.Type {
	if s == "-" {
		return nil
	}
	parts := strings.Split(s, ",")
	ts := make([]symtype.Type, len(parts))
	for i, p := range parts {
		n, _ := strconv.Atoi(p)
		ts[i] = symtype.Type(n)
	}
	return ts
}
