package aiger

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadASCII parses the ".aag" textual variant.
func ReadASCII(r io.Reader) (*Model, error) {
	br := bufio.NewReader(r)
	header, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("aiger: reading header: %w", err)
	}
	fields := strings.Fields(header)
	if len(fields) != 6 || fields[0] != "aag" {
		return nil, fmt.Errorf("aiger: malformed ascii header %q", header)
	}
	m, err := parseHeaderCounts(fields[1:])
	if err != nil {
		return nil, err
	}

	for i := 0; i < m.I; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("aiger: reading input %d: %w", i, err)
		}
		lit, err := parseLit(line)
		if err != nil {
			return nil, err
		}
		m.Inputs = append(m.Inputs, lit)
	}
	for i := 0; i < m.L; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("aiger: reading latch %d: %w", i, err)
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("aiger: malformed latch line %q", line)
		}
		cur, err := parseLit(parts[0])
		if err != nil {
			return nil, err
		}
		next, err := parseLit(parts[1])
		if err != nil {
			return nil, err
		}
		m.Latches = append(m.Latches, Latch{Cur: cur, Next: next})
	}
	for i := 0; i < m.O; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("aiger: reading output %d: %w", i, err)
		}
		lit, err := parseLit(line)
		if err != nil {
			return nil, err
		}
		m.Outputs = append(m.Outputs, lit)
	}
	for i := 0; i < m.A; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("aiger: reading and gate %d: %w", i, err)
		}
		parts := strings.Fields(line)
		if len(parts) != 3 {
			return nil, fmt.Errorf("aiger: malformed and-gate line %q", line)
		}
		lhs, err := parseLit(parts[0])
		if err != nil {
			return nil, err
		}
		rhs0, err := parseLit(parts[1])
		if err != nil {
			return nil, err
		}
		rhs1, err := parseLit(parts[2])
		if err != nil {
			return nil, err
		}
		m.Ands = append(m.Ands, AndGate{Lhs: lhs, Rhs0: rhs0, Rhs1: rhs1})
	}

	if err := readSymbolsAndComment(br, m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadBinary parses the ".aig" binary variant: header + implicit
// inputs/latches, followed by delta-encoded AND-gate operands.
func ReadBinary(r io.Reader) (*Model, error) {
	br := bufio.NewReader(r)
	header, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("aiger: reading header: %w", err)
	}
	fields := strings.Fields(header)
	if len(fields) != 6 || fields[0] != "aig" {
		return nil, fmt.Errorf("aiger: malformed binary header %q", header)
	}
	m, err := parseHeaderCounts(fields[1:])
	if err != nil {
		return nil, err
	}

	// Inputs are implicit: variable i+1 for input i.
	for i := 0; i < m.I; i++ {
		m.Inputs = append(m.Inputs, NewLit(uint32(i+1), false))
	}
	// Latch current-state literals are implicit (variable I+i+1); only
	// the next-state literal is given, one per line.
	for i := 0; i < m.L; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("aiger: reading latch %d: %w", i, err)
		}
		next, err := parseLit(line)
		if err != nil {
			return nil, err
		}
		cur := NewLit(uint32(m.I+i+1), false)
		m.Latches = append(m.Latches, Latch{Cur: cur, Next: next})
	}
	for i := 0; i < m.O; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("aiger: reading output %d: %w", i, err)
		}
		lit, err := parseLit(line)
		if err != nil {
			return nil, err
		}
		m.Outputs = append(m.Outputs, lit)
	}
	// AND gates: lhs is implicit (next variable after I+L), rhs0/rhs1
	// are recovered from two delta-encoded, variable-length integers:
	// delta0 = lhs - rhs0, delta1 = rhs0 - rhs1 (rhs0 >= rhs1 always).
	firstAndVar := m.I + m.L + 1
	for i := 0; i < m.A; i++ {
		lhsVar := uint32(firstAndVar + i)
		lhs := NewLit(lhsVar, false)
		d0, err := getNumber(br)
		if err != nil {
			return nil, fmt.Errorf("aiger: reading and gate %d delta0: %w", i, err)
		}
		d1, err := getNumber(br)
		if err != nil {
			return nil, fmt.Errorf("aiger: reading and gate %d delta1: %w", i, err)
		}
		rhs0 := Lit(uint32(lhs) - uint32(d0))
		rhs1 := Lit(uint32(rhs0) - uint32(d1))
		m.Ands = append(m.Ands, AndGate{Lhs: lhs, Rhs0: rhs0, Rhs1: rhs1})
	}

	if err := readSymbolsAndComment(br, m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseHeaderCounts(fields []string) (*Model, error) {
	nums := make([]int, 5)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("aiger: malformed header field %q: %w", f, err)
		}
		nums[i] = n
	}
	m := &Model{M: nums[0], I: nums[1], L: nums[2], O: nums[3], A: nums[4]}
	if m.I+m.L+m.A > m.M {
		return nil, fmt.Errorf("aiger: header inconsistent: I+L+A (%d) exceeds M (%d)", m.I+m.L+m.A, m.M)
	}
	return m, nil
}

func parseLit(s string) (Lit, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("aiger: malformed literal %q: %w", s, err)
	}
	return Lit(n), nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// getNumber decodes one AIGER variable-length unsigned integer: 7 bits
// of payload per byte, little-endian, continuation in the high bit.
// Mirrors AigReader.cc's get_number.
func getNumber(br *bufio.Reader) (uint64, error) {
	var x uint64
	var shift uint
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		x |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return x, nil
}

func readSymbolsAndComment(br *bufio.Reader, m *Model) error {
	m.InputNames = make([]string, m.I)
	m.LatchNames = make([]string, m.L)
	m.OutputNames = make([]string, m.O)
	for {
		line, err := readLine(br)
		if err == io.EOF && line == "" {
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}
		if line == "" {
			if err == io.EOF {
				return nil
			}
			continue
		}
		if line == "c" {
			var buf bytes.Buffer
			io.Copy(&buf, br)
			m.Comment = buf.String()
			return nil
		}
		kind := line[0]
		rest := line[1:]
		sp := strings.IndexByte(rest, ' ')
		if sp < 0 {
			if err == io.EOF {
				return nil
			}
			continue
		}
		idx, convErr := strconv.Atoi(rest[:sp])
		name := rest[sp+1:]
		if convErr == nil {
			switch kind {
			case 'i':
				if idx >= 0 && idx < len(m.InputNames) {
					m.InputNames[idx] = name
				}
			case 'l':
				if idx >= 0 && idx < len(m.LatchNames) {
					m.LatchNames[idx] = name
				}
			case 'o':
				if idx >= 0 && idx < len(m.OutputNames) {
					m.OutputNames[idx] = name
				}
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}
