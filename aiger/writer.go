package aiger

import (
	"bufio"
	"fmt"
	"io"
)

// WriteASCII emits m in the ".aag" textual variant. Supplements the
// spec (spec.md only requires reading AIGER; a round-trip writer is
// needed for the R2 law and is grounded on AigWriter.cc's layout).
func WriteASCII(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "aag %d %d %d %d %d\n", m.M, m.I, m.L, m.O, m.A)
	for _, l := range m.Inputs {
		fmt.Fprintf(bw, "%d\n", l)
	}
	for _, lt := range m.Latches {
		fmt.Fprintf(bw, "%d %d\n", lt.Cur, lt.Next)
	}
	for _, l := range m.Outputs {
		fmt.Fprintf(bw, "%d\n", l)
	}
	for _, a := range m.Ands {
		fmt.Fprintf(bw, "%d %d %d\n", a.Lhs, a.Rhs0, a.Rhs1)
	}
	writeSymbolsAndComment(bw, m)
	return bw.Flush()
}

// WriteBinary emits m in the ".aig" binary variant.
func WriteBinary(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "aig %d %d %d %d %d\n", m.M, m.I, m.L, m.O, m.A)
	for _, lt := range m.Latches {
		fmt.Fprintf(bw, "%d\n", lt.Next)
	}
	for _, l := range m.Outputs {
		fmt.Fprintf(bw, "%d\n", l)
	}
	for _, a := range m.Ands {
		d0 := uint64(a.Lhs) - uint64(a.Rhs0)
		d1 := uint64(a.Rhs0) - uint64(a.Rhs1)
		putNumber(bw, d0)
		putNumber(bw, d1)
	}
	writeSymbolsAndComment(bw, m)
	return bw.Flush()
}

// putNumber encodes v as an AIGER variable-length unsigned integer,
// mirroring AigReader.cc/AigWriter.cc's put_number.
func putNumber(w *bufio.Writer, v uint64) {
	for v >= 0x80 {
		w.WriteByte(byte(v&0x7f) | 0x80)
		v >>= 7
	}
	w.WriteByte(byte(v))
}

func writeSymbolsAndComment(bw *bufio.Writer, m *Model) {
	for i, name := range m.InputNames {
		if name != "" {
			fmt.Fprintf(bw, "i%d %s\n", i, name)
		}
	}
	for i, name := range m.LatchNames {
		if name != "" {
			fmt.Fprintf(bw, "l%d %s\n", i, name)
		}
	}
	for i, name := range m.OutputNames {
		if name != "" {
			fmt.Fprintf(bw, "o%d %s\n", i, name)
		}
	}
	if m.Comment != "" {
		bw.WriteString("c\n")
		bw.WriteString(m.Comment)
	}
}
