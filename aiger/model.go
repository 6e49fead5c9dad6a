// Package aiger implements the AIGER And-Inverter Graph interchange
// format (both the ASCII ".aag" and binary ".aig" variants): parsing,
// writing, and conversion to/from a bnet.Network.
//
// Grounded on the original's AigReader.cc/AigWriter.cc and Aig2Bnet
// conversion logic (read_aig.cc); the ASCII/binary reader split and the
// delta-encoded variable-length integer scheme for AND-gate operands
// follow that source directly.
package aiger

import "fmt"

// Lit is an AIGER literal: bit 0 is the polarity (1 = negated), the
// remaining bits are 2*variable index. Literal 0 is constant false,
// literal 1 is constant true.
type Lit uint32

// Var returns the variable index encoded by l (0 for the constants).
func (l Lit) Var() uint32 { return uint32(l) >> 1 }

// Negated reports whether l is the negated form of its variable.
func (l Lit) Negated() bool { return l&1 != 0 }

// NewLit builds the literal for variable v with the given polarity.
func NewLit(v uint32, negated bool) Lit {
	l := Lit(v << 1)
	if negated {
		l |= 1
	}
	return l
}

// Not returns the complementary literal.
func (l Lit) Not() Lit { return l ^ 1 }

// ConstFalse and ConstTrue are the two constant literals.
const (
	ConstFalse Lit = 0
	ConstTrue  Lit = 1
)

// Latch is one state element: Next is the literal driving the latch on
// the next cycle, Cur is its own (always even, non-negated) literal.
type Latch struct {
	Cur  Lit
	Next Lit
}

// AndGate is one two-input AND: Lhs is always the gate's own (even,
// positive) literal; Rhs0/Rhs1 are its two inputs.
type AndGate struct {
	Lhs, Rhs0, Rhs1 Lit
}

// Model is the parsed content of one AIGER file.
type Model struct {
	M int // largest variable index
	I int // number of inputs
	L int // number of latches
	O int // number of outputs
	A int // number of AND gates

	Inputs  []Lit
	Latches []Latch
	Outputs []Lit
	Ands    []AndGate

	// InputNames/LatchNames/OutputNames hold the optional symbol table,
	// indexed the same way as Inputs/Latches/Outputs; empty string means
	// no symbol was given for that index.
	InputNames  []string
	LatchNames  []string
	OutputNames []string

	Comment string
}

// Validate checks the header counts against the actual section lengths
// and that every literal used is in range (0..2M+1), the structural
// checks AigReader performs before handing the model to a consumer.
func (m *Model) Validate() error {
	if len(m.Inputs) != m.I {
		return fmt.Errorf("aiger: header declares %d inputs, found %d", m.I, len(m.Inputs))
	}
	if len(m.Latches) != m.L {
		return fmt.Errorf("aiger: header declares %d latches, found %d", m.L, len(m.Latches))
	}
	if len(m.Outputs) != m.O {
		return fmt.Errorf("aiger: header declares %d outputs, found %d", m.O, len(m.Outputs))
	}
	if len(m.Ands) != m.A {
		return fmt.Errorf("aiger: header declares %d and gates, found %d", m.A, len(m.Ands))
	}
	maxVar := uint32(m.M)
	checkLit := func(l Lit, ctx string) error {
		if l.Var() > maxVar {
			return fmt.Errorf("aiger: %s literal %d exceeds maxvar %d", ctx, l, m.M)
		}
		return nil
	}
	for i, l := range m.Inputs {
		if err := checkLit(l, fmt.Sprintf("input %d", i)); err != nil {
			return err
		}
		if l.Negated() {
			return fmt.Errorf("aiger: input %d literal %d is odd: an input line must name a variable directly, never its negation", i, l)
		}
	}
	for i, lt := range m.Latches {
		if err := checkLit(lt.Cur, fmt.Sprintf("latch %d cur", i)); err != nil {
			return err
		}
		if lt.Cur.Negated() {
			return fmt.Errorf("aiger: latch %d current-state literal %d is odd: a latch's own literal must name a variable directly", i, lt.Cur)
		}
		if err := checkLit(lt.Next, fmt.Sprintf("latch %d next", i)); err != nil {
			return err
		}
	}
	for i, l := range m.Outputs {
		if err := checkLit(l, fmt.Sprintf("output %d", i)); err != nil {
			return err
		}
	}
	for i, a := range m.Ands {
		if err := checkLit(a.Lhs, fmt.Sprintf("and %d lhs", i)); err != nil {
			return err
		}
		if err := checkLit(a.Rhs0, fmt.Sprintf("and %d rhs0", i)); err != nil {
			return err
		}
		if err := checkLit(a.Rhs1, fmt.Sprintf("and %d rhs1", i)); err != nil {
			return err
		}
		if a.Lhs.Var() <= a.Rhs0.Var() || a.Lhs.Var() <= a.Rhs1.Var() {
			return fmt.Errorf("aiger: and %d: lhs variable must exceed both operands (AIG topological order)", i)
		}
	}
	return nil
}
