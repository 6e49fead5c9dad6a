// Package tv is the narrow interface the core consumes from the
// (out-of-scope) truth-table library: arity, bit lookup by minterm index,
// and a hash-consing key. Truth values for arity n are indexed by
// minterm, most-significant variable last (bit i of the table is the
// function's value at the assignment whose binary representation is i).
package tv

import "github.com/cespare/xxhash/v2"

// Func is a dense bit-vector truth table for an n-input Boolean function.
type Func struct {
	arity int
	bits  []uint64
}

// New allocates an all-zero truth table of the given arity.
func New(arity int) *Func {
	n := 1 << uint(arity)
	return &Func{arity: arity, bits: make([]uint64, (n+63)/64)}
}

// FromBitString builds a Func from a string of '0'/'1' characters of
// length 2^arity, index 0 first (as in the .truth file format, §6.1).
func FromBitString(s string) *Func {
	arity := 0
	for 1<<uint(arity) < len(s) {
		arity++
	}
	f := New(arity)
	for i := 0; i < len(s); i++ {
		if s[i] == '1' {
			f.SetBit(i, true)
		}
	}
	return f
}

// Zero returns the all-zero function of the given arity.
func Zero(arity int) *Func { return New(arity) }

// One returns the all-one function of the given arity.
func One(arity int) *Func {
	f := New(arity)
	n := 1 << uint(arity)
	for i := 0; i < n; i++ {
		f.SetBit(i, true)
	}
	return f
}

// Arity returns the number of input variables.
func (f *Func) Arity() int { return f.arity }

// Bit returns the function's value at the given minterm index.
func (f *Func) Bit(minterm int) bool {
	return f.bits[minterm/64]&(1<<uint(minterm%64)) != 0
}

// SetBit sets the function's value at the given minterm index.
func (f *Func) SetBit(minterm int, v bool) {
	word, bit := minterm/64, uint(minterm%64)
	if v {
		f.bits[word] |= 1 << bit
	} else {
		f.bits[word] &^= 1 << bit
	}
}

// Equal reports whether f and g describe the same function (same arity,
// same bits).
func (f *Func) Equal(g *Func) bool {
	if f.arity != g.arity {
		return false
	}
	for i := range f.bits {
		if f.bits[i] != g.bits[i] {
			return false
		}
	}
	return true
}

// Key returns a hash of (arity, bits) suitable for hash-consing truth
// tables (I7: "identical truth tables map to the same expression-pool
// ID"). Collisions are possible; callers must still confirm Equal before
// reusing a pooled entry.
func (f *Func) Key() uint64 {
	h := xxhash.New()
	var hdr [8]byte
	putLE64(hdr[:], uint64(f.arity))
	h.Write(hdr[:])
	for _, w := range f.bits {
		var buf [8]byte
		putLE64(buf[:], w)
		h.Write(buf[:])
	}
	return h.Sum64()
}

func putLE64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

// Evaluator is the narrow interface consumed when materializing an
// expr.Expr into a Func (used by new_expr's hash-cons check and by
// FuncAnalyzer): anything that can be evaluated over a bool assignment.
type Evaluator interface {
	Evaluate(assign []bool) bool
}

// FromEvaluator computes the truth table of e over all 2^arity
// assignments, most-significant variable last.
func FromEvaluator(e Evaluator, arity int) *Func {
	f := New(arity)
	n := 1 << uint(arity)
	assign := make([]bool, arity)
	for m := 0; m < n; m++ {
		for i := 0; i < arity; i++ {
			assign[i] = m&(1<<uint(i)) != 0
		}
		if e.Evaluate(assign) {
			f.SetBit(m, true)
		}
	}
	return f
}
