package bnet

import "github.com/yusuke-matsunaga/bnet/tv"

// Primitive is the result of classifying a function's truth table
// against the ten fixed primitive shapes, or PrimNone if it matches
// none of them.
type Primitive int

const (
	PrimNone Primitive = iota
	PrimC0
	PrimC1
	PrimBuff
	PrimNot
	PrimAnd
	PrimNand
	PrimOr
	PrimNor
	PrimXor
	PrimXnor
)

func (p Primitive) String() string {
	switch p {
	case PrimC0:
		return "C0"
	case PrimC1:
		return "C1"
	case PrimBuff:
		return "Buff"
	case PrimNot:
		return "Not"
	case PrimAnd:
		return "And"
	case PrimNand:
		return "Nand"
	case PrimOr:
		return "Or"
	case PrimNor:
		return "Nor"
	case PrimXor:
		return "Xor"
	case PrimXnor:
		return "Xnor"
	default:
		return "None"
	}
}

// Kind translates a classified Primitive into the corresponding
// NodeKind, or false if p is PrimNone.
func (p Primitive) Kind() (NodeKind, bool) {
	switch p {
	case PrimC0:
		return KindC0, true
	case PrimC1:
		return KindC1, true
	case PrimBuff:
		return KindBuff, true
	case PrimNot:
		return KindNot, true
	case PrimAnd:
		return KindAnd, true
	case PrimNand:
		return KindNand, true
	case PrimOr:
		return KindOr, true
	case PrimNor:
		return KindNor, true
	case PrimXor:
		return KindXor, true
	case PrimXnor:
		return KindXnor, true
	}
	return 0, false
}

// ClassifyTv classifies f against the ten fixed primitive shapes,
// grounded on FuncAnalyzer.cc's tv2logic_type: it special-cases arity 0
// (always C0 or C1), then checks And/Or/Xor and their complements by
// comparing f's table directly against the canonical table of that
// shape over f's arity, falling back to Buff/Not only at arity 1 and
// PrimNone otherwise.
func ClassifyTv(f *tv.Func) Primitive {
	n := f.Arity()
	all0, all1 := true, false
	if n == 0 {
		if f.Bit(0) {
			return PrimC1
		}
		return PrimC0
	}
	all0 = isConst(f, false)
	all1 = isConst(f, true)
	if all0 {
		return PrimC0
	}
	if all1 {
		return PrimC1
	}
	if n == 1 {
		if f.Bit(0) == false && f.Bit(1) == true {
			return PrimBuff
		}
		if f.Bit(0) == true && f.Bit(1) == false {
			return PrimNot
		}
		return PrimNone
	}
	switch {
	case matchesAnd(f, false):
		return PrimAnd
	case matchesAnd(f, true):
		return PrimNand
	case matchesOr(f, false):
		return PrimOr
	case matchesOr(f, true):
		return PrimNor
	case matchesXor(f, false):
		return PrimXor
	case matchesXor(f, true):
		return PrimXnor
	}
	return PrimNone
}

func isConst(f *tv.Func, val bool) bool {
	n := 1 << uint(f.Arity())
	for i := 0; i < n; i++ {
		if f.Bit(i) != val {
			return false
		}
	}
	return true
}

func matchesAnd(f *tv.Func, invert bool) bool {
	n := 1 << uint(f.Arity())
	for m := 0; m < n; m++ {
		want := m == n-1
		if invert {
			want = !want
		}
		if f.Bit(m) != want {
			return false
		}
	}
	return true
}

func matchesOr(f *tv.Func, invert bool) bool {
	n := 1 << uint(f.Arity())
	for m := 0; m < n; m++ {
		want := m != 0
		if invert {
			want = !want
		}
		if f.Bit(m) != want {
			return false
		}
	}
	return true
}

func matchesXor(f *tv.Func, invert bool) bool {
	n := 1 << uint(f.Arity())
	for m := 0; m < n; m++ {
		parity := false
		for b := 0; b < f.Arity(); b++ {
			if m&(1<<uint(b)) != 0 {
				parity = !parity
			}
		}
		want := parity
		if invert {
			want = !want
		}
		if f.Bit(m) != want {
			return false
		}
	}
	return true
}

// ClassifyExpr materializes e's truth table over the given arity and
// classifies it the same way as ClassifyTv.
func ClassifyExpr(e tv.Evaluator, arity int) Primitive {
	return ClassifyTv(tv.FromEvaluator(e, arity))
}
