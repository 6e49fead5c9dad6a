package expr_test

import (
	"testing"

	"github.com/yusuke-matsunaga/bnet/expr"
)

func TestEvaluate(t *testing.T) {
	// (a & ~b) | (~b & c), the S3 scenario's source expression.
	a, b, c := expr.Lit(0, true), expr.Lit(1, true), expr.Lit(2, true)
	e := expr.Or(expr.And(a, expr.Not(b)), expr.And(expr.Not(b), c))

	cases := []struct {
		assign []bool
		want   bool
	}{
		{[]bool{true, false, false}, true},
		{[]bool{false, false, true}, true},
		{[]bool{true, true, false}, false},
		{[]bool{false, true, true}, false},
		{[]bool{false, true, false}, false},
	}
	for _, c := range cases {
		if got := e.Evaluate(c.assign); got != c.want {
			t.Errorf("Evaluate(%v) = %v, want %v", c.assign, got, c.want)
		}
	}
}

func TestNotDeMorgan(t *testing.T) {
	a, b := expr.Lit(0, true), expr.Lit(1, true)
	e := expr.Not(expr.And(a, b))
	if e.Kind() != expr.KindOr {
		t.Fatalf("Not(And(a,b)) should push down to an Or, got %v", e.Kind())
	}
	for _, assign := range [][]bool{{true, true}, {true, false}, {false, true}, {false, false}} {
		want := !(assign[0] && assign[1])
		if got := e.Evaluate(assign); got != want {
			t.Errorf("Evaluate(%v) = %v, want %v", assign, got, want)
		}
	}
}

func TestIsSOP(t *testing.T) {
	a, b, c := expr.Lit(0, true), expr.Lit(1, false), expr.Lit(2, true)
	sop := expr.Or(expr.And(a, b), c)
	if !sop.IsSOP() {
		t.Error("Or(And(a,b), c) should be SOP")
	}
	xor := expr.Xor(a, b)
	if xor.IsSOP() {
		t.Error("Xor should never be SOP")
	}
	nested := expr.And(expr.Or(a, b), c)
	if nested.IsSOP() {
		t.Error("And of a non-literal Or operand should not be SOP")
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	a, b, c := expr.Lit(0, true), expr.Lit(1, false), expr.Lit(2, true)
	e := expr.Or(expr.And(a, b), c)
	s := expr.String(e)

	parsed, err := expr.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	for _, assign := range [][]bool{{true, true, true}, {false, false, false}, {true, false, true}, {false, true, false}} {
		if got, want := parsed.Evaluate(assign), e.Evaluate(assign); got != want {
			t.Errorf("round-tripped expr disagrees at %v: got %v want %v", assign, got, want)
		}
	}
	if s2 := expr.String(parsed); s2 != s {
		t.Errorf("String(Parse(%q)) = %q, want %q", s, s2, s)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := expr.Parse("AND(+0,"); err == nil {
		t.Error("want error for truncated input")
	}
	if _, err := expr.Parse("+0 garbage"); err == nil {
		t.Error("want error for trailing garbage")
	}
}
