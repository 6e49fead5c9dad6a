package cell_test

import (
	"testing"

	"github.com/yusuke-matsunaga/bnet/cell"
	"github.com/yusuke-matsunaga/bnet/expr"
)

func TestMapLibraryLookup(t *testing.T) {
	and2 := cell.NewCombinational(1, "AND2", 2, expr.And(expr.Lit(0, true), expr.Lit(1, true)))
	dff := cell.NewSequential(2, "DFF", 1, expr.Lit(0, true))
	lib := cell.NewMapLibrary(and2, dff)

	got, ok := lib.Cell(1)
	if !ok {
		t.Fatal("want cell 1 to be present")
	}
	if got.Name() != "AND2" {
		t.Errorf("got name %q, want AND2", got.Name())
	}
	if got.IsSequential() {
		t.Error("AND2 should not be sequential")
	}

	if _, ok := lib.Cell(99); ok {
		t.Error("want absent ID to report false")
	}
}

func TestSequentialAndTristateFlags(t *testing.T) {
	dff := cell.NewSequential(2, "DFF", 1, expr.Lit(0, true))
	if !dff.IsSequential() {
		t.Error("want IsSequential true")
	}
	if dff.HasTristate() {
		t.Error("want HasTristate false")
	}

	tri := cell.NewTristate(3, "TBUF", 1, expr.Lit(0, true))
	if !tri.HasTristate() {
		t.Error("want HasTristate true")
	}
	if tri.IsSequential() {
		t.Error("want IsSequential false")
	}
}

func TestOutputExpr(t *testing.T) {
	e := expr.Or(expr.Lit(0, true), expr.Lit(1, false))
	c := cell.NewCombinational(4, "OR2", 2, e)
	if c.OutputNum() != 1 {
		t.Fatalf("want 1 output, got %d", c.OutputNum())
	}
	if expr.String(c.Output(0)) != expr.String(e) {
		t.Errorf("Output(0) = %s, want %s", expr.String(c.Output(0)), expr.String(e))
	}
}
