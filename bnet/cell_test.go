package bnet_test

import (
	"testing"

	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/cell"
	"github.com/yusuke-matsunaga/bnet/expr"
)

// TestNewLogicCellRejectsTristate covers E4: a tristate cell is never a
// valid NewLogicCell argument.
func TestNewLogicCellRejectsTristate(t *testing.T) {
	net := bnet.NewNetwork("cell_net")
	mod := bnet.NewModifier(net)
	pa, _ := mod.NewPort("a", []bnet.Direction{bnet.DirInput})
	tri := cell.NewTristate(1, "TBUF", 1, expr.Lit(0, true))
	if _, err := mod.NewLogicCell("g", tri, []bnet.NodeId{pa.Bit(0)}); err != bnet.ErrNotCombinationalCell {
		t.Errorf("want ErrNotCombinationalCell, got %v", err)
	}
}

func TestNewLogicCellBuildsAnd2(t *testing.T) {
	net := bnet.NewNetwork("cell_net")
	mod := bnet.NewModifier(net)
	pa, _ := mod.NewPort("a", []bnet.Direction{bnet.DirInput})
	pb, _ := mod.NewPort("b", []bnet.Direction{bnet.DirInput})
	and2 := cell.NewCombinational(1, "AND2", 2, expr.And(expr.Lit(0, true), expr.Lit(1, true)))
	id, err := mod.NewLogicCell("g", and2, []bnet.NodeId{pa.Bit(0), pb.Bit(0)})
	if err != nil {
		t.Fatal(err)
	}
	po, _ := mod.NewPort("o", []bnet.Direction{bnet.DirOutput})
	if err := mod.SetOutputSrc(po.Bit(0), id); err != nil {
		t.Fatal(err)
	}
	if err := net.WrapUp(); err != nil {
		t.Fatal(err)
	}
	nd, _ := net.Node(id)
	if nd.Kind() != bnet.KindCell {
		t.Errorf("want KindCell, got %v", nd.Kind())
	}
}

// TestNewDffCellRejectsCombinational covers the E4-family rejection: a
// combinational cell is never a valid NewDffCell argument.
func TestNewDffCellRejectsCombinational(t *testing.T) {
	net := bnet.NewNetwork("cell_net")
	mod := bnet.NewModifier(net)
	and2 := cell.NewCombinational(1, "AND2", 2, expr.And(expr.Lit(0, true), expr.Lit(1, true)))
	if _, err := mod.NewDffCell("ff", and2); err != bnet.ErrNotSequentialCell {
		t.Errorf("want ErrNotSequentialCell, got %v", err)
	}
}

func TestNewDffCellBuildsSequential(t *testing.T) {
	net := bnet.NewNetwork("cell_net")
	mod := bnet.NewModifier(net)
	dffCell := cell.NewSequential(2, "DFF", 1, expr.Lit(0, true))
	d, err := mod.NewDffCell("ff", dffCell)
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind() != bnet.DffKindCell {
		t.Errorf("want DffKindCell, got %v", d.Kind())
	}
	if d.CellOutputNum() != 1 {
		t.Fatalf("want 1 cell output, got %d", d.CellOutputNum())
	}
	if d.CellOutput(0) == bnet.NullID {
		t.Error("want a valid cell-output node id")
	}
}

// TestClassifyExpr covers classifying an Expr-backed function the same
// way as a truth table (S3's supporting machinery).
func TestClassifyExpr(t *testing.T) {
	e := expr.Xor(expr.Lit(0, true), expr.Lit(1, true))
	if got := bnet.ClassifyExpr(e, 2); got != bnet.PrimXor {
		t.Errorf("ClassifyExpr(xor) = %v, want PrimXor", got)
	}
	c0 := expr.Zero()
	if got := bnet.ClassifyExpr(c0, 2); got != bnet.PrimC0 {
		t.Errorf("ClassifyExpr(0) = %v, want PrimC0", got)
	}
}
