package bnet_test

import (
	"testing"

	"github.com/yusuke-matsunaga/bnet/bnet"
)

// TestImportSubnetwork covers SubnetImporter directly: cloning the
// fanin cone of a selected node from src into a dst that already
// carries its own boundary ports, attaching src's primary inputs to
// dst's via an explicit input map (this is the machinery OutputSplit
// and Clone both build on).
func TestImportSubnetwork(t *testing.T) {
	src := bnet.NewNetwork("src")
	smod := bnet.NewModifier(src)
	sa, _ := smod.NewPort("a", []bnet.Direction{bnet.DirInput})
	sb, _ := smod.NewPort("b", []bnet.Direction{bnet.DirInput})
	andID, err := smod.NewPrimitive("and_ab", bnet.KindAnd, []bnet.NodeId{sa.Bit(0), sb.Bit(0)})
	if err != nil {
		t.Fatal(err)
	}
	notID, err := smod.NewPrimitive("not_and", bnet.KindNot, []bnet.NodeId{andID})
	if err != nil {
		t.Fatal(err)
	}
	so, _ := smod.NewPort("o", []bnet.Direction{bnet.DirOutput})
	if err := smod.SetOutputSrc(so.Bit(0), notID); err != nil {
		t.Fatal(err)
	}
	if err := src.WrapUp(); err != nil {
		t.Fatal(err)
	}

	dst := bnet.NewNetwork("dst")
	dmod := bnet.NewModifier(dst)
	da, _ := dmod.NewPort("a", []bnet.Direction{bnet.DirInput})
	db, _ := dmod.NewPort("b", []bnet.Direction{bnet.DirInput})

	inputMap := map[bnet.NodeId]bnet.NodeId{
		sa.Bit(0): da.Bit(0),
		sb.Bit(0): db.Bit(0),
	}
	imp := bnet.NewSubnetImporter(dst, inputMap)
	cloned, err := imp.ImportSubnetwork(src, []bnet.NodeId{notID})
	if err != nil {
		t.Fatal(err)
	}
	if len(cloned) != 1 {
		t.Fatalf("want 1 cloned id, got %d", len(cloned))
	}

	dout, _ := dmod.NewPort("o", []bnet.Direction{bnet.DirOutput})
	if err := dmod.SetOutputSrc(dout.Bit(0), cloned[0]); err != nil {
		t.Fatal(err)
	}
	if err := dst.WrapUp(); err != nil {
		t.Fatal(err)
	}

	logic, err := dst.LogicList()
	if err != nil {
		t.Fatal(err)
	}
	if len(logic) != 2 {
		t.Fatalf("want 2 logic nodes (and, not), got %d", len(logic))
	}
}
