package bnet_test

import (
	"testing"

	"github.com/yusuke-matsunaga/bnet/bnet"
)

// buildHalfAdder wires a = i0, b = i1, sum = a^b, carry = a&b: the
// shape S1 (AIGER ASCII round-trip of a half-adder) checks elsewhere;
// here it exercises NewPort/NewPrimitive/SetOutputSrc/WrapUp directly.
func buildHalfAdder(t *testing.T) *bnet.Network {
	t.Helper()
	net := bnet.NewNetwork("half_adder")
	mod := bnet.NewModifier(net)

	pa, err := mod.NewPort("a", []bnet.Direction{bnet.DirInput})
	if err != nil {
		t.Fatal(err)
	}
	pb, err := mod.NewPort("b", []bnet.Direction{bnet.DirInput})
	if err != nil {
		t.Fatal(err)
	}
	xorID, err := mod.NewPrimitive("sum_g", bnet.KindXor, []bnet.NodeId{pa.Bit(0), pb.Bit(0)})
	if err != nil {
		t.Fatal(err)
	}
	andID, err := mod.NewPrimitive("carry_g", bnet.KindAnd, []bnet.NodeId{pa.Bit(0), pb.Bit(0)})
	if err != nil {
		t.Fatal(err)
	}
	psum, err := mod.NewPort("sum", []bnet.Direction{bnet.DirOutput})
	if err != nil {
		t.Fatal(err)
	}
	pcarry, err := mod.NewPort("carry", []bnet.Direction{bnet.DirOutput})
	if err != nil {
		t.Fatal(err)
	}
	if err := mod.SetOutputSrc(psum.Bit(0), xorID); err != nil {
		t.Fatal(err)
	}
	if err := mod.SetOutputSrc(pcarry.Bit(0), andID); err != nil {
		t.Fatal(err)
	}
	if err := net.WrapUp(); err != nil {
		t.Fatal(err)
	}
	return net
}

func TestWrapUpTopologicalOrder(t *testing.T) {
	net := buildHalfAdder(t)
	logic, err := net.LogicList()
	if err != nil {
		t.Fatal(err)
	}
	if len(logic) != 2 {
		t.Fatalf("want 2 logic nodes, got %d", len(logic))
	}
	if !net.Sane() {
		t.Error("network should be sane after WrapUp")
	}
	if len(net.PrimaryInputs()) != 2 {
		t.Errorf("want 2 primary inputs, got %d", len(net.PrimaryInputs()))
	}
	if len(net.PrimaryOutputs()) != 2 {
		t.Errorf("want 2 primary outputs, got %d", len(net.PrimaryOutputs()))
	}
}

// TestDuplicatePortName covers E5: new_port with a duplicate name.
func TestDuplicatePortName(t *testing.T) {
	net := bnet.NewNetwork("dup")
	mod := bnet.NewModifier(net)
	if _, err := mod.NewPort("a", []bnet.Direction{bnet.DirInput}); err != nil {
		t.Fatal(err)
	}
	if _, err := mod.NewPort("a", []bnet.Direction{bnet.DirInput}); err != bnet.ErrDuplicatePortName {
		t.Errorf("want ErrDuplicatePortName, got %v", err)
	}
}

// TestArityMismatch covers new_primitive's fixed-arity check (e.g. a
// two-input NOT is rejected).
func TestArityMismatch(t *testing.T) {
	net := bnet.NewNetwork("arity")
	mod := bnet.NewModifier(net)
	pa, _ := mod.NewPort("a", []bnet.Direction{bnet.DirInput})
	pb, _ := mod.NewPort("b", []bnet.Direction{bnet.DirInput})
	if _, err := mod.NewPrimitive("bad", bnet.KindNot, []bnet.NodeId{pa.Bit(0), pb.Bit(0)}); err != bnet.ErrArityMismatch {
		t.Errorf("want ErrArityMismatch, got %v", err)
	}
}

// TestSubstituteFanout covers S4: replacing one node's every consumer
// with another, the edges (not the old node) moving.
func TestSubstituteFanout(t *testing.T) {
	net := bnet.NewNetwork("subst")
	mod := bnet.NewModifier(net)
	pa, _ := mod.NewPort("a", []bnet.Direction{bnet.DirInput})
	notID, err := mod.NewPrimitive("not_a", bnet.KindNot, []bnet.NodeId{pa.Bit(0)})
	if err != nil {
		t.Fatal(err)
	}
	buffID, err := mod.NewPrimitive("buff", bnet.KindBuff, []bnet.NodeId{notID})
	if err != nil {
		t.Fatal(err)
	}
	not2ID, err := mod.NewPrimitive("not2", bnet.KindNot, []bnet.NodeId{pa.Bit(0)})
	if err != nil {
		t.Fatal(err)
	}
	mod.SubstituteFanout(notID, not2ID)
	if err := net.WrapUp(); err != nil {
		t.Fatal(err)
	}
	buffNode, ok := net.Node(buffID)
	if !ok {
		t.Fatal("buff node missing")
	}
	fanins := buffNode.Fanins()
	if len(fanins) != 1 || fanins[0] != not2ID {
		t.Errorf("want buff's fanin retargeted to not2 (%v), got %v", not2ID, fanins)
	}
}

func TestDffRoundTrip(t *testing.T) {
	net := bnet.NewNetwork("dff_net")
	mod := bnet.NewModifier(net)
	pd, _ := mod.NewPort("d", []bnet.Direction{bnet.DirInput})
	d := mod.NewDff("ff1", true, false, bnet.CpvL)
	if err := mod.SetOutputSrc(d.DataIn(), pd.Bit(0)); err != nil {
		t.Fatal(err)
	}
	pq, _ := mod.NewPort("q", []bnet.Direction{bnet.DirOutput})
	if err := mod.SetOutputSrc(pq.Bit(0), d.DataOut()); err != nil {
		t.Fatal(err)
	}
	if err := net.WrapUp(); err != nil {
		t.Fatal(err)
	}
	if net.DffNum() != 1 {
		t.Fatalf("want 1 dff, got %d", net.DffNum())
	}
	if !d.HasClear() || d.HasPreset() {
		t.Errorf("want hasClear=true hasPreset=false, got %v %v", d.HasClear(), d.HasPreset())
	}
}
