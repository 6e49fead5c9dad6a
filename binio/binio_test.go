package binio_test

import (
	"bytes"
	"testing"

	"github.com/go-test/deep"
	"github.com/yusuke-matsunaga/bnet/binio"
	"github.com/yusuke-matsunaga/bnet/bnet"
)

// networkShape is a comparable snapshot of a Network's observable
// structure, used so round-trip tests can diff with deep.Equal instead
// of comparing the (unexported, pointer-heavy) Network directly.
type networkShape struct {
	Name        string
	InputNames  []string
	OutputNames []string
	LogicKinds  []string
}

func shapeOf(t *testing.T, net *bnet.Network) networkShape {
	t.Helper()
	s := networkShape{Name: net.Name()}
	for _, id := range net.PrimaryInputs() {
		nd, _ := net.Node(id)
		s.InputNames = append(s.InputNames, nd.Name())
	}
	for _, id := range net.PrimaryOutputs() {
		nd, _ := net.Node(id)
		s.OutputNames = append(s.OutputNames, nd.Name())
	}
	logic, err := net.LogicList()
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range logic {
		nd, _ := net.Node(id)
		s.LogicKinds = append(s.LogicKinds, nd.Kind().String())
	}
	return s
}

func buildHalfAdder(t *testing.T) *bnet.Network {
	t.Helper()
	net := bnet.NewNetwork("half_adder")
	mod := bnet.NewModifier(net)
	pa, _ := mod.NewPort("a", []bnet.Direction{bnet.DirInput})
	pb, _ := mod.NewPort("b", []bnet.Direction{bnet.DirInput})
	xorID, err := mod.NewPrimitive("sum_g", bnet.KindXor, []bnet.NodeId{pa.Bit(0), pb.Bit(0)})
	if err != nil {
		t.Fatal(err)
	}
	andID, err := mod.NewPrimitive("carry_g", bnet.KindAnd, []bnet.NodeId{pa.Bit(0), pb.Bit(0)})
	if err != nil {
		t.Fatal(err)
	}
	psum, _ := mod.NewPort("sum", []bnet.Direction{bnet.DirOutput})
	pcarry, _ := mod.NewPort("carry", []bnet.Direction{bnet.DirOutput})
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

// TestDumpRestoreRoundTrip covers R1: binio.Restore(binio.Dump(net))
// preserves the network's observable shape.
func TestDumpRestoreRoundTrip(t *testing.T) {
	net := buildHalfAdder(t)
	var buf bytes.Buffer
	if err := binio.Dump(&buf, net); err != nil {
		t.Fatal(err)
	}
	restored, err := binio.Restore(&buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(shapeOf(t, net), shapeOf(t, restored)); diff != nil {
		t.Errorf("restored network's shape differs from the original: %v", diff)
	}
}

func TestRestoreRejectsBadSignature(t *testing.T) {
	if _, err := binio.Restore(bytes.NewReader([]byte("not a dump")), nil); err == nil {
		t.Error("want error for a bad signature")
	}
}
