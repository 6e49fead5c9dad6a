package truthio_test

import (
	"strings"
	"testing"

	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/truthio"
)

// TestReadXor3 covers S5: a single 8-character line yields 3 input
// ports, 1 output port, and one Bdd logic node whose fanin list is the
// reverse of the ports' creation order (read_truth.cc's MSB-last
// convention).
func TestReadXor3(t *testing.T) {
	net, err := truthio.Read(strings.NewReader("01101001\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(net.PrimaryInputs()) != 3 {
		t.Fatalf("want 3 input ports, got %d", len(net.PrimaryInputs()))
	}
	if len(net.PrimaryOutputs()) != 1 {
		t.Fatalf("want 1 output port, got %d", len(net.PrimaryOutputs()))
	}
	logic, err := net.LogicList()
	if err != nil {
		t.Fatal(err)
	}
	if len(logic) != 1 {
		t.Fatalf("want 1 logic node, got %d", len(logic))
	}
	nd, _ := net.Node(logic[0])
	if nd.Kind() != bnet.KindBdd {
		t.Fatalf("want KindBdd, got %v", nd.Kind())
	}
	fanins := nd.Fanins()
	inputs := net.PrimaryInputs()
	if len(fanins) != len(inputs) {
		t.Fatalf("fanin count %d != input count %d", len(fanins), len(inputs))
	}
	for i, f := range fanins {
		want := inputs[len(inputs)-i-1]
		if f != want {
			t.Errorf("fanin %d = %v, want %v (reversed input order)", i, f, want)
		}
	}
}

func TestReadMultipleOutputs(t *testing.T) {
	net, err := truthio.Read(strings.NewReader("0110\n1001\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(net.PrimaryInputs()) != 2 {
		t.Fatalf("want 2 input ports, got %d", len(net.PrimaryInputs()))
	}
	if len(net.PrimaryOutputs()) != 2 {
		t.Fatalf("want 2 output ports, got %d", len(net.PrimaryOutputs()))
	}
}

func TestReadRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := truthio.Read(strings.NewReader("010\n")); err == nil {
		t.Error("want error for a line whose length is not a power of two")
	}
}

func TestReadRejectsMismatchedWidth(t *testing.T) {
	if _, err := truthio.Read(strings.NewReader("0110\n01\n")); err == nil {
		t.Error("want error when lines disagree on width")
	}
}

func TestReadRejectsBadChar(t *testing.T) {
	if _, err := truthio.Read(strings.NewReader("01x0\n")); err == nil {
		t.Error("want error for a non-0/1 character")
	}
}
