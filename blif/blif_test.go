package blif_test

import (
	"strings"
	"testing"

	"github.com/yusuke-matsunaga/bnet/blif"
	"github.com/yusuke-matsunaga/bnet/bnet"
)

// buildViaHandler drives blif.Handler the way a tokenizer would for:
//   .model m
//   .inputs a b
//   .outputs y
//   .names a b y
//   11 1
func buildViaHandler(t *testing.T) *bnet.Network {
	t.Helper()
	h := blif.NewHandler("", "", nil)
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}
	if err := h.Model("m"); err != nil {
		t.Fatal(err)
	}
	if err := h.InputsElem(1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := h.InputsElem(2, "b"); err != nil {
		t.Fatal(err)
	}
	if err := h.OutputsElem(3, "y"); err != nil {
		t.Fatal(err)
	}
	if err := h.Names(4, "y", []int{1, 2}, blif.Cover{Cubes: []string{"11"}, Output: '1'}); err != nil {
		t.Fatal(err)
	}
	net, err := h.End()
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestHandlerBuildsAndNode(t *testing.T) {
	net := buildViaHandler(t)
	if len(net.PrimaryInputs()) != 2 {
		t.Fatalf("want 2 inputs, got %d", len(net.PrimaryInputs()))
	}
	logic, err := net.LogicList()
	if err != nil {
		t.Fatal(err)
	}
	if len(logic) != 1 {
		t.Fatalf("want 1 logic node, got %d", len(logic))
	}
}

func TestWriteBlif(t *testing.T) {
	net := buildViaHandler(t)
	var sb strings.Builder
	if err := blif.Write(&sb, net, blif.WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{".model m", ".inputs a b", ".outputs y", ".names", ".end"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestWriteRejectsLatch covers E6's sibling for blif: a Latch-kind dff
// cannot be expressed, so Write must refuse before writing anything.
func TestWriteRejectsLatch(t *testing.T) {
	net := bnet.NewNetwork("bad")
	mod := bnet.NewModifier(net)
	mod.NewLatch("l1", false, false, bnet.CpvX)
	if err := net.WrapUp(); err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := blif.Write(&sb, net, blif.WriteOptions{}); err != blif.ErrNotConvertible {
		t.Errorf("want ErrNotConvertible, got %v", err)
	}
	if sb.Len() != 0 {
		t.Error("want nothing written on rejection")
	}
}
