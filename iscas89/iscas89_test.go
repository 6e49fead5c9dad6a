package iscas89_test

import (
	"strings"
	"testing"

	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/iscas89"
)

// buildViaHandler drives iscas89.Handler as a tokenizer would for:
//   INPUT(a)
//   INPUT(b)
//   OUTPUT(y)
//   y = AND(a, b)
func buildViaHandler(t *testing.T) *bnet.Network {
	t.Helper()
	h := iscas89.NewHandler("")
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}
	if err := h.ReadInput(1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := h.ReadInput(2, "b"); err != nil {
		t.Fatal(err)
	}
	if err := h.ReadOutput(3, "y"); err != nil {
		t.Fatal(err)
	}
	if err := h.ReadGate(bnet.KindAnd, 4, "y", []int{1, 2}); err != nil {
		t.Fatal(err)
	}
	net, err := h.End()
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestHandlerBuildsAndGate(t *testing.T) {
	net := buildViaHandler(t)
	logic, err := net.LogicList()
	if err != nil {
		t.Fatal(err)
	}
	if len(logic) != 1 {
		t.Fatalf("want 1 logic node, got %d", len(logic))
	}
	nd, _ := net.Node(logic[0])
	if nd.Kind() != bnet.KindAnd {
		t.Errorf("want KindAnd, got %v", nd.Kind())
	}
}

// TestReadMux covers the select+data expansion to a sum-of-products
// expression: MUX(c, d0, d1) with 1 select line and 2 data lines.
func TestReadMux(t *testing.T) {
	h := iscas89.NewHandler("")
	if err := h.Init(); err != nil {
		t.Fatal(err)
	}
	for i, name := range []string{"c", "d0", "d1"} {
		if err := h.ReadInput(i+1, name); err != nil {
			t.Fatal(err)
		}
	}
	if err := h.ReadOutput(4, "y"); err != nil {
		t.Fatal(err)
	}
	if err := h.ReadMux(5, "y", []int{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	net, err := h.End()
	if err != nil {
		t.Fatal(err)
	}
	logic, err := net.LogicList()
	if err != nil {
		t.Fatal(err)
	}
	if len(logic) != 1 {
		t.Fatalf("want 1 logic node (the expr), got %d", len(logic))
	}
}

func TestWriteIscas89(t *testing.T) {
	net := buildViaHandler(t)
	var sb strings.Builder
	if err := iscas89.Write(&sb, net, iscas89.WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"INPUT(a)", "INPUT(b)", "OUTPUT(y)", "AND("} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteRejectsLatch(t *testing.T) {
	net := bnet.NewNetwork("bad")
	mod := bnet.NewModifier(net)
	mod.NewLatch("l1", false, false, bnet.CpvX)
	if err := net.WrapUp(); err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := iscas89.Write(&sb, net, iscas89.WriteOptions{}); err != iscas89.ErrNotConvertible {
		t.Errorf("want ErrNotConvertible, got %v", err)
	}
}
