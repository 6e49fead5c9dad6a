package verilog_test

import (
	"strings"
	"testing"

	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/verilog"
)

func buildHalfAdder(t *testing.T) *bnet.Network {
	t.Helper()
	net := bnet.NewNetwork("half_adder")
	mod := bnet.NewModifier(net)
	pa, _ := mod.NewPort("a", []bnet.Direction{bnet.DirInput})
	pb, _ := mod.NewPort("b", []bnet.Direction{bnet.DirInput})
	xorID, err := mod.NewPrimitive("", bnet.KindXor, []bnet.NodeId{pa.Bit(0), pb.Bit(0)})
	if err != nil {
		t.Fatal(err)
	}
	andID, err := mod.NewPrimitive("", bnet.KindAnd, []bnet.NodeId{pa.Bit(0), pb.Bit(0)})
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

func TestWriteModuleShape(t *testing.T) {
	net := buildHalfAdder(t)
	var sb strings.Builder
	if err := verilog.Write(&sb, net, verilog.WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"module half_adder(", "input  a", "input  b", "endmodule"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "assign") != 2 {
		t.Errorf("want 2 assign statements (xor, and), got:\n%s", out)
	}
}

func TestWriteDffAlwaysBlock(t *testing.T) {
	net := bnet.NewNetwork("ff_net")
	mod := bnet.NewModifier(net)
	pd, _ := mod.NewPort("d", []bnet.Direction{bnet.DirInput})
	d := mod.NewDff("q", true, false, bnet.CpvL)
	if err := mod.SetOutputSrc(d.DataIn(), pd.Bit(0)); err != nil {
		t.Fatal(err)
	}
	pclk, _ := mod.NewPort("clk", []bnet.Direction{bnet.DirInput})
	if err := mod.SetOutputSrc(d.Clock(), pclk.Bit(0)); err != nil {
		t.Fatal(err)
	}
	prst, _ := mod.NewPort("rst", []bnet.Direction{bnet.DirInput})
	if err := mod.SetOutputSrc(d.Clear(), prst.Bit(0)); err != nil {
		t.Fatal(err)
	}
	pq, _ := mod.NewPort("q_out", []bnet.Direction{bnet.DirOutput})
	if err := mod.SetOutputSrc(pq.Bit(0), d.DataOut()); err != nil {
		t.Fatal(err)
	}
	if err := net.WrapUp(); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := verilog.Write(&sb, net, verilog.WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "posedge clk") {
		t.Errorf("want a posedge-clk always block:\n%s", out)
	}
	if !strings.Contains(out, "posedge rst") {
		t.Errorf("want an async-clear posedge-rst sensitivity term:\n%s", out)
	}
	if !strings.Contains(out, "reg    q.out;") {
		t.Errorf("want the dff's data-out wire declared as reg:\n%s", out)
	}
}
