package verilog

import (
	"bufio"
	"fmt"
	"io"

	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/expr"
	"github.com/yusuke-matsunaga/bnet/tv"
)

// WriteOptions supplies the prefix/suffix VerilogWriter's init_name_array
// uses to synthesize names in each of the three namespaces a Verilog
// module uses: ports, wires (nodes), and instances (cell/UDP instances).
type WriteOptions struct {
	PortPrefix, PortSuffix         string
	NodePrefix, NodeSuffix         string
	InstancePrefix, InstanceSuffix string
}

var primOp = map[bnet.NodeKind]string{
	bnet.KindAnd: " & ", bnet.KindNand: " & ",
	bnet.KindOr: " | ", bnet.KindNor: " | ",
	bnet.KindXor: " ^ ", bnet.KindXnor: " ^ ",
}

// Write emits net as a Verilog module: port list, input/output/reg/wire
// declarations, one UDP primitive definition per distinct TvFunc the
// network references, always-block descriptions for FF/latch dffs and
// positional instance statements for cell-mapped dffs and logic nodes,
// and assign statements for everything else.
//
// Unlike blif/iscas89's Write, there is no ErrNotConvertible case:
// VerilogWriter.cc's own is_concrete() precondition (network fully
// wrapped up) is already required by every other writer in this module.
// A Bdd-kind logic node has no expression form here: Write returns an
// error when it reaches one.
func Write(w io.Writer, net *bnet.Network, opts WriteOptions) error {
	if opts.PortPrefix == "" {
		opts.PortPrefix = "__port"
	}
	if opts.NodePrefix == "" {
		opts.NodePrefix = "__wire"
	}
	if opts.InstancePrefix == "" {
		opts.InstancePrefix = "__U"
	}

	portNames := assignPortNames(net, opts)
	nodeNames := assignNodeNames(net, opts)
	nodeInst, dffInst := assignInstanceNames(net, opts, nodeNames)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "module %s(", net.Name())
	for i, p := range net.Ports() {
		if i > 0 {
			bw.WriteString(", ")
		}
		writePortRef(bw, p, portNames[p.ID()], nodeNames)
	}
	bw.WriteString(");\n")

	for _, id := range net.PrimaryInputs() {
		fmt.Fprintf(bw, "  input  %s;\n", nodeNames[id])
	}
	for _, id := range net.PrimaryOutputs() {
		fmt.Fprintf(bw, "  output %s;\n", nodeNames[id])
	}
	bw.WriteString("\n")

	for i := 0; i < net.TvNum(); i++ {
		writeUDP(bw, udpName(i), net.Tv(i))
	}

	for _, d := range net.DffList() {
		switch d.Kind() {
		case bnet.DffKindFF, bnet.DffKindLatch:
			fmt.Fprintf(bw, "  reg    %s;\n", nodeNames[d.DataOut()])
		case bnet.DffKindCell:
			for i := 0; i < d.CellOutputNum(); i++ {
				fmt.Fprintf(bw, "  wire   %s;\n", nodeNames[d.CellOutput(i)])
			}
		}
	}

	logic, err := net.LogicList()
	if err != nil {
		return err
	}
	for _, id := range logic {
		fmt.Fprintf(bw, "  wire   %s;\n", nodeNames[id])
	}
	bw.WriteString("\n")

	for _, d := range net.DffList() {
		if err := writeDff(bw, net, d, nodeNames, dffInst); err != nil {
			return err
		}
	}

	for _, id := range logic {
		if err := writeLogic(bw, net, id, nodeNames, nodeInst); err != nil {
			return err
		}
	}

	bw.WriteString("endmodule\n")
	return bw.Flush()
}

func writePortRef(bw *bufio.Writer, p *bnet.Port, portName string, nodeNames map[bnet.NodeId]string) {
	if p.Width() == 1 {
		id := p.Bit(0)
		if portName == nodeNames[id] {
			bw.WriteString(portName)
		} else {
			fmt.Fprintf(bw, ".%s(%s)", portName, nodeNames[id])
		}
		return
	}
	fmt.Fprintf(bw, ".%s(", portName)
	for i := 0; i < p.Width(); i++ {
		if i > 0 {
			bw.WriteString(", ")
		}
		bw.WriteString(nodeNames[p.Bit(i)])
	}
	bw.WriteString(")")
}

func writeDff(bw *bufio.Writer, net *bnet.Network, d *bnet.Dff, names map[bnet.NodeId]string, dffInst map[bnet.DffId]string) error {
	switch d.Kind() {
	case bnet.DffKindFF:
		out, in := names[d.DataOut()], names[d.DataIn()]
		bw.WriteString("  always @ ( posedge ")
		bw.WriteString(names[d.Clock()])
		if d.HasClear() {
			fmt.Fprintf(bw, " or posedge %s", names[d.Clear()])
		}
		if d.HasPreset() {
			fmt.Fprintf(bw, " or posedge %s", names[d.Preset()])
		}
		bw.WriteString(" )\n")
		writeEdgeBody(bw, d, names, out, in, "<=")
	case bnet.DffKindLatch:
		out, in := names[d.DataOut()], names[d.DataIn()]
		bw.WriteString("  always @ ( ")
		bw.WriteString(names[d.Clock()])
		if d.HasClear() {
			fmt.Fprintf(bw, " or %s", names[d.Clear()])
		}
		if d.HasPreset() {
			fmt.Fprintf(bw, " or %s", names[d.Preset()])
		}
		bw.WriteString(" )\n")
		writeEdgeBody(bw, d, names, out, in, "=")
	case bnet.DffKindCell:
		c, ok := net.CellLibrary().Cell(d.CellID())
		if !ok {
			return fmt.Errorf("verilog: dff %s: unknown cell id %d", d.Name(), d.CellID())
		}
		fmt.Fprintf(bw, "  %s %s(%s", c.Name(), dffInst[d.ID()], namesAt(names, cellOutputIDs(d)))
		for i := 0; i < d.CellInputNum(); i++ {
			fmt.Fprintf(bw, ", %s", names[d.CellInput(i)])
		}
		bw.WriteString(");\n")
	}
	return nil
}

func cellOutputIDs(d *bnet.Dff) []bnet.NodeId {
	ids := make([]bnet.NodeId, d.CellOutputNum())
	for i := range ids {
		ids[i] = d.CellOutput(i)
	}
	return ids
}

func namesAt(names map[bnet.NodeId]string, ids []bnet.NodeId) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += ", "
		}
		s += names[id]
	}
	return s
}

// writeEdgeBody emits the clear/preset/plain-assignment ladder shared by
// the FF (<=) and latch (=) always-block bodies.
func writeEdgeBody(bw *bufio.Writer, d *bnet.Dff, names map[bnet.NodeId]string, out, in, asgn string) {
	ifStr := "if"
	if d.HasClear() {
		fmt.Fprintf(bw, "    %s ( %s )\n      %s %s 1'b0;\n", ifStr, names[d.Clear()], out, asgn)
		ifStr = "else if"
	}
	if d.HasPreset() {
		fmt.Fprintf(bw, "    %s ( %s )\n      %s %s 1'b1;\n", ifStr, names[d.Preset()], out, asgn)
		ifStr = "else if"
	}
	if d.HasClear() || d.HasPreset() {
		fmt.Fprintf(bw, "    else\n      %s %s %s;\n", out, asgn, in)
	} else {
		fmt.Fprintf(bw, "    %s %s %s;\n", out, asgn, in)
	}
}

func writeLogic(bw *bufio.Writer, net *bnet.Network, id bnet.NodeId, names map[bnet.NodeId]string, nodeInst map[bnet.NodeId]string) error {
	nd, _ := net.Node(id)
	ln := nd.(*bnet.LogicNode)
	ni := len(ln.FaninList)
	iname := make([]string, ni)
	for i, f := range ln.FaninList {
		iname[i] = names[f]
	}

	switch ln.NodeType {
	case bnet.KindTvFunc:
		fmt.Fprintf(bw, "  %s(", udpName(ln.TvID))
		for i := 0; i < ni; i++ {
			fmt.Fprintf(bw, ".i%d(%s), ", i, iname[i])
		}
		fmt.Fprintf(bw, ".o(%s));\n", names[id])
		return nil
	case bnet.KindCell:
		c, ok := net.CellLibrary().Cell(ln.CellID)
		if !ok {
			return fmt.Errorf("verilog: node %s: unknown cell id %d", id, ln.CellID)
		}
		fmt.Fprintf(bw, "  %s %s(%s", c.Name(), nodeInst[id], names[id])
		for i := 0; i < ni; i++ {
			fmt.Fprintf(bw, ", %s", iname[i])
		}
		bw.WriteString(");\n")
		return nil
	}

	fmt.Fprintf(bw, "  assign %s = ", names[id])
	switch ln.NodeType {
	case bnet.KindC0:
		bw.WriteString("1'b0")
	case bnet.KindC1:
		bw.WriteString("1'b1")
	case bnet.KindBuff:
		bw.WriteString(iname[0])
	case bnet.KindNot:
		fmt.Fprintf(bw, "~%s", iname[0])
	case bnet.KindAnd, bnet.KindOr, bnet.KindXor:
		writeJoined(bw, primOp[ln.NodeType], iname)
	case bnet.KindNand, bnet.KindNor, bnet.KindXnor:
		bw.WriteString("~(")
		writeJoined(bw, primOp[ln.NodeType], iname)
		bw.WriteString(")")
	case bnet.KindExpr:
		writeExpr(bw, net.Expr(ln.ExprID), iname)
	default:
		return fmt.Errorf("verilog: node %s: kind %s has no expression form", id, ln.NodeType)
	}
	bw.WriteString(";\n")
	return nil
}

func writeJoined(bw *bufio.Writer, op string, names []string) {
	for i, n := range names {
		if i > 0 {
			bw.WriteString(op)
		}
		bw.WriteString(n)
	}
}

// writeExpr renders e in terms of iname, the fanin names in fanin-index
// order; iname[v] is the signal for variable v.
func writeExpr(bw *bufio.Writer, e expr.Expr, iname []string) {
	switch e.Kind() {
	case expr.KindConst:
		if e.ConstVal() {
			bw.WriteString("1'b1")
		} else {
			bw.WriteString("1'b0")
		}
	case expr.KindLit:
		if e.Polarity() {
			bw.WriteString(iname[e.VarID()])
		} else {
			fmt.Fprintf(bw, "~%s", iname[e.VarID()])
		}
	default:
		op := map[expr.Kind]string{expr.KindAnd: " & ", expr.KindOr: " | ", expr.KindXor: " ^ "}[e.Kind()]
		for i, o := range e.Operands() {
			if i > 0 {
				bw.WriteString(op)
			}
			bw.WriteString("(")
			writeExpr(bw, o, iname)
			bw.WriteString(")")
		}
	}
}

func udpName(tvID int) string { return fmt.Sprintf("__func%d", tvID) }

// writeUDP emits one Verilog primitive (UDP) definition for f, the truth
// table a KindTvFunc logic node instantiates.
func writeUDP(bw *bufio.Writer, name string, f *tv.Func) {
	ni := f.Arity()
	np := 1 << uint(ni)
	bw.WriteString("  primitive " + name + "(")
	for i := 0; i < ni; i++ {
		if i > 0 {
			bw.WriteString(", ")
		}
		fmt.Fprintf(bw, "i%d", i)
	}
	bw.WriteString(", o);\n")
	for i := 0; i < ni; i++ {
		fmt.Fprintf(bw, "    input i%d;\n", i)
	}
	bw.WriteString("    output o;\n    table\n")
	for p := 0; p < np; p++ {
		bw.WriteString("      ")
		for i := 0; i < ni; i++ {
			if p&(1<<uint(i)) == 0 {
				bw.WriteString("0")
			} else {
				bw.WriteString("1")
			}
		}
		bw.WriteString(" : ")
		if f.Bit(p) {
			bw.WriteString("1")
		} else {
			bw.WriteString("0")
		}
		bw.WriteString(";\n")
	}
	bw.WriteString("    endtable\n  endprimitive\n")
}

func assignPortNames(net *bnet.Network, opts WriteOptions) map[bnet.PortId]string {
	names := make(map[bnet.PortId]string)
	used := make(map[string]bool)
	for _, p := range net.Ports() {
		if p.Name() != "" && !used[p.Name()] {
			names[p.ID()] = p.Name()
			used[p.Name()] = true
		}
	}
	counter := 0
	for _, p := range net.Ports() {
		if _, ok := names[p.ID()]; ok {
			continue
		}
		names[p.ID()] = synthesizeName(opts.PortPrefix, opts.PortSuffix, &counter, used)
	}
	return names
}

// assignNodeNames registers the existing names of primary inputs, FF/
// latch data outputs, and logic nodes (in that priority order, as
// VerilogWriter::init_name_array does), synthesizes a name for every
// still-unnamed node, then replaces the name of every output-side
// pseudo-node (primary outputs, and a dff's data-in/clock/clear/preset)
// with its driving node's name, since those never get their own wire
// declaration.
func assignNodeNames(net *bnet.Network, opts WriteOptions) map[bnet.NodeId]string {
	names := make(map[bnet.NodeId]string, net.NodeNum())
	used := make(map[string]bool, net.NodeNum())
	register := func(id bnet.NodeId, name string) {
		if name == "" || used[name] {
			return
		}
		names[id] = name
		used[name] = true
	}

	for _, id := range net.PrimaryInputs() {
		nd, _ := net.Node(id)
		register(id, nd.Name())
	}
	for _, d := range net.DffList() {
		if d.Kind() == bnet.DffKindFF || d.Kind() == bnet.DffKindLatch {
			nd, _ := net.Node(d.DataOut())
			register(d.DataOut(), nd.Name())
		}
	}
	logic, _ := net.LogicList()
	for _, id := range logic {
		nd, _ := net.Node(id)
		register(id, nd.Name())
	}

	counter := 0
	for i := 1; i <= net.NodeNum(); i++ {
		id := bnet.NodeId(i)
		if _, ok := net.Node(id); !ok {
			continue
		}
		if _, ok := names[id]; ok {
			continue
		}
		names[id] = synthesizeName(opts.NodePrefix, opts.NodeSuffix, &counter, used)
	}

	replace := func(id bnet.NodeId) {
		if id == bnet.NullID {
			return
		}
		nd, ok := net.Node(id)
		if !ok {
			return
		}
		if f := nd.Fanins(); len(f) > 0 {
			names[id] = names[f[0]]
		}
	}
	for _, id := range net.PrimaryOutputs() {
		replace(id)
	}
	for _, d := range net.DffList() {
		if d.Kind() == bnet.DffKindFF || d.Kind() == bnet.DffKindLatch {
			replace(d.DataIn())
			replace(d.Clock())
			if d.HasClear() {
				replace(d.Clear())
			}
			if d.HasPreset() {
				replace(d.Preset())
			}
		}
	}
	return names
}

// assignInstanceNames synthesizes a name, in the shared instance
// namespace (pre-seeded with every wire name so an instance can never
// collide with a wire), for each Cell-kind logic node and Cell-kind dff.
func assignInstanceNames(net *bnet.Network, opts WriteOptions, nodeNames map[bnet.NodeId]string) (map[bnet.NodeId]string, map[bnet.DffId]string) {
	used := make(map[string]bool, len(nodeNames))
	for _, n := range nodeNames {
		used[n] = true
	}
	counter := 0
	nodeInst := make(map[bnet.NodeId]string)
	logic, _ := net.LogicList()
	for _, id := range logic {
		nd, _ := net.Node(id)
		if nd.(*bnet.LogicNode).NodeType == bnet.KindCell {
			nodeInst[id] = synthesizeName(opts.InstancePrefix, opts.InstanceSuffix, &counter, used)
		}
	}
	dffInst := make(map[bnet.DffId]string)
	for _, d := range net.DffList() {
		if d.Kind() == bnet.DffKindCell {
			dffInst[d.ID()] = synthesizeName(opts.InstancePrefix, opts.InstanceSuffix, &counter, used)
		}
	}
	return nodeInst, dffInst
}

func synthesizeName(prefix, suffix string, counter *int, used map[string]bool) string {
	for {
		cand := fmt.Sprintf("%s%d%s", prefix, *counter, suffix)
		*counter++
		if !used[cand] {
			used[cand] = true
			return cand
		}
	}
}
