package iscas89

import (
	"bufio"
	"fmt"
	"io"

	"github.com/yusuke-matsunaga/bnet/bnet"
)

// WriteOptions supplies the prefix/suffix used to synthesize a name
// for a node that has none (Iscas89Writer's init_name_array).
type WriteOptions struct {
	Prefix string
	Suffix string
}

var primName = map[bnet.NodeKind]string{
	bnet.KindC0:   "CONST0",
	bnet.KindC1:   "CONST1",
	bnet.KindBuff: "BUFF",
	bnet.KindNot:  "NOT",
	bnet.KindAnd:  "AND",
	bnet.KindNand: "NAND",
	bnet.KindOr:   "OR",
	bnet.KindNor:  "NOR",
	bnet.KindXor:  "XOR",
	bnet.KindXnor: "XNOR",
}

// Write emits net in ISCAS-89 (.bench) format: "INPUT(...)",
// "OUTPUT(...)", one "out = DFF(in)" line per dff, an output-aliasing
// BUFF line for any primary output whose port name differs from its
// source node's name, and one gate-assignment line per logic node
// reachable from a data sink.
//
// Write rejects (ErrNotConvertible, nothing written) a network with a
// Latch/Cell-kind dff or a TvFunc/Bdd/Cell-kind logic node. If any
// surviving logic node is Expr-backed, net is first run through
// bnet.SimpleDecomp (BnNetwork::write_iscas89's need_decomp path) since
// the format only has the ten fixed primitives.
func Write(w io.Writer, net *bnet.Network, opts WriteOptions) error {
	if opts.Prefix == "" {
		opts.Prefix = "__node"
	}

	for _, d := range net.DffList() {
		if d.Kind() != bnet.DffKindFF {
			return ErrNotConvertible
		}
	}
	logic, err := net.LogicList()
	if err != nil {
		return err
	}
	needDecomp := false
	for _, id := range logic {
		nd := mustLogic(net, id)
		switch nd.NodeType {
		case bnet.KindTvFunc, bnet.KindBdd, bnet.KindCell:
			return ErrNotConvertible
		}
		if nd.NodeType == bnet.KindExpr {
			needDecomp = true
		}
	}
	if needDecomp {
		decomp, err := bnet.SimpleDecomp(net)
		if err != nil {
			return err
		}
		net = decomp
		logic, err = net.LogicList()
		if err != nil {
			return err
		}
	}

	names := assignNames(net, opts)
	data := markDataCone(net)

	bw := bufio.NewWriter(w)

	for _, id := range net.PrimaryInputs() {
		if !data[id] {
			continue
		}
		fmt.Fprintf(bw, "INPUT(%s)\n", names[id])
	}
	bw.WriteString("\n")

	outSrcs, err := net.PrimaryOutputSrcList()
	if err != nil {
		return err
	}
	for _, id := range net.PrimaryOutputs() {
		fmt.Fprintf(bw, "OUTPUT(%s)\n", names[id])
	}
	bw.WriteString("\n")

	for _, d := range net.DffList() {
		fmt.Fprintf(bw, "%s = DFF(%s)\n", names[d.DataOut()], names[d.DataIn()])
	}
	bw.WriteString("\n")

	for i, id := range net.PrimaryOutputs() {
		name, srcName := names[id], names[outSrcs[i]]
		if name != srcName {
			fmt.Fprintf(bw, "%s = BUFF(%s)\n", name, srcName)
		}
	}

	for _, id := range logic {
		if !data[id] {
			continue
		}
		ln := mustLogic(net, id)
		label, ok := primName[ln.NodeType]
		if !ok {
			return fmt.Errorf("iscas89: node %s: kind %s is not one of the ten fixed primitives", id, ln.NodeType)
		}
		fmt.Fprintf(bw, "%s = %s", names[id], label)
		if len(ln.FaninList) > 0 {
			bw.WriteString("(")
			for i, f := range ln.FaninList {
				if i > 0 {
					bw.WriteString(", ")
				}
				bw.WriteString(names[f])
			}
			bw.WriteString(")")
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

func mustLogic(net *bnet.Network, id bnet.NodeId) *bnet.LogicNode {
	nd, _ := net.Node(id)
	return nd.(*bnet.LogicNode)
}

// markDataCone marks every node reachable, backward through fanins,
// from a primary output or a dff data-input (the same "exclude
// clock-only fanin cones" rule the blif writer uses).
func markDataCone(net *bnet.Network) map[bnet.NodeId]bool {
	marked := make(map[bnet.NodeId]bool)
	var visit func(id bnet.NodeId)
	visit = func(id bnet.NodeId) {
		if id == bnet.NullID || marked[id] {
			return
		}
		marked[id] = true
		nd, ok := net.Node(id)
		if !ok {
			return
		}
		for _, f := range nd.Fanins() {
			visit(f)
		}
	}
	for _, id := range net.PrimaryOutputs() {
		visit(id)
	}
	for _, d := range net.DffList() {
		visit(d.DataIn())
	}
	return marked
}

func assignNames(net *bnet.Network, opts WriteOptions) map[bnet.NodeId]string {
	names := make(map[bnet.NodeId]string, net.NodeNum())
	used := make(map[string]bool, net.NodeNum())

	var ids []bnet.NodeId
	for i := 1; i <= net.NodeNum(); i++ {
		id := bnet.NodeId(i)
		if _, ok := net.Node(id); ok {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		nd, _ := net.Node(id)
		if nd.Name() != "" {
			names[id] = nd.Name()
			used[nd.Name()] = true
		}
	}
	counter := 0
	for _, id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		for {
			cand := fmt.Sprintf("%s%d%s", opts.Prefix, counter, opts.Suffix)
			counter++
			if !used[cand] {
				names[id] = cand
				used[cand] = true
				break
			}
		}
	}
	return names
}
