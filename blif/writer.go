package blif

import (
	"bufio"
	"fmt"
	"io"

	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/expr"
)

// WriteOptions supplies the prefix/suffix BlifWriter.cc's
// init_name_array uses to synthesize a name for a node that has none.
type WriteOptions struct {
	Prefix string
	Suffix string
}

// Write emits net in BLIF format: ".model", ".inputs", ".outputs",
// ".latch" per dff, an output-aliasing ".names" for any primary output
// whose port name differs from its source node's name, one ".names"
// per logic node reachable from a data sink, and ".end".
//
// Write rejects (ErrNotConvertible, nothing written) a network with a
// Latch/Cell-kind dff or a TvFunc/Bdd/Cell-kind logic node, mirroring
// write_blif's early check in BlifWriter.cc; unlike the original it
// reports this as a Go error rather than logging to stderr and
// returning silently.
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
	for _, id := range logic {
		nd := mustLogic(net, id)
		switch nd.NodeType {
		case bnet.KindTvFunc, bnet.KindBdd, bnet.KindCell:
			return ErrNotConvertible
		}
	}

	names := assignNames(net, opts)
	data := markDataCone(net)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, ".model %s\n", net.Name())

	writeNameStatement(bw, ".inputs", net.PrimaryInputs(), names, data)

	outSrcs, err := net.PrimaryOutputSrcList()
	if err != nil {
		return err
	}
	writeNameStatement(bw, ".outputs", net.PrimaryOutputs(), names, nil)

	for _, d := range net.DffList() {
		fmt.Fprintf(bw, ".latch %s %s\n", names[d.DataIn()], names[d.DataOut()])
	}

	for i, id := range net.PrimaryOutputs() {
		name, srcName := names[id], names[outSrcs[i]]
		if name != srcName {
			fmt.Fprintf(bw, ".names %s %s\n1 1\n", srcName, name)
		}
	}

	for _, id := range logic {
		if !data[id] {
			continue
		}
		ln := mustLogic(net, id)
		bw.WriteString(".names")
		for _, f := range ln.FaninList {
			fmt.Fprintf(bw, " %s", names[f])
		}
		fmt.Fprintf(bw, " %s\n", names[id])
		if err := writeCover(bw, net, ln); err != nil {
			return err
		}
	}

	bw.WriteString(".end\n")
	return bw.Flush()
}

func mustLogic(net *bnet.Network, id bnet.NodeId) *bnet.LogicNode {
	nd, _ := net.Node(id)
	return nd.(*bnet.LogicNode)
}

// writeNameStatement emits a ".inputs"/".outputs" style statement,
// wrapping after ten names per line as BlifWriter.cc does. data, when
// non-nil, skips any id not in the data fanin cone (BlifWriter.cc's
// is_data check on the .inputs line; .outputs has no such check, so
// callers pass nil there).
func writeNameStatement(bw *bufio.Writer, keyword string, ids []bnet.NodeId, names map[bnet.NodeId]string, data map[bnet.NodeId]bool) {
	count := 0
	for _, id := range ids {
		if data != nil && !data[id] {
			continue
		}
		if count == 0 {
			bw.WriteString(keyword)
		}
		fmt.Fprintf(bw, " %s", names[id])
		count++
		if count >= 10 {
			bw.WriteString("\n")
			count = 0
		}
	}
	if count > 0 {
		bw.WriteString("\n")
	}
}

// markDataCone marks every node reachable, backward through fanins,
// from a primary output or a dff data-input: BlifWriter.cc's mark_tfi
// applied from those two root sets, used so clock/clear/preset-only
// fanin cones are excluded from the ".inputs" line and from gaining a
// ".names" statement of their own.
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

// assignNames gives every node a name, keeping net's existing names
// and synthesizing "<prefix><n><suffix>" for the rest, skipping any
// candidate already taken.
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

// writeCover emits the cube-cover rows for one ".names" statement,
// switching on the node's primitive/Expr kind exactly as
// BlifWriter.cc's operator() does. TvFunc/Bdd/Cell never reach here:
// Write rejects them up front.
func writeCover(bw *bufio.Writer, net *bnet.Network, ln *bnet.LogicNode) error {
	ni := len(ln.FaninList)
	switch ln.NodeType {
	case bnet.KindC0:
		bw.WriteString("0\n")
	case bnet.KindC1:
		bw.WriteString("1\n")
	case bnet.KindBuff:
		bw.WriteString("1 1\n")
	case bnet.KindNot:
		bw.WriteString("0 1\n")
	case bnet.KindAnd:
		for i := 0; i < ni; i++ {
			bw.WriteString("1")
		}
		bw.WriteString(" 1\n")
	case bnet.KindNand:
		for i := 0; i < ni; i++ {
			for j := 0; j < ni; j++ {
				if i == j {
					bw.WriteString("0")
				} else {
					bw.WriteString("-")
				}
			}
			bw.WriteString(" 1\n")
		}
	case bnet.KindOr:
		for i := 0; i < ni; i++ {
			for j := 0; j < ni; j++ {
				if i == j {
					bw.WriteString("1")
				} else {
					bw.WriteString("-")
				}
			}
			bw.WriteString(" 1\n")
		}
	case bnet.KindNor:
		for i := 0; i < ni; i++ {
			bw.WriteString("0")
		}
		bw.WriteString(" 1\n")
	case bnet.KindXor:
		writeParityRows(bw, ni, 1)
	case bnet.KindXnor:
		writeParityRows(bw, ni, 0)
	case bnet.KindExpr:
		writeExprCover(bw, net.Expr(ln.ExprID), ni)
	default:
		return fmt.Errorf("blif: node %s: kind %s has no cube-cover encoding", ln.ID(), ln.NodeType)
	}
	return nil
}

// writeParityRows enumerates every input assignment whose parity
// matches want (1 for Xor, 0 for Xnor), BlifWriter.cc's brute-force
// approach for the two kinds it does not try to encode structurally.
func writeParityRows(bw *bufio.Writer, ni, want int) {
	for p := 0; p < (1 << uint(ni)); p++ {
		parity := 0
		for i := 0; i < ni; i++ {
			if p&(1<<uint(i)) != 0 {
				parity ^= 1
			}
		}
		if parity != want {
			continue
		}
		for i := 0; i < ni; i++ {
			if p&(1<<uint(i)) != 0 {
				bw.WriteString("1")
			} else {
				bw.WriteString("0")
			}
		}
		bw.WriteString(" 1\n")
	}
}

// writeExprCover encodes e's cover, taking the structural shortcut
// BlifWriter.cc takes when e.IsSOP(): a single row for a top-level And
// of literals, one row per And-of-literals/literal term for a
// top-level Or. Anything else (including Xor, the only non-SOP shape
// this library ever builds) falls back to brute-force minterm
// enumeration.
func writeExprCover(bw *bufio.Writer, e expr.Expr, ni int) {
	if e.IsSOP() {
		switch e.Kind() {
		case expr.KindAnd:
			writeAndRow(bw, e.Operands(), ni)
			return
		case expr.KindOr:
			for _, term := range e.Operands() {
				if term.Kind() == expr.KindAnd {
					writeAndRow(bw, term.Operands(), ni)
				} else {
					writeAndRow(bw, []expr.Expr{term}, ni)
				}
			}
			return
		case expr.KindLit:
			writeAndRow(bw, []expr.Expr{e}, ni)
			return
		case expr.KindConst:
			if e.ConstVal() {
				for i := 0; i < ni; i++ {
					bw.WriteString("-")
				}
				bw.WriteString(" 1\n")
			}
			return
		}
	}

	assign := make([]bool, ni)
	for p := 0; p < (1 << uint(ni)); p++ {
		for i := 0; i < ni; i++ {
			assign[i] = p&(1<<uint(i)) != 0
		}
		if !e.Evaluate(assign) {
			continue
		}
		for i := 0; i < ni; i++ {
			if assign[i] {
				bw.WriteString("1")
			} else {
				bw.WriteString("0")
			}
		}
		bw.WriteString(" 1\n")
	}
}

// writeAndRow emits one cube row for the conjunction of literals (a
// single literal counts as a one-operand conjunction): '1'/'0' at each
// referenced variable's position, '-' elsewhere.
func writeAndRow(bw *bufio.Writer, literals []expr.Expr, ni int) {
	pol := make([]int, ni)
	for _, lit := range literals {
		v := lit.VarID()
		if lit.Polarity() {
			pol[v] = 1
		} else {
			pol[v] = 2
		}
	}
	for i := 0; i < ni; i++ {
		switch pol[i] {
		case 1:
			bw.WriteString("1")
		case 2:
			bw.WriteString("0")
		default:
			bw.WriteString("-")
		}
	}
	bw.WriteString(" 1\n")
}
