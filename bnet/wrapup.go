package bnet

import "fmt"

// WrapUp brings the network's derived state back in sync with its nodes
// (§4.9): it validates structural invariants, rebuilds every fanout list
// from scratch, computes a topological order over the logic nodes, and
// snapshots the output-side fanin lists. It is idempotent: if the
// network is already sane, it returns nil immediately without touching
// anything.
//
// Ordered-view accessors (LogicList, OutputSrcList, PrimaryOutputSrcList)
// call this automatically; Modifier methods clear sane on every mutation
// so the next such call re-validates.
func (n *Network) WrapUp() error {
	if n.sane {
		return nil
	}
	if err := n.validate(); err != nil {
		return err
	}
	n.rebuildFanouts()
	if err := n.computeOrder(); err != nil {
		return err
	}
	n.snapshotOutputSrcs()
	n.sane = true
	return nil
}

// validate checks I1-I6 and returns an *Error collecting every violation
// found, running to completion rather than stopping at the first one
// (§4.10).
func (n *Network) validate() error {
	var msgs []string

	// I1: every fanin/source reference names a node that exists.
	for id, nd := range n.nodes {
		for _, f := range nd.Fanins() {
			if f == NullID {
				continue
			}
			if _, ok := n.nodes[f]; !ok {
				msgs = append(msgs, fmt.Sprintf("node %s: fanin %s does not exist", id, f))
			}
		}
	}

	// I2: every primitive logic node's fanin count matches its fixed
	// arity (C0/C1: 0, Buff/Not: 1); associative primitives (And, Or,
	// Nand, Nor, Xor, Xnor) need at least 2 fanins; Expr/TvFunc/Cell
	// fanin count matches the arity of the pooled object or cell they
	// reference.
	for id, nd := range n.nodes {
		ln, ok := nd.(*LogicNode)
		if !ok {
			continue
		}
		k := ln.NodeType
		switch {
		case k.PrimitiveArity() >= 0:
			if len(ln.FaninList) != k.PrimitiveArity() {
				msgs = append(msgs, fmt.Sprintf("node %s: %s expects %d fanins, has %d", id, k, k.PrimitiveArity(), len(ln.FaninList)))
			}
		case k == KindAnd, k == KindOr, k == KindNand, k == KindNor, k == KindXor, k == KindXnor:
			if len(ln.FaninList) < 2 {
				msgs = append(msgs, fmt.Sprintf("node %s: %s expects at least 2 fanins, has %d", id, k, len(ln.FaninList)))
			}
		case k == KindExpr:
			if e := n.exprPool.get(ln.ExprID); e != nil && e.InputSize() > len(ln.FaninList) {
				msgs = append(msgs, fmt.Sprintf("node %s: expr references variable beyond fanin count %d", id, len(ln.FaninList)))
			}
		case k == KindTvFunc:
			if f := n.tvPool.get(ln.TvID); f != nil && f.Arity() != len(ln.FaninList) {
				msgs = append(msgs, fmt.Sprintf("node %s: tv arity %d does not match fanin count %d", id, f.Arity(), len(ln.FaninList)))
			}
		case k == KindCell:
			if n.cellLib != nil {
				if c, ok := n.cellLib.Cell(ln.CellID); ok && c.InputNum() != len(ln.FaninList) {
					msgs = append(msgs, fmt.Sprintf("node %s: cell %q expects %d inputs, has %d", id, c.Name(), c.InputNum(), len(ln.FaninList)))
				}
			}
		}
	}

	// I3: no fanin/source edge ever targets an input-side node as if it
	// had drivers (input-side nodes are sources, never sinks), and no
	// output-side/logic node is left with an unset (NullID) fanin slot
	// it is required to have filled for the network to denote a
	// function.
	for id, nd := range n.nodes {
		if nd.Kind().IsLogic() {
			for _, f := range nd.Fanins() {
				if f == NullID {
					msgs = append(msgs, fmt.Sprintf("node %s: logic node has an unconnected fanin", id))
				}
			}
		}
	}

	// I4: every port's bits and every dff's terminals reference nodes
	// that exist and whose declared variant agrees with the role
	// (input-side for a port's input bits / a dff's data-out, output-
	// side for a port's output bits / a dff's data-in).
	for _, p := range n.ports {
		for i := 0; i < p.Width(); i++ {
			id := p.Bit(i)
			nd, ok := n.nodes[id]
			if !ok {
				msgs = append(msgs, fmt.Sprintf("port %q bit %d: node %s does not exist", p.Name(), i, id))
				continue
			}
			if p.Dir(i) == DirInput && !nd.Kind().IsInputSide() {
				msgs = append(msgs, fmt.Sprintf("port %q bit %d: declared input but node kind is %s", p.Name(), i, nd.Kind()))
			}
			if p.Dir(i) == DirOutput && !nd.Kind().IsOutputSide() {
				msgs = append(msgs, fmt.Sprintf("port %q bit %d: declared output but node kind is %s", p.Name(), i, nd.Kind()))
			}
		}
	}

	// I5: acyclicity over the logic-node fanin graph (input-side and
	// output-side nodes are not part of any cycle by construction; a
	// logic node's fanins may only reference input-side or other logic
	// nodes, never output-side nodes).
	if cyc := n.findCycle(); cyc != "" {
		msgs = append(msgs, "cycle detected among logic nodes: "+cyc)
	}

	// I6: dffs reference only existing, appropriately-kinded terminal
	// nodes (DataIn/DataOut/Clock/Clear/Preset, or cell pins).
	for id, d := range n.dffs {
		check := func(role string, nid NodeId, want NodeKind) {
			if nid == NullID {
				return
			}
			nd, ok := n.nodes[nid]
			if !ok {
				msgs = append(msgs, fmt.Sprintf("dff %s: %s node %s does not exist", id, role, nid))
				return
			}
			if nd.Kind() != want {
				msgs = append(msgs, fmt.Sprintf("dff %s: %s node %s has kind %s, want %s", id, role, nid, nd.Kind(), want))
			}
		}
		switch d.kind {
		case DffKindFF, DffKindLatch:
			check("data-in", d.dataIn, KindDataIn)
			check("data-out", d.dataOut, KindDataOut)
			check("clock", d.clock, KindClock)
			check("clear", d.clear, KindClear)
			check("preset", d.preset, KindPreset)
		case DffKindCell:
			for _, pin := range d.cellInputs {
				check("cell-input", pin, KindCellInput)
			}
			for _, pin := range d.cellOutputs {
				check("cell-output", pin, KindCellOutput)
			}
		}
	}

	if len(msgs) == 0 {
		return nil
	}
	return &Error{Kind: KindInvariantError, Msgs: msgs}
}

// findCycle runs a three-colour DFS over the logic-node fanin graph and
// returns a human-readable description of the first cycle found, or ""
// if the graph is acyclic.
func (n *Network) findCycle() string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[NodeId]int, len(n.nodes))
	var stack []NodeId
	var cycle string

	var visit func(id NodeId) bool
	visit = func(id NodeId) bool {
		nd, ok := n.nodes[id]
		if !ok || !nd.Kind().IsLogic() {
			return false
		}
		color[id] = gray
		stack = append(stack, id)
		for _, f := range nd.Fanins() {
			switch color[f] {
			case gray:
				cycle = fmt.Sprintf("%s", append(stack, f))
				return true
			case white:
				if visit(f) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for id, nd := range n.nodes {
		if nd.Kind().IsLogic() && color[id] == white {
			if visit(id) {
				return cycle
			}
		}
	}
	return ""
}

// rebuildFanouts clears every node's fanout list and recomputes it from
// every other node's fanin/source list, so fanouts are always exactly
// the inverse of fanins regardless of how many times a fanin was
// rewritten since the last WrapUp.
func (n *Network) rebuildFanouts() {
	for _, nd := range n.nodes {
		nd.clearFanouts()
	}
	// Deterministic order: iterate in ID order so fanout lists do not
	// depend on Go's randomized map iteration.
	for id := NodeId(1); id <= n.nextNode; id++ {
		nd, ok := n.nodes[id]
		if !ok {
			continue
		}
		for _, f := range nd.Fanins() {
			if f == NullID {
				continue
			}
			if src, ok := n.nodes[f]; ok {
				src.addFanout(id)
			}
		}
	}
}

// computeOrder runs Kahn's algorithm over the logic-node fanin graph,
// seeded by every input-side node plus every zero-fanin logic node
// (the C0/C1 constants), and stores the result as n.logic. It also
// rebuilds n.inputs/n.primaryInputs/n.outputs/n.primaryOutputs from the
// current node set so they stay consistent even if Modifier ever
// appended to them out of order.
func (n *Network) computeOrder() error {
	n.inputs = n.inputs[:0]
	n.primaryInputs = n.primaryInputs[:0]
	n.outputs = n.outputs[:0]
	n.primaryOutputs = n.primaryOutputs[:0]

	indeg := make(map[NodeId]int, len(n.nodes))
	var queue []NodeId

	for id := NodeId(1); id <= n.nextNode; id++ {
		nd, ok := n.nodes[id]
		if !ok {
			continue
		}
		switch {
		case nd.Kind().IsInputSide():
			n.inputs = append(n.inputs, id)
			if nd.Kind() == KindPortInput {
				n.primaryInputs = append(n.primaryInputs, id)
			}
		case nd.Kind().IsOutputSide():
			n.outputs = append(n.outputs, id)
			if nd.Kind() == KindPortOutput {
				n.primaryOutputs = append(n.primaryOutputs, id)
			}
		case nd.Kind().IsLogic():
			indeg[id] = len(nd.Fanins())
			if indeg[id] == 0 {
				queue = append(queue, id)
			}
		}
	}

	var order []NodeId
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		nd := n.nodes[id]
		for _, out := range nd.Fanouts() {
			onode, ok := n.nodes[out]
			if !ok || !onode.Kind().IsLogic() {
				continue
			}
			indeg[out]--
			if indeg[out] == 0 {
				queue = append(queue, out)
			}
		}
	}

	logicCount := 0
	for _, nd := range n.nodes {
		if nd.Kind().IsLogic() {
			logicCount++
		}
	}
	if len(order) != logicCount {
		return &Error{Kind: KindInvariantError, Msgs: []string{"cycle detected: topological sort could not order every logic node"}}
	}

	n.logic = order
	return nil
}

// snapshotOutputSrcs records the current fanin of every output-side node
// (in Outputs()/PrimaryOutputs() order) so OutputSrcList and
// PrimaryOutputSrcList can return a point-in-time view without
// recomputing it from the node graph on every call.
func (n *Network) snapshotOutputSrcs() {
	n.outputSrcs = make([]NodeId, len(n.outputs))
	for i, id := range n.outputs {
		nd := n.nodes[id]
		if f := nd.Fanins(); len(f) == 1 {
			n.outputSrcs[i] = f[0]
		}
	}
	n.primaryOutputSrcs = make([]NodeId, len(n.primaryOutputs))
	for i, id := range n.primaryOutputs {
		nd := n.nodes[id]
		if f := nd.Fanins(); len(f) == 1 {
			n.primaryOutputSrcs[i] = f[0]
		}
	}
}
