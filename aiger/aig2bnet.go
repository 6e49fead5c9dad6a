package aiger

import (
	"fmt"

	"github.com/yusuke-matsunaga/bnet/bnet"
)

// ToBnet converts an AIGER model into a bnet.Network: one input port
// bit per primary input, one D-FF per latch, one output port bit per
// primary output, and one KindAnd node (fanins always positive; a
// negated operand goes through a KindNot node first) per AND gate.
//
// Grounded on Aig2Bnet::conv (read_aig.cc): a literal -> bnet.NodeId
// map (litMap here, mLitMap there) built input-first, then latch
// current-state outputs, then AND gates in file order (already a valid
// topological order per the AIGER invariant lhs > rhs0, rhs1); a
// second map of already-built inverters (negMap here, req_map there)
// avoids emitting more than one Not gate per distinct positive node.
func ToBnet(m *Model) (*bnet.Network, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	net := bnet.NewNetwork("aig")
	mod := bnet.NewModifier(net)

	litMap := make(map[Lit]bnet.NodeId, 2*(m.I+m.L+m.A)+2)
	negMap := make(map[bnet.NodeId]bnet.NodeId)

	resolve := func(l Lit) (bnet.NodeId, error) {
		posLit := Lit(uint32(l) &^ 1)
		posID, ok := litMap[posLit]
		if !ok && posLit == ConstFalse {
			// The constant-0 node is created only on first use.
			c0Node, err := mod.NewPrimitive("", bnet.KindC0, nil)
			if err != nil {
				return bnet.NullID, err
			}
			litMap[ConstFalse] = c0Node
			posID, ok = c0Node, true
		}
		if !ok {
			return bnet.NullID, fmt.Errorf("aiger: literal %d used before definition", l)
		}
		if !l.Negated() {
			return posID, nil
		}
		if nid, ok := negMap[posID]; ok {
			return nid, nil
		}
		nid, err := mod.NewPrimitive("", bnet.KindNot, []bnet.NodeId{posID})
		if err != nil {
			return bnet.NullID, err
		}
		negMap[posID] = nid
		return nid, nil
	}

	for i, lit := range m.Inputs {
		name := indexedName(m.InputNames, i, "i")
		p, err := mod.NewPort(name, []bnet.Direction{bnet.DirInput})
		if err != nil {
			return nil, err
		}
		litMap[lit] = p.Bit(0)
	}

	// Every latch shares one implicit clock and one implicit
	// asynchronous reset, per §4.7: AIGER has no per-latch clock/reset
	// literals, so Aig2Bnet.cc wires all latches to the same pair of
	// network-level terminals rather than leaving them unconnected.
	var clockBit, resetBit bnet.NodeId
	if len(m.Latches) > 0 {
		clockPort, err := mod.NewPort("clock", []bnet.Direction{bnet.DirInput})
		if err != nil {
			return nil, err
		}
		resetPort, err := mod.NewPort("reset", []bnet.Direction{bnet.DirInput})
		if err != nil {
			return nil, err
		}
		clockBit = clockPort.Bit(0)
		resetBit = resetPort.Bit(0)
	}

	latchDffs := make([]*bnet.Dff, len(m.Latches))
	for i, lt := range m.Latches {
		name := indexedName(m.LatchNames, i, "l")
		d := mod.NewDff(name, true, false, bnet.CpvX)
		litMap[lt.Cur] = d.DataOut()
		if err := mod.SetOutputSrc(d.Clock(), clockBit); err != nil {
			return nil, err
		}
		if err := mod.SetOutputSrc(d.Clear(), resetBit); err != nil {
			return nil, err
		}
		latchDffs[i] = d
	}

	for _, a := range m.Ands {
		r0, err := resolve(a.Rhs0)
		if err != nil {
			return nil, err
		}
		r1, err := resolve(a.Rhs1)
		if err != nil {
			return nil, err
		}
		id, err := mod.NewPrimitive("", bnet.KindAnd, []bnet.NodeId{r0, r1})
		if err != nil {
			return nil, err
		}
		litMap[a.Lhs] = id
	}

	for i, lt := range m.Latches {
		src, err := resolve(lt.Next)
		if err != nil {
			return nil, err
		}
		if err := mod.SetOutputSrc(latchDffs[i].DataIn(), src); err != nil {
			return nil, err
		}
	}

	for i, lit := range m.Outputs {
		name := indexedName(m.OutputNames, i, "o")
		p, err := mod.NewPort(name, []bnet.Direction{bnet.DirOutput})
		if err != nil {
			return nil, err
		}
		src, err := resolve(lit)
		if err != nil {
			return nil, err
		}
		if err := mod.SetOutputSrc(p.Bit(0), src); err != nil {
			return nil, err
		}
	}

	if err := net.WrapUp(); err != nil {
		return nil, err
	}
	return net, nil
}

func indexedName(names []string, i int, prefix string) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return prefix + itoaAig(i)
}

func itoaAig(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// FromBnet converts net into an AIGER model. net is decomposed via
// bnet.SimpleDecomp first, since AIGER can only express And-Inverter
// logic; SimpleDecomp expands Expr nodes into primitives, and any
// TvFunc/Bdd/Cell node it leaves untouched makes the conversion fail
// rather than silently drop semantics. Every D-FF/latch becomes one AIGER
// latch; DffKindCell instances are rejected for the same reason.
func FromBnet(net *bnet.Network) (*Model, error) {
	decomp, err := bnet.SimpleDecomp(net)
	if err != nil {
		return nil, err
	}

	m := &Model{}
	nextVar := uint32(0)
	newVar := func() uint32 { nextVar++; return nextVar }

	litOf := make(map[bnet.NodeId]Lit)

	for _, id := range decomp.PrimaryInputs() {
		v := newVar()
		m.Inputs = append(m.Inputs, NewLit(v, false))
		litOf[id] = NewLit(v, false)
		if nd, ok := decomp.Node(id); ok {
			m.InputNames = append(m.InputNames, nd.Name())
		}
	}

	dffs := decomp.DffList()
	latchLits := make([]Lit, 0, len(dffs))
	for _, d := range dffs {
		if d.Kind() == bnet.DffKindCell {
			return nil, fmt.Errorf("aiger: cannot express a mapped sequential cell (%s) as an AIGER latch", d.Name())
		}
		v := newVar()
		lit := NewLit(v, false)
		litOf[d.DataOut()] = lit
		latchLits = append(latchLits, lit)
		m.LatchNames = append(m.LatchNames, d.Name())
	}

	emitAnd := func(a, b Lit) Lit {
		v := newVar()
		lhs := NewLit(v, false)
		m.Ands = append(m.Ands, AndGate{Lhs: lhs, Rhs0: a, Rhs1: b})
		return lhs
	}
	orOf := func(a, b Lit) Lit { return emitAnd(a.Not(), b.Not()).Not() }
	xorOf := func(a, b Lit) Lit { return orOf(emitAnd(a, b.Not()), emitAnd(a.Not(), b)) }

	logic, err := decomp.LogicList()
	if err != nil {
		return nil, err
	}
	for _, id := range logic {
		nd, _ := decomp.Node(id)
		ln, ok := nd.(*bnet.LogicNode)
		if !ok {
			continue
		}
		fanins := make([]Lit, len(ln.FaninList))
		for i, f := range ln.FaninList {
			l, ok := litOf[f]
			if !ok {
				return nil, fmt.Errorf("aiger: node %s: fanin %s has no assigned literal (non-AIG-expressible node upstream?)", id, f)
			}
			fanins[i] = l
		}
		var lit Lit
		switch ln.NodeType {
		case bnet.KindC0:
			lit = ConstFalse
		case bnet.KindC1:
			lit = ConstTrue
		case bnet.KindBuff:
			lit = fanins[0]
		case bnet.KindNot:
			lit = fanins[0].Not()
		case bnet.KindAnd:
			lit = fanins[0]
			for _, f := range fanins[1:] {
				lit = emitAnd(lit, f)
			}
		case bnet.KindNand:
			lit = fanins[0]
			for _, f := range fanins[1:] {
				lit = emitAnd(lit, f)
			}
			lit = lit.Not()
		case bnet.KindOr:
			lit = fanins[0]
			for _, f := range fanins[1:] {
				lit = orOf(lit, f)
			}
		case bnet.KindNor:
			lit = fanins[0]
			for _, f := range fanins[1:] {
				lit = orOf(lit, f)
			}
			lit = lit.Not()
		case bnet.KindXor:
			lit = fanins[0]
			for _, f := range fanins[1:] {
				lit = xorOf(lit, f)
			}
		case bnet.KindXnor:
			lit = fanins[0]
			for _, f := range fanins[1:] {
				lit = xorOf(lit, f)
			}
			lit = lit.Not()
		default:
			return nil, fmt.Errorf("aiger: node %s: kind %s cannot be expressed in AIGER", id, ln.NodeType)
		}
		litOf[id] = lit
	}

	srcs, err := decomp.PrimaryOutputSrcList()
	if err != nil {
		return nil, err
	}
	for i, id := range decomp.PrimaryOutputs() {
		l, ok := litOf[srcs[i]]
		if !ok {
			return nil, fmt.Errorf("aiger: output %d: source %s has no assigned literal", i, srcs[i])
		}
		m.Outputs = append(m.Outputs, l)
		if nd, ok := decomp.Node(id); ok {
			m.OutputNames = append(m.OutputNames, nd.Name())
		}
	}

	outs, err := decomp.OutputSrcList()
	if err != nil {
		return nil, err
	}
	outIdx := make(map[bnet.NodeId]bnet.NodeId, len(decomp.Outputs()))
	for i, id := range decomp.Outputs() {
		outIdx[id] = outs[i]
	}
	for i, d := range dffs {
		srcID := outIdx[d.DataIn()]
		l, ok := litOf[srcID]
		if !ok {
			return nil, fmt.Errorf("aiger: latch %s: next-state source %s has no assigned literal", d.Name(), srcID)
		}
		m.Latches = append(m.Latches, Latch{Cur: latchLits[i], Next: l})
	}

	m.I = len(m.Inputs)
	m.L = len(m.Latches)
	m.O = len(m.Outputs)
	m.A = len(m.Ands)
	m.M = int(nextVar)
	return m, nil
}
