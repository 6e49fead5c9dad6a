package bnet

import (
	"github.com/dalzilio/rudd"
	"github.com/yusuke-matsunaga/bnet/cell"
	"github.com/yusuke-matsunaga/bnet/expr"
	"github.com/yusuke-matsunaga/bnet/internal/bddmgr"
	"github.com/yusuke-matsunaga/bnet/tv"
)

// Modifier is the sole mutation surface onto a Network (§4): every
// structural change is a Modifier method, and every Modifier method
// clears the network's sane flag so the next ordered-view query
// re-validates and re-sorts from scratch.
type Modifier struct {
	net *Network
}

// NewModifier wraps net for mutation.
func NewModifier(net *Network) *Modifier { return &Modifier{net: net} }

// Network returns the network this Modifier mutates.
func (m *Modifier) Network() *Network { return m.net }

func (m *Modifier) touch() { m.net.sane = false }

// NewPort declares a new port of the given width, with one direction per
// bit, allocating one input-side or output-side node per bit. Returns
// ErrDuplicatePortName if name is already in use (E5).
func (m *Modifier) NewPort(name string, dirs []Direction) (*Port, error) {
	n := m.net
	if _, ok := n.portByName[name]; ok {
		return nil, ErrDuplicatePortName
	}
	pid := n.allocPortID()
	p := &Port{id: pid, name: name, dirs: append([]Direction(nil), dirs...)}
	p.bits = make([]NodeId, len(dirs))
	for i, d := range dirs {
		id := n.allocNodeID()
		if d == DirInput {
			nd := &PortInputNode{nodeBase: nodeBase{id: id, name: bitName(name, i)}, Port: pid, Bit: i}
			n.registerNode(nd)
		} else {
			nd := &PortOutputNode{nodeBase: nodeBase{id: id, name: bitName(name, i)}, Port: pid, Bit: i}
			n.registerNode(nd)
		}
		p.bits[i] = id
	}
	n.ports = append(n.ports, p)
	n.portByName[name] = pid
	m.touch()
	return p, nil
}

func bitName(port string, bit int) string {
	if bit == 0 {
		return port
	}
	return port + "[" + itoa(bit) + "]"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// newTerminalSet allocates the five terminal nodes shared by NewDff and
// NewLatch: data-in, data-out, clock, and (if requested) clear/preset.
func (m *Modifier) newTerminalSet(name string, hasClear, hasPreset bool) (dataIn, dataOut, clock, clear, preset NodeId) {
	n := m.net
	dataOut = n.allocNodeID()
	n.registerNode(&DataOutNode{nodeBase: nodeBase{id: dataOut, name: name + ".out"}})
	dataIn = n.allocNodeID()
	n.registerNode(&DataInNode{nodeBase: nodeBase{id: dataIn, name: name + ".in"}})
	clock = n.allocNodeID()
	n.registerNode(&ClockNode{nodeBase: nodeBase{id: clock, name: name + ".clock"}})
	if hasClear {
		clear = n.allocNodeID()
		n.registerNode(&ClearNode{nodeBase: nodeBase{id: clear, name: name + ".clear"}})
	}
	if hasPreset {
		preset = n.allocNodeID()
		n.registerNode(&PresetNode{nodeBase: nodeBase{id: preset, name: name + ".preset"}})
	}
	return
}

// NewDff creates an edge-triggered D flip-flop, with clear/preset
// terminals present only if requested.
func (m *Modifier) NewDff(name string, hasClear, hasPreset bool, cpv CPV) *Dff {
	return m.newFFOrLatch(name, DffKindFF, hasClear, hasPreset, cpv)
}

// NewLatch creates a level-sensitive latch (the Clock terminal is the
// enable).
func (m *Modifier) NewLatch(name string, hasClear, hasPreset bool, cpv CPV) *Dff {
	return m.newFFOrLatch(name, DffKindLatch, hasClear, hasPreset, cpv)
}

func (m *Modifier) newFFOrLatch(name string, kind DffKind, hasClear, hasPreset bool, cpv CPV) *Dff {
	n := m.net
	dataIn, dataOut, clock, clear, preset := m.newTerminalSet(name, hasClear, hasPreset)
	id := n.allocDffID()
	d := &Dff{id: id, name: name, kind: kind, dataIn: dataIn, dataOut: dataOut, clock: clock, clear: clear, preset: preset, cpv: cpv}
	n.dffs[id] = d
	n.dffOrder = append(n.dffOrder, id)
	setDffOwner(n, dataOut, id)
	setDffOwner(n, dataIn, id)
	setDffOwner(n, clock, id)
	if hasClear {
		setDffOwner(n, clear, id)
	}
	if hasPreset {
		setDffOwner(n, preset, id)
	}
	m.touch()
	return d
}

func setDffOwner(n *Network, id NodeId, dff DffId) {
	switch nd := n.nodes[id].(type) {
	case *DataOutNode:
		nd.Dff = dff
	case *DataInNode:
		nd.Dff = dff
	case *ClockNode:
		nd.Dff = dff
	case *ClearNode:
		nd.Dff = dff
	case *PresetNode:
		nd.Dff = dff
	}
}

// NewDffCell creates a mapped sequential cell instance. Returns
// ErrNotSequentialCell if c is not a true sequential cell (E4-family).
func (m *Modifier) NewDffCell(name string, c cell.Cell) (*Dff, error) {
	if !c.IsSequential() || c.HasTristate() {
		return nil, ErrNotSequentialCell
	}
	n := m.net
	inputs := make([]NodeId, c.InputNum())
	for i := range inputs {
		id := n.allocNodeID()
		nd := &CellInputNode{nodeBase: nodeBase{id: id, name: name + ".in" + itoa(i)}, Pin: i}
		n.registerNode(nd)
		inputs[i] = id
	}
	outputs := make([]NodeId, c.OutputNum())
	for i := range outputs {
		id := n.allocNodeID()
		nd := &CellOutputNode{nodeBase: nodeBase{id: id, name: name + ".out" + itoa(i)}, Pin: i}
		n.registerNode(nd)
		outputs[i] = id
	}
	id := n.allocDffID()
	d := &Dff{id: id, name: name, kind: DffKindCell, cellID: c.ID(), cellInputs: inputs, cellOutputs: outputs}
	n.dffs[id] = d
	n.dffOrder = append(n.dffOrder, id)
	for _, in := range inputs {
		n.nodes[in].(*CellInputNode).Dff = id
	}
	for _, out := range outputs {
		n.nodes[out].(*CellOutputNode).Dff = id
	}
	m.touch()
	return d, nil
}

// NewPrimitive creates a logic node of one of the ten fixed primitive
// kinds with the given fanins. Returns ErrArityMismatch if the fanin
// count disagrees with the primitive's fixed arity, or is below 2 for
// an associative primitive.
func (m *Modifier) NewPrimitive(name string, kind NodeKind, fanins []NodeId) (NodeId, error) {
	if !kind.IsPrimitive() {
		return NullID, ErrArityMismatch
	}
	if a := kind.PrimitiveArity(); a >= 0 && len(fanins) != a {
		return NullID, ErrArityMismatch
	}
	if kind.PrimitiveArity() < 0 && len(fanins) < 2 {
		return NullID, ErrArityMismatch
	}
	return m.newLogic(name, kind, fanins, 0, 0, 0, 0), nil
}

// NewExpr creates an Expr-backed logic node. The expression is
// hash-consed against the network's expression pool per I7 when its
// arity is <= 10.
func (m *Modifier) NewExpr(name string, e expr.Expr, fanins []NodeId) (NodeId, error) {
	if e.InputSize() > len(fanins) {
		return NullID, ErrArityMismatch
	}
	id := m.net.exprPool.intern(e, len(fanins))
	return m.newLogic(name, KindExpr, fanins, id, 0, 0, 0), nil
}

// NewTv creates a TvFunc-backed logic node. The table is hash-consed
// against the network's truth-table pool unconditionally per I7.
func (m *Modifier) NewTv(name string, f *tv.Func, fanins []NodeId) (NodeId, error) {
	if f.Arity() != len(fanins) {
		return NullID, ErrArityMismatch
	}
	id := m.net.tvPool.intern(f)
	return m.newLogic(name, KindTvFunc, fanins, 0, id, 0, 0), nil
}

// NewBdd creates a Bdd-backed logic node. bdd is first copied into the
// network's own BDD manager (lazily created on first use) so the node
// never aliases srcMgr's node table (§5); callers that already built
// bdd in the network's own manager may pass nil for srcMgr.
func (m *Modifier) NewBdd(name string, srcMgr *bddmgr.Manager, bdd rudd.Node, fanins []NodeId) (NodeId, error) {
	dst, err := m.net.ensureBddMgr()
	if err != nil {
		return NullID, err
	}
	if srcMgr != nil && srcMgr != dst {
		bdd, err = dst.Copy(srcMgr, bdd)
		if err != nil {
			return NullID, err
		}
	}
	id := len(m.net.bddRoots)
	m.net.bddRoots = append(m.net.bddRoots, bdd)
	return m.newLogic(name, KindBdd, fanins, 0, 0, id, 0), nil
}

// NewBddFromPool creates a Bdd-backed logic node referencing an already
// -loaded pool entry by index (used by binio.Restore, which loads the
// whole BDD pool via Network.RestoreBdds before recreating the logic
// nodes that reference it).
func (m *Modifier) NewBddFromPool(name string, poolIndex int, fanins []NodeId) (NodeId, error) {
	if poolIndex < 0 || poolIndex >= m.net.BddNum() {
		return NullID, newError(KindDomainError, "bdd pool index %d out of range", poolIndex)
	}
	return m.newLogic(name, KindBdd, fanins, 0, 0, poolIndex, 0), nil
}

// NewLogicCell creates a mapped combinational-logic cell instance.
// Returns ErrNotCombinationalCell if c is sequential, multi-output, or
// tristate (E4).
func (m *Modifier) NewLogicCell(name string, c cell.Cell, fanins []NodeId) (NodeId, error) {
	if c.IsSequential() || c.HasTristate() || c.OutputNum() != 1 {
		return NullID, ErrNotCombinationalCell
	}
	if c.InputNum() != len(fanins) {
		return NullID, ErrArityMismatch
	}
	return m.newLogic(name, KindCell, fanins, 0, 0, 0, c.ID()), nil
}

func (m *Modifier) newLogic(name string, kind NodeKind, fanins []NodeId, exprID, tvID, bddID, cellID int) NodeId {
	n := m.net
	id := n.allocNodeID()
	nd := &LogicNode{
		nodeBase:  nodeBase{id: id, name: name},
		NodeType:  kind,
		FaninList: append([]NodeId(nil), fanins...),
		ExprID:    exprID,
		TvID:      tvID,
		BddID:     bddID,
		CellID:    cellID,
	}
	n.registerNode(nd)
	m.touch()
	return id
}

// ChangePrimitive rewrites an existing logic node in place to a
// different primitive kind and fanin list, preserving its ID and
// fanout edges (so existing references to it remain valid).
func (m *Modifier) ChangePrimitive(id NodeId, kind NodeKind, fanins []NodeId) error {
	ln, err := m.logicNode(id)
	if err != nil {
		return err
	}
	if a := kind.PrimitiveArity(); a >= 0 && len(fanins) != a {
		return ErrArityMismatch
	}
	ln.NodeType = kind
	ln.setFanins(append([]NodeId(nil), fanins...))
	ln.ExprID, ln.TvID, ln.BddID, ln.CellID = 0, 0, 0, 0
	m.touch()
	return nil
}

// ChangeExpr rewrites an existing logic node in place to be Expr-backed.
func (m *Modifier) ChangeExpr(id NodeId, e expr.Expr, fanins []NodeId) error {
	ln, err := m.logicNode(id)
	if err != nil {
		return err
	}
	if e.InputSize() > len(fanins) {
		return ErrArityMismatch
	}
	ln.NodeType = KindExpr
	ln.setFanins(append([]NodeId(nil), fanins...))
	ln.ExprID = m.net.exprPool.intern(e, len(fanins))
	m.touch()
	return nil
}

// ChangeTv rewrites an existing logic node in place to be TvFunc-backed.
func (m *Modifier) ChangeTv(id NodeId, f *tv.Func, fanins []NodeId) error {
	ln, err := m.logicNode(id)
	if err != nil {
		return err
	}
	if f.Arity() != len(fanins) {
		return ErrArityMismatch
	}
	ln.NodeType = KindTvFunc
	ln.setFanins(append([]NodeId(nil), fanins...))
	ln.TvID = m.net.tvPool.intern(f)
	m.touch()
	return nil
}

// ChangeCell rewrites an existing logic node in place to be backed by a
// mapped combinational cell.
func (m *Modifier) ChangeCell(id NodeId, cellID int, fanins []NodeId) error {
	ln, err := m.logicNode(id)
	if err != nil {
		return err
	}
	ln.NodeType = KindCell
	ln.setFanins(append([]NodeId(nil), fanins...))
	ln.CellID = cellID
	m.touch()
	return nil
}

func (m *Modifier) logicNode(id NodeId) (*LogicNode, error) {
	nd, ok := m.net.nodes[id]
	if !ok {
		return nil, newError(KindDomainError, "unknown node %s", id)
	}
	ln, ok := nd.(*LogicNode)
	if !ok {
		return nil, newError(KindDomainError, "node %s is not a logic node", id)
	}
	return ln, nil
}

// SetOutputSrc sets (or rewrites) the single fanin of an output-side
// node: a port-output bit, a dff's data-in, or a clock/clear/preset
// terminal.
func (m *Modifier) SetOutputSrc(id, src NodeId) error {
	nd, ok := m.net.nodes[id]
	if !ok {
		return newError(KindDomainError, "unknown node %s", id)
	}
	setter, ok := nd.(srcSetter)
	if !ok {
		return newError(KindDomainError, "node %s is not an output-side node", id)
	}
	setter.setSrc(src)
	m.touch()
	return nil
}

// ConnectFanins replaces a logic node's entire fanin vector in place.
// Returns ErrArityMismatch if fanins differs in length from the node's
// current fanin vector.
func (m *Modifier) ConnectFanins(id NodeId, fanins []NodeId) error {
	ln, err := m.logicNode(id)
	if err != nil {
		return err
	}
	if len(fanins) != len(ln.FaninList) {
		return ErrArityMismatch
	}
	ln.setFanins(append([]NodeId(nil), fanins...))
	m.touch()
	return nil
}

// SubstituteFanout rewrites every edge that currently points at oldID
// (every fanin/source reference across the whole network) to point at
// newID instead, leaving oldID itself unreferenced. Typically used after
// cloning or decomposing a node to retarget its former consumers.
func (m *Modifier) SubstituteFanout(oldID, newID NodeId) {
	n := m.net
	for _, nd := range n.nodes {
		switch v := nd.(type) {
		case srcSetter:
			for _, f := range nd.Fanins() {
				if f == oldID {
					v.setSrc(newID)
				}
			}
		case faninSetter:
			fanins := nd.Fanins()
			changed := false
			out := make([]NodeId, len(fanins))
			for i, f := range fanins {
				if f == oldID {
					out[i] = newID
					changed = true
				} else {
					out[i] = f
				}
			}
			if changed {
				v.setFanins(out)
			}
		}
	}
	m.touch()
}
