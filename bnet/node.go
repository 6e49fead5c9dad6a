package bnet

// NodeKind tags the variant of a Node. Go has no first-class sum type, so
// the source's virtual-method hierarchy is translated into the Node
// interface plus one exported struct per variant (see node_*.go); NodeKind
// lets generic code (wrap_up, writers, FuncAnalyzer) switch on the variant
// without a type assertion when only the tag is needed.
type NodeKind uint8

const (
	// Input-side variants (no fanin).
	KindPortInput NodeKind = iota
	KindDataOut
	KindCellOutput

	// Output-side variants (exactly one fanin, the "source").
	KindPortOutput
	KindDataIn
	KindClock
	KindClear
	KindPreset
	KindCellInput

	// Logic variants (N fanins).
	KindC0
	KindC1
	KindBuff
	KindNot
	KindAnd
	KindNand
	KindOr
	KindNor
	KindXor
	KindXnor
	KindExpr
	KindTvFunc
	KindBdd
	KindCell
)

func (k NodeKind) String() string {
	switch k {
	case KindPortInput:
		return "PortInput"
	case KindDataOut:
		return "DataOut"
	case KindCellOutput:
		return "CellOutput"
	case KindPortOutput:
		return "PortOutput"
	case KindDataIn:
		return "DataIn"
	case KindClock:
		return "Clock"
	case KindClear:
		return "Clear"
	case KindPreset:
		return "Preset"
	case KindCellInput:
		return "CellInput"
	case KindC0:
		return "C0"
	case KindC1:
		return "C1"
	case KindBuff:
		return "Buff"
	case KindNot:
		return "Not"
	case KindAnd:
		return "And"
	case KindNand:
		return "Nand"
	case KindOr:
		return "Or"
	case KindNor:
		return "Nor"
	case KindXor:
		return "Xor"
	case KindXnor:
		return "Xnor"
	case KindExpr:
		return "Expr"
	case KindTvFunc:
		return "TvFunc"
	case KindBdd:
		return "Bdd"
	case KindCell:
		return "Cell"
	default:
		return "Unknown"
	}
}

// IsInputSide reports whether k has no fanin (PortInput, DataOut,
// CellOutput).
func (k NodeKind) IsInputSide() bool {
	switch k {
	case KindPortInput, KindDataOut, KindCellOutput:
		return true
	}
	return false
}

// IsOutputSide reports whether k carries exactly one fanin, the "source"
// (PortOutput, DataIn, Clock, Clear, Preset, CellInput).
func (k NodeKind) IsOutputSide() bool {
	switch k {
	case KindPortOutput, KindDataIn, KindClock, KindClear, KindPreset, KindCellInput:
		return true
	}
	return false
}

// IsLogic reports whether k is one of the logic variants.
func (k NodeKind) IsLogic() bool {
	return !k.IsInputSide() && !k.IsOutputSide()
}

// IsPrimitive reports whether k is one of the ten fixed primitive gate
// kinds (§ GLOSSARY).
func (k NodeKind) IsPrimitive() bool {
	switch k {
	case KindC0, KindC1, KindBuff, KindNot, KindAnd, KindNand, KindOr, KindNor, KindXor, KindXnor:
		return true
	}
	return false
}

// PrimitiveArity returns the expected fanin count for a primitive kind,
// or -1 if the kind is not a fixed-arity primitive (And/Or/Nand/Nor/Xor/
// Xnor are associative, arity >= 2, and return -1 here; callers check
// fanin count >= 2 for those directly).
func (k NodeKind) PrimitiveArity() int {
	switch k {
	case KindC0, KindC1:
		return 0
	case KindBuff, KindNot:
		return 1
	default:
		return -1
	}
}

// Node is the common read-only view shared by every node variant. The
// unexported methods keep the interface closed to this package, so a
// Network can always treat "implements bnet.Node" as "owned by some
// Network" (§3.4: nodes are referenced by ID everywhere, never aliased
// across component boundaries).
type Node interface {
	// ID returns the node's stable, non-zero identifier.
	ID() NodeId
	// Name returns the node's name, possibly empty.
	Name() string
	// Kind returns the node's variant tag.
	Kind() NodeKind
	// Fanouts returns the IDs of nodes whose fanin (or output source)
	// includes this node. Only valid to rely on after WrapUp.
	Fanouts() []NodeId
	// Fanins returns this node's fanin list: nil for input-side nodes,
	// a single-element slice holding the output source for
	// output-side nodes, and the full fanin vector for logic nodes.
	Fanins() []NodeId

	addFanout(NodeId)
	clearFanouts()
}

type nodeBase struct {
	id      NodeId
	name    string
	fanouts []NodeId
}

func (b *nodeBase) ID() NodeId          { return b.id }
func (b *nodeBase) Name() string        { return b.name }
func (b *nodeBase) Fanouts() []NodeId   { return b.fanouts }
func (b *nodeBase) addFanout(id NodeId) { b.fanouts = append(b.fanouts, id) }
func (b *nodeBase) clearFanouts()       { b.fanouts = b.fanouts[:0] }

// srcSetter is implemented by every output-side node; Modifier.SetOutputSrc
// and SubstituteFanout use it to rewrite the single fanin in place.
type srcSetter interface {
	setSrc(NodeId)
}

// faninSetter is implemented by LogicNode; ConnectFanins and the
// Change* family use it to replace the fanin vector in place while
// preserving the node's ID and fanout edges.
type faninSetter interface {
	setFanins([]NodeId)
}

// --- input-side variants ---------------------------------------------

// PortInputNode is a port bit that is an external input.
type PortInputNode struct {
	nodeBase
	Port            PortId
	Bit             int
	InputPos        int // position in Network.Inputs()
	PrimaryInputPos int // position in Network.PrimaryInputs()
}

func (n *PortInputNode) Kind() NodeKind  { return KindPortInput }
func (n *PortInputNode) Fanins() []NodeId { return nil }

// DataOutNode is a D-FF/latch's data output, a pseudo-primary-input.
type DataOutNode struct {
	nodeBase
	Dff      DffId
	InputPos int
}

func (n *DataOutNode) Kind() NodeKind  { return KindDataOut }
func (n *DataOutNode) Fanins() []NodeId { return nil }

// CellOutputNode is a mapped sequential cell's output pin.
type CellOutputNode struct {
	nodeBase
	Dff      DffId
	Pin      int
	InputPos int
}

func (n *CellOutputNode) Kind() NodeKind  { return KindCellOutput }
func (n *CellOutputNode) Fanins() []NodeId { return nil }

// --- output-side variants ---------------------------------------------

// PortOutputNode is a port bit that is an external output.
type PortOutputNode struct {
	nodeBase
	Port             PortId
	Bit              int
	OutputPos        int
	PrimaryOutputPos int
	Src              NodeId
}

func (n *PortOutputNode) Kind() NodeKind   { return KindPortOutput }
func (n *PortOutputNode) setSrc(id NodeId) { n.Src = id }
func (n *PortOutputNode) Fanins() []NodeId {
	if n.Src == NullID {
		return nil
	}
	return []NodeId{n.Src}
}

// DataInNode is a D-FF/latch's data input, a pseudo-primary-output.
type DataInNode struct {
	nodeBase
	Dff       DffId
	OutputPos int
	Src       NodeId
}

func (n *DataInNode) Kind() NodeKind   { return KindDataIn }
func (n *DataInNode) setSrc(id NodeId) { n.Src = id }
func (n *DataInNode) Fanins() []NodeId {
	if n.Src == NullID {
		return nil
	}
	return []NodeId{n.Src}
}

// ClockNode is a D-FF/latch's clock (or latch enable) terminal.
type ClockNode struct {
	nodeBase
	Dff DffId
	Src NodeId
}

func (n *ClockNode) Kind() NodeKind   { return KindClock }
func (n *ClockNode) setSrc(id NodeId) { n.Src = id }
func (n *ClockNode) Fanins() []NodeId {
	if n.Src == NullID {
		return nil
	}
	return []NodeId{n.Src}
}

// ClearNode is a D-FF/latch's asynchronous clear terminal.
type ClearNode struct {
	nodeBase
	Dff DffId
	Src NodeId
}

func (n *ClearNode) Kind() NodeKind   { return KindClear }
func (n *ClearNode) setSrc(id NodeId) { n.Src = id }
func (n *ClearNode) Fanins() []NodeId {
	if n.Src == NullID {
		return nil
	}
	return []NodeId{n.Src}
}

// PresetNode is a D-FF/latch's asynchronous preset terminal.
type PresetNode struct {
	nodeBase
	Dff DffId
	Src NodeId
}

func (n *PresetNode) Kind() NodeKind   { return KindPreset }
func (n *PresetNode) setSrc(id NodeId) { n.Src = id }
func (n *PresetNode) Fanins() []NodeId {
	if n.Src == NullID {
		return nil
	}
	return []NodeId{n.Src}
}

// CellInputNode is a mapped sequential cell's input pin.
type CellInputNode struct {
	nodeBase
	Dff       DffId
	Pin       int
	OutputPos int
	Src       NodeId
}

func (n *CellInputNode) Kind() NodeKind   { return KindCellInput }
func (n *CellInputNode) setSrc(id NodeId) { n.Src = id }
func (n *CellInputNode) Fanins() []NodeId {
	if n.Src == NullID {
		return nil
	}
	return []NodeId{n.Src}
}

// --- logic variant -----------------------------------------------------

// LogicNode is every N-fanin logic variant: the ten primitives plus
// Expr/TvFunc/Bdd/Cell. The fixed primitives and the pooled/cell-backed
// kinds share an identical shape (fanins plus one optional pool index),
// so one struct with a kind tag stands in for what would otherwise be
// fourteen near-identical types; ExprID/TvID/BddID/CellID are read
// according to NodeType, matching the spec's "match on the variant"
// guidance (§9 DESIGN NOTES) without fourteen copy-pasted structs.
type LogicNode struct {
	nodeBase
	NodeType  NodeKind
	FaninList []NodeId
	ExprID    int // valid when NodeType == KindExpr
	TvID      int // valid when NodeType == KindTvFunc
	BddID     int // valid when NodeType == KindBdd
	CellID    int // valid when NodeType == KindCell
}

func (n *LogicNode) Kind() NodeKind            { return n.NodeType }
func (n *LogicNode) Fanins() []NodeId          { return n.FaninList }
func (n *LogicNode) setFanins(f []NodeId)      { n.FaninList = f }
func (n *LogicNode) FaninNum() int             { return len(n.FaninList) }
func (n *LogicNode) FaninID(i int) NodeId      { return n.FaninList[i] }
