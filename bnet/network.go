package bnet

import (
	"github.com/dalzilio/rudd"
	"github.com/yusuke-matsunaga/bnet/cell"
	"github.com/yusuke-matsunaga/bnet/expr"
	"github.com/yusuke-matsunaga/bnet/internal/bddmgr"
	"github.com/yusuke-matsunaga/bnet/tv"
)

// Network is the top-level container: it owns every port, DFF, node, the
// expression/truth-table pools, the BDD manager, and (optionally) a cell
// library. It maintains the ordered index lists of §3.1 and tracks the
// `sane` flag of §4.9.
type Network struct {
	name string

	nodes    map[NodeId]Node
	nextNode NodeId

	ports      []*Port
	portByName map[string]PortId
	nextPort   PortId

	dffs     map[DffId]*Dff
	dffOrder []DffId
	nextDff  DffId

	exprPool *exprPool
	tvPool   *tvPool
	bddMgr   *bddmgr.Manager
	bddRoots []rudd.Node

	cellLib cell.Library

	inputs         []NodeId
	primaryInputs  []NodeId
	outputs        []NodeId
	primaryOutputs []NodeId

	logic             []NodeId
	outputSrcs        []NodeId
	primaryOutputSrcs []NodeId

	sane bool
}

// NewNetwork creates an empty network with the given model name.
func NewNetwork(name string) *Network {
	return &Network{
		name:       name,
		nodes:      make(map[NodeId]Node),
		portByName: make(map[string]PortId),
		dffs:       make(map[DffId]*Dff),
		exprPool:   newExprPool(),
		tvPool:     newTvPool(),
	}
}

// Name returns the network's model name.
func (n *Network) Name() string { return n.name }

// SetName sets the network's model name.
func (n *Network) SetName(name string) { n.name = name }

// Sane reports whether the network's ordered views are up to date with
// the last mutation (§4.9).
func (n *Network) Sane() bool { return n.sane }

// SetCellLibrary attaches the optional cell library NewDffCell and
// NewLogicCell resolve cell IDs against.
func (n *Network) SetCellLibrary(lib cell.Library) { n.cellLib = lib }

// CellLibrary returns the attached cell library, or nil.
func (n *Network) CellLibrary() cell.Library { return n.cellLib }

// Node returns the node with the given ID.
func (n *Network) Node(id NodeId) (Node, bool) {
	nd, ok := n.nodes[id]
	return nd, ok
}

// MustNode returns the node with the given ID, panicking if absent. Only
// used internally after a validity check has already passed.
func (n *Network) MustNode(id NodeId) Node {
	nd, ok := n.nodes[id]
	if !ok {
		panic("bnet: MustNode: unknown node id")
	}
	return nd
}

// NodeNum returns the number of nodes ever allocated.
func (n *Network) NodeNum() int { return len(n.nodes) }

// Port returns the port with the given ID.
func (n *Network) Port(id PortId) *Port {
	for _, p := range n.ports {
		if p.id == id {
			return p
		}
	}
	return nil
}

// Ports returns every port, in creation order.
func (n *Network) Ports() []*Port { return n.ports }

// PortByName returns the port with the given name, if any.
func (n *Network) PortByName(name string) (*Port, bool) {
	id, ok := n.portByName[name]
	if !ok {
		return nil, false
	}
	return n.Port(id), true
}

// Dff returns the dff with the given ID.
func (n *Network) Dff(id DffId) *Dff { return n.dffs[id] }

// DffList returns every dff, in creation order.
func (n *Network) DffList() []*Dff {
	out := make([]*Dff, len(n.dffOrder))
	for i, id := range n.dffOrder {
		out[i] = n.dffs[id]
	}
	return out
}

// DffNum returns the number of dffs.
func (n *Network) DffNum() int { return len(n.dffOrder) }

// Inputs returns every input-side node (port inputs, DFF/cell outputs).
func (n *Network) Inputs() []NodeId { return n.inputs }

// PrimaryInputs returns only the port-input nodes.
func (n *Network) PrimaryInputs() []NodeId { return n.primaryInputs }

// Outputs returns every output-side node (port outputs, DFF/cell inputs,
// clock/clear/preset terminals).
func (n *Network) Outputs() []NodeId { return n.outputs }

// PrimaryOutputs returns only the port-output nodes.
func (n *Network) PrimaryOutputs() []NodeId { return n.primaryOutputs }

// LogicList returns the logic nodes in topological order, wrapping up
// first if needed.
func (n *Network) LogicList() ([]NodeId, error) {
	if err := n.WrapUp(); err != nil {
		return nil, err
	}
	return n.logic, nil
}

// OutputSrcList returns every output-side node's fanin snapshot, in the
// same order as Outputs(), wrapping up first if needed.
func (n *Network) OutputSrcList() ([]NodeId, error) {
	if err := n.WrapUp(); err != nil {
		return nil, err
	}
	return n.outputSrcs, nil
}

// PrimaryOutputSrcList returns every primary-output node's fanin
// snapshot, in the same order as PrimaryOutputs(), wrapping up first if
// needed.
func (n *Network) PrimaryOutputSrcList() ([]NodeId, error) {
	if err := n.WrapUp(); err != nil {
		return nil, err
	}
	return n.primaryOutputSrcs, nil
}

// ExprNum returns the number of pooled expressions.
func (n *Network) ExprNum() int { return n.exprPool.num() }

// Expr returns the pooled expression with the given ID.
func (n *Network) Expr(id int) expr.Expr { return n.exprPool.get(id) }

// TvNum returns the number of pooled truth tables.
func (n *Network) TvNum() int { return n.tvPool.num() }

// Tv returns the pooled truth table with the given ID.
func (n *Network) Tv(id int) *tv.Func { return n.tvPool.get(id) }

// BddRoot returns the BDD node for the given pool ID.
func (n *Network) BddRoot(id int) rudd.Node { return n.bddRoots[id] }

// BddNum returns the number of pooled BDD roots.
func (n *Network) BddNum() int { return len(n.bddRoots) }

func (n *Network) allocNodeID() NodeId {
	n.nextNode++
	return n.nextNode
}

func (n *Network) allocDffID() DffId {
	n.nextDff++
	return n.nextDff
}

func (n *Network) allocPortID() PortId {
	n.nextPort++
	return n.nextPort
}

func (n *Network) registerNode(nd Node) {
	n.nodes[nd.ID()] = nd
	n.sane = false
}

// BddTriple is one (id, variable level, low child, high child) row of a
// portable BDD dump, re-exported from bddmgr so binio does not need to
// import it directly.
type BddTriple = bddmgr.Triple

// DumpBdds returns the network's entire BDD pool as portable triples
// plus the root index (into those triples) of every pooled root, in
// BddRoot(0..BddNum()-1) order.
func (n *Network) DumpBdds() ([]BddTriple, []int, error) {
	if n.bddMgr == nil {
		return nil, nil, nil
	}
	return n.bddMgr.Dump(n.bddRoots)
}

// RestoreBdds rebuilds the network's BDD pool from triples previously
// returned by DumpBdds, replacing any existing pool.
func (n *Network) RestoreBdds(triples []BddTriple, rootIDs []int) error {
	mgr, err := n.ensureBddMgr()
	if err != nil {
		return err
	}
	roots, err := mgr.Restore(triples, rootIDs)
	if err != nil {
		return err
	}
	n.bddRoots = roots
	return nil
}

// ensureBddMgr lazily creates the network's BDD manager on first use.
func (n *Network) ensureBddMgr() (*bddmgr.Manager, error) {
	if n.bddMgr == nil {
		m, err := bddmgr.New(1)
		if err != nil {
			return nil, err
		}
		n.bddMgr = m
	}
	return n.bddMgr, nil
}
