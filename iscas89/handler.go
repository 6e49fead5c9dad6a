package iscas89

import (
	"fmt"

	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/expr"
)

// Handler is the callback contract an ISCAS-89 (.bench) statement
// reader drives, grounded on BnIscas89Handler.{h,cc}: the same
// deferred-fanin-resolution pattern as blif.Handler (a name-ID ->
// NodeId map plus a NodeId -> deferred fanin-name-ID list, resolved in
// End before wrap_up).
type Handler struct {
	clockName string

	net *bnet.Network
	mod *bnet.Modifier

	idMap     map[int]bnet.NodeId
	faninInfo map[bnet.NodeId][]int

	clockID bnet.NodeId
}

// NewHandler builds a Handler. clockName defaults to "clock" when
// empty.
func NewHandler(clockName string) *Handler {
	if clockName == "" {
		clockName = "clock"
	}
	return &Handler{clockName: clockName}
}

// Init (re)starts the handler against a fresh, empty network.
func (h *Handler) Init() error {
	h.net = bnet.NewNetwork("iscas89_network")
	h.mod = bnet.NewModifier(h.net)
	h.idMap = make(map[int]bnet.NodeId)
	h.faninInfo = make(map[bnet.NodeId][]int)
	h.clockID = bnet.NullID
	return nil
}

// ReadInput processes one "INPUT(name)" statement.
func (h *Handler) ReadInput(nameID int, name string) error {
	p, err := h.mod.NewPort(name, []bnet.Direction{bnet.DirInput})
	if err != nil {
		return err
	}
	h.idMap[nameID] = p.Bit(0)
	return nil
}

// ReadOutput processes one "OUTPUT(name)" statement. The port's fanin
// is deferred: its driver may not be defined yet.
func (h *Handler) ReadOutput(nameID int, name string) error {
	p, err := h.mod.NewPort(name, []bnet.Direction{bnet.DirOutput})
	if err != nil {
		return err
	}
	h.faninInfo[p.Bit(0)] = []int{nameID}
	return nil
}

// ReadGate processes one "oname = GATE(iname, ...)" statement for one
// of the ten fixed primitives. kind must satisfy NodeKind.IsPrimitive.
func (h *Handler) ReadGate(kind bnet.NodeKind, onameID int, oname string, inameIDs []int) error {
	id, err := h.mod.NewPrimitive(oname, kind, placeholderFanins(len(inameIDs)))
	if err != nil {
		return err
	}
	h.idMap[onameID] = id
	h.faninInfo[id] = inameIDs
	return nil
}

// ReadMux processes one "oname = MUX(c..., d...)" statement: ni
// fanins split into nc select lines and nd == 2^nc data lines
// (nc + nd == ni), expanded to a sum-of-products Expr exactly as
// BnIscas89Handler::read_mux does: one AND term per data line,
// gated by the select-line literals matching that line's binary
// index, OR'd together.
func (h *Handler) ReadMux(onameID int, oname string, inameIDs []int) error {
	ni := len(inameIDs)
	nc, nd := 0, 1
	for nc+nd < ni {
		nc++
		nd <<= 1
	}
	if nc+nd != ni {
		return fmt.Errorf("iscas89: MUX fanin count %d is not c + 2^c for any c", ni)
	}

	orTerms := make([]expr.Expr, nd)
	for p := 0; p < nd; p++ {
		lits := make([]expr.Expr, nc+1)
		for i := 0; i < nc; i++ {
			lits[i] = expr.Lit(i, p&(1<<uint(i)) != 0)
		}
		lits[nc] = expr.Lit(nc+p, true)
		orTerms[p] = expr.And(lits...)
	}
	muxExpr := expr.Or(orTerms...)

	id, err := h.mod.NewExpr(oname, muxExpr, placeholderFanins(ni))
	if err != nil {
		return err
	}
	h.idMap[onameID] = id
	h.faninInfo[id] = inameIDs
	return nil
}

// ReadDff processes one "oname = DFF(iname)" statement: ISCAS-89 dffs
// have no clear/preset, only a clock, which is shared by every dff and
// created lazily on first use.
func (h *Handler) ReadDff(onameID int, oname string, inameID int) error {
	d := h.mod.NewDff(oname, false, false, bnet.CpvX)
	h.idMap[onameID] = d.DataOut()
	h.faninInfo[d.DataIn()] = []int{inameID}

	if h.clockID == bnet.NullID {
		p, err := h.mod.NewPort(h.clockName, []bnet.Direction{bnet.DirInput})
		if err != nil {
			return err
		}
		h.clockID = p.Bit(0)
	}
	return h.mod.SetOutputSrc(d.Clock(), h.clockID)
}

// End resolves every deferred fanin list against the name-ID map,
// wraps the network up, and returns it.
func (h *Handler) End() (*bnet.Network, error) {
	if err := h.resolveFanins(); err != nil {
		return nil, err
	}
	if err := h.net.WrapUp(); err != nil {
		return nil, err
	}
	return h.net, nil
}

func (h *Handler) resolveFanins() error {
	for id, nameIDs := range h.faninInfo {
		nd, ok := h.net.Node(id)
		if !ok {
			continue
		}
		resolved := make([]bnet.NodeId, len(nameIDs))
		for i, nameID := range nameIDs {
			rid, ok := h.idMap[nameID]
			if !ok {
				return fmt.Errorf("iscas89: name id %d not found", nameID)
			}
			resolved[i] = rid
		}
		if _, ok := nd.(*bnet.LogicNode); ok {
			if err := h.mod.ConnectFanins(id, resolved); err != nil {
				return err
			}
			continue
		}
		if err := h.mod.SetOutputSrc(id, resolved[0]); err != nil {
			return err
		}
	}
	return nil
}

// NormalExit is a no-op: a completed End already returned the network.
func (h *Handler) NormalExit() {}

// ErrorExit discards the in-progress network.
func (h *Handler) ErrorExit() {
	h.net = nil
	h.mod = nil
}

func placeholderFanins(n int) []bnet.NodeId {
	f := make([]bnet.NodeId, n)
	for i := range f {
		f[i] = bnet.NullID
	}
	return f
}
