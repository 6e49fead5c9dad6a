package blif

import (
	"fmt"

	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/cell"
	"github.com/yusuke-matsunaga/bnet/expr"
)

// Cover is one ".names" statement's cube list, already tokenized by
// the (out-of-scope) BLIF parser: one row per cube, each a string of
// length equal to the statement's fanin count over '0'/'1'/'-', plus
// the single output polarity every row shares, as BLIF guarantees for
// a well-formed cover.
type Cover struct {
	Cubes  []string
	Output byte // '0' or '1'
}

// Handler is the callback contract a BLIF statement reader drives,
// grounded on BnBlifHandler.{h,cc}. It builds nodes before their
// fanins exist (forward name references are the norm in BLIF), so it
// keeps a name-ID -> NodeId map and a NodeId -> deferred fanin-name-ID
// list; End resolves the deferred lists against the map and wraps up.
type Handler struct {
	clockName string
	resetName string
	lib       cell.Library

	net *bnet.Network
	mod *bnet.Modifier

	idMap     map[int]bnet.NodeId
	faninInfo map[bnet.NodeId][]int

	clockID bnet.NodeId
	resetID bnet.NodeId
}

// NewHandler builds a Handler. clockName/resetName default to
// "clock"/"reset" (BnBlifHandler's defaults) when empty; lib may be
// nil if the input has no ".gate" statements.
func NewHandler(clockName, resetName string, lib cell.Library) *Handler {
	if clockName == "" {
		clockName = "clock"
	}
	if resetName == "" {
		resetName = "reset"
	}
	return &Handler{clockName: clockName, resetName: resetName, lib: lib}
}

// Init (re)starts the handler against a fresh, empty network.
func (h *Handler) Init() error {
	h.net = bnet.NewNetwork("")
	if h.lib != nil {
		h.net.SetCellLibrary(h.lib)
	}
	h.mod = bnet.NewModifier(h.net)
	h.idMap = make(map[int]bnet.NodeId)
	h.faninInfo = make(map[bnet.NodeId][]int)
	h.clockID = bnet.NullID
	h.resetID = bnet.NullID
	return nil
}

// Model records the ".model" statement's name.
func (h *Handler) Model(name string) error {
	h.net.SetName(name)
	return nil
}

// InputsElem processes one name in an ".inputs" statement.
func (h *Handler) InputsElem(nameID int, name string) error {
	p, err := h.mod.NewPort(name, []bnet.Direction{bnet.DirInput})
	if err != nil {
		return err
	}
	h.idMap[nameID] = p.Bit(0)
	return nil
}

// OutputsElem processes one name in an ".outputs" statement. The
// port's fanin is deferred: its driver may not be defined yet.
func (h *Handler) OutputsElem(nameID int, name string) error {
	p, err := h.mod.NewPort(name, []bnet.Direction{bnet.DirOutput})
	if err != nil {
		return err
	}
	h.faninInfo[p.Bit(0)] = []int{nameID}
	return nil
}

// Names processes one ".names" statement: builds an Expr-backed logic
// node from cover, deferring fanin resolution.
func (h *Handler) Names(onameID int, oname string, inodeIDs []int, cover Cover) error {
	ni := len(inodeIDs)
	e := coverToExpr(cover, ni)
	id, err := h.mod.NewExpr(oname, e, placeholderFanins(ni))
	if err != nil {
		return err
	}
	h.idMap[onameID] = id
	h.faninInfo[id] = inodeIDs
	return nil
}

// Gate processes one ".gate" statement: a mapped combinational cell
// instance. Requires a non-nil cell library.
func (h *Handler) Gate(onameID int, oname string, inodeIDs []int, cellID int) error {
	if h.lib == nil {
		return fmt.Errorf("blif: .gate statement but no cell library was supplied")
	}
	c, ok := h.lib.Cell(cellID)
	if !ok {
		return fmt.Errorf("blif: unknown cell id %d", cellID)
	}
	id, err := h.mod.NewLogicCell(oname, c, placeholderFanins(len(inodeIDs)))
	if err != nil {
		return err
	}
	h.idMap[onameID] = id
	h.faninInfo[id] = inodeIDs
	return nil
}

// Latch processes one ".latch" statement. resetVal is '0' for an
// asynchronous clear, '1' for an asynchronous preset, or any other
// byte for neither. The clock (and, if needed, reset) port is created
// lazily on first use and shared by every dff.
func (h *Handler) Latch(onameID int, oname string, inodeID int, resetVal byte) error {
	hasClear := resetVal == '0'
	hasPreset := resetVal == '1'
	d := h.mod.NewDff(oname, hasClear, hasPreset, bnet.CpvX)
	h.idMap[onameID] = d.DataOut()
	h.faninInfo[d.DataIn()] = []int{inodeID}

	if h.clockID == bnet.NullID {
		p, err := h.mod.NewPort(h.clockName, []bnet.Direction{bnet.DirInput})
		if err != nil {
			return err
		}
		h.clockID = p.Bit(0)
	}
	if err := h.mod.SetOutputSrc(d.Clock(), h.clockID); err != nil {
		return err
	}

	if hasClear || hasPreset {
		if h.resetID == bnet.NullID {
			p, err := h.mod.NewPort(h.resetName, []bnet.Direction{bnet.DirInput})
			if err != nil {
				return err
			}
			h.resetID = p.Bit(0)
		}
	}
	if hasClear {
		return h.mod.SetOutputSrc(d.Clear(), h.resetID)
	}
	if hasPreset {
		return h.mod.SetOutputSrc(d.Preset(), h.resetID)
	}
	return nil
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
				return fmt.Errorf("blif: name id %d not found", nameID)
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

// ErrorExit discards the in-progress network (§4.10: readers discard a
// partial network on failure).
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

// coverToExpr translates a BLIF cover into a sum-of-products Expr,
// mirroring BnBlifHandler.cc's cover2expr: each cube becomes a
// conjunction of literals ('-' positions are omitted), the cubes are
// OR'd together, and the whole expression is negated when the cover's
// output polarity is '0'.
func coverToExpr(cover Cover, ni int) expr.Expr {
	terms := make([]expr.Expr, 0, len(cover.Cubes))
	for _, cube := range cover.Cubes {
		var lits []expr.Expr
		for i := 0; i < ni && i < len(cube); i++ {
			switch cube[i] {
			case '0':
				lits = append(lits, expr.Lit(i, false))
			case '1':
				lits = append(lits, expr.Lit(i, true))
			}
		}
		if len(lits) == 0 {
			terms = append(terms, expr.One())
			continue
		}
		terms = append(terms, expr.And(lits...))
	}
	var e expr.Expr
	if len(terms) == 0 {
		e = expr.Zero()
	} else {
		e = expr.Or(terms...)
	}
	if cover.Output == '0' {
		e = expr.Not(e)
	}
	return e
}
