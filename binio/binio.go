// Package binio implements the compact binary dump/restore format for a
// bnet.Network: a signature, then vint-length-prefixed sections for the
// expression pool, truth-table pool, BDD pool, ports, D-FFs, logic
// nodes, and output sources, in that order.
//
// Grounded on BinIO.cc: the section order (signature, name, expr pool,
// tv pool, BDD pool, ports, dffs, logic nodes, outputs) and the
// one-byte type tags for dff kind and logic-node kind are carried over
// directly; the variable-length integer encoding reuses the same
// continuation-bit scheme as the aiger package's vint (the format
// BinEnc::write_vint itself implements).
package binio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/cell"
	"github.com/yusuke-matsunaga/bnet/expr"
	"github.com/yusuke-matsunaga/bnet/tv"
)

const signature = "ym_bnet1.0"

var dffTag = map[bnet.DffKind]byte{
	bnet.DffKindFF:    1,
	bnet.DffKindLatch: 2,
	bnet.DffKindCell:  3,
}

var dffKindByTag = map[byte]bnet.DffKind{
	1: bnet.DffKindFF,
	2: bnet.DffKindLatch,
	3: bnet.DffKindCell,
}

var logicTag = map[bnet.NodeKind]byte{
	bnet.KindC0:     1,
	bnet.KindC1:     2,
	bnet.KindBuff:   3,
	bnet.KindNot:    4,
	bnet.KindAnd:    5,
	bnet.KindNand:   6,
	bnet.KindOr:     7,
	bnet.KindNor:    8,
	bnet.KindXor:    9,
	bnet.KindXnor:   10,
	bnet.KindExpr:   11,
	bnet.KindTvFunc: 12,
	bnet.KindBdd:    13,
	bnet.KindCell:   14,
}

var logicKindByTag = func() map[byte]bnet.NodeKind {
	m := make(map[byte]bnet.NodeKind, len(logicTag))
	for k, v := range logicTag {
		m[v] = k
	}
	return m
}()

type writer struct {
	w   *bufio.Writer
	err error
}

func (e *writer) writeByte(b byte) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(b)
}

func (e *writer) writeVint(v int) {
	if e.err != nil {
		return
	}
	u := uint64(v)
	for u >= 0x80 {
		if e.err = e.w.WriteByte(byte(u&0x7f) | 0x80); e.err != nil {
			return
		}
		u >>= 7
	}
	e.err = e.w.WriteByte(byte(u))
}

func (e *writer) writeString(s string) {
	e.writeVint(len(s))
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

func (e *writer) writeNodeID(id bnet.NodeId) { e.writeVint(int(id)) }

// Dump writes net's binary representation to w.
func Dump(w io.Writer, net *bnet.Network) error {
	if err := net.WrapUp(); err != nil {
		return err
	}
	e := &writer{w: bufio.NewWriter(w)}
	e.writeString(signature)
	e.writeString(net.Name())

	e.writeVint(net.ExprNum())
	for i := 0; i < net.ExprNum(); i++ {
		e.writeString(net.Expr(i).String())
	}

	e.writeVint(net.TvNum())
	for i := 0; i < net.TvNum(); i++ {
		e.writeString(tvBitString(net.Tv(i)))
	}

	// BDD pool: dumped as the manager's full node table (a single,
	// shared dump covers every root, matching the original's dedup-by-
	// BDD-value map) plus one root-index list.
	if net.BddNum() > 0 {
		e.writeVint(net.BddNum())
		triples, rootIDs, err := net.DumpBdds()
		if err != nil {
			return err
		}
		e.writeVint(len(triples))
		for _, t := range triples {
			e.writeVint(t.ID)
			e.writeVint(t.Level)
			e.writeVint(t.Low)
			e.writeVint(t.High)
		}
		for _, r := range rootIDs {
			e.writeVint(r)
		}
	} else {
		e.writeVint(0)
	}

	e.writeVint(len(net.Ports()))
	for _, p := range net.Ports() {
		e.writeString(p.Name())
		e.writeVint(p.Width())
		for i := 0; i < p.Width(); i++ {
			if p.Dir(i) == bnet.DirInput {
				e.writeByte(0)
			} else {
				e.writeByte(1)
			}
			e.writeNodeID(p.Bit(i))
		}
	}

	e.writeVint(net.DffNum())
	for _, d := range net.DffList() {
		e.writeString(d.Name())
		e.writeByte(dffTag[d.Kind()])
		switch d.Kind() {
		case bnet.DffKindFF, bnet.DffKindLatch:
			e.writeNodeID(d.DataIn())
			e.writeNodeID(d.DataOut())
			e.writeNodeID(d.Clock())
			e.writeNodeID(d.Clear())
			e.writeNodeID(d.Preset())
			e.writeByte(byte(d.CPV()))
		case bnet.DffKindCell:
			e.writeVint(d.CellID())
			e.writeVint(d.CellInputNum())
			for i := 0; i < d.CellInputNum(); i++ {
				e.writeNodeID(d.CellInput(i))
			}
			e.writeVint(d.CellOutputNum())
			for i := 0; i < d.CellOutputNum(); i++ {
				e.writeNodeID(d.CellOutput(i))
			}
		}
	}

	logic, err := net.LogicList()
	if err != nil {
		return err
	}
	e.writeVint(len(logic))
	for _, id := range logic {
		nd, _ := net.Node(id)
		ln := nd.(*bnet.LogicNode)
		e.writeNodeID(id)
		e.writeString(ln.Name())
		e.writeVint(len(ln.FaninList))
		for _, f := range ln.FaninList {
			e.writeNodeID(f)
		}
		e.writeByte(logicTag[ln.NodeType])
		switch ln.NodeType {
		case bnet.KindExpr:
			e.writeVint(ln.ExprID)
		case bnet.KindTvFunc:
			e.writeVint(ln.TvID)
		case bnet.KindBdd:
			e.writeVint(ln.BddID)
		case bnet.KindCell:
			e.writeVint(ln.CellID)
		}
	}

	outs, err := net.OutputSrcList()
	if err != nil {
		return err
	}
	e.writeVint(len(net.Outputs()))
	for i, id := range net.Outputs() {
		e.writeNodeID(id)
		e.writeNodeID(outs[i])
	}

	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

func tvBitString(f *tv.Func) string {
	n := 1 << uint(f.Arity())
	buf := make([]byte, n+4)
	binary.LittleEndian.PutUint32(buf[:4], uint32(f.Arity()))
	for i := 0; i < n; i++ {
		if f.Bit(i) {
			buf[4+i] = '1'
		} else {
			buf[4+i] = '0'
		}
	}
	return string(buf)
}

func parseTvBitString(s string) *tv.Func {
	bits := s[4:]
	return tv.FromBitString(bits)
}

type reader struct {
	r   *bufio.Reader
	err error
}

func (d *reader) readByte() byte {
	if d.err != nil {
		return 0
	}
	b, err := d.r.ReadByte()
	if err != nil {
		d.err = err
	}
	return b
}

func (d *reader) readVint() int {
	if d.err != nil {
		return 0
	}
	var x uint64
	var shift uint
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			d.err = err
			return 0
		}
		x |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return int(x)
}

func (d *reader) readString() string {
	n := d.readVint()
	if d.err != nil || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		d.err = err
		return ""
	}
	return string(buf)
}

func (d *reader) readNodeID() bnet.NodeId { return bnet.NodeId(d.readVint()) }

// Restore reads a network previously written by Dump. lib is consulted
// to resolve DffKindCell/KindCell entries; a dump with no such entries
// may pass nil.
func Restore(r io.Reader, lib cell.Library) (*bnet.Network, error) {
	d := &reader{r: bufio.NewReader(r)}
	sig := d.readString()
	if d.err != nil {
		return nil, d.err
	}
	if sig != signature {
		return nil, fmt.Errorf("binio: wrong signature %q", sig)
	}
	name := d.readString()
	net := bnet.NewNetwork(name)
	net.SetCellLibrary(lib)
	mod := bnet.NewModifier(net)

	ne := d.readVint()
	exprByOldID := make([]expr.Expr, ne)
	for i := 0; i < ne; i++ {
		e, err := expr.Parse(d.readString())
		if err != nil {
			return nil, err
		}
		exprByOldID[i] = e
	}

	nf := d.readVint()
	tvByOldID := make([]*tv.Func, nf)
	for i := 0; i < nf; i++ {
		tvByOldID[i] = parseTvBitString(d.readString())
	}

	nb := d.readVint()
	var bddRootByOldID []int
	if nb > 0 {
		ntriples := d.readVint()
		triples := make([]bnet.BddTriple, ntriples)
		for i := range triples {
			triples[i] = bnet.BddTriple{
				ID:    d.readVint(),
				Level: d.readVint(),
				Low:   d.readVint(),
				High:  d.readVint(),
			}
		}
		bddRootByOldID = make([]int, nb)
		for i := range bddRootByOldID {
			bddRootByOldID[i] = d.readVint()
		}
		if d.err != nil {
			return nil, d.err
		}
		if err := net.RestoreBdds(triples, bddRootByOldID); err != nil {
			return nil, err
		}
	}

	idMap := make(map[bnet.NodeId]bnet.NodeId)

	np := d.readVint()
	for i := 0; i < np; i++ {
		name := d.readString()
		width := d.readVint()
		dirs := make([]bnet.Direction, width)
		oldIDs := make([]bnet.NodeId, width)
		for b := 0; b < width; b++ {
			tag := d.readByte()
			if tag == 0 {
				dirs[b] = bnet.DirInput
			} else {
				dirs[b] = bnet.DirOutput
			}
			oldIDs[b] = d.readNodeID()
		}
		if d.err != nil {
			return nil, d.err
		}
		p, err := mod.NewPort(name, dirs)
		if err != nil {
			return nil, err
		}
		for b := 0; b < width; b++ {
			idMap[oldIDs[b]] = p.Bit(b)
		}
	}

	ndff := d.readVint()
	for i := 0; i < ndff; i++ {
		name := d.readString()
		kind := dffKindByTag[d.readByte()]
		switch kind {
		case bnet.DffKindFF, bnet.DffKindLatch:
			oldIn := d.readNodeID()
			oldOut := d.readNodeID()
			oldClock := d.readNodeID()
			oldClear := d.readNodeID()
			oldPreset := d.readNodeID()
			cpv := bnet.CPV(d.readByte())
			if d.err != nil {
				return nil, d.err
			}
			var nd *bnet.Dff
			if kind == bnet.DffKindFF {
				nd = mod.NewDff(name, oldClear != bnet.NullID, oldPreset != bnet.NullID, cpv)
			} else {
				nd = mod.NewLatch(name, oldClear != bnet.NullID, oldPreset != bnet.NullID, cpv)
			}
			idMap[oldIn] = nd.DataIn()
			idMap[oldOut] = nd.DataOut()
			idMap[oldClock] = nd.Clock()
			if oldClear != bnet.NullID {
				idMap[oldClear] = nd.Clear()
			}
			if oldPreset != bnet.NullID {
				idMap[oldPreset] = nd.Preset()
			}
		case bnet.DffKindCell:
			cellID := d.readVint()
			ni := d.readVint()
			oldIns := make([]bnet.NodeId, ni)
			for i := range oldIns {
				oldIns[i] = d.readNodeID()
			}
			no := d.readVint()
			oldOuts := make([]bnet.NodeId, no)
			for i := range oldOuts {
				oldOuts[i] = d.readNodeID()
			}
			if lib == nil {
				return nil, fmt.Errorf("binio: dff %q is a mapped sequential cell but no cell library was supplied to Restore", name)
			}
			c, ok := lib.Cell(cellID)
			if !ok {
				return nil, fmt.Errorf("binio: dff %q references unknown cell id %d", name, cellID)
			}
			nd, err := mod.NewDffCell(name, c)
			if err != nil {
				return nil, err
			}
			for i, old := range oldIns {
				idMap[old] = nd.CellInput(i)
			}
			for i, old := range oldOuts {
				idMap[old] = nd.CellOutput(i)
			}
		}
	}

	nl := d.readVint()
	type pendingLogic struct {
		oldID   bnet.NodeId
		name    string
		oldFans []bnet.NodeId
		tag     byte
		extra   int
	}
	pend := make([]pendingLogic, nl)
	for i := 0; i < nl; i++ {
		oldID := d.readNodeID()
		name := d.readString()
		nfi := d.readVint()
		fans := make([]bnet.NodeId, nfi)
		for f := range fans {
			fans[f] = d.readNodeID()
		}
		tag := d.readByte()
		extra := 0
		switch tag {
		case logicTag[bnet.KindExpr], logicTag[bnet.KindTvFunc], logicTag[bnet.KindBdd], logicTag[bnet.KindCell]:
			extra = d.readVint()
		}
		pend[i] = pendingLogic{oldID: oldID, name: name, oldFans: fans, tag: tag, extra: extra}
	}
	if d.err != nil {
		return nil, d.err
	}
	for _, pl := range pend {
		fanins := make([]bnet.NodeId, len(pl.oldFans))
		for i, f := range pl.oldFans {
			fanins[i] = idMap[f]
		}
		kind := logicKindByTag[pl.tag]
		var newID bnet.NodeId
		var err error
		switch kind {
		case bnet.KindExpr:
			newID, err = mod.NewExpr(pl.name, exprByOldID[pl.extra], fanins)
		case bnet.KindTvFunc:
			newID, err = mod.NewTv(pl.name, tvByOldID[pl.extra], fanins)
		case bnet.KindBdd:
			newID, err = mod.NewBddFromPool(pl.name, pl.extra, fanins)
		case bnet.KindCell:
			if lib == nil {
				return nil, fmt.Errorf("binio: logic node %q is a mapped cell but no cell library was supplied to Restore", pl.name)
			}
			c, ok := lib.Cell(pl.extra)
			if !ok {
				return nil, fmt.Errorf("binio: logic node %q references unknown cell id %d", pl.name, pl.extra)
			}
			newID, err = mod.NewLogicCell(pl.name, c, fanins)
		default:
			newID, err = mod.NewPrimitive(pl.name, kind, fanins)
		}
		if err != nil {
			return nil, err
		}
		idMap[pl.oldID] = newID
	}

	no := d.readVint()
	for i := 0; i < no; i++ {
		oldOut := d.readNodeID()
		oldSrc := d.readNodeID()
		if d.err != nil {
			return nil, d.err
		}
		if oldSrc == bnet.NullID {
			continue
		}
		if err := mod.SetOutputSrc(idMap[oldOut], idMap[oldSrc]); err != nil {
			return nil, err
		}
	}

	if d.err != nil && d.err != io.EOF {
		return nil, d.err
	}
	if err := net.WrapUp(); err != nil {
		return nil, err
	}
	return net, nil
}
