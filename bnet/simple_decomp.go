package bnet

import "github.com/yusuke-matsunaga/bnet/expr"

// SimpleDecomp returns a copy of src in which every Expr-backed node is
// expanded term-by-term into primitive gates (C0/C1/Not/And/Or/Xor);
// the Expr node itself becomes a Buff over the expansion's root, so its
// ID and its fanouts stay valid. TvFunc/Bdd/Cell nodes are copied
// through unchanged, so the result holds only primitives exactly when
// src has none of those kinds — the original's SimpleDecomp::decomp
// only ever recurses into is_expr() nodes.
//
// Grounded on SimpleDecomp.cc's decomp/decomp_expr: a term map
// (mTermList there, termMap here), reset for each Expr node, keyed by a
// subterm's string form so that within one expression's expansion equal
// subterms share one gate and each inverted node gets one inverter.
func SimpleDecomp(src *Network) (*Network, error) {
	dst, err := src.Clone()
	if err != nil {
		return nil, err
	}
	logic, err := dst.LogicList()
	if err != nil {
		return nil, err
	}
	mod := NewModifier(dst)
	d := &decomposer{dst: dst, mod: mod, termMap: make(map[termKey]NodeId)}

	for _, id := range logic {
		ln, _ := dst.Node(id)
		node := ln.(*LogicNode)
		if node.NodeType != KindExpr {
			continue
		}
		e := dst.Expr(node.ExprID)
		d.termMap = make(map[termKey]NodeId)
		newID, err := d.decompExpr(e, node.FaninList)
		if err != nil {
			return nil, err
		}
		if err := mod.ChangePrimitive(id, KindBuff, []NodeId{newID}); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// termKey identifies one (sub-expression identity, polarity) pair
// within a single top-level decomposition so equal subterms share a
// gate instead of each re-expanding independently.
type termKey struct {
	expr string // expr.String() of the subterm, in positive form
	posi bool
}

type decomposer struct {
	dst     *Network
	mod     *Modifier
	termMap map[termKey]NodeId
}

// decompExpr translates e (over the given fanin vector, indexed by
// variable ID) into a tree of primitive gates and returns the resulting
// node's ID, reusing an already-built node for any subterm it has seen
// before (including its complement, built via a single extra Not gate).
func (d *decomposer) decompExpr(e expr.Expr, fanins []NodeId) (NodeId, error) {
	id, posi, err := d.build(e, fanins)
	if err != nil || posi {
		return id, err
	}
	return d.notOf(id)
}

func (d *decomposer) build(e expr.Expr, fanins []NodeId) (NodeId, bool, error) {
	switch e.Kind() {
	case expr.KindConst:
		kind := KindC0
		if e.ConstVal() {
			kind = KindC1
		}
		id, err := d.mod.NewPrimitive("", kind, nil)
		return id, true, err
	case expr.KindLit:
		return fanins[e.VarID()], e.Polarity(), nil
	}

	posKey := termKey{expr: positiveForm(e), posi: true}
	if id, ok := d.termMap[posKey]; ok {
		return id, true, nil
	}

	operandIDs := make([]NodeId, len(e.Operands()))
	for i, o := range e.Operands() {
		oid, oPosi, err := d.build(o, fanins)
		if err != nil {
			return NullID, false, err
		}
		if !oPosi {
			nid, err := d.notOf(oid)
			if err != nil {
				return NullID, false, err
			}
			oid = nid
		}
		operandIDs[i] = oid
	}

	var kind NodeKind
	switch e.Kind() {
	case expr.KindAnd:
		kind = KindAnd
	case expr.KindOr:
		kind = KindOr
	case expr.KindXor:
		kind = KindXor
	}
	id, err := d.mod.NewPrimitive("", kind, operandIDs)
	if err != nil {
		return NullID, false, err
	}
	d.termMap[posKey] = id
	return id, true, nil
}

// notOf returns a Not gate over id, reusing one if this exact inverter
// has already been built (the shared-inverter optimization SimpleDecomp
// keys on).
func (d *decomposer) notOf(id NodeId) (NodeId, error) {
	key := termKey{expr: "~" + id.String(), posi: true}
	if nid, ok := d.termMap[key]; ok {
		return nid, nil
	}
	nid, err := d.mod.NewPrimitive("", KindNot, []NodeId{id})
	if err != nil {
		return NullID, err
	}
	d.termMap[key] = nid
	return nid, nil
}

// positiveForm renders e the same way regardless of a top-level Not,
// since Not is never an expr.Kind in this package's negation-normal
// form: literals already carry their own polarity, so the string form
// of e is already canonical for sharing purposes.
func positiveForm(e expr.Expr) string { return e.String() }
