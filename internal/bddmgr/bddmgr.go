// Package bddmgr is the network's BDD manager: a thin wrapper around
// github.com/dalzilio/rudd that adds the operations the core needs on
// top of a raw BDD handle — copying a node from a foreign manager
// without aliasing it, and dumping/restoring the reachable structure of
// a set of roots as portable (id, level, low, high) triples.
//
// Grounded on the retrieved github.com/dalzilio/rudd sources (bdd.go,
// buddy.go, stdio.go): New returns a BDD implementation selected by
// build tag; Ithvar/Apply/Not/Allnodes are the only primitives this
// package needs.
package bddmgr

import (
	"fmt"

	"github.com/dalzilio/rudd"
)

// Manager owns one rudd.BDD and never exposes it directly: every Node it
// hands out belongs to this manager alone (§5 "BDDs are copied into the
// network's own manager on insertion").
type Manager struct {
	set    rudd.Set
	varnum int
}

// New allocates a manager with room for varnum variables.
func New(varnum int) (*Manager, error) {
	if varnum < 1 {
		varnum = 1
	}
	b, err := rudd.New(varnum)
	if err != nil {
		return nil, fmt.Errorf("bddmgr: %w", err)
	}
	return &Manager{set: rudd.Set{BDD: b}, varnum: varnum}, nil
}

// Varnum returns the number of variables the manager currently supports.
func (m *Manager) Varnum() int { return m.set.Varnum() }

// ensureVarnum grows the manager to support variable i, if needed.
func (m *Manager) ensureVarnum(i int) error {
	if i < m.varnum {
		return nil
	}
	if err := m.set.SetVarnum(i + 1); err != nil {
		return err
	}
	m.varnum = i + 1
	return nil
}

// Ithvar returns the i'th variable, growing the manager if necessary.
func (m *Manager) Ithvar(i int) (rudd.Node, error) {
	if err := m.ensureVarnum(i); err != nil {
		return nil, err
	}
	return m.set.Ithvar(i), nil
}

// True returns the constant-true node.
func (m *Manager) True() rudd.Node { return m.set.True() }

// False returns the constant-false node.
func (m *Manager) False() rudd.Node { return m.set.False() }

// Not returns the negation of n.
func (m *Manager) Not(n rudd.Node) rudd.Node { return m.set.Not(n) }

// And returns the conjunction of two or more nodes.
func (m *Manager) And(n ...rudd.Node) rudd.Node { return m.set.And(n...) }

// Or returns the disjunction of two or more nodes.
func (m *Manager) Or(n ...rudd.Node) rudd.Node { return m.set.Or(n...) }

// Xor returns the parity of two nodes, built from Ite + Not since the
// retrieved rudd sources only confirm OPand/OPor/OPimp/OPbiimp as named
// Operator constants.
func (m *Manager) Xor(a, b rudd.Node) rudd.Node {
	return m.set.Ite(a, m.set.Not(b), b)
}

// Equal reports whether two nodes denote the same function.
func (m *Manager) Equal(a, b rudd.Node) bool { return m.set.Equal(a, b) }

// triple is one row of a dumped BDD: the node's own id, its variable
// level, and the ids of its low/high children (0/1 for the False/True
// leaves, matching rudd.Allnodes's convention).
type Triple struct {
	ID, Level, Low, High int
}

// Dump walks every node reachable from roots and returns its structure
// as portable triples, plus the root ids (as encoded by rudd's
// `Node = *int`: dereferencing the pointer yields the id rudd's
// Allnodes callback uses).
func (m *Manager) Dump(roots []rudd.Node) ([]Triple, []int, error) {
	seen := make(map[int]bool)
	var triples []Triple
	err := m.set.Allnodes(func(id, level, low, high int) error {
		if seen[id] {
			return nil
		}
		seen[id] = true
		triples = append(triples, Triple{ID: id, Level: level, Low: low, High: high})
		return nil
	}, roots...)
	if err != nil {
		return nil, nil, err
	}
	rootIDs := make([]int, len(roots))
	for i, r := range roots {
		rootIDs[i] = *r
	}
	return triples, rootIDs, nil
}

// Restore rebuilds, inside this manager, the BDD structure described by
// triples and returns the nodes corresponding to rootIDs. id 0/1 denote
// the constant False/True leaves in both rudd's convention and in
// Triple.Low/High.
func (m *Manager) Restore(triples []Triple, rootIDs []int) ([]rudd.Node, error) {
	byID := make(map[int]Triple, len(triples))
	for _, t := range triples {
		byID[t.ID] = t
	}
	memo := make(map[int]rudd.Node, len(triples)+2)
	memo[0] = m.False()
	memo[1] = m.True()

	var build func(id int) (rudd.Node, error)
	build = func(id int) (rudd.Node, error) {
		if n, ok := memo[id]; ok {
			return n, nil
		}
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("bddmgr: restore: node %d not in dump", id)
		}
		low, err := build(t.Low)
		if err != nil {
			return nil, err
		}
		high, err := build(t.High)
		if err != nil {
			return nil, err
		}
		v, err := m.Ithvar(t.Level)
		if err != nil {
			return nil, err
		}
		n := m.set.Ite(v, high, low)
		memo[id] = n
		return n, nil
	}

	out := make([]rudd.Node, len(rootIDs))
	for i, id := range rootIDs {
		n, err := build(id)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Copy reconstructs node n, owned by src, inside m without ever aliasing
// src's node table: it dumps n's cone from src and replays it through
// Restore on m.
func (m *Manager) Copy(src *Manager, n rudd.Node) (rudd.Node, error) {
	triples, rootIDs, err := src.Dump([]rudd.Node{n})
	if err != nil {
		return nil, err
	}
	nodes, err := m.Restore(triples, rootIDs)
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}
