package bnet

import (
	"github.com/yusuke-matsunaga/bnet/expr"
	"github.com/yusuke-matsunaga/bnet/tv"
)

// exprPool hash-conses Expr nodes by truth table for arities <= 10 (I7):
// two expressions whose truth tables coincide get the same pool ID. Above
// arity 10, materializing a truth table is not attempted (the same limit
// the spec gives for the hash-cons itself) and every expression gets a
// fresh, never-shared ID.
type exprPool struct {
	entries []expr.Expr
	byKey   map[uint64][]int // tv.Key() -> candidate pool indices, arity<=10 only
}

func newExprPool() *exprPool {
	return &exprPool{byKey: make(map[uint64][]int)}
}

// intern returns the pool ID for e, reusing an existing entry if one with
// an equal truth table (arity <= 10) already exists.
func (p *exprPool) intern(e expr.Expr, arity int) int {
	if arity <= 10 {
		table := tv.FromEvaluator(e, arity)
		key := table.Key()
		for _, idx := range p.byKey[key] {
			if existing := tv.FromEvaluator(p.entries[idx], arity); existing.Equal(table) {
				return idx
			}
		}
		idx := len(p.entries)
		p.entries = append(p.entries, e)
		p.byKey[key] = append(p.byKey[key], idx)
		return idx
	}
	idx := len(p.entries)
	p.entries = append(p.entries, e)
	return idx
}

func (p *exprPool) get(id int) expr.Expr { return p.entries[id] }
func (p *exprPool) num() int             { return len(p.entries) }

// tvPool hash-conses TvFunc nodes by table value unconditionally: the
// caller already paid for materializing the table.
type tvPool struct {
	entries []*tv.Func
	byKey   map[uint64][]int
}

func newTvPool() *tvPool {
	return &tvPool{byKey: make(map[uint64][]int)}
}

func (p *tvPool) intern(f *tv.Func) int {
	key := f.Key()
	for _, idx := range p.byKey[key] {
		if p.entries[idx].Equal(f) {
			return idx
		}
	}
	idx := len(p.entries)
	p.entries = append(p.entries, f)
	p.byKey[key] = append(p.byKey[key], idx)
	return idx
}

func (p *tvPool) get(id int) *tv.Func { return p.entries[id] }
func (p *tvPool) num() int            { return len(p.entries) }
