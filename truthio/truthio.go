// Package truthio implements the .truth interchange format: a plain list
// of truth tables, one per line, each a string of '0'/'1' characters
// whose length is a power of two. Grounded on ReadTruth.{h,cc} and
// read_truth.cc.
package truthio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dalzilio/rudd"
	"github.com/yusuke-matsunaga/bnet/bnet"
	"github.com/yusuke-matsunaga/bnet/internal/bddmgr"
)

// Read parses a .truth file from r and builds the network it describes:
// ni input ports "i0".."i(ni-1)" (ni the smallest value with 2^ni equal
// to every line's length) and one output port "o0".."o(no-1)" per line,
// no the line count.
//
// Each output is driven by a Bdd-backed logic node built from its line's
// bit pattern (bit m of the line is the function's value at the minterm
// where input v is 1 iff bit v of m is set). The node's fanin list is
// the input ports in REVERSED order (read_truth.cc:
// fanin_id_list[i] = input_list[ni-i-1]): a truth table's bit index
// convention puts the most-significant variable last, the opposite of
// the order NewPort creates the inputs in.
func Read(r io.Reader) (*bnet.Network, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 4096), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("truthio: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("truthio: no truth-table lines found")
	}

	width := len(lines[0])
	ni := 0
	for 1<<uint(ni) < width {
		ni++
	}
	if 1<<uint(ni) != width {
		return nil, fmt.Errorf("truthio: line length %d is not a power of two", width)
	}
	for i, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("truthio: line %d has length %d, want %d (every line must share the first line's length)", i, len(line), width)
		}
		for j := 0; j < len(line); j++ {
			if line[j] != '0' && line[j] != '1' {
				return nil, fmt.Errorf("truthio: line %d: invalid character %q, want '0' or '1'", i, line[j])
			}
		}
	}

	net := bnet.NewNetwork("truth_network")
	mod := bnet.NewModifier(net)

	inputs := make([]bnet.NodeId, ni)
	for i := 0; i < ni; i++ {
		p, err := mod.NewPort(fmt.Sprintf("i%d", i), []bnet.Direction{bnet.DirInput})
		if err != nil {
			return nil, err
		}
		inputs[i] = p.Bit(0)
	}
	fanins := make([]bnet.NodeId, ni)
	for i := 0; i < ni; i++ {
		fanins[i] = inputs[ni-i-1]
	}

	srcMgr, err := bddmgr.New(ni)
	if err != nil {
		return nil, fmt.Errorf("truthio: %w", err)
	}

	for o, line := range lines {
		bdd, err := truthToBdd(srcMgr, line, ni)
		if err != nil {
			return nil, err
		}
		lid, err := mod.NewBdd(fmt.Sprintf("l%d", o), srcMgr, bdd, append([]bnet.NodeId(nil), fanins...))
		if err != nil {
			return nil, err
		}
		p, err := mod.NewPort(fmt.Sprintf("o%d", o), []bnet.Direction{bnet.DirOutput})
		if err != nil {
			return nil, err
		}
		if err := mod.SetOutputSrc(p.Bit(0), lid); err != nil {
			return nil, err
		}
	}

	if err := net.WrapUp(); err != nil {
		return nil, err
	}
	return net, nil
}

// truthToBdd builds, in mgr, the BDD denoting bits: bit m of bits is the
// function's output at the minterm where input variable v is 1 iff bit v
// of m is set. Built as a disjunction of minterm cubes since none of the
// retrieved rudd sources expose a from-truth-table constructor directly.
func truthToBdd(mgr *bddmgr.Manager, bits string, ni int) (rudd.Node, error) {
	acc := mgr.False()
	for m := 0; m < len(bits); m++ {
		if bits[m] != '1' {
			continue
		}
		cube := mgr.True()
		for v := 0; v < ni; v++ {
			lit, err := mgr.Ithvar(v)
			if err != nil {
				return nil, fmt.Errorf("truthio: %w", err)
			}
			if m&(1<<uint(v)) == 0 {
				lit = mgr.Not(lit)
			}
			cube = mgr.And(cube, lit)
		}
		acc = mgr.Or(acc, cube)
	}
	return acc, nil
}
