package aiger_test

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/yusuke-matsunaga/bnet/aiger"
)

// halfAdderAAG is S1: two inputs a(2), b(4) and two outputs, each an
// AND gate: gate 6 = a&b and gate 8 = ~a&~b.
const halfAdderAAG = `aag 4 2 0 2 2
2
4
6
8
6 2 4
8 3 5
`

func TestReadASCIIHalfAdder(t *testing.T) {
	m, err := aiger.ReadASCII(strings.NewReader(halfAdderAAG))
	if err != nil {
		t.Fatal(err)
	}
	if m.I != 2 || m.O != 2 || m.A != 2 {
		t.Fatalf("want I=2 O=2 A=2, got I=%d O=%d A=%d", m.I, m.O, m.A)
	}
	net, err := aiger.ToBnet(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(net.PrimaryInputs()) != 2 {
		t.Errorf("want 2 primary inputs, got %d", len(net.PrimaryInputs()))
	}
	if len(net.PrimaryOutputs()) != 2 {
		t.Errorf("want 2 primary outputs, got %d", len(net.PrimaryOutputs()))
	}
}

// TestASCIIRoundTrip covers R2: write then re-read yields an
// equivalent model.
func TestASCIIRoundTrip(t *testing.T) {
	m, err := aiger.ReadASCII(strings.NewReader(halfAdderAAG))
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := aiger.WriteASCII(&sb, m); err != nil {
		t.Fatal(err)
	}
	m2, err := aiger.ReadASCII(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("re-reading written ascii: %v", err)
	}
	if diff := deep.Equal(*m, *m2); diff != nil {
		t.Errorf("round-tripped model differs: %v", diff)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	m, err := aiger.ReadASCII(strings.NewReader(halfAdderAAG))
	if err != nil {
		t.Fatal(err)
	}
	var buf strings.Builder
	if err := aiger.WriteBinary(&buf, m); err != nil {
		t.Fatal(err)
	}
	m2, err := aiger.ReadBinary(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("re-reading written binary: %v", err)
	}
	if diff := deep.Equal(*m, *m2); diff != nil {
		t.Errorf("round-tripped model differs: %v", diff)
	}
}

// TestSharedInverter covers S2: one input, one Not node, one output
// sourced from the Not.
func TestSharedInverter(t *testing.T) {
	const aag = `aag 1 1 0 1 0
2
3
`
	m, err := aiger.ReadASCII(strings.NewReader(aag))
	if err != nil {
		t.Fatal(err)
	}
	net, err := aiger.ToBnet(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(net.PrimaryInputs()) != 1 {
		t.Fatalf("want 1 primary input, got %d", len(net.PrimaryInputs()))
	}
	logic, err := net.LogicList()
	if err != nil {
		t.Fatal(err)
	}
	if len(logic) != 1 {
		t.Fatalf("want 1 logic node (the Not), got %d", len(logic))
	}
	nd, ok := net.Node(logic[0])
	if !ok || nd.Kind().String() != "Not" {
		t.Errorf("want the single logic node to be a Not, got %v", nd.Kind())
	}
}

// TestBadHeader covers E1: a header not starting with "aag"/"aig".
func TestBadHeader(t *testing.T) {
	if _, err := aiger.ReadASCII(strings.NewReader("xxx 0 0 0 0 0\n")); err == nil {
		t.Error("want error for malformed header magic")
	}
}

// TestOddInputLiteral covers E2: an odd (negated) input literal.
func TestOddInputLiteral(t *testing.T) {
	const aag = `aag 1 1 0 1 0
3
2
`
	m, err := aiger.ReadASCII(strings.NewReader(aag))
	if err == nil {
		// Parsed fine; Validate (called from ToBnet) must still reject it.
		if _, convErr := aiger.ToBnet(m); convErr == nil {
			t.Error("want error converting a model with an odd input literal")
		}
		return
	}
	// ReadASCII runs Validate itself, so the rejection comes from the read.
	if !strings.Contains(err.Error(), "odd") {
		t.Errorf("want error for odd input literal, got %v", err)
	}
}

// TestLatchRoundTrip covers a toggle latch: one state bit whose next
// value is its own negation, read, converted to a Network with one Dff,
// converted back to AIGER, and re-read.
func TestLatchRoundTrip(t *testing.T) {
	const aag = `aag 1 0 1 1 0
2 3
2
`
	m, err := aiger.ReadASCII(strings.NewReader(aag))
	if err != nil {
		t.Fatal(err)
	}
	if m.L != 1 {
		t.Fatalf("want 1 latch, got %d", m.L)
	}
	net, err := aiger.ToBnet(m)
	if err != nil {
		t.Fatal(err)
	}
	if net.DffNum() != 1 {
		t.Fatalf("want 1 dff, got %d", net.DffNum())
	}
	if len(net.PrimaryOutputs()) != 1 {
		t.Fatalf("want 1 primary output, got %d", len(net.PrimaryOutputs()))
	}

	m2, err := aiger.FromBnet(net)
	if err != nil {
		t.Fatal(err)
	}
	if m2.L != 1 {
		t.Errorf("want 1 latch after round trip, got %d", m2.L)
	}
}

// TestUndefinedOutputLiteral covers E3: an output referencing a
// literal that was never defined as an input, latch, or and-gate lhs.
func TestUndefinedOutputLiteral(t *testing.T) {
	const aag = `aag 2 1 0 1 0
2
4
`
	m, err := aiger.ReadASCII(strings.NewReader(aag))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := aiger.ToBnet(m); err == nil {
		t.Error("want error for output literal with no definition")
	}
}
