package bnet

// DffKind distinguishes a plain D-FF/latch from a mapped sequential cell.
type DffKind uint8

const (
	// DffKindFF is an edge-triggered D flip-flop.
	DffKindFF DffKind = iota
	// DffKindLatch is a level-sensitive latch (Clock terminal acts as
	// the enable).
	DffKindLatch
	// DffKindCell is a mapped sequential library cell.
	DffKindCell
)

func (k DffKind) String() string {
	switch k {
	case DffKindFF:
		return "Dff"
	case DffKindLatch:
		return "Latch"
	case DffKindCell:
		return "Cell"
	default:
		return "Unknown"
	}
}

// CPV is the clear-preset-value indicator: the flip-flop's behaviour when
// both clear and preset assert simultaneously. One of {L, H, N, T, X}.
type CPV uint8

const (
	// CpvL forces the output low.
	CpvL CPV = iota
	// CpvH forces the output high.
	CpvH
	// CpvN leaves the output unchanged ("no change").
	CpvN
	// CpvT toggles the output.
	CpvT
	// CpvX is an undefined/don't-care result.
	CpvX
)

func (v CPV) String() string {
	switch v {
	case CpvL:
		return "L"
	case CpvH:
		return "H"
	case CpvN:
		return "N"
	case CpvT:
		return "T"
	case CpvX:
		return "X"
	default:
		return "?"
	}
}

// Dff is a D-FF, latch, or mapped sequential cell. Terminal nodes are
// referenced by ID; the Dff itself never holds a fanin directly.
type Dff struct {
	id   DffId
	name string
	kind DffKind

	// Valid when kind is DffKindFF or DffKindLatch.
	dataIn  NodeId
	dataOut NodeId
	clock   NodeId // the enable terminal, for a latch
	clear   NodeId // NullID if the dff has no clear
	preset  NodeId // NullID if the dff has no preset
	cpv     CPV

	// Valid when kind is DffKindCell.
	cellID      int
	cellInputs  []NodeId
	cellOutputs []NodeId
}

// ID returns the dff's stable identifier.
func (d *Dff) ID() DffId { return d.id }

// Name returns the dff's name.
func (d *Dff) Name() string { return d.name }

// Kind returns whether this is a plain FF, a latch, or a mapped cell.
func (d *Dff) Kind() DffKind { return d.kind }

// DataIn returns the data-input terminal node ID (FF/latch only).
func (d *Dff) DataIn() NodeId { return d.dataIn }

// DataOut returns the data-output terminal node ID (FF/latch only).
func (d *Dff) DataOut() NodeId { return d.dataOut }

// Clock returns the clock (or latch enable) terminal node ID (FF/latch only).
func (d *Dff) Clock() NodeId { return d.clock }

// Clear returns the asynchronous clear terminal node ID, or NullID if
// this dff has no clear (FF/latch only).
func (d *Dff) Clear() NodeId { return d.clear }

// Preset returns the asynchronous preset terminal node ID, or NullID if
// this dff has no preset (FF/latch only).
func (d *Dff) Preset() NodeId { return d.preset }

// HasClear reports whether this dff has a clear terminal.
func (d *Dff) HasClear() bool { return d.clear != NullID }

// HasPreset reports whether this dff has a preset terminal.
func (d *Dff) HasPreset() bool { return d.preset != NullID }

// CPV returns the clear-preset-value behaviour (FF/latch only).
func (d *Dff) CPV() CPV { return d.cpv }

// CellID returns the library cell ID (DffKindCell only).
func (d *Dff) CellID() int { return d.cellID }

// CellInputNum returns the number of cell input pins (DffKindCell only).
func (d *Dff) CellInputNum() int { return len(d.cellInputs) }

// CellInput returns the terminal node ID for cell input pin i.
func (d *Dff) CellInput(i int) NodeId { return d.cellInputs[i] }

// CellOutputNum returns the number of cell output pins (DffKindCell only).
func (d *Dff) CellOutputNum() int { return len(d.cellOutputs) }

// CellOutput returns the terminal node ID for cell output pin i.
func (d *Dff) CellOutput(i int) NodeId { return d.cellOutputs[i] }
