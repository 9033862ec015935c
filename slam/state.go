package slam

import "fmt"

// StateKind names the variants of the parse state.
type StateKind int

const (
	// StateEmpty has no pending block; a pixel here belongs to the last committed camera.
	StateEmpty StateKind = iota
	// StateInPose is collecting the rows of a pose block.
	StateInPose
	// StateInIntrinsic is collecting the rows of an intrinsic block.
	StateInIntrinsic
	// StateJustSawPoint has no pending block, but a pixel here is ill-formed until the next pose.
	StateJustSawPoint
)

func (k StateKind) String() string {
	switch k {
	case StateEmpty:
		return "Empty"
	case StateInPose:
		return "InPose"
	case StateInIntrinsic:
		return "InIntrinsic"
	case StateJustSawPoint:
		return "JustSawPoint"
	}
	return fmt.Sprintf("StateKind(%d)", int(k))
}

// parseState is a closed sum type: each variant carries only the partial rows it owns.
type parseState interface {
	kind() StateKind
	// rowsCollected is the number of rows of a pending block, zero for the other variants.
	rowsCollected() int
}

type emptyState struct{}

type justSawPointState struct{}

type inPoseState struct {
	rows [3][4]float64
	n    int
}

type inIntrinsicState struct {
	rows [3][3]float64
	n    int
}

func (emptyState) kind() StateKind            { return StateEmpty }
func (emptyState) rowsCollected() int         { return 0 }
func (justSawPointState) kind() StateKind     { return StateJustSawPoint }
func (justSawPointState) rowsCollected() int  { return 0 }
func (s inPoseState) kind() StateKind         { return StateInPose }
func (s inPoseState) rowsCollected() int      { return s.n }
func (s inIntrinsicState) kind() StateKind    { return StateInIntrinsic }
func (s inIntrinsicState) rowsCollected() int { return s.n }

// withRow returns the state with row appended and whether the block is now complete.
func (s inPoseState) withRow(row [4]float64) (inPoseState, bool) {
	s.rows[s.n] = row
	s.n++
	return s, s.n == len(s.rows)
}

func (s inIntrinsicState) withRow(row [3]float64) (inIntrinsicState, bool) {
	s.rows[s.n] = row
	s.n++
	return s, s.n == len(s.rows)
}

// State is a snapshot of where the parser is in the multi-line grammar.
type State struct {
	Kind StateKind
	// Rows is how many rows of the pending pose or intrinsic block have been collected.
	Rows int
}

func (s State) String() string {
	switch s.Kind {
	case StateInPose, StateInIntrinsic:
		return fmt.Sprintf("%s(%d)", s.Kind, s.Rows)
	default:
		return s.Kind.String()
	}
}

func snapshot(s parseState) State {
	return State{Kind: s.kind(), Rows: s.rowsCollected()}
}
