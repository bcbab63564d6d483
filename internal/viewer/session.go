package viewer

import (
	"arcview/internal/edit"
	"arcview/internal/grid"
	"arcview/internal/nav"
	"arcview/internal/puzzles"
	"arcview/internal/viewport"
)

type Tab int

const (
	TabExamples Tab = iota
	TabTest
)

func (t Tab) String() string {
	if t == TabTest {
		return "test"
	}
	return "examples"
}

// Pane names one of the four rendered grids.
type Pane int

const (
	PaneExampleInput Pane = iota
	PaneExampleOutput
	PaneTestInput
	PaneCanvas
	paneCount
)

func (t Tab) Panes() [2]Pane {
	if t == TabTest {
		return [2]Pane{PaneTestInput, PaneCanvas}
	}
	return [2]Pane{PaneExampleInput, PaneExampleOutput}
}

// SessionState is everything the coordinator owns. It is mutated only by
// Coordinator.Dispatch; renderers read it between events.
type SessionState struct {
	Edit    edit.State
	Nav     nav.State
	History *nav.History

	Doc    *puzzles.Document
	Grids  [paneCount]*grid.Grid
	Layout [paneCount]viewport.Layout

	Tab   Tab
	Width int

	// Revealed is set once the answer has been copied onto the canvas for
	// the current puzzle.
	Revealed bool
	Verdict  *Verdict
	Pending  bool
	Status   string

	seq uint64
	// rewind is the history position to restore if the load started by a
	// Back or Forward step fails.
	rewind    int
	rewinding bool
}

func (s *SessionState) Grid(p Pane) *grid.Grid { return s.Grids[p] }

func (s *SessionState) Canvas() *grid.Grid { return s.Grids[PaneCanvas] }

// CellSize is the current sizer output for a pane, at least 1.
func (s *SessionState) CellSize(p Pane) int {
	if s.Layout[p].CellSize <= 0 {
		return 1
	}
	return s.Layout[p].CellSize
}

// PuzzleID is the identifier of the loaded document.
func (s *SessionState) PuzzleID() string {
	if s.Doc == nil {
		return ""
	}
	return s.Doc.ID
}

func (s *SessionState) ExampleCount() int {
	if s.Doc == nil {
		return 0
	}
	return len(s.Doc.Train)
}

// LatestSeq is the sequence of the most recently issued load.
func (s *SessionState) LatestSeq() uint64 { return s.seq }
