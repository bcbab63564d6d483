package edit

import (
	"fmt"

	"arcview/internal/grid"
)

type Mode int

const (
	ModePaint Mode = iota
	ModeStamp
)

func (m Mode) String() string {
	if m == ModeStamp {
		return "stamp"
	}
	return "paint"
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseStampArmed
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseStampArmed:
		return "stamp_armed"
	default:
		return "idle"
	}
}

// Cell addresses one canvas cell.
type Cell struct {
	Row int
	Col int
}

// Point is a pointer position relative to the canvas origin, in the same
// units as the canvas cell size.
type Point struct {
	X int
	Y int
}

// Preview is the transient stamp overlay. It never writes to the canvas.
type Preview struct {
	Patch   *grid.Grid
	Anchor  Cell
	Visible bool
}

// Covers reports the patch value drawn over canvas cell (r, c), if any.
func (p Preview) Covers(r, c int) (int, bool) {
	if !p.Visible || p.Patch == nil {
		return 0, false
	}
	pr, pc := r-p.Anchor.Row, c-p.Anchor.Col
	if !p.Patch.InBounds(pr, pc) {
		return 0, false
	}
	return p.Patch.At(pr, pc), true
}

// State is the interactive edit controller for the canvas grid. The zero
// value is ready to use: paint mode, color 0, idle.
type State struct {
	selected int
	mode     Mode
	dragging bool
	last     Cell
	hasLast  bool
	preview  *Preview
}

func (s *State) Phase() Phase {
	if s.dragging {
		return PhaseDragging
	}
	if s.mode == ModeStamp {
		return PhaseStampArmed
	}
	return PhaseIdle
}

func (s *State) Mode() Mode { return s.mode }

func (s *State) SelectedColor() int { return s.selected }

func (s *State) Dragging() bool { return s.dragging }

// Preview returns the stamp overlay when one exists.
func (s *State) Preview() (Preview, bool) {
	if s.preview == nil {
		return Preview{}, false
	}
	return *s.preview, true
}

// SelectColor changes the active palette entry. It has no canvas effect.
func (s *State) SelectColor(c int) error {
	if !grid.ValidColor(c) {
		return fmt.Errorf("color %d outside palette", c)
	}
	s.selected = c
	return nil
}

// PointerDown starts a paint drag and colors the cell under the pointer.
// It is ignored in stamp mode, where only clicks commit.
func (s *State) PointerDown(canvas *grid.Grid, cell Cell) bool {
	if s.mode != ModePaint || canvas == nil {
		return false
	}
	s.dragging = true
	s.last, s.hasLast = cell, true
	return canvas.Set(cell.Row, cell.Col, s.selected)
}

// PointerMove paints each cell the pointer newly enters while dragging.
func (s *State) PointerMove(canvas *grid.Grid, cell Cell) bool {
	if !s.dragging || s.mode != ModePaint || canvas == nil {
		return false
	}
	if s.hasLast && s.last == cell {
		return false
	}
	s.last, s.hasLast = cell, true
	return canvas.Set(cell.Row, cell.Col, s.selected)
}

func (s *State) PointerUp() {
	s.dragging = false
	s.hasLast = false
}

func (s *State) PointerCancel() {
	s.PointerUp()
}

// ToggleStamp flips between paint and stamp mode. Leaving stamp mode
// discards the preview.
func (s *State) ToggleStamp() Mode {
	if s.mode == ModeStamp {
		s.mode = ModePaint
		s.preview = nil
	} else {
		s.mode = ModeStamp
	}
	return s.mode
}

// Hover repositions the stamp preview so its top-left anchor tracks pos.
func (s *State) Hover(patch *grid.Grid, pos Point, cellSize int) bool {
	if s.mode != ModeStamp || patch == nil {
		return false
	}
	anchor := Snap(pos, cellSize)
	if s.preview != nil && s.preview.Visible && s.preview.Anchor == anchor && s.preview.Patch == patch {
		return false
	}
	s.preview = &Preview{Patch: patch, Anchor: anchor, Visible: true}
	return true
}

// Click commits the patch at the snapped position, clipped to the canvas.
// It returns the number of cells written.
func (s *State) Click(canvas, patch *grid.Grid, pos Point, cellSize int) int {
	if s.mode != ModeStamp || canvas == nil || patch == nil {
		return 0
	}
	anchor := Snap(pos, cellSize)
	s.preview = &Preview{Patch: patch, Anchor: anchor, Visible: true}
	return grid.Stamp(canvas, patch, anchor.Row, anchor.Col)
}

// Leave hides the preview without discarding it.
func (s *State) Leave() {
	if s.preview != nil {
		s.preview.Visible = false
	}
}

// Enter redraws a hidden preview.
func (s *State) Enter() {
	if s.preview != nil && s.mode == ModeStamp {
		s.preview.Visible = true
	}
}

// Detach ends any drag and drops the preview. Used when the canvas is
// replaced underneath the session.
func (s *State) Detach() {
	s.PointerUp()
	s.preview = nil
}

// Snap converts a pointer position to the nearest cell boundary.
func Snap(pos Point, cellSize int) Cell {
	if cellSize <= 0 {
		cellSize = 1
	}
	return Cell{Row: nearest(pos.Y, cellSize), Col: nearest(pos.X, cellSize)}
}

func nearest(v, size int) int {
	n := 2*v + size
	d := 2 * size
	q := n / d
	if n%d != 0 && n < 0 {
		q--
	}
	return q
}
