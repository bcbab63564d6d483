package viewport

const (
	DefaultMaxCell = 30
	DefaultMinCell = 5
)

// ComputeCellSize derives a per-cell size from the available container width
// and the grid's column count. One unit per column is reserved for gaps.
func ComputeCellSize(containerWidth, cols, maxCell, minCell int) int {
	if cols <= 0 {
		return minCell
	}
	size := floorDiv(containerWidth-cols, cols)
	if size < minCell {
		return minCell
	}
	if size > maxCell {
		return maxCell
	}
	return size
}

// Layout is the sizing decision for one grid.
type Layout struct {
	CellSize   int
	Scrollable bool
}

type Sizer struct {
	MaxCell int
	MinCell int
}

func DefaultSizer() Sizer {
	return Sizer{MaxCell: DefaultMaxCell, MinCell: DefaultMinCell}
}

// Layout sizes a grid of the given column count into containerWidth.
// Scrollable is set when the grid at that size overflows horizontally.
func (s Sizer) Layout(containerWidth, cols int) Layout {
	size := ComputeCellSize(containerWidth, cols, s.MaxCell, s.MinCell)
	return Layout{
		CellSize:   size,
		Scrollable: cols*size > containerWidth,
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
