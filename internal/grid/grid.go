package grid

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// MaxColor is the highest color code a cell may hold.
const MaxColor = 9

var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrInvalidCell       = errors.New("cell value out of range")
	ErrRagged            = errors.New("grid rows have different lengths")
)

// Grid is a rectangular mapping from (row, col) to a color code.
// Its shape is fixed at creation.
type Grid struct {
	rows  int
	cols  int
	cells []int
}

func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: make([]int, rows*cols)}, nil
}

// FromRows builds a grid from row-major data, enforcing the rectangular
// non-empty invariant and the [0,9] value range.
func FromRows(data [][]int) (*Grid, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidDimensions)
	}
	g, err := New(len(data), len(data[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range data {
		if len(row) != g.cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRagged, r, len(row), g.cols)
		}
		for c, v := range row {
			if v < 0 || v > MaxColor {
				return nil, fmt.Errorf("%w: [%d][%d]=%d", ErrInvalidCell, r, c, v)
			}
			g.cells[r*g.cols+c] = v
		}
	}
	return g, nil
}

func (g *Grid) RowCount() int { return g.rows }
func (g *Grid) ColCount() int { return g.cols }

func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// At returns the cell value, or 0 when (r, c) is outside the grid.
func (g *Grid) At(r, c int) int {
	if !g.InBounds(r, c) {
		return 0
	}
	return g.cells[r*g.cols+c]
}

// Set writes v at (r, c). Out-of-bounds writes are ignored; the return
// value reports whether the cell changed.
func (g *Grid) Set(r, c, v int) bool {
	if !g.InBounds(r, c) {
		return false
	}
	i := r*g.cols + c
	if g.cells[i] == v {
		return false
	}
	g.cells[i] = v
	return true
}

// Rows returns a copy of the grid as row-major slices.
func (g *Grid) Rows() [][]int {
	out := make([][]int, g.rows)
	for r := range out {
		out[r] = append([]int(nil), g.cells[r*g.cols:(r+1)*g.cols]...)
	}
	return out
}

func (g *Grid) Clone() *Grid {
	return &Grid{rows: g.rows, cols: g.cols, cells: append([]int(nil), g.cells...)}
}

// Reset sets every cell to v.
func (g *Grid) Reset(v int) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

func (g *Grid) SameShape(o *Grid) bool {
	return g != nil && o != nil && g.rows == o.rows && g.cols == o.cols
}

// Equal reports whether both grids have the same shape and values.
func Equal(a, b *Grid) bool {
	if !a.SameShape(b) {
		return false
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			return false
		}
	}
	return true
}

// Diff counts positions whose values differ. Shapes must match; -1 is
// returned otherwise.
func Diff(a, b *Grid) int {
	if !a.SameShape(b) {
		return -1
	}
	n := 0
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			n++
		}
	}
	return n
}

func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < g.cols; c++ {
			b.WriteByte(byte('0' + g.cells[r*g.cols+c]))
		}
	}
	return b.String()
}

func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Rows())
}

func (g *Grid) UnmarshalJSON(b []byte) error {
	var data [][]int
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}
	parsed, err := FromRows(data)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
