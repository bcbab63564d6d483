package ui

import (
	"arcview/internal/edit"
	"arcview/internal/viewer"
)

const (
	bodyTop       = 2
	palettePrefix = "Color "
	swatchWidth   = 3
)

var tabLabels = [2]string{"e Examples", "t Test"}

func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < 40 || rows < 12 {
		return LayoutTooSmall
	}
	if cols >= 100 && rows >= 30 {
		return LayoutWide
	}
	return LayoutCompact
}

type span struct{ start, end int }

func (s span) contains(x int) bool { return x >= s.start && x < s.end }

// geometry is the screen map shared by rendering and mouse hit-testing.
//
//	row 0            header
//	row 1            tabs
//	rows 2..         two bordered panels side by side
//	paletteY         color swatches and mode
//	statusY          status and key help
type geometry struct {
	cols     int
	rows     int
	panelW   int
	bodyH    int
	paletteY int
	statusY  int
	tabs     [2]span
}

func computeGeometry(cols, rows int) geometry {
	g := geometry{cols: cols, rows: rows}
	g.panelW = max(6, cols/2)
	g.bodyH = max(4, rows-4)
	g.paletteY = bodyTop + g.bodyH
	g.statusY = g.paletteY + 1
	x := 0
	for i, label := range tabLabels {
		w := len(label) + 2
		g.tabs[i] = span{start: x, end: x + w}
		x += w + 1
	}
	return g
}

// innerWidth is the sizer container width of one panel.
func (g geometry) innerWidth() int { return g.panelW - 2 }

// gridHeight is the number of screen rows available to a grid.
func (g geometry) gridHeight() int { return max(1, g.bodyH-3) }

// gridOrigin is the top-left screen cell of the grid in panel slot 0 or 1.
func (g geometry) gridOrigin(slot int) (int, int) {
	return slot*g.panelW + 1, bodyTop + 2
}

func (g geometry) tabAt(x, y int) (viewer.Tab, bool) {
	if y != 1 {
		return 0, false
	}
	for i, s := range g.tabs {
		if s.contains(x) {
			return viewer.Tab(i), true
		}
	}
	return 0, false
}

func (g geometry) swatchAt(x, y int) (int, bool) {
	if y != g.paletteY {
		return 0, false
	}
	off := x - len(palettePrefix)
	if off < 0 {
		return 0, false
	}
	idx := off / swatchWidth
	if idx > 9 {
		return 0, false
	}
	return idx, true
}

// cellHeight keeps cells roughly square (terminal cells are about twice as
// tall as wide) while fitting the grid into the available rows.
func cellHeight(cellW, gridRows, availRows int) int {
	h := max(1, (cellW+1)/2)
	for h > 1 && gridRows*h > availRows {
		h--
	}
	return h
}

// gridView describes where one grid is drawn.
type gridView struct {
	originX int
	originY int
	cellW   int
	cellH   int
	scroll  int
	top     int
	width   int
	height  int
	rows    int
	cols    int
}

// hit maps a screen position to a grid cell. inArea reports whether the
// position lies over the grid's drawn area at all.
func (v gridView) hit(x, y int) (cell edit.Cell, inArea bool) {
	if v.cellW <= 0 || v.cellH <= 0 {
		return edit.Cell{}, false
	}
	if x < v.originX || y < v.originY || x >= v.originX+v.width || y >= v.originY+v.height {
		return edit.Cell{}, false
	}
	col := (x-v.originX)/v.cellW + v.scroll
	row := (y-v.originY)/v.cellH + v.top
	if row >= v.rows || col >= v.cols {
		return edit.Cell{}, false
	}
	return edit.Cell{Row: row, Col: col}, true
}

// visibleCols is how many grid columns fit in the panel after scrolling.
func (v gridView) visibleCols() int {
	if v.cellW <= 0 {
		return 0
	}
	return min(v.cols-v.scroll, v.width/v.cellW)
}

// visibleRows is how many grid rows fit in the panel after scrolling.
func (v gridView) visibleRows() int {
	if v.cellH <= 0 {
		return 0
	}
	return min(v.rows-v.top, v.height/v.cellH)
}

// point converts a screen position over the grid into canvas coordinates in
// sizer units, scaling rows so that a cell is cellW units tall.
func (v gridView) point(x, y int) edit.Point {
	return edit.Point{
		X: x - v.originX + v.scroll*v.cellW,
		Y: (y-v.originY)*v.cellW/v.cellH + v.top*v.cellW,
	}
}
