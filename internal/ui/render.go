package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"arcview/internal/edit"
	"arcview/internal/grid"
	"arcview/internal/viewer"
)

func (r *Root) geometry() geometry {
	return computeGeometry(r.cols, r.rows)
}

// paneView places pane p of the active tab in panel slot 0 or 1.
func (r *Root) paneView(p viewer.Pane, slot int) (gridView, bool) {
	s := r.session()
	g := s.Grid(p)
	if g == nil {
		return gridView{}, false
	}
	geo := r.geometry()
	cellW := s.CellSize(p)
	visible := max(1, geo.innerWidth()/cellW)
	scroll := min(r.scroll, max(0, g.ColCount()-visible))
	cellH := cellHeight(cellW, g.RowCount(), geo.gridHeight())
	fit := max(1, geo.gridHeight()/cellH)
	top := min(r.scrollRows, max(0, g.RowCount()-fit))
	ox, oy := geo.gridOrigin(slot)
	v := gridView{
		originX: ox,
		originY: oy,
		cellW:   cellW,
		cellH:   cellH,
		scroll:  scroll,
		top:     top,
		rows:    g.RowCount(),
		cols:    g.ColCount(),
	}
	v.width = min(visible, g.ColCount()-scroll) * cellW
	v.height = min(fit, g.RowCount()-top) * cellH
	return v, true
}

// canvasView is the canvas placement, available only on the test tab.
func (r *Root) canvasView() (gridView, bool) {
	if r.session().Tab != viewer.TabTest {
		return gridView{}, false
	}
	return r.paneView(viewer.PaneCanvas, 1)
}

func (r *Root) scrollBy(delta int) {
	s := r.session()
	inner := r.geometry().innerWidth()
	limit := 0
	for _, p := range s.Tab.Panes() {
		if g := s.Grid(p); g != nil {
			limit = max(limit, g.ColCount()-max(1, inner/s.CellSize(p)))
		}
	}
	r.scroll = min(max(0, r.scroll+delta), limit)
}

// rowLimit is the largest useful row offset for the panes of the active tab.
func (r *Root) rowLimit() int {
	s := r.session()
	avail := r.geometry().gridHeight()
	limit := 0
	for _, p := range s.Tab.Panes() {
		if g := s.Grid(p); g != nil {
			cellH := cellHeight(s.CellSize(p), g.RowCount(), avail)
			limit = max(limit, g.RowCount()-max(1, avail/cellH))
		}
	}
	return limit
}

func (r *Root) scrollRowsBy(delta int) {
	r.scrollRows = min(max(0, r.scrollRows+delta), r.rowLimit())
}

func (r *Root) renderScreen() string {
	if r.layout == LayoutTooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d). Need at least 40x12.", r.cols, r.rows)
		return r.theme.Fail.Render(trimForWidth(msg, r.cols))
	}
	geo := r.geometry()
	lines := make([]string, 0, r.rows)
	lines = append(lines, r.theme.Header.Width(r.cols).Render(ansi.Truncate(r.headerText(), max(1, r.cols-2), "…")))
	lines = append(lines, r.tabLine())
	lines = append(lines, r.renderPanels(geo)...)
	lines = append(lines, ansi.Truncate(r.paletteLine(), r.cols, ""))
	lines = append(lines, r.theme.Status.Width(r.cols).Render(ansi.Truncate(r.statusText(), max(1, r.cols-2), "…")))
	return strings.Join(lines, "\n")
}

func (r *Root) headerText() string {
	s := r.session()
	parts := []string{"arcview"}
	if id := s.PuzzleID(); id != "" {
		parts = append(parts, fmt.Sprintf("Puzzle ID: %s (%d/%d)", id, s.Nav.PuzzleIndex()+1, s.Nav.Len()))
		parts = append(parts, fmt.Sprintf("Example %d/%d", s.Nav.ExampleIndex()+1, s.ExampleCount()))
		if r.ctrl != nil {
			st := r.ctrl.Stats(id)
			parts = append(parts, fmt.Sprintf("visits %d  solved %d/%d", st.Visits, st.Passes, st.Attempts))
		}
	} else if s.Nav.Len() > 0 {
		parts = append(parts, fmt.Sprintf("%d puzzles", s.Nav.Len()))
	}
	if solved, total := r.solvedCount(); total > 0 {
		parts = append(parts, fmt.Sprintf("%s %d/%d", r.mastery.ViewAs(float64(solved)/float64(total)), solved, total))
	}
	if r.busy() {
		parts = append(parts, r.spin.View()+" loading")
	}
	return strings.Join(parts, "  |  ")
}

// solvedCount is the number of listed puzzles passed at least once without
// a reveal.
func (r *Root) solvedCount() (int, int) {
	if r.ctrl == nil {
		return 0, 0
	}
	ids := r.session().Nav.Identifiers()
	solved := 0
	for _, id := range ids {
		if r.ctrl.Stats(id).Passes > 0 {
			solved++
		}
	}
	return solved, len(ids)
}

func (r *Root) tabLine() string {
	active := r.session().Tab
	out := make([]string, 0, len(tabLabels))
	for i, label := range tabLabels {
		style := r.theme.Tab
		if viewer.Tab(i) == active {
			style = r.theme.TabActive
		}
		out = append(out, style.Render(label))
	}
	return strings.Join(out, " ")
}

func paneTitle(p viewer.Pane) string {
	switch p {
	case viewer.PaneExampleInput:
		return "Input"
	case viewer.PaneExampleOutput:
		return "Output"
	case viewer.PaneTestInput:
		return "Test input"
	default:
		return "Your output"
	}
}

func (r *Root) renderPanels(geo geometry) []string {
	s := r.session()
	var cols [2][]string
	for slot, p := range s.Tab.Panes() {
		body := []string{}
		if v, ok := r.paneView(p, slot); ok {
			body = append(body, r.caption(p, v))
			body = append(body, r.gridLines(s.Grid(p), v, r.previewFor(p))...)
		} else if s.Pending {
			body = append(body, r.theme.Pending.Render("loading…"))
		} else if s.Status != "" {
			body = append(body, r.theme.Muted.Render(s.Status))
		}
		cols[slot] = strings.Split(r.drawPanel(paneTitle(p), body, geo.panelW, geo.bodyH), "\n")
	}
	out := make([]string, 0, geo.bodyH)
	for i := 0; i < geo.bodyH; i++ {
		out = append(out, cols[0][i]+cols[1][i])
	}
	return out
}

func (r *Root) caption(p viewer.Pane, v gridView) string {
	text := fmt.Sprintf("%dx%d", v.rows, v.cols)
	if v.visibleCols() < v.cols {
		text += fmt.Sprintf("  cols %d-%d of %d", v.scroll+1, v.scroll+v.visibleCols(), v.cols)
	}
	if v.visibleRows() < v.rows {
		text += fmt.Sprintf("  rows %d-%d of %d", v.top+1, v.top+v.visibleRows(), v.rows)
	}
	if p == viewer.PaneCanvas && r.session().Revealed {
		text += "  (revealed)"
	}
	return r.theme.Muted.Render(text)
}

func (r *Root) previewFor(p viewer.Pane) *edit.Preview {
	if p != viewer.PaneCanvas {
		return nil
	}
	pv, ok := r.session().Edit.Preview()
	if !ok {
		return nil
	}
	return &pv
}

// gridLines draws the visible part of g, each cell cellW columns wide and
// cellH rows tall. Preview cells are drawn over the grid as ghosts.
func (r *Root) gridLines(g *grid.Grid, v gridView, pv *edit.Preview) []string {
	lines := make([]string, 0, v.height)
	last := v.scroll + v.visibleCols()
	for row := v.top; row < v.rows; row++ {
		for sub := 0; sub < v.cellH; sub++ {
			if len(lines) >= v.height {
				return lines
			}
			var b strings.Builder
			for col := v.scroll; col < last; col++ {
				value, ghost := g.At(row, col), false
				if pv != nil {
					if pval, ok := pv.Covers(row, col); ok {
						value, ghost = pval, true
					}
				}
				b.WriteString(r.cellText(value, ghost, sub == (v.cellH-1)/2, v.cellW))
			}
			lines = append(lines, b.String())
		}
	}
	return lines
}

func (r *Root) cellText(value int, ghost, label bool, width int) string {
	if !grid.ValidColor(value) {
		value = 0
	}
	if ghost {
		return r.theme.Ghosts[value].Render(strings.Repeat("▒", width))
	}
	text := strings.Repeat(" ", width)
	if r.digits && label {
		mid := (width - 1) / 2
		text = text[:mid] + fmt.Sprint(value) + text[mid+1:]
	}
	return r.theme.Cells[value].Render(text)
}

func (r *Root) paletteLine() string {
	s := r.session()
	var b strings.Builder
	b.WriteString(palettePrefix)
	for i := 0; i <= grid.MaxColor; i++ {
		label := fmt.Sprintf(" %d ", i)
		if i == s.Edit.SelectedColor() {
			label = fmt.Sprintf("[%d]", i)
		}
		b.WriteString(r.theme.Cells[i].Render(label))
	}
	mode := s.Edit.Mode()
	b.WriteString("  ")
	b.WriteString(r.theme.Accent.Render("mode: " + mode.String()))
	if mode == edit.ModeStamp {
		b.WriteString(r.theme.Muted.Render("  click to place the test input"))
	}
	return b.String()
}

func (r *Root) statusText() string {
	s := r.session()
	var parts []string
	switch {
	case r.statusFlash != "":
		parts = append(parts, r.theme.Fail.Render(r.statusFlash))
	case s.Verdict != nil:
		parts = append(parts, verdictText(r.theme, *s.Verdict))
	case s.Status != "":
		parts = append(parts, s.Status)
	}
	parts = append(parts, r.help.View(r.keys))
	return strings.Join(parts, "  ")
}

func verdictText(t Theme, v viewer.Verdict) string {
	if v.Passed {
		msg := t.Pass.Render(v.Message())
		if v.Revealed {
			msg += " (answer was revealed)"
		}
		return msg
	}
	detail := "size differs"
	if v.ShapeMatch {
		detail = fmt.Sprintf("%d cells differ", v.Mismatches)
	}
	return t.Fail.Render(v.Message()) + " (" + detail + ")"
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	top := "┌" + strings.Repeat("─", innerW) + "┐"
	if title != "" && innerW > 2 {
		t := " " + title + " "
		runes := []rune(top)
		for i, ch := range []rune(t) {
			pos := 1 + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	side := r.theme.PanelBorder.Render("│")
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		out = append(out, side+padANSI(line, innerW)+side)
	}
	out = append(out, r.theme.PanelBorder.Render("└"+strings.Repeat("─", innerW)+"┘"))
	return strings.Join(out, "\n")
}

// padANSI truncates or pads a styled line to exactly width columns.
func padANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

// composeOverlay centers overlay over base. Both are flattened to plain
// text first.
func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	baseLines := strings.Split(ansi.Strip(base), "\n")
	for len(baseLines) < rows {
		baseLines = append(baseLines, "")
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(ansi.Strip(overlay), "\n"), "\n")
	ow := 1
	for _, line := range overlayLines {
		ow = max(ow, len([]rune(line)))
	}
	ow = min(ow, cols)
	oh := min(len(overlayLines), rows)
	startRow := (rows - oh) / 2
	startCol := max(0, (cols-ow)/2)

	for i := 0; i < oh; i++ {
		row := startRow + i
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
