package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"arcview/internal/edit"
	"arcview/internal/puzzles"
	"arcview/internal/viewer"
	"arcview/internal/viewport"
)

type memStore struct {
	ids  []string
	docs map[string]string
	err  error
}

func (m *memStore) ListIdentifiers(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]string(nil), m.ids...), nil
}

func (m *memStore) Load(_ context.Context, id string) (*puzzles.Document, error) {
	body, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", puzzles.ErrNotFound, id)
	}
	return puzzles.Decode(id, []byte(body))
}

type testController struct {
	*viewer.Coordinator
	stats map[string]Stats
}

func (c *testController) Session() *viewer.SessionState { return c.State() }

func (c *testController) Stats(id string) Stats { return c.stats[id] }

const alphaDoc = `{
  "train": [{"input": [[1,1,1],[1,1,1],[1,1,1]], "output": [[2,2,2],[2,2,2],[2,2,2]]}],
  "test": [{"input": [[1,1],[1,1]], "output": [[2,2],[2,2]]}]
}`

const betaDoc = `{
  "train": [
    {"input": [[1]], "output": [[2]]},
    {"input": [[3,3]], "output": [[4,4]]},
    {"input": [[5],[5]], "output": [[6],[6]]}
  ],
  "test": [{"input": [[7,7,7]], "output": [[8,8,8],[8,8,8]]}]
}`

func newRoot(t *testing.T, store *memStore) (*Root, *testController) {
	t.Helper()
	ctrl := &testController{
		Coordinator: viewer.New(store, viewer.Options{Sizer: viewport.Sizer{MaxCell: 4, MinCell: 1}}),
		stats:       map[string]Stats{"alpha": {Visits: 3, Attempts: 2, Passes: 1}},
	}
	r := New(Options{Controller: ctrl, Digits: true})
	_, cmd := r.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	drain(t, r, cmd)
	drain(t, r, r.Init())
	return r, ctrl
}

func defaultStore() *memStore {
	return &memStore{
		ids:  []string{"alpha", "beta"},
		docs: map[string]string{"alpha": alphaDoc, "beta": betaDoc},
	}
}

// drain runs cmd synchronously and feeds store results back into the model.
// Timers are dropped.
func drain(t *testing.T, r *Root, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, r, c)
		}
	case viewer.ListLoaded, viewer.LoadCompleted, refreshListMsg:
		_, next := r.Update(msg)
		drain(t, r, next)
	}
}

func press(t *testing.T, r *Root, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "tab":
			msg = tea.KeyPressMsg{Code: tea.KeyTab}
		case "enter":
			msg = tea.KeyPressMsg{Code: tea.KeyEnter}
		case "esc":
			msg = tea.KeyPressMsg{Code: tea.KeyEscape}
		default:
			msg = tea.KeyPressMsg{Code: []rune(k)[0], Text: k}
		}
		_, cmd := r.Update(msg)
		drain(t, r, cmd)
	}
}

func send(t *testing.T, r *Root, msg tea.Msg) {
	t.Helper()
	_, cmd := r.Update(msg)
	drain(t, r, cmd)
}

func screen(r *Root) string {
	return ansi.Strip(r.renderScreen())
}

// canvasCell is the screen position of canvas cell (row, col) at 100x30,
// where 2x2 and 3x3 grids get four-column cells two rows tall.
func canvasCell(row, col int) (int, int) {
	return 51 + col*4, 4 + row*2
}

func TestRootBootsIntoFirstPuzzle(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())

	if got := ctrl.Session().PuzzleID(); got != "alpha" {
		t.Fatalf("expected alpha loaded, got %q", got)
	}
	out := screen(r)
	for _, want := range []string{"Puzzle ID: alpha (1/2)", "Example 1/1", "visits 3  solved 1/2", "Input", "Output", "3x3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("screen missing %q:\n%s", want, out)
		}
	}
	if r.busy() {
		t.Fatalf("expected idle after boot")
	}
}

func TestRootKeyboardNavigation(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())

	press(t, r, "n")
	if got := ctrl.Session().PuzzleID(); got != "beta" {
		t.Fatalf("expected beta after n, got %q", got)
	}
	press(t, r, "l", "l")
	if !strings.Contains(screen(r), "Example 3/3") {
		t.Fatalf("expected third example:\n%s", screen(r))
	}
	press(t, r, "h")
	if got := ctrl.Session().Nav.ExampleIndex(); got != 1 {
		t.Fatalf("expected example index 1, got %d", got)
	}
	press(t, r, "n")
	if got := ctrl.Session().PuzzleID(); got != "alpha" {
		t.Fatalf("expected wrap to alpha, got %q", got)
	}
	press(t, r, "[")
	if got := ctrl.Session().PuzzleID(); got != "beta" {
		t.Fatalf("expected history back to beta, got %q", got)
	}
	press(t, r, "]")
	if got := ctrl.Session().PuzzleID(); got != "alpha" {
		t.Fatalf("expected history forward to alpha, got %q", got)
	}
}

func TestRootTabKeys(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())

	press(t, r, "tab")
	if ctrl.Session().Tab != viewer.TabTest {
		t.Fatalf("expected test tab after tab key")
	}
	if out := screen(r); !strings.Contains(out, "Test input") || !strings.Contains(out, "Your output") {
		t.Fatalf("expected test panels:\n%s", out)
	}
	press(t, r, "e")
	if ctrl.Session().Tab != viewer.TabExamples {
		t.Fatalf("expected examples tab after e")
	}
	press(t, r, "t")
	if ctrl.Session().Tab != viewer.TabTest {
		t.Fatalf("expected test tab after t")
	}
}

func TestRootMousePaintsCanvas(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())
	press(t, r, "t", "3")

	x, y := canvasCell(0, 0)
	send(t, r, tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	x, y = canvasCell(0, 1)
	send(t, r, tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft})
	send(t, r, tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
	x, y = canvasCell(1, 0)
	send(t, r, tea.MouseMotionMsg{X: x, Y: y})

	canvas := ctrl.Session().Canvas()
	if canvas.At(0, 0) != 3 || canvas.At(0, 1) != 3 {
		t.Fatalf("expected dragged cells painted, got\n%s", canvas)
	}
	if canvas.At(1, 0) != 0 {
		t.Fatalf("expected no paint after release, got\n%s", canvas)
	}
}

// squareDoc is a puzzle whose test pair is n by n.
func squareDoc(n int) string {
	row := "[" + strings.TrimSuffix(strings.Repeat("0,", n), ",") + "]"
	g := "[" + strings.TrimSuffix(strings.Repeat(row+",", n), ",") + "]"
	return fmt.Sprintf(`{"train": [{"input": [[1]], "output": [[2]]}], "test": [{"input": %s, "output": %s}]}`, g, g)
}

func TestRootScrollsTallCanvasToLastRow(t *testing.T) {
	store := &memStore{ids: []string{"tall"}, docs: map[string]string{"tall": squareDoc(30)}}
	r, ctrl := newRoot(t, store)
	press(t, r, "t", "3")

	if !strings.Contains(screen(r), "rows 1-23 of 30") {
		t.Fatalf("expected row range in caption, got\n%s", screen(r))
	}
	// Bottom visible line of the panel is row 22 before scrolling.
	send(t, r, tea.MouseClickMsg{X: 51, Y: 26, Button: tea.MouseLeft})
	send(t, r, tea.MouseReleaseMsg{X: 51, Y: 26, Button: tea.MouseLeft})
	if ctrl.Session().Canvas().At(22, 0) != 3 {
		t.Fatalf("expected row 22 painted, got\n%s", ctrl.Session().Canvas())
	}

	press(t, r, "j", "j", "j", "j", "j")
	send(t, r, tea.MouseWheelMsg{X: 51, Y: 10, Button: tea.MouseWheelDown})
	send(t, r, tea.MouseWheelMsg{X: 51, Y: 10, Button: tea.MouseWheelDown})
	press(t, r, "j")
	if !strings.Contains(screen(r), "rows 8-30 of 30") {
		t.Fatalf("expected scrolled row range, got\n%s", screen(r))
	}

	send(t, r, tea.MouseClickMsg{X: 52, Y: 26, Button: tea.MouseLeft})
	send(t, r, tea.MouseReleaseMsg{X: 52, Y: 26, Button: tea.MouseLeft})
	if ctrl.Session().Canvas().At(29, 1) != 3 {
		t.Fatalf("expected last row painted, got\n%s", ctrl.Session().Canvas())
	}

	press(t, r, "k")
	if !strings.Contains(screen(r), "rows 7-29 of 30") {
		t.Fatalf("expected row range after scrolling up, got\n%s", screen(r))
	}
	press(t, r, "e")
	if strings.Contains(screen(r), "rows 7-29") {
		t.Fatalf("expected row offset reset on tab switch")
	}
}

func TestRootMouseIgnoredOnExamplesTab(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())

	x, y := canvasCell(0, 0)
	send(t, r, tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	if ctrl.Session().Edit.Dragging() {
		t.Fatalf("expected no stroke on examples tab")
	}
}

func TestRootStampFollowsPointer(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())
	press(t, r, "t", "s")
	if ctrl.Session().Edit.Mode() != edit.ModeStamp {
		t.Fatalf("expected stamp mode")
	}

	x, y := canvasCell(0, 1)
	send(t, r, tea.MouseMotionMsg{X: x, Y: y})
	pv, ok := ctrl.Session().Edit.Preview()
	if !ok || !pv.Visible || pv.Anchor != (edit.Cell{Row: 0, Col: 1}) {
		t.Fatalf("expected preview anchored at (0,1), got %+v ok=%v", pv, ok)
	}
	if !strings.Contains(screen(r), "▒") {
		t.Fatalf("expected ghost cells on screen")
	}

	send(t, r, tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	canvas := ctrl.Session().Canvas()
	if canvas.At(0, 0) != 0 || canvas.At(0, 1) != 1 || canvas.At(1, 1) != 1 {
		t.Fatalf("expected clipped stamp at column 1, got\n%s", canvas)
	}

	send(t, r, tea.MouseMotionMsg{X: 0, Y: 0})
	if pv, ok := ctrl.Session().Edit.Preview(); ok && pv.Visible {
		t.Fatalf("expected preview hidden after leaving the canvas")
	}
}

func TestRootTabAndSwatchClicks(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())
	geo := r.geometry()

	send(t, r, tea.MouseClickMsg{X: geo.tabs[1].start, Y: 1, Button: tea.MouseLeft})
	if ctrl.Session().Tab != viewer.TabTest {
		t.Fatalf("expected tab click to open test tab")
	}
	send(t, r, tea.MouseClickMsg{X: len(palettePrefix) + 5*swatchWidth + 1, Y: geo.paletteY, Button: tea.MouseLeft})
	if got := ctrl.Session().Edit.SelectedColor(); got != 5 {
		t.Fatalf("expected color 5 selected, got %d", got)
	}
	if !strings.Contains(screen(r), "[5]") {
		t.Fatalf("expected selected swatch marker")
	}
}

func TestRootSubmitShowsVerdict(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())
	press(t, r, "t", "c", "enter")
	if v := ctrl.Session().Verdict; v == nil || v.Passed || v.Mismatches != 4 {
		t.Fatalf("expected failing verdict with 4 mismatches, got %+v", v)
	}
	if !strings.Contains(screen(r), "Try again! (4 cells differ)") {
		t.Fatalf("expected failure message:\n%s", screen(r))
	}

	press(t, r, "r", "enter")
	if v := ctrl.Session().Verdict; v == nil || !v.Passed {
		t.Fatalf("expected passing verdict after reveal, got %+v", v)
	}
	out := screen(r)
	if !strings.Contains(out, "Correct!") || !strings.Contains(out, "(revealed)") {
		t.Fatalf("expected revealed pass on screen:\n%s", out)
	}
}

func TestRootScaledCopyAndClear(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())
	press(t, r, "n", "t", "S")
	canvas := ctrl.Session().Canvas()
	for row := 0; row < canvas.RowCount(); row++ {
		for col := 0; col < canvas.ColCount(); col++ {
			if canvas.At(row, col) != 7 {
				t.Fatalf("expected scaled input everywhere, got\n%s", canvas)
			}
		}
	}
	press(t, r, "x")
	if ctrl.Session().Canvas().At(1, 2) != 0 {
		t.Fatalf("expected cleared canvas")
	}
}

func TestRootHelpOverlaySwallowsKeys(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())
	press(t, r, "?")
	if !r.helpOpen {
		t.Fatalf("expected help open")
	}
	press(t, r, "n")
	if got := ctrl.Session().PuzzleID(); got != "alpha" {
		t.Fatalf("expected keys swallowed while help open, got %q", got)
	}
	press(t, r, "esc")
	if r.helpOpen {
		t.Fatalf("expected esc to close help")
	}
}

func TestRootTooSmall(t *testing.T) {
	r, _ := newRoot(t, defaultStore())
	send(t, r, tea.WindowSizeMsg{Width: 30, Height: 10})
	if !strings.Contains(screen(r), "too small") {
		t.Fatalf("expected too small message, got %q", screen(r))
	}
	send(t, r, tea.MouseClickMsg{X: 1, Y: 1, Button: tea.MouseLeft})
}

func TestRootListFailure(t *testing.T) {
	store := defaultStore()
	store.err = fmt.Errorf("%w: boom", puzzles.ErrListUnavailable)
	r, ctrl := newRoot(t, store)

	if ctrl.Session().Doc != nil {
		t.Fatalf("expected nothing loaded")
	}
	if !strings.Contains(r.statusFlash, "boom") {
		t.Fatalf("expected failure flash, got %q", r.statusFlash)
	}
	if !strings.Contains(screen(r), "puzzle list unavailable") {
		t.Fatalf("expected list status:\n%s", screen(r))
	}
}

func TestRootRefreshPicksUpNewPuzzles(t *testing.T) {
	store := defaultStore()
	r, ctrl := newRoot(t, store)

	store.ids = append(store.ids, "gamma")
	store.docs["gamma"] = alphaDoc
	send(t, r, refreshListMsg{})
	if got := ctrl.Session().Nav.Len(); got != 3 {
		t.Fatalf("expected 3 puzzles after refresh, got %d", got)
	}
	if !strings.Contains(screen(r), "(1/3)") {
		t.Fatalf("expected header to count the new puzzle:\n%s", screen(r))
	}
}

func TestRootRecoversFromPanics(t *testing.T) {
	r := New(Options{Controller: panicController{}})
	model, cmd := r.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if model != r || cmd != nil {
		t.Fatalf("expected recovered update to return the root and no command")
	}
	if r.statusFlash == "" {
		t.Fatalf("expected recovery flash")
	}
}

type panicController struct{}

func (panicController) Dispatch(context.Context, viewer.Event) viewer.Outcome {
	panic(errors.New("dispatch exploded"))
}

func (panicController) Fetch(context.Context, viewer.LoadRequest) viewer.LoadCompleted {
	return viewer.LoadCompleted{}
}

func (panicController) FetchList(context.Context) viewer.ListLoaded { return viewer.ListLoaded{} }

func (panicController) Session() *viewer.SessionState { return &viewer.SessionState{} }

func (panicController) Stats(string) Stats { return Stats{} }

func TestSolvedCountFollowsStats(t *testing.T) {
	r, ctrl := newRoot(t, defaultStore())
	if solved, total := r.solvedCount(); solved != 1 || total != 2 {
		t.Fatalf("expected 1/2 solved, got %d/%d", solved, total)
	}
	ctrl.stats["beta"] = Stats{Attempts: 4}
	if solved, _ := r.solvedCount(); solved != 1 {
		t.Fatalf("attempts without a pass should not count, got %d", solved)
	}
	if !strings.HasSuffix(ansi.Strip(r.headerText()), " 1/2") {
		t.Fatalf("expected progress in header, got %q", r.headerText())
	}
}
