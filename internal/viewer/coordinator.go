package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"arcview/internal/edit"
	"arcview/internal/grid"
	"arcview/internal/nav"
	"arcview/internal/puzzles"
	"arcview/internal/viewport"
)

var errNoPuzzle = errors.New("no puzzle loaded")

type Options struct {
	Sizer viewport.Sizer
	// Width is the initial container width of one pane in sizer units.
	Width int
	// Initial is the identifier to open once the list arrives. Unknown
	// identifiers fall back to the first puzzle.
	Initial string
	Logger  *log.Logger
}

// Coordinator binds store results into grids and routes events to the edit
// and navigation state machines. Dispatch must be called from one
// goroutine; Fetch and FetchList are safe to call from any.
type Coordinator struct {
	store   puzzles.Store
	sizer   viewport.Sizer
	logger  *log.Logger
	initial string
	state   SessionState
}

func New(store puzzles.Store, opts Options) *Coordinator {
	if opts.Sizer.MaxCell <= 0 {
		opts.Sizer = viewport.DefaultSizer()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	c := &Coordinator{
		store:   store,
		sizer:   opts.Sizer,
		logger:  opts.Logger,
		initial: opts.Initial,
	}
	c.state.Nav = nav.New(nil)
	c.state.History = nav.NewHistory()
	c.state.Width = opts.Width
	return c
}

// State exposes the session for rendering. Callers must not mutate it.
func (c *Coordinator) State() *SessionState { return &c.state }

// FetchList retrieves the identifier list without touching session state.
func (c *Coordinator) FetchList(ctx context.Context) ListLoaded {
	ids, err := c.store.ListIdentifiers(ctx)
	return ListLoaded{IDs: ids, Err: err}
}

// Fetch retrieves the document named by req without touching session state.
func (c *Coordinator) Fetch(ctx context.Context, req LoadRequest) LoadCompleted {
	doc, err := c.store.Load(ctx, req.ID)
	return LoadCompleted{Request: req, Doc: doc, Err: err}
}

func (c *Coordinator) Dispatch(ctx context.Context, ev Event) Outcome {
	s := &c.state
	switch ev := ev.(type) {
	case ListLoaded:
		return c.applyList(ev)
	case LoadCompleted:
		return c.applyLoad(ev)
	case NavigatePuzzle:
		idx, id, ok := s.Nav.AdvancePuzzle(ev.Delta)
		if !ok {
			return Outcome{}
		}
		return c.issueLoad(idx, id)
	case JumpTo:
		idx, ok := s.Nav.JumpTo(ev.ID)
		if !ok {
			c.logger.Debug("nav.unknown_identifier", "id", ev.ID)
			return Outcome{}
		}
		return c.issueLoad(idx, ev.ID)
	case LocationChanged:
		return c.followLocation(ev.Token)
	case HistoryStep:
		var (
			token string
			ok    bool
		)
		if ev.Delta < 0 {
			token, ok = s.History.Back()
		} else {
			token, ok = s.History.Forward()
		}
		if !ok {
			return Outcome{}
		}
		mark := s.History.Mark()
		out := c.followLocation(token)
		switch {
		case out.Load != nil && !s.rewinding:
			s.rewind, s.rewinding = mark, true
		case out.Load == nil && token != s.PuzzleID():
			s.History.Rewind(mark)
		}
		return out
	case NavigateExample:
		if !s.Nav.AdvanceExample(ev.Delta) {
			return Outcome{}
		}
		c.buildExample()
		c.relayout(TabExamples)
		return Outcome{Changed: true}
	case TabActivated:
		return c.activateTab(ev.Tab)
	case Resize:
		if ev.Width == s.Width {
			return Outcome{}
		}
		s.Width = ev.Width
		c.relayout(s.Tab)
		return Outcome{Changed: true}
	case SelectColor:
		if err := s.Edit.SelectColor(ev.Color); err != nil {
			return Outcome{Err: err}
		}
		return Outcome{Changed: true}
	case ToggleStamp:
		mode := s.Edit.ToggleStamp()
		s.Status = "mode: " + mode.String()
		return Outcome{Changed: true}
	case PointerDown, PointerMove, PointerUp, PointerCancel, PointerClick, PointerLeave, PointerEnter:
		return c.pointer(ev)
	case CopyInput:
		return c.withCanvas(func(canvas *grid.Grid) {
			grid.CopyOverlap(s.Grids[PaneTestInput], canvas)
		})
	case CopyInputScaled:
		return c.withCanvas(func(canvas *grid.Grid) {
			scaled, err := grid.Scale(s.Grids[PaneTestInput], canvas.RowCount(), canvas.ColCount())
			if err != nil {
				c.logger.Error("canvas.scale_failed", "err", err)
				return
			}
			grid.Fill(canvas, scaled)
		})
	case Clear:
		return c.withCanvas(func(canvas *grid.Grid) {
			canvas.Reset(0)
		})
	case Reveal:
		out := c.withCanvas(func(canvas *grid.Grid) {
			grid.CopyOverlap(s.Doc.Answer(), canvas)
		})
		if out.Err == nil {
			s.Revealed = true
		}
		return out
	case Submit:
		v, err := c.submit()
		if err != nil {
			return Outcome{Err: err}
		}
		s.Verdict = &v
		s.Status = v.Message()
		return Outcome{Changed: true, Verdict: &v}
	}
	return Outcome{Err: fmt.Errorf("unhandled event %T", ev)}
}

func (c *Coordinator) applyList(ev ListLoaded) Outcome {
	s := &c.state
	if ev.Err != nil {
		c.logger.Error("puzzle.list_failed", "err", ev.Err)
		s.Status = "puzzle list unavailable"
		return Outcome{Changed: true, Err: ev.Err}
	}
	s.Nav.SetIdentifiers(ev.IDs)
	c.logger.Info("puzzle.list_loaded", "count", len(ev.IDs))
	if s.Doc != nil || s.Pending {
		return Outcome{Changed: true}
	}
	if len(ev.IDs) == 0 {
		s.Status = "no puzzles found"
		return Outcome{Changed: true}
	}
	if idx, ok := s.Nav.Lookup(c.initial); ok {
		return c.issueLoad(idx, c.initial)
	}
	idx, id, _ := s.Nav.AdvancePuzzle(1)
	return c.issueLoad(idx, id)
}

func (c *Coordinator) issueLoad(idx int, id string) Outcome {
	s := &c.state
	s.seq++
	s.Pending = true
	req := LoadRequest{Seq: s.seq, Index: idx, ID: id}
	c.logger.Debug("puzzle.load_requested", "id", id, "seq", req.Seq)
	return Outcome{Changed: true, Load: &req}
}

func (c *Coordinator) followLocation(token string) Outcome {
	s := &c.state
	if token == s.PuzzleID() {
		return Outcome{}
	}
	idx, ok := s.Nav.Lookup(token)
	if !ok {
		c.logger.Debug("nav.unknown_location", "token", token)
		return Outcome{}
	}
	return c.issueLoad(idx, token)
}

func (c *Coordinator) applyLoad(ev LoadCompleted) Outcome {
	s := &c.state
	req := ev.Request
	if req.Seq != s.seq {
		c.logger.Debug("nav.stale_discarded", "id", req.ID, "seq", req.Seq, "latest", s.seq)
		return Outcome{}
	}
	s.Pending = false
	rewind, rewinding := s.rewind, s.rewinding
	s.rewinding = false
	out := c.install(ev)
	if out.Err != nil && rewinding {
		s.History.Rewind(rewind)
	}
	return out
}

// install replaces the session's puzzle with a completed load.
func (c *Coordinator) install(ev LoadCompleted) Outcome {
	s := &c.state
	req := ev.Request
	if ev.Err != nil {
		c.logger.Error("puzzle.load_failed", "id", req.ID, "err", ev.Err)
		s.Status = loadFailure(req.ID, ev.Err)
		return Outcome{Changed: true, Err: ev.Err}
	}
	doc := ev.Doc
	if doc == nil {
		return Outcome{Changed: true, Err: fmt.Errorf("load %s: empty result", req.ID)}
	}
	idx, ok := s.Nav.Lookup(req.ID)
	if !ok {
		idx = req.Index
	}
	if !s.Nav.Commit(idx, len(doc.Train)) {
		c.logger.Warn("puzzle.vanished", "id", req.ID)
		s.Status = fmt.Sprintf("puzzle %s is no longer listed", req.ID)
		return Outcome{Changed: true, Err: fmt.Errorf("%w: %s", puzzles.ErrNotFound, req.ID)}
	}

	answer := doc.Answer()
	canvas, err := grid.New(answer.RowCount(), answer.ColCount())
	if err != nil {
		return Outcome{Changed: true, Err: err}
	}
	s.Doc = doc
	s.Grids[PaneTestInput] = doc.TestInput().Clone()
	s.Grids[PaneCanvas] = canvas
	c.buildExample()
	s.Edit.Detach()
	s.History.Push(doc.ID)
	s.Revealed = false
	s.Verdict = nil
	s.Status = ""
	c.relayout(TabExamples)
	c.relayout(TabTest)
	c.logger.Info("puzzle.loaded", "id", doc.ID, "index", idx, "train", len(doc.Train),
		"canvas_rows", canvas.RowCount(), "canvas_cols", canvas.ColCount())
	return Outcome{Changed: true, Loaded: doc.ID}
}

func loadFailure(id string, err error) string {
	switch {
	case errors.Is(err, puzzles.ErrNotFound):
		return fmt.Sprintf("puzzle %s not found", id)
	case errors.Is(err, puzzles.ErrMalformedDocument):
		return fmt.Sprintf("puzzle %s is malformed", id)
	default:
		return fmt.Sprintf("could not load %s", id)
	}
}

// buildExample replaces the two example grids for the current example index.
func (c *Coordinator) buildExample() {
	s := &c.state
	if s.Doc == nil {
		return
	}
	ex := s.Doc.Train[s.Nav.ExampleIndex()]
	s.Grids[PaneExampleInput] = ex.Input.Clone()
	s.Grids[PaneExampleOutput] = ex.Output.Clone()
}

func (c *Coordinator) relayout(tab Tab) {
	s := &c.state
	for _, p := range tab.Panes() {
		g := s.Grids[p]
		if g == nil {
			s.Layout[p] = viewport.Layout{}
			continue
		}
		s.Layout[p] = c.sizer.Layout(s.Width, g.ColCount())
	}
}

func (c *Coordinator) activateTab(tab Tab) Outcome {
	s := &c.state
	s.Tab = tab
	s.Edit.PointerCancel()
	s.Edit.Leave()
	if tab == TabTest && s.Doc != nil {
		old := s.Grids[PaneCanvas]
		answer := s.Doc.Answer()
		fresh, err := grid.New(answer.RowCount(), answer.ColCount())
		if err != nil {
			return Outcome{Err: err}
		}
		grid.CopyOverlap(old, fresh)
		s.Grids[PaneCanvas] = fresh
	}
	c.relayout(tab)
	return Outcome{Changed: true}
}

func (c *Coordinator) canvasReady() bool {
	s := &c.state
	return s.Doc != nil && s.Grids[PaneCanvas] != nil
}

func (c *Coordinator) withCanvas(fn func(canvas *grid.Grid)) Outcome {
	if !c.canvasReady() {
		return Outcome{Err: errNoPuzzle}
	}
	fn(c.state.Grids[PaneCanvas])
	c.state.Verdict = nil
	return Outcome{Changed: true}
}

func (c *Coordinator) pointer(ev Event) Outcome {
	s := &c.state
	if !c.canvasReady() || s.Tab != TabTest {
		return Outcome{}
	}
	canvas := s.Grids[PaneCanvas]
	patch := s.Grids[PaneTestInput]
	size := s.CellSize(PaneCanvas)

	var changed, wrote bool
	switch ev := ev.(type) {
	case PointerDown:
		wrote = s.Edit.PointerDown(canvas, ev.Cell)
	case PointerMove:
		if s.Edit.Mode() == edit.ModeStamp {
			changed = s.Edit.Hover(patch, ev.Pos, size)
		} else {
			wrote = s.Edit.PointerMove(canvas, ev.Cell)
		}
	case PointerUp:
		s.Edit.PointerUp()
	case PointerCancel:
		s.Edit.PointerCancel()
	case PointerClick:
		wrote = s.Edit.Click(canvas, patch, ev.Pos, size) > 0
		changed = true
	case PointerLeave:
		s.Edit.Leave()
		changed = true
	case PointerEnter:
		s.Edit.Enter()
		changed = true
	}
	if wrote {
		s.Verdict = nil
	}
	return Outcome{Changed: changed || wrote}
}

func (c *Coordinator) submit() (Verdict, error) {
	s := &c.state
	if !c.canvasReady() {
		return Verdict{}, errNoPuzzle
	}
	canvas, answer := s.Grids[PaneCanvas], s.Doc.Answer()
	v := Verdict{PuzzleID: s.Doc.ID, Revealed: s.Revealed}
	v.ShapeMatch = canvas.SameShape(answer)
	if v.ShapeMatch {
		v.Mismatches = grid.Diff(canvas, answer)
		v.Passed = v.Mismatches == 0
	}
	c.logger.Info("puzzle.submitted", "id", v.PuzzleID, "passed", v.Passed, "mismatches", v.Mismatches, "revealed", v.Revealed)
	return v, nil
}
