package ui

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"sync"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"

	"arcview/internal/viewer"
)

type refreshListMsg struct{}

type Root struct {
	ctrl   Controller
	ctx    context.Context
	logger *log.Logger

	theme    Theme
	keys     keyMap
	help     help.Model
	spin     spinner.Model
	mastery  progress.Model
	helpText string
	digits   bool

	mu      sync.Mutex
	program *tea.Program
	running bool

	cols   int
	rows   int
	layout LayoutMode

	helpOpen    bool
	listing     bool
	hovering    bool
	scroll      int
	scrollRows  int
	statusFlash string
	lastInput   string
}

type Options struct {
	Controller   Controller
	Context      context.Context
	Logger       *log.Logger
	StyleVariant string
	// Digits prints the color index inside each cell.
	Digits bool
}

func New(opts Options) *Root {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	theme := ThemeForVariant(normalizeStyleVariant(opts.StyleVariant))

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)
	mastery := progress.New(
		progress.WithWidth(12),
		progress.WithColors(lipgloss.Color("#0074D9"), lipgloss.Color("#2ECC40")),
		progress.WithoutPercentage(),
	)

	return &Root{
		ctrl:     opts.Controller,
		ctx:      opts.Context,
		logger:   opts.Logger,
		theme:    theme,
		keys:     defaultKeyMap(),
		help:     h,
		spin:     spin,
		mastery:  mastery,
		helpText: renderHelp(64),
		digits:   opts.Digits,
		cols:     120,
		rows:     30,
		layout:   LayoutWide,
	}
}

func (r *Root) Init() tea.Cmd {
	r.listing = true
	return tea.Batch(r.fetchListCmd(), spinnerTickCmd(r.spin))
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		r.help.SetWidth(max(20, r.cols/2))
		if r.layout == LayoutTooSmall {
			return r, nil
		}
		return r, r.dispatch(viewer.Resize{Width: r.geometry().innerWidth()})
	case refreshListMsg:
		if r.listing {
			return r, nil
		}
		r.listing = true
		return r, tea.Batch(r.fetchListCmd(), spinnerTickCmd(r.spin))
	case viewer.ListLoaded:
		r.listing = false
		return r, r.dispatch(msg)
	case viewer.LoadCompleted:
		return r, r.dispatch(msg)
	case spinner.TickMsg:
		if !r.busy() {
			return r, nil
		}
		var cmd tea.Cmd
		r.spin, cmd = r.spin.Update(msg)
		return r, cmd
	case tea.BlurMsg:
		return r, r.dispatch(viewer.PointerCancel{})
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		return r.handleMouseMotion(msg)
	case tea.MouseReleaseMsg:
		return r, r.dispatch(viewer.PointerUp{})
	case tea.MouseWheelMsg:
		return r.handleMouseWheel(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			msg := "UI recovered from a rendering panic. Check logs."
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}

	base := r.renderScreen()
	if r.helpOpen {
		base = composeOverlay(base, r.theme.Overlay.Render(r.helpText), r.cols, r.rows)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.ReportFocus = true
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

// Send delivers msg to the running program. It is dropped when the program
// is not running.
func (r *Root) Send(msg any) {
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if !running || p == nil {
		return
	}
	p.Send(msg)
}

// Refresh asks the UI to re-read the puzzle list.
func (r *Root) Refresh() {
	r.Send(refreshListMsg{})
}

func (r *Root) session() *viewer.SessionState {
	if r.ctrl == nil {
		return &viewer.SessionState{}
	}
	return r.ctrl.Session()
}

func (r *Root) busy() bool {
	return r.listing || r.session().Pending
}

// dispatch hands ev to the controller and turns any load it asks for into
// a command.
func (r *Root) dispatch(ev viewer.Event) tea.Cmd {
	if r.ctrl == nil {
		return nil
	}
	out := r.ctrl.Dispatch(r.ctx, ev)
	switch {
	case out.Err != nil:
		r.statusFlash = out.Err.Error()
	case out.Changed:
		r.statusFlash = ""
	}
	if out.Loaded != "" {
		r.scroll, r.scrollRows = 0, 0
	}
	if out.Load == nil {
		return nil
	}
	return tea.Batch(r.fetchCmd(*out.Load), spinnerTickCmd(r.spin))
}

func (r *Root) fetchCmd(req viewer.LoadRequest) tea.Cmd {
	ctrl, ctx := r.ctrl, r.ctx
	return func() tea.Msg {
		return ctrl.Fetch(ctx, req)
	}
}

func (r *Root) fetchListCmd() tea.Cmd {
	if r.ctrl == nil {
		return nil
	}
	ctrl, ctx := r.ctrl, r.ctx
	return func() tea.Msg {
		return ctrl.FetchList(ctx)
	}
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	s := r.session()
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"message_type", msgType,
		"puzzle", s.PuzzleID(),
		"tab", s.Tab.String(),
		"cols", r.cols,
		"rows", r.rows,
		"last_input", r.lastInput,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
