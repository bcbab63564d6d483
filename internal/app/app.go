package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"arcview/internal/puzzles"
	"arcview/internal/state"
	"arcview/internal/telemetry"
	"arcview/internal/ui"
	"arcview/internal/viewer"
	"arcview/internal/viewport"
)

const storeTimeout = 2 * time.Second

// App wires the puzzle store, the session coordinator, the history
// database and the terminal UI. It is the ui.Controller.
type App struct {
	cfg Config

	logger  *telemetry.Logger
	history History
	store   puzzles.Store
	coord   *viewer.Coordinator
	view    *ui.Root
	watcher *puzzles.Watcher

	sessionID string

	mu    sync.Mutex
	stats map[string]ui.Stats
}

// New validates cfg and opens every dependency. Callers must Close the app.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := telemetry.NewJSONLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var history History
	if cfg.History {
		db, err := state.NewSQLite(cfg.StatePath)
		if err != nil {
			_ = logger.Close()
			return nil, err
		}
		if err := db.EnsureSchema(context.Background()); err != nil {
			_ = db.Close()
			_ = logger.Close()
			return nil, err
		}
		history = db
	}
	return newApp(cfg, logger, history, NewStore(cfg)), nil
}

func newApp(cfg Config, logger *telemetry.Logger, history History, store puzzles.Store) *App {
	a := &App{
		cfg:       cfg,
		logger:    logger,
		history:   history,
		store:     store,
		sessionID: uuid.NewString(),
		stats:     map[string]ui.Stats{},
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	a.startSession(ctx)

	a.coord = viewer.New(store, viewer.Options{
		Sizer:   viewport.Sizer{MaxCell: cfg.UI.MaxCell, MinCell: 1},
		Initial: a.initialPuzzle(ctx),
		Logger:  logger.Logger,
	})
	a.view = ui.New(ui.Options{
		Controller:   a,
		Logger:       logger.Logger,
		StyleVariant: cfg.UI.StyleVariant,
		Digits:       cfg.UI.Digits,
	})
	return a
}

func (a *App) startSession(ctx context.Context) {
	if a.history == nil {
		return
	}
	err := a.history.StartSession(ctx, state.Session{ID: a.sessionID, Source: a.cfg.Source(), StartTS: time.Now()})
	if err != nil {
		a.logger.Error("state.session_failed", "err", err)
	}
	progress, err := a.history.GetProgressMap(ctx)
	if err != nil {
		a.logger.Error("state.progress_failed", "err", err)
		return
	}
	for id, p := range progress {
		a.stats[id] = ui.Stats{Visits: p.Visits, Attempts: p.Attempts, Passes: p.Passes}
	}
}

// initialPuzzle prefers an explicit start puzzle over the last location.
func (a *App) initialPuzzle(ctx context.Context) string {
	if a.cfg.StartPuzzle != "" || a.history == nil {
		return a.cfg.StartPuzzle
	}
	id, err := a.history.LastLocation(ctx)
	if err != nil {
		a.logger.Warn("state.last_location_failed", "err", err)
		return ""
	}
	return id
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", "session", a.sessionID, "source", a.cfg.Source())
	if a.cfg.Watch && a.cfg.RemoteURL == "" {
		w, err := puzzles.NewWatcher(a.cfg.DataDir, puzzles.DefaultDebounce, a.view.Refresh, func(err error) {
			a.logger.Warn("watch.error", "err", err)
		})
		if err != nil {
			a.logger.Warn("watch.disabled", "dir", a.cfg.DataDir, "err", err)
		} else {
			a.watcher = w
			w.Start(ctx)
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			a.view.Stop()
		case <-done:
		}
	}()

	err := a.view.Run()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	a.logger.Info("app.stop", "session", a.sessionID, "err", err)
	return err
}

func (a *App) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.history != nil {
		_ = a.history.Close()
	}
	_ = a.logger.Close()
}

// Dispatch forwards ev to the coordinator and records visits and
// submissions in the history database.
func (a *App) Dispatch(ctx context.Context, ev viewer.Event) viewer.Outcome {
	out := a.coord.Dispatch(ctx, ev)
	if out.Loaded != "" {
		a.recordVisit(ctx, out.Loaded)
	}
	if out.Verdict != nil {
		a.recordSubmission(ctx, *out.Verdict)
	}
	return out
}

func (a *App) Fetch(ctx context.Context, req viewer.LoadRequest) viewer.LoadCompleted {
	return a.coord.Fetch(ctx, req)
}

func (a *App) FetchList(ctx context.Context) viewer.ListLoaded {
	return a.coord.FetchList(ctx)
}

func (a *App) Session() *viewer.SessionState {
	return a.coord.State()
}

func (a *App) Stats(puzzleID string) ui.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats[puzzleID]
}

func (a *App) recordVisit(ctx context.Context, id string) {
	a.mu.Lock()
	st := a.stats[id]
	st.Visits++
	a.stats[id] = st
	a.mu.Unlock()

	if a.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	if err := a.history.RecordVisit(ctx, state.Visit{SessionID: a.sessionID, PuzzleID: id, TS: time.Now()}); err != nil {
		a.logger.Error("state.visit_failed", "id", id, "err", err)
	}
}

func (a *App) recordSubmission(ctx context.Context, v viewer.Verdict) {
	a.mu.Lock()
	st := a.stats[v.PuzzleID]
	st.Attempts++
	if v.Passed && !v.Revealed {
		st.Passes++
	}
	a.stats[v.PuzzleID] = st
	a.mu.Unlock()

	if a.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	sub := state.Submission{
		SessionID:  a.sessionID,
		PuzzleID:   v.PuzzleID,
		Passed:     v.Passed,
		Mismatches: v.Mismatches,
		Revealed:   v.Revealed,
		TS:         time.Now(),
	}
	if err := a.history.RecordSubmission(ctx, sub); err != nil {
		a.logger.Error("state.submission_failed", "id", v.PuzzleID, "err", err)
	}
}

var _ ui.Controller = (*App)(nil)
