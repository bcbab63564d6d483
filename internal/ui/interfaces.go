package ui

import (
	"context"

	"arcview/internal/viewer"
)

// Controller owns the session. The UI only translates terminal input into
// viewer events and renders the session between events.
type Controller interface {
	Dispatch(ctx context.Context, ev viewer.Event) viewer.Outcome
	Fetch(ctx context.Context, req viewer.LoadRequest) viewer.LoadCompleted
	FetchList(ctx context.Context) viewer.ListLoaded
	Session() *viewer.SessionState
	Stats(puzzleID string) Stats
}

// Stats is the per-puzzle history shown in the header.
type Stats struct {
	Visits   int
	Attempts int
	Passes   int
}

type View interface {
	Run() error
	Stop()
	Send(msg any)
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)
