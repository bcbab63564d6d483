package app

import (
	"context"

	"arcview/internal/state"
)

// History is the part of the state store the app writes to while the
// viewer runs.
type History interface {
	StartSession(ctx context.Context, session state.Session) error
	RecordVisit(ctx context.Context, visit state.Visit) error
	RecordSubmission(ctx context.Context, sub state.Submission) error
	GetProgressMap(ctx context.Context) (map[string]state.PuzzleProgress, error)
	LastLocation(ctx context.Context) (string, error)
	Close() error
}

var _ History = (*state.SQLiteStore)(nil)
