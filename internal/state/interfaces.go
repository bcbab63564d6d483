package state

import (
	"context"
	"time"
)

// Store keeps session history: visits, submissions and the last location.
// Canvas contents are never persisted.
type Store interface {
	EnsureSchema(ctx context.Context) error
	StartSession(ctx context.Context, session Session) error
	RecordVisit(ctx context.Context, visit Visit) error
	RecordSubmission(ctx context.Context, sub Submission) error
	GetPuzzleProgress(ctx context.Context, puzzleID string) (PuzzleProgress, error)
	GetProgressMap(ctx context.Context) (map[string]PuzzleProgress, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	SetLastLocation(ctx context.Context, puzzleID string) error
	LastLocation(ctx context.Context) (string, error)
	GetSummary(ctx context.Context) (Summary, error)
	Close() error
}

type Session struct {
	ID      string
	Source  string
	StartTS time.Time
}

type Visit struct {
	SessionID string
	PuzzleID  string
	TS        time.Time
}

type Submission struct {
	SessionID  string
	PuzzleID   string
	Passed     bool
	Mismatches int
	Revealed   bool
	TS         time.Time
}

type PuzzleProgress struct {
	PuzzleID      string
	Visits        int
	Attempts      int
	Passes        int
	LastVisitedTS time.Time
	LastPassedTS  time.Time
}

type Summary struct {
	Sessions int
	Visits   int
	Attempts int
	Passes   int
	Solved   int
}
