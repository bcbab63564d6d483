package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const lastLocationKey = "last_location"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL DEFAULT '',
			start_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS puzzle_visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			puzzle_id TEXT NOT NULL,
			visit_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			puzzle_id TEXT NOT NULL,
			submit_ts TEXT NOT NULL,
			passed INTEGER NOT NULL,
			mismatches INTEGER NOT NULL DEFAULT 0,
			revealed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS puzzle_progress (
			puzzle_id TEXT PRIMARY KEY,
			visits INTEGER NOT NULL DEFAULT 0,
			attempts INTEGER NOT NULL DEFAULT 0,
			passes INTEGER NOT NULL DEFAULT 0,
			last_visited_ts TEXT NOT NULL DEFAULT '',
			last_passed_ts TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_puzzle ON submissions(puzzle_id);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) StartSession(ctx context.Context, session Session) error {
	id := strings.TrimSpace(session.ID)
	if id == "" {
		return errors.New("session id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions(id, source, start_ts) VALUES(?,?,?)`,
		id,
		session.Source,
		orNow(session.StartTS).Format(timeLayout),
	)
	return err
}

func (s *SQLiteStore) RecordVisit(ctx context.Context, visit Visit) error {
	puzzleID := strings.TrimSpace(visit.PuzzleID)
	if puzzleID == "" {
		return nil
	}
	ts := orNow(visit.TS).Format(timeLayout)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO puzzle_visits(session_id, puzzle_id, visit_ts) VALUES(?,?,?)`,
		visit.SessionID, puzzleID, ts,
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO puzzle_progress(puzzle_id, visits, last_visited_ts)
		VALUES(?, 1, ?)
		ON CONFLICT(puzzle_id) DO UPDATE SET
			visits = puzzle_progress.visits + 1,
			last_visited_ts = excluded.last_visited_ts
	`, puzzleID, ts); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO app_settings(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastLocationKey, puzzleID); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// RecordSubmission logs one submit. A pass after the answer was revealed is
// logged but does not count toward the puzzle's passes.
func (s *SQLiteStore) RecordSubmission(ctx context.Context, sub Submission) error {
	puzzleID := strings.TrimSpace(sub.PuzzleID)
	if puzzleID == "" {
		return nil
	}
	ts := orNow(sub.TS).Format(timeLayout)
	counted := sub.Passed && !sub.Revealed
	passTS := ""
	if counted {
		passTS = ts
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO submissions(session_id, puzzle_id, submit_ts, passed, mismatches, revealed) VALUES(?,?,?,?,?,?)`,
		sub.SessionID, puzzleID, ts, ifThen(sub.Passed, 1, 0), max(0, sub.Mismatches), ifThen(sub.Revealed, 1, 0),
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO puzzle_progress(puzzle_id, attempts, passes, last_passed_ts)
		VALUES(?, 1, ?, ?)
		ON CONFLICT(puzzle_id) DO UPDATE SET
			attempts = puzzle_progress.attempts + 1,
			passes = puzzle_progress.passes + excluded.passes,
			last_passed_ts = CASE
				WHEN excluded.last_passed_ts <> '' THEN excluded.last_passed_ts
				ELSE puzzle_progress.last_passed_ts
			END
	`, puzzleID, ifThen(counted, 1, 0), passTS); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) GetPuzzleProgress(ctx context.Context, puzzleID string) (PuzzleProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT puzzle_id, visits, attempts, passes, last_visited_ts, last_passed_ts
		FROM puzzle_progress
		WHERE puzzle_id = ?
	`, strings.TrimSpace(puzzleID))
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PuzzleProgress{PuzzleID: puzzleID}, nil
	}
	return p, err
}

func (s *SQLiteStore) GetProgressMap(ctx context.Context) (map[string]PuzzleProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT puzzle_id, visits, attempts, passes, last_visited_ts, last_passed_ts
		FROM puzzle_progress
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]PuzzleProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out[p.PuzzleID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgress(row scanner) (PuzzleProgress, error) {
	var (
		p          PuzzleProgress
		lastVisit  string
		lastPassed string
	)
	if err := row.Scan(&p.PuzzleID, &p.Visits, &p.Attempts, &p.Passes, &lastVisit, &lastPassed); err != nil {
		return PuzzleProgress{}, err
	}
	if t, err := time.Parse(timeLayout, lastVisit); err == nil {
		p.LastVisitedTS = t
	}
	if t, err := time.Parse(timeLayout, lastPassed); err == nil {
		p.LastPassedTS = t
	}
	return p, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO app_settings(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, value); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) SetLastLocation(ctx context.Context, puzzleID string) error {
	return s.SaveSettings(ctx, map[string]string{lastLocationKey: strings.TrimSpace(puzzleID)})
}

// LastLocation returns the most recently visited identifier, or "".
func (s *SQLiteStore) LastLocation(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = ?`, lastLocationKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sessions) AS sessions,
			COALESCE(SUM(visits),0) AS visits,
			COALESCE(SUM(attempts),0) AS attempts,
			COALESCE(SUM(passes),0) AS passes,
			COALESCE(SUM(CASE WHEN passes > 0 THEN 1 ELSE 0 END),0) AS solved
		FROM puzzle_progress
	`)
	if err := row.Scan(&out.Sessions, &out.Visits, &out.Attempts, &out.Passes, &out.Solved); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}
