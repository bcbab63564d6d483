package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arcview/internal/puzzles"
	"arcview/internal/state"
)

const doc = `{"train":[{"input":[[1]],"output":[[2,2]]}],"test":[{"input":[[3]],"output":[[4,4]]}]}`

func dataDir(t *testing.T, ids ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, id := range ids {
		if err := os.WriteFile(filepath.Join(dir, id+".json"), []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list", "--data", dataDir(t, "b2", "a1"), "--no-history")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out != "a1\nb2\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestListCommandStats(t *testing.T) {
	dir := dataDir(t, "a1", "b2")
	statePath := filepath.Join(t.TempDir(), "state.db")

	db, err := state.NewSQLite(statePath)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	_ = db.StartSession(ctx, state.Session{ID: "s1", Source: "dir", StartTS: time.Now()})
	_ = db.RecordVisit(ctx, state.Visit{SessionID: "s1", PuzzleID: "b2", TS: time.Now()})
	_ = db.RecordSubmission(ctx, state.Submission{SessionID: "s1", PuzzleID: "b2", Passed: true, TS: time.Now()})
	db.Close()

	out, err := run(t, "list", "--stats", "--data", dir, "--state", statePath)
	if err != nil {
		t.Fatalf("list --stats: %v", err)
	}
	for _, want := range []string{"PUZZLE", "a1", "b2", "yes", "1 sessions, 1 visits, 1/2 puzzles solved"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestListCommandStatsWithoutHistory(t *testing.T) {
	out, err := run(t, "list", "--stats", "--data", dataDir(t, "a1"), "--no-history")
	if !errors.Is(err, errStatsNeedHistory) {
		t.Fatalf("expected history error, got %v", err)
	}
	if out != "" {
		t.Fatalf("stats request should not fall back to a plain list:\n%s", out)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := dataDir(t, "a1")
	out, err := run(t, "check", "a1", "--plain", "--data", dir, "--no-history")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "# Puzzle a1") || !strings.Contains(out, "scaled by 1x2") {
		t.Fatalf("unexpected summary:\n%s", out)
	}

	_, err = run(t, "check", "zz", "--data", dir, "--no-history")
	if !errors.Is(err, puzzles.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"train":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = run(t, "check", "bad", "--data", dir, "--no-history")
	if !errors.Is(err, puzzles.ErrMalformedDocument) {
		t.Fatalf("expected malformed document, got %v", err)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := dataDir(t, "a1")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	body := "remote_url: http://example.invalid\nui:\n  style_variant: retro_terminal\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "list", "--config", cfgPath, "--data", dir, "--no-history")
	if err != nil {
		t.Fatalf("--data should replace the configured remote: %v", err)
	}
	if out != "a1\n" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := run(t, "list", "--data", dir, "--remote", "http://example.invalid", "--no-history"); err == nil {
		t.Fatalf("expected error when both sources are given")
	}
	if _, err := run(t, "list", "--data", dir, "--style", "neon", "--no-history"); err == nil {
		t.Fatalf("expected invalid style error")
	}
}
