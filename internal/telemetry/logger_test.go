package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestJSONLoggerWritesStructuredLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "arcview.log")
	l, err := NewJSONLogger(path, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Info("puzzle.loaded", "id", "007bbfb7", "train", 5)
	l.Debug("nav.stale_discarded", "seq", 3)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), b)
	}
	if !strings.Contains(lines[0], `"msg":"puzzle.loaded"`) || !strings.Contains(lines[0], `"id":"007bbfb7"`) {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}

func TestEmptyPathDiscards(t *testing.T) {
	l, err := NewJSONLogger("", "")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Error("ignored")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel(" WARN ") != log.WarnLevel {
		t.Fatalf("expected warn level")
	}
	if ParseLevel("bogus") != log.InfoLevel {
		t.Fatalf("unknown levels should default to info")
	}
}

func TestTextLoggerRespectsLevel(t *testing.T) {
	var b strings.Builder
	l := NewTextLogger(&b, "warn")
	l.Info("server.listening", "addr", ":8080")
	l.Warn("list.failed", "err", "boom")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	out := b.String()
	if strings.Contains(out, "server.listening") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "list.failed") || !strings.Contains(out, "err=boom") {
		t.Fatalf("expected warn line, got %q", out)
	}
}
