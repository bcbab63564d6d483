package telemetry

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger writes JSON lines to a file. The terminal belongs to the UI, so
// nothing is ever written to stdout or stderr.
type Logger struct {
	*log.Logger
	mu sync.Mutex
	w  io.WriteCloser
}

// NewJSONLogger opens path for appending. An empty path discards output.
func NewJSONLogger(path, level string) (*Logger, error) {
	var w io.WriteCloser = nopCloser{Writer: io.Discard}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
	}
	l := log.NewWithOptions(w, log.Options{
		Formatter:       log.JSONFormatter,
		ReportTimestamp: true,
		Level:           ParseLevel(level),
	})
	return &Logger{Logger: l, w: w}, nil
}

// NewTextLogger writes human-readable lines to w. It is used by commands
// that do not own the terminal, such as the server.
func NewTextLogger(w io.Writer, level string) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           ParseLevel(level),
		Prefix:          "arcview",
	})
	return &Logger{Logger: l, w: nopCloser{Writer: w}}
}

// ParseLevel maps a config string to a log level, defaulting to info.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func (l *Logger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.w.Close()
	l.w = nil
	return err
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
