// Package debuglog is the append-only diagnostics sink for the rename
// pipeline. It can never fail the caller: if the log destination cannot be
// opened or written, entries are discarded.
package debuglog

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// Logger writes one line per pipeline stage transition. Every line carries a
// per-invocation run id so lines from overlapping startups can be correlated.
type Logger struct {
	log   *slog.Logger
	runID string
	file  io.Closer
}

// newRunID generates a ULID for this invocation.
func newRunID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Open creates a Logger appending to path. Any failure to open the
// destination returns a nop logger instead of an error.
func Open(path string) *Logger {
	if path == "" {
		return Nop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Nop()
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return Nop()
	}
	return &Logger{
		log:   slog.New(slog.NewTextHandler(f, nil)),
		runID: newRunID(),
		file:  f,
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		runID: newRunID(),
	}
}

// NewWithWriter creates a Logger writing to w. Used by tests to capture output.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		log:   slog.New(slog.NewTextHandler(w, nil)),
		runID: newRunID(),
	}
}

// Stage records one stage transition with its outcome and any extra attrs.
func (l *Logger) Stage(stage, outcome string, attrs ...slog.Attr) {
	all := make([]slog.Attr, 0, len(attrs)+2)
	all = append(all, slog.String("run", l.runID), slog.String("outcome", outcome))
	all = append(all, attrs...)
	l.log.LogAttrs(context.Background(), slog.LevelInfo, stage, all...)
}

// Close releases the underlying file, if any.
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}
