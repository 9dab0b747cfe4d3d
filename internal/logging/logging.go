// Package logging builds log/slog loggers and holds the process-wide one.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses "text" or "json"; empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want text or json)", s)
	}
}

// Options configures New.
type Options struct {
	Level  slog.Level
	Format Format
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

var (
	// logger is the process-wide logger
	logger = Discard()
	// enabled indicates if debug logging is enabled
	enabled bool
	mu      sync.RWMutex
)

// Init configures the process-wide logger. With debug set, debug records are
// written to os.Stderr; otherwise only warnings and errors are.
func Init(debug bool, format Format) {
	mu.Lock()
	defer mu.Unlock()

	enabled = debug
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger = New(os.Stderr, Options{Level: level, Format: format})
}

// Enabled returns whether debug logging is enabled
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Logger returns the process-wide logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
