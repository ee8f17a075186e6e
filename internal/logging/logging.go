// Package logging builds the structured loggers used across the CLI.
package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
)

var defaultLogger atomic.Pointer[slog.Logger]

// New returns a logger writing to w. format "json" selects the JSON
// handler, anything else the text handler. level accepts debug, info,
// warn and error; unknown values mean info.
func New(format, level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Default returns the process-wide logger. Until SetDefault is called it
// discards everything, which keeps the alt-screen TUI clean.
func Default() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *slog.Logger) {
	defaultLogger.Store(l)
}

// OpenFile opens path for appending log lines, creating parent dirs.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, goerr.Wrap(err, "create log dir", goerr.V("path", path))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, goerr.Wrap(err, "open log file", goerr.V("path", path))
	}
	return f, nil
}

// ErrAttrs expands err into slog key/value pairs, including goerr values
// and the innermost stack when present.
func ErrAttrs(err error) []any {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	var ge *goerr.Error
	if errors.As(err, &ge) {
		if values := ge.Values(); len(values) > 0 {
			attrs = append(attrs, "values", values)
		}
		if stacks := ge.Stacks(); len(stacks) > 0 {
			attrs = append(attrs, "stack", stacks)
		}
	}
	return attrs
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
