package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the application logger. It writes to Stderr so diagnostics stay
// out of the conversation transcript on Stdout, and standardizes the error
// key to "err".
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ForDebug returns a debug-level logger when enabled, otherwise a nop logger.
// Sessions default to silent so the terminal stays clean.
func ForDebug(enabled bool) *slog.Logger {
	if enabled {
		return New(slog.LevelDebug)
	}
	return NewNop()
}
