package logger

import (
	"log/slog"

	"github.com/pkg/errors"
)

// NewLogger creates a slog.Logger writing to stderr at the given level.
// Stdout is reserved for CSV output, so all diagnostics go to stderr.
func NewLogger(logLevel string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, errors.WithStack(err)
	}

	return slog.New(newTextHandler(&slog.HandlerOptions{
		Level: level,
	})), nil
}

func NewDefaultLogger() *slog.Logger {
	l, _ := NewLogger("INFO")
	return l
}
