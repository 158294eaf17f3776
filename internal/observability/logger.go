package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON lines, debug in dev, and trace
// correlation ids when a span is active on the record's context.
func NewLogger(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler)).With("service", "bintrack")
}
