package logging

import (
	"io"
	"log/slog"
	"os"
)

// SetupJSON sets slog's default logger to JSON output at the given level,
// tagging every record with the service name, and returns it.
func SetupJSON(level slog.Level, service string) *slog.Logger {
	logger := New(os.Stdout, level).With("service", service)
	slog.SetDefault(logger)

	return logger
}

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything; meant for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
