// Package logging configures slog and persists error records.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs the default logger: JSON to stdout, fanned out to any extra
// handlers (the DB sink in production).
func Setup(debug bool, extra ...slog.Handler) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
