package infrastructure

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds a text logger at the given level, tagged with the module
// name.
func NewLogger(logLevel string, moduleName string) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler).With("module", moduleName)
}

// NewSilentLogger discards everything. Used when the host passes no logger.
func NewSilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
