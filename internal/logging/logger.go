package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs the process-wide slog logger. Production-like environments log
// JSON; everything else gets the text handler. Extra handlers receive the same
// records.
func Setup(level, env string, extra ...slog.Handler) *slog.Logger {
	logger := slog.New(NewMultiHandler(append([]slog.Handler{newHandler(os.Stdout, level, env)}, extra...)...))
	slog.SetDefault(logger)
	return logger
}

func newHandler(w io.Writer, level, env string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	switch env {
	case "production", "staging":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

func ParseLevel(level string) slog.Level {
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
