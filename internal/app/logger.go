package app

import (
	"io"
	"log/slog"
)

// newLogger builds the per-App logger. Unknown levels fall back to info; the
// debug level also records source positions. It never touches slog.Default.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("component", "measched")
}
