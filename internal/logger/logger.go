// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a config level name onto a slog level, defaulting to info.
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

// New builds a text logger writing to w and installs it as the slog default.
func New(level string, w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(ParseLevel(level))

	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(l)
	return l
}
