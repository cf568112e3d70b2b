// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// New returns a logger writing to w. Format "console" selects the colored
// human-readable handler; anything else emits one JSON object per line with
// the timestamp under "ts" rendered in loc.
func New(w io.Writer, format, level string, loc *time.Location) *slog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	lvl := ParseLevel(level)
	if strings.EqualFold(format, "console") {
		return slog.New(NewConsoleHandler(w, lvl, loc))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			}
			return a
		},
	}))
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
