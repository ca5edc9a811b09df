// Package logging configures structured logging for the partio binaries.
//
// Usage:
//
//	logging.Setup(cfg.LogLevel, cfg.LogFormat) // tint for text, slog JSON for json
//
// Levels: debug, info, warn, error (default: info).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup installs the default logger for the given level and format. Format
// "json" writes slog JSON to stdout for log collectors; anything else writes
// colored text to stderr.
func Setup(level, format string) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, os.Stdout, ParseLevel(level), format)))
}

// NewHandler builds the handler Setup installs. Text goes to textOut and JSON
// to jsonOut.
func NewHandler(textOut, jsonOut io.Writer, level slog.Level, format string) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(jsonOut, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(textOut, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    !isTerminal(textOut),
	})
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
