// Package logging provides structured JSON logging for the call core.
// It wraps Go's built-in log/slog with a small setup helper so the CLI and
// tests can reconfigure level and format in one place.
package logging

import (
	"log/slog"
	"os"
)

// Logger is the package-level structured logger. Components should derive
// their own via For(component).
var Logger *slog.Logger

func init() {
	Setup("info", "json")
}

// Setup (re-)initialises the package logger. level is one of
// debug/info/warn/error (default info). format is "json" (default) or "text".
func Setup(level, format string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// For returns a logger pre-annotated with the component name.
func For(component string) *slog.Logger {
	return Logger.With("component", component)
}
