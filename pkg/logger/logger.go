package logger

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Options selects the handler and level used by Init.
type Options struct {
	Env    string
	Level  string
	Format string
}

func Init(opts Options) {
	level := ParseLevel(opts.Level)
	if opts.Level == "" {
		level = slog.LevelDebug
		if opts.Env == "production" {
			level = slog.LevelInfo
		}
	}

	format := opts.Format
	if format == "" {
		format = "text"
		if opts.Env == "production" {
			format = "json"
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
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

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init(Options{Env: "development"})
	}
	return defaultLogger
}
