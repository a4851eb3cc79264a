// Package logging wraps log/slog behind a small interface so the
// controller and adapters can log diagnostics without choosing a
// handler themselves.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Logger logs structured key-value pairs at the usual levels.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// With returns a logger with additional context fields.
	With(keysAndValues ...any) Logger
}

type Config struct {
	// Level is the minimum level: debug, info, warn, or error.
	Level string

	// Format is text or json.
	Format string

	Output io.Writer
}

type logger struct {
	slogger *slog.Logger
}

func New(cfg Config) Logger {
	if cfg.Output == nil {
		return NewNop()
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return &logger{slogger: slog.New(handler)}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &logger{slogger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func (l *logger) Debug(msg string, keysAndValues ...any) { l.slogger.Debug(msg, keysAndValues...) }
func (l *logger) Info(msg string, keysAndValues ...any)  { l.slogger.Info(msg, keysAndValues...) }
func (l *logger) Warn(msg string, keysAndValues ...any)  { l.slogger.Warn(msg, keysAndValues...) }
func (l *logger) Error(msg string, keysAndValues ...any) { l.slogger.Error(msg, keysAndValues...) }

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{slogger: l.slogger.With(keysAndValues...)}
}
