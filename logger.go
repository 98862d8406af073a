package vstack

import (
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with container-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
	warn *rate.Sometimes // nil logs every warning
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithWarnInterval returns a logger that emits at most one failure warning
// per interval. Containers that fail in a hot loop (a retrying producer
// hitting its memory budget) would otherwise flood the handler.
// Errors from Close are never suppressed.
func (l *Logger) WithWarnInterval(interval time.Duration) *Logger {
	if interval <= 0 {
		return &Logger{Logger: l.Logger}
	}
	return &Logger{
		Logger: l.Logger,
		warn:   &rate.Sometimes{First: 1, Interval: interval},
	}
}

// WithContainer tags the logger with a container kind, version and stride.
// The warning budget is shared with l.
func (l *Logger) WithContainer(kind string, v Version, stride int) *Logger {
	return &Logger{
		Logger: l.Logger.With("container", kind, "version", v.String(), "stride", stride),
		warn:   l.warn,
	}
}

func (l *Logger) warnf(msg string, args ...any) {
	if l.warn == nil {
		l.Warn(msg, args...)
		return
	}
	l.warn.Do(func() { l.Warn(msg, args...) })
}

// LogGrow logs a capacity change.
func (l *Logger) LogGrow(oldCap, newCap, length int, err error) {
	if err != nil {
		l.warnf("reallocation failed",
			"old_capacity", oldCap,
			"new_capacity", newCap,
			"length", length,
			"error", err,
		)
		return
	}
	l.Debug("reallocated",
		"old_capacity", oldCap,
		"new_capacity", newCap,
		"length", length,
	)
}

// LogHookFailed logs a constructor or copy hook returning an error.
func (l *Logger) LogHookFailed(kind HookKind, index int, err error) {
	l.warnf("element hook failed",
		"hook", kind.String(),
		"index", index,
		"error", err,
	)
}

// LogClose logs container teardown.
func (l *Logger) LogClose(destroyed int, err error) {
	if err != nil {
		l.Error("close failed",
			"destroyed", destroyed,
			"error", err,
		)
		return
	}
	l.Debug("closed",
		"destroyed", destroyed,
	)
}
