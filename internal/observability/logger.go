// Package observability provides structured logging and metrics for the client.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger wraps slog with component-specific context.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level string, component string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return &Logger{Logger: slog.New(handler).With("component", component)}
}

// NewFileLogger opens (appending) path and returns a logger writing to it.
// The TUI owns stdout, so interactive sessions always log to a file.
func NewFileLogger(path, level, component string) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return NewLogger(f, level, component), f, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return NewLogger(io.Discard, "error", "nop")
}

// ParseLevel maps debug/info/warn/error to slog levels; unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a logger with extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Search logs a search-related event.
func (l *Logger) Search(msg string, args ...any) {
	l.Info(msg, append([]any{"subsystem", "search"}, args...)...)
}

// HTTP logs an HTTP-related event.
func (l *Logger) HTTP(msg string, args ...any) {
	l.Debug(msg, append([]any{"subsystem", "http"}, args...)...)
}

// UI logs a UI-related event.
func (l *Logger) UI(msg string, args ...any) {
	l.Debug(msg, append([]any{"subsystem", "ui"}, args...)...)
}
