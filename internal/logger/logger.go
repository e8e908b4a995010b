package logger

import (
	"io"
	"log/slog"
	"strings"
)

var Logger *slog.Logger = slog.Default()

// Configure replaces the process-wide logger, and the slog default, with one
// built by New.
func Configure(w io.Writer, debug bool, format string) {
	Logger = New(w, debug, format)
	slog.SetDefault(Logger)
}

// New builds a logger writing to w. format "json" selects the JSON handler,
// anything else the text handler.
func New(w io.Writer, debug bool, format string) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OrDefault returns l, or the process-wide logger when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Logger
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
