// Package logger wires a process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

// Init configures the default logger. Text output by default; DEBUG=true
// lowers the level, LOG_FORMAT=json switches handlers for CI log collection.
func Init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func active() *slog.Logger {
	if Logger == nil {
		return slog.Default()
	}
	return Logger
}

func Info(msg string, args ...any) {
	active().Info(msg, args...)
}

func Error(msg string, args ...any) {
	active().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	active().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	active().Warn(msg, args...)
}
