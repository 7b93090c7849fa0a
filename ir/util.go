package ir

import (
	"context"
	"log/slog"
)

const (
	// LevelTrace sits below Debug, so the default logger drops trace
	// records unless a handler enables it explicitly.
	LevelTrace slog.Level = slog.LevelDebug - 4
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
