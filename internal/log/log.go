package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	levelVar   = new(slog.LevelVar)
)

// initLogger initializes the global logger to write to stderr with a
// structured text handler.
func initLogger() {
	loggerOnce.Do(func() {
		levelVar.Set(slog.LevelInfo)
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: levelVar,
		})
		logger = slog.New(handler)
	})
}

// SetLevel adjusts the minimum log level. Accepted values: "debug", "info",
// "warn", "error"; anything else keeps "info".
func SetLevel(level string) {
	initLogger()
	switch strings.ToLower(level) {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "info":
		levelVar.Set(slog.LevelInfo)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Info(msg, kv...)
}

func Warn(msg string, kv ...any) {
	initLogger()
	logger.Warn(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	// Prepend error into the key-value list.
	extended := append([]any{"err", err}, kv...)
	logger.Error(msg, extended...)
}
