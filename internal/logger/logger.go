package logger

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init инициализирует глобальный логгер.
// format: "json" или "text"
func Init(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get возвращает дефолтный логгер
func Get() *slog.Logger {
	if defaultLogger == nil {
		Init("info", "text")
	}
	return defaultLogger
}

// Info логирует на уровне info
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Debug логирует на уровне debug
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Warn логирует на уровне warn
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error логирует на уровне error
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// Fatal логирует на уровне error и завершает программу
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}

// With возвращает логгер с заданными атрибутами
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}
