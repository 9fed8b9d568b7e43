package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger configures the global logger based on the configuration.
// Logs go to stderr, since stdout carries command output and the MCP stdio
// transport, and additionally to a rotating file when app.log_file is set.
// The returned func closes the file.
func SetupLogger(app AppConfig) (*slog.Logger, func()) {
	var out io.Writer = os.Stderr
	closeFn := func() {}

	if app.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   app.LogFile,
			MaxSize:    app.LogMaxSizeMB,
			MaxBackups: app.LogMaxBackups,
			MaxAge:     app.LogMaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, rotating)
		closeFn = func() { _ = rotating.Close() }
	}

	logger := NewLogger(out, app.LogLevel)
	slog.SetDefault(logger)
	return logger, closeFn
}

// NewLogger builds a JSON logger writing to w at the named level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	logLevel := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel == slog.LevelDebug, // Add source file/line in debug mode
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LoggerFromContext retrieves a logger from context or returns the default logger
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ContextWithLogger adds a logger to the context
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

type contextKey string

const loggerKey contextKey = "logger"
