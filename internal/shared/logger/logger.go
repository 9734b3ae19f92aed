package logger

import (
	"io"
	"log/slog"
	"os"

	"planets-mapgen/internal/shared/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

func Init() {
	if config.GlobalConfig == nil {
		panic("config must be initialized before logger")
	}

	logConfig := config.GlobalConfig.Logging
	slog.SetDefault(New(logConfig, os.Stdout))

	logger := slog.With("component", "logger")
	logger.Debug("Logger initialized",
		"level", logConfig.Level,
		"json_format", logConfig.JSONFormat,
		"file", logConfig.File,
		"environment", config.GlobalConfig.Server.Environment,
	)
}

// New builds a logger writing to out and, when configured, a rotating file.
func New(logConfig config.LoggingConfig, out io.Writer) *slog.Logger {
	writer := out
	if logConfig.File != "" {
		writer = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   logConfig.File,
			MaxSize:    logConfig.MaxSizeMB,
			MaxBackups: logConfig.MaxBackups,
			MaxAge:     logConfig.MaxAgeDays,
			LocalTime:  true,
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{Level: parseLogLevel(logConfig.Level)}

	var handler slog.Handler
	if logConfig.JSONFormat {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
