package adapter

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls the rotating log file shared by the library entry points
// and the CLI.
type LogConfig struct {
	Filename   string
	Level      slog.Level
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// ConfigureLogger installs a rotating-file text handler as the default slog
// logger. Test output never goes through slog; this is diagnostics only.
func ConfigureLogger(cfg LogConfig) *slog.Logger {
	if cfg.Filename == "" {
		cfg.Filename = ".bespec.log"
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.Level,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
