package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/crewcall-app/crewcall-engine/pkg/config"
)

// NewLogger builds the crewctl logger: a console core at the configured
// level, teed into a rotating JSON log file when file logging is enabled.
// The file core always records debug detail so a finished run can be
// diagnosed even when the console ran at info.
func NewLogger(cfg config.LoggingConfig, verbose bool) *zap.Logger {
	consoleLevel := parseLevel(cfg.Level)
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		consoleLevel,
	)

	if cfg.File == "" {
		return zap.New(consoleCore)
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}),
		zapcore.DebugLevel,
	)

	return zap.New(zapcore.NewTee(consoleCore, fileCore))
}

// parseLevel maps a configured level name to a zap level, defaulting to
// info on anything unrecognized.
func parseLevel(s string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}
