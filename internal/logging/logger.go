package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a level name to a zap level. Unknown or empty names yield info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a JSON logger writing to a rotating file at path.
// LOG_LEVEL, when set, overrides level. The returned func flushes the logger.
func New(path, level string) (*zap.Logger, func(), error) {
	if path == "" {
		return nil, nil, fmt.Errorf("log file path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    2, // megabytes
		MaxBackups: 5,
		MaxAge:     15, // days
		Compress:   true,
	})

	cfg := zap.NewProductionConfig()
	encoder := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	fileCore := zapcore.NewCore(encoder, fileWriter, ParseLevel(level))

	logger := zap.New(fileCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named("synapsectl")
	return logger, func() { _ = logger.Sync() }, nil
}
