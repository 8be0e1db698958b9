package observability

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"commitnotes/internal/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	Encoding string // "console" or "json"
	Output   io.Writer

	// FilePath enables a rotating log file next to the console output
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	Service string
	Version string
}

// NewLogger builds a zap logger. Console output goes to Output (stderr by
// default) so stdout stays reserved for command output.
func NewLogger(config LoggerConfig) (*zap.Logger, error) {
	level, err := LogLevelFromString(config.Level)
	if err != nil {
		return nil, err
	}

	if config.Output == nil {
		config.Output = os.Stderr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(config.Encoding, encoderCfg), zapcore.AddSync(config.Output), level),
	}

	if config.FilePath != "" {
		if err := common.EnsureDir(filepath.Dir(config.FilePath)); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    withDefault(config.MaxSizeMB, 10),
			MaxBackups: withDefault(config.MaxBackups, 3),
			MaxAge:     withDefault(config.MaxAgeDays, 28),
		}
		// Files always get JSON so they stay machine readable.
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotating), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if config.Service != "" {
		logger = logger.With(zap.String("service", config.Service))
	}
	if config.Version != "" {
		logger = logger.With(zap.String("version", config.Version))
	}
	return logger, nil
}

func newEncoder(encoding string, cfg zapcore.EncoderConfig) zapcore.Encoder {
	if strings.EqualFold(encoding, "json") {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// LogLevelFromString converts a level name to a zap level. Empty means info.
func LogLevelFromString(level string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "":
		return zapcore.InfoLevel, nil
	case "WARNING":
		return zapcore.WarnLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.Set(strings.ToLower(strings.TrimSpace(level))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

func withDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
