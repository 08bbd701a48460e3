package config

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the JSON application logger. Entries also go to a rotated
// file when Log.File is set.
func NewLogger(cfg Log) (*otelzap.Logger, error) {
	level := zapcore.InfoLevel

	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "timestamp"

	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxSizeMB),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAgeDays),
			Compress:   cfg.Compress,
		}

		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	return otelzap.New(zapLogger), nil
}

// NewQueryLogger is the logger handed to the SQL statement loggers.
func NewQueryLogger(cfg Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)

	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("component", "sql").Logger()
}
