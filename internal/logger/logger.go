package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"invoiceflow/internal/config"
)

// New builds a zap logger from the log config. Unknown levels fall back to info.
// Format "json" uses the production encoder; anything else uses the console encoder.
func New(cfg *config.LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.MessageKey = "message"
	zc.EncoderConfig.LevelKey = "level"
	zc.EncoderConfig.CallerKey = "caller"

	return zc.Build()
}
