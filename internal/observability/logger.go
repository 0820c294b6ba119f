// Package observability builds the zap logger shared by the viewer.
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/daviddao/agents_catalog_viewer/internal/config"
)

// ServiceName prefixes every logger name.
const ServiceName = "acv"

// NewLogger returns a JSON logger writing to the rotated log file named in
// cfg. The TUI owns the terminal, so without a log file the result is a no-op
// logger.
func NewLogger(cfg config.LoggerConfig) *zap.Logger {
	if cfg.LogFile == "" {
		return zap.NewNop()
	}
	// lumberjack handles rotation and serializes writes.
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
	return newLogger(cfg.Level, w)
}

func newLogger(level string, w zapcore.WriteSyncer) *zap.Logger {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zap.InfoLevel)
	}
	core := zapcore.NewCore(newEncoder(), w, lvl)
	return zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named(ServiceName)
}

func newEncoder() zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(ec)
}
