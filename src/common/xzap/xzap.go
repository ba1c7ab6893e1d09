// Package xzap is a thin zap wrapper: one global logger set up from config,
// retrieved either bare or bound to the trace id carried in a context.
package xzap

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConf struct {
	ServiceName string `toml:"service_name" mapstructure:"service_name" json:"service_name"`
	Mode        string `toml:"mode" mapstructure:"mode" json:"mode"` // console or file
	Path        string `toml:"path" mapstructure:"path" json:"path"`
	Level       string `toml:"level" mapstructure:"level" json:"level"`
	KeepDays    int    `toml:"keep_days" mapstructure:"keep_days" json:"keep_days"`
	Compress    bool   `toml:"compress" mapstructure:"compress" json:"compress"`
}

type ctxKey struct{}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// SetUp builds the global logger from config. File mode rotates through
// lumberjack; anything else logs to stdout.
func SetUp(c LogConf) (*zap.Logger, error) {
	level := zap.InfoLevel
	if c.Level != "" {
		if err := level.Set(c.Level); err != nil {
			return nil, err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "time"
	encCfg.MessageKey = "message"

	var core zapcore.Core
	if c.Mode == "file" && c.Path != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename: c.Path,
			MaxAge:   c.KeepDays,
			Compress: c.Compress,
		})
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), writer, level)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), level)
	}

	logger := zap.New(core)
	if c.ServiceName != "" {
		logger = logger.With(zap.String("service", c.ServiceName))
	}

	mu.Lock()
	global = logger
	mu.Unlock()
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// NewContext stores a trace id that WithContext will attach to log lines.
func NewContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

// WithContext returns the global logger bound to the context's trace id,
// when one is present.
func WithContext(ctx context.Context) *zap.Logger {
	logger := Logger()
	if ctx == nil {
		return logger
	}
	if traceID, ok := ctx.Value(ctxKey{}).(string); ok && traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
