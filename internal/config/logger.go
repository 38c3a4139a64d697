package config

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMu  sync.RWMutex
	logger = zap.NewNop()
)

// SetLogger replaces the package logger and returns a func restoring the
// previous one. Tests use it to capture log output.
func SetLogger(l *zap.Logger) func() {
	logMu.Lock()
	prev := logger
	logger = l
	logMu.Unlock()

	return func() { SetLogger(prev) }
}

// Logger returns the current package logger.
func Logger() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// Public methods
func LogInfo(ctx context.Context, msg string, fields ...zap.Field) {
	writeToLog(ctx, zapcore.InfoLevel, msg, fields)
}

func LogError(ctx context.Context, msg string, fields ...zap.Field) {
	writeToLog(ctx, zapcore.ErrorLevel, msg, fields)
}

func LogDebug(ctx context.Context, msg string, fields ...zap.Field) {
	writeToLog(ctx, zapcore.DebugLevel, msg, fields)
}

// Private methods
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Named("framemetrics").WithOptions(zap.AddCallerSkip(2)), nil
}

func writeToLog(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	l := Logger()

	ce := l.Check(level, msg)
	if ce == nil {
		return
	}

	fields = append(fields, zap.String("cid", GetContextCorrelationId(ctx)))
	if created := GetContextTimeCreated(ctx); created != -1 {
		fields = append(fields, zap.Duration("since", sinceCreated(created)))
	}
	ce.Write(fields...)
}

func sinceCreated(created int64) time.Duration {
	return time.Since(time.Unix(created, 0)).Truncate(100 * time.Millisecond)
}
