package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Logger struct {
	l *zap.Logger
}

func New(ctx context.Context) (context.Context, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("error creating new logger: %w", err)
	}
	ctx = context.WithValue(ctx, "logger", &Logger{logger})

	return ctx, nil
}

// WithLogger carries an existing logger into another context, e.g. from the
// process context into a request context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, "logger", l)
}

// NewNop puts a no-op logger into the context, for tests.
func NewNop(ctx context.Context) context.Context {
	return context.WithValue(ctx, "logger", &Logger{zap.NewNop()})
}

func GetLogger(ctx context.Context) *Logger {
	if l, ok := ctx.Value("logger").(*Logger); ok {
		return l
	}
	return &Logger{zap.NewNop()}
}

func (logger *Logger) Info(msg string, fields ...zap.Field) {
	logger.l.Info(msg, fields...)
}

func (logger *Logger) Warn(msg string, fields ...zap.Field) {
	logger.l.Warn(msg, fields...)
}

func (logger *Logger) Error(msg string, fields ...zap.Field) {
	logger.l.Error(msg, fields...)
}

func (logger *Logger) Fatal(msg string, fields ...zap.Field) {
	logger.l.Fatal(msg, fields...)
}
