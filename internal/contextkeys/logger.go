package contextkeys

import (
	"context"

	"offplan-service/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger кладет логгер запроса/прогона в контекст.
// Use cases и адаптеры берут его через LoggerFromContext и добавляют свои поля.
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext никогда не возвращает nil
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok {
		return logger
	}
	return noop
}

// NoopLogger нужен тестам и компонентам, собранным без логгера
func NoopLogger() port.LoggerPort {
	return noop
}

var noop port.LoggerPort = noopLogger{}

type noopLogger struct{}

func (noopLogger) Debug(string, port.Fields)                {}
func (noopLogger) Info(string, port.Fields)                 {}
func (noopLogger) Warn(string, port.Fields)                 {}
func (noopLogger) Error(string, error, port.Fields)         {}
func (n noopLogger) WithFields(port.Fields) port.LoggerPort { return n }
