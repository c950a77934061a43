package contextkeys

import (
	"context"

	"offplan-service/internal/core/port"

	"github.com/google/uuid"
)

type traceKey struct{}

// ContextWithTraceID кладет trace_id в контекст. Пустой id не сохраняется.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceKey{}, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}

// StartTrace открывает трассу для входящего события: берет traceID
// (или генерирует новый, если он пуст), привязывает его к логгеру base
// и кладет оба значения в ctx.
func StartTrace(ctx context.Context, base port.LoggerPort, traceID string) (context.Context, port.LoggerPort, string) {
	if traceID == "" {
		traceID = uuid.NewString()
	}
	if base == nil {
		base = noop
	}
	traced := base.WithFields(port.Fields{"trace_id": traceID})
	ctx = ContextWithLogger(ContextWithTraceID(ctx, traceID), traced)
	return ctx, traced, traceID
}

// Detach переносит логгер и trace_id из src в parent: результат
// отменяется вместе с parent, а не с src.
func Detach(parent, src context.Context) context.Context {
	return ContextWithTraceID(
		ContextWithLogger(parent, LoggerFromContext(src)),
		TraceIDFromContext(src),
	)
}
