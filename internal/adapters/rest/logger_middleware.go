package rest

import (
	"net/http"
	"time"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const traceHeader = "X-Trace-ID"

// LoggerMiddleware берет trace_id из заголовка (или генерирует), кладет в контекст
// логгер запроса и пишет итог запроса. 5xx пишутся как Warn.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, requestLogger, traceID := contextkeys.StartTrace(r.Context(), logger, r.Header.Get(traceHeader))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(traceHeader, traceID)
			started := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := port.Fields{
				"http_method":   r.Method,
				"http_path":     r.URL.Path,
				"remote_addr":   r.RemoteAddr,
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(started).Milliseconds(),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				fields["route"] = rctx.RoutePattern()
			}

			if ww.Status() >= http.StatusInternalServerError {
				requestLogger.Warn("Request failed", fields)
				return
			}
			requestLogger.Info("Request finished", fields)
		})
	}
}
