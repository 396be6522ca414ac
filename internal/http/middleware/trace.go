package middleware

import (
	"net/http"
	"time"

	"github.com/davidbz/hoverlate/internal/observability"
)

// Request headers the host may use to correlate its logs with ours.
const (
	RequestIDHeader   = "X-Request-Id"
	TraceIDHeader     = "X-Trace-Id"
	TraceparentHeader = "Traceparent"
)

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Trace tags every request with the host's request id and trace, generating
// them when absent, and logs each request once it has been answered.
func Trace() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := observability.RequestIDFromHeader(r.Header.Get(RequestIDHeader))
			traceID := observability.TraceIDFromTraceparent(r.Header.Get(TraceparentHeader))

			ctx := observability.WithRequestID(r.Context(), requestID)
			ctx = observability.WithTraceID(ctx, traceID)

			w.Header().Set(RequestIDHeader, requestID)
			w.Header().Set(TraceIDHeader, traceID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			logger := observability.FromContext(ctx)
			fields := []observability.Field{
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.Int("status", rec.status),
				observability.Duration("elapsed", time.Since(start)),
			}

			// 204 on /v1/hover is the normal "nothing to show" answer.
			if rec.status >= http.StatusInternalServerError {
				logger.Warn("request failed", fields...)
				return
			}
			logger.Debug("request served", fields...)
		})
	}
}
