package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/warp/netpay-engine/observability"
	"go.uber.org/zap"
)

// accessLog logs every request through zap and feeds the HTTP metrics.
// It must run after middleware.RequestID.
func accessLog(log *zap.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)
			metrics.ObserveHTTP(r.Method, route, status, elapsed)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", elapsed),
			}
			l := observability.WithContext(r.Context(), log)
			switch {
			case status >= http.StatusInternalServerError:
				l.Error("http request", fields...)
			case r.URL.Path == "/healthz" || r.URL.Path == "/metrics":
				l.Debug("http request", fields...)
			default:
				l.Info("http request", fields...)
			}
		})
	}
}
