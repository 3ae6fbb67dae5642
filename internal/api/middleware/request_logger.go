package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// quietPaths are polled by infrastructure and logged at debug.
var quietPaths = map[string]bool{"/healthz": true, "/readyz": true, "/metrics": true}

// RequestLogger attaches a request-scoped logger to the context and logs
// each request with its route pattern and, for tenant routes, the slug.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(reqLogger.WithContext(r.Context()))

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			level := zerolog.InfoLevel
			switch {
			case ww.status >= http.StatusInternalServerError:
				level = zerolog.ErrorLevel
			case quietPaths[r.URL.Path]:
				level = zerolog.DebugLevel
			}

			ev := reqLogger.WithLevel(level).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_ip", r.RemoteAddr).
				Int("status", ww.status).
				Int("bytes", ww.bytes).
				Dur("duration", time.Since(start))
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					ev = ev.Str("route", pattern)
				}
				if slug := rctx.URLParam("slug"); slug != "" {
					ev = ev.Str("slug", slug)
				}
			}
			if ww.Header().Get(DegradedHeader) != "" {
				ev = ev.Bool("degraded", true)
			}
			ev.Msg("request")
		})
	}
}
