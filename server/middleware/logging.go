package middleware

import (
	"net/http"
	"time"

	"github.com/RangaDM/shopfront/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code, and duration. Probe paths are silently skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbeEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sw.status,
				"duration_ms": duration.Milliseconds(),
			}
			if id := r.Header.Get("X-Request-Id"); id != "" {
				fields[logger.FieldRequestID] = id
			}

			logByStatus(log, fields, sw.status)
		})
	}
}

// isProbeEndpoint reports whether the path is polled by orchestration
// probes; those requests are not worth logging.
func isProbeEndpoint(path string) bool {
	switch path {
	case "/health", "/live", "/ready":
		return true
	}
	return false
}

// logByStatus logs request fields at the level matching the HTTP status.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
