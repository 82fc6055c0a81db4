package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/anchor-protocol/anchor-txs/internal/metrics"
)

// MetricsMiddleware creates a middleware that tracks HTTP request metrics
func MetricsMiddleware(metricsService metrics.MetricsService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			endpoint := routePattern(r)
			duration := time.Since(startTime).Seconds()
			metricsService.ObserveRequestDuration(endpoint, r.Method, duration)
			metricsService.IncNumRequests(endpoint, r.Method, rw.statusCode)
		})
	}
}

// routePattern labels requests by the matched route so path parameters like run ids do not create new series.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

var _ http.Flusher = (*responseWriter)(nil)

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	// If WriteHeader hasn't been called yet, we assume it's a 200
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

// Flush lets streaming handlers push progress lines through the wrapper.
func (rw *responseWriter) Flush() {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
