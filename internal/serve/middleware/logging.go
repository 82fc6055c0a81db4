package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/stellar/go-stellar-sdk/support/log"
)

// LoggingMiddleware attaches a request scoped logger to the context and logs each finished request.
// It expects chi's RequestID middleware to run first.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		logger := log.Ctx(r.Context()).WithFields(log.F{
			"req_id": chimiddleware.GetReqID(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
		})
		r = r.WithContext(log.Set(r.Context(), logger))

		rw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)

		logger.WithFields(log.F{
			"status":   rw.statusCode,
			"duration": time.Since(startTime).Seconds(),
		}).Info("finished request")
	})
}
