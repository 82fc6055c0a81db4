package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/serve/httperror"
)

// RecoverHandler turns a handler panic into a 500 response and reports it to the app tracker.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func RecoverHandler(appTracker apptracker.AppTracker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				//nolint:errorlint
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				ctx := r.Context()
				log.Ctx(ctx).Errorf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				httperror.InternalServerError(ctx, "", fmt.Errorf("recovered panic: %w", err), nil, appTracker).Render(w)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
