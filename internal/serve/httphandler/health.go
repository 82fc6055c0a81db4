package httphandler

import (
	"context"
	"net/http"
	"time"

	"github.com/stellar/go-stellar-sdk/support/render/httpjson"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/serve/httperror"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by the history database connection pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	// DB is nil when run history is disabled.
	DB         Pinger
	AppTracker apptracker.AppTracker
}

func (h HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	database := "disabled"
	if h.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		defer cancel()
		if err := h.DB.Ping(pingCtx); err != nil {
			httperror.InternalServerError(ctx, "History database is unreachable.", err, nil, h.AppTracker).Render(w)
			return
		}
		database = "ok"
	}

	httpjson.Render(w, map[string]interface{}{
		"status":   "ok",
		"database": database,
	}, httpjson.JSON)
}
