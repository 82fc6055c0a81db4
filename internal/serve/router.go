package serve

import (
	"net/http"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anchor-protocol/anchor-txs/internal/serve/httperror"
	"github.com/anchor-protocol/anchor-txs/internal/serve/httphandler"
	"github.com/anchor-protocol/anchor-txs/internal/serve/middleware"
)

// NewHandler creates the main HTTP handler with all routes configured
func NewHandler(deps HandlerDependencies) http.Handler {
	container := deps.ServiceContainer

	mux := chi.NewRouter()
	mux.NotFound(httperror.ErrorHandler{Error: httperror.NotFound}.ServeHTTP)
	mux.MethodNotAllowed(httperror.ErrorHandler{Error: httperror.MethodNotAllowed}.ServeHTTP)

	setupMiddleware(mux, container)
	setupPublicRoutes(mux, container)
	setupTransactionRoutes(mux, container)

	return mux
}

func setupMiddleware(mux *chi.Mux, container ServiceContainer) {
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware(container.GetMetricsService()))
	mux.Use(middleware.RecoverHandler(container.GetAppTracker()))
}

func setupPublicRoutes(mux *chi.Mux, container ServiceContainer) {
	healthHandler := httphandler.HealthHandler{AppTracker: container.GetAppTracker()}
	if pool := container.GetConnectionPool(); pool != nil {
		healthHandler.DB = pool
	}
	mux.Get("/health", healthHandler.GetHealth)

	mux.Get("/metrics", promhttp.HandlerFor(
		container.GetMetricsService().GetRegistry(),
		promhttp.HandlerOpts{},
	).ServeHTTP)
}

func setupTransactionRoutes(mux *chi.Mux, container ServiceContainer) {
	mux.Route("/tx", func(r chi.Router) {
		if models := container.GetModels(); models != nil {
			runsHandler := &httphandler.TxRunsHandler{
				TxRuns:     models.TxRuns,
				AppTracker: container.GetAppTracker(),
			}
			r.Get("/runs", runsHandler.ListTxRuns)
			r.Get("/runs/{id}", runsHandler.GetTxRun)
		}

		txHandler := &httphandler.TxHandler{
			TxService:        container.GetTransactionService(),
			SupportedTxTypes: container.GetSupportedTxTypes(),
			AppTracker:       container.GetAppTracker(),
		}
		r.Post("/{txType}", txHandler.StartTx)
	})
}
