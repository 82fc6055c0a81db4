package serve

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/apptracker/dryrun"
	"github.com/anchor-protocol/anchor-txs/internal/data"
	"github.com/anchor-protocol/anchor-txs/internal/db"
	"github.com/anchor-protocol/anchor-txs/internal/metrics"
	"github.com/anchor-protocol/anchor-txs/internal/transactions"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

type fakeContainer struct {
	txService      transactions.Service
	metricsService metrics.MetricsService
}

var _ ServiceContainer = (*fakeContainer)(nil)

func (c *fakeContainer) GetTransactionService() transactions.Service { return c.txService }
func (c *fakeContainer) GetMetricsService() metrics.MetricsService   { return c.metricsService }
func (c *fakeContainer) GetModels() *data.Models                     { return nil }
func (c *fakeContainer) GetConnectionPool() db.ConnectionPool        { return nil }
func (c *fakeContainer) GetAppTracker() apptracker.AppTracker        { return &dryrun.DryRunTracker{} }
func (c *fakeContainer) Close()                                      {}

func (c *fakeContainer) GetSupportedTxTypes() mapset.Set[transactions.TxType] {
	return mapset.NewSet(transactions.AllTxTypes...)
}

func newTestHandler(t *testing.T, svc transactions.Service) http.Handler {
	t.Helper()
	return NewHandler(HandlerDependencies{ServiceContainer: &fakeContainer{
		txService:      svc,
		metricsService: metrics.NewMetricsService(nil),
	}})
}

func TestNewHandler(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTestHandler(t, &transactions.MockService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status": "ok", "database": "disabled"}`, rr.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		handler := newTestHandler(t, &transactions.MockService{})
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		body, err := io.ReadAll(rr.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "pipeline_active_streams")
		assert.Contains(t, string(body), `num_requests_total{endpoint="/health",method="GET",status_code="200"} 1`)
	})

	t.Run("not_found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTestHandler(t, &transactions.MockService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/markets", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error": "The resource at the url requested was not found."}`, rr.Body.String())
	})

	t.Run("run_history_disabled", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTestHandler(t, &transactions.MockService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tx/runs", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})

	t.Run("start_tx", func(t *testing.T) {
		stage := func(ctx context.Context, in tx.Snapshot[struct{}], emit tx.Emitter) (tx.Snapshot[struct{}], error) {
			emit(tx.Rendering{Phase: tx.PhasePost})
			emit(tx.Rendering{Phase: tx.PhaseFailed, FailedReason: &tx.ErrorRendering{Kind: tx.KindUserRejected}})
			return in, nil
		}
		stream := tx.Run(context.Background(), tx.Snapshot[struct{}]{}, stage)

		svc := &transactions.MockService{}
		svc.On("Start", mock.Anything, transactions.TxTypeRedeemCollateral, transactions.Request{
			Address: "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v",
			Amount:  "2.5",
		}).Return(stream, nil).Once()
		defer svc.AssertExpectations(t)

		body := `{"address": "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v", "amount": "2.5"}`
		rr := httptest.NewRecorder()
		newTestHandler(t, svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tx/redeem-collateral", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/x-ndjson", rr.Header().Get("Content-Type"))
		lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], `"failedReason":{"kind":"UserRejected","error":"UserRejected"}`)
	})
}
