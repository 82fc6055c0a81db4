package serve

import (
	"context"
	"net/http"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jmoiron/sqlx"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/data"
	"github.com/anchor-protocol/anchor-txs/internal/db"
	"github.com/anchor-protocol/anchor-txs/internal/metrics"
	"github.com/anchor-protocol/anchor-txs/internal/transactions"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

// DatabaseProvider provides the run history database
type DatabaseProvider interface {
	GetConnectionPool() db.ConnectionPool
	GetDB(ctx context.Context) (*sqlx.DB, error)
	Close() error
}

// HTTPClientProvider provides HTTP clients
type HTTPClientProvider interface {
	// GetClient returns the client used for gateway queries.
	GetClient() *http.Client
	// GetWalletClient returns the client used for wallet posts, which wait on the user.
	GetWalletClient() *http.Client
}

// ServiceDependencies holds the basic dependencies needed for service creation
type ServiceDependencies struct {
	// DatabaseProvider is nil when run history is disabled.
	DatabaseProvider   DatabaseProvider
	HTTPClientProvider HTTPClientProvider
	MantleEndpoint     string
	WalletBridgeURL    string
	AddressProvider    anchor.AddressProvider
	FeePolicy          tx.FeePolicy
	PollConfig         tx.PollConfig
	FetchMaxWorkers    int
	AppTracker         apptracker.AppTracker
}

// ServiceContainer manages all business services
type ServiceContainer interface {
	GetTransactionService() transactions.Service
	GetMetricsService() metrics.MetricsService
	// GetModels returns nil when run history is disabled.
	GetModels() *data.Models
	GetConnectionPool() db.ConnectionPool
	GetSupportedTxTypes() mapset.Set[transactions.TxType]
	GetAppTracker() apptracker.AppTracker
	// Close waits for in flight domain queries and releases the database.
	Close()
}

// HandlerDependencies represents all dependencies needed for HTTP handlers
type HandlerDependencies struct {
	ServiceContainer ServiceContainer
}
