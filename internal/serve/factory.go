package serve

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/data"
	"github.com/anchor-protocol/anchor-txs/internal/db"
	"github.com/anchor-protocol/anchor-txs/internal/gateway"
	"github.com/anchor-protocol/anchor-txs/internal/history"
	"github.com/anchor-protocol/anchor-txs/internal/metrics"
	"github.com/anchor-protocol/anchor-txs/internal/transactions"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
	"github.com/anchor-protocol/anchor-txs/internal/wallet"
)

const fetchPoolChannel = "fetch_domain_data"

// serviceContainer implements ServiceContainer
type serviceContainer struct {
	transactionService transactions.Service
	metricsService     metrics.MetricsService
	models             *data.Models
	databaseProvider   DatabaseProvider
	fetchPool          pond.Pool
	supportedTxTypes   mapset.Set[transactions.TxType]
	appTracker         apptracker.AppTracker
}

var _ ServiceContainer = (*serviceContainer)(nil)

func (c *serviceContainer) GetTransactionService() transactions.Service {
	return c.transactionService
}

func (c *serviceContainer) GetMetricsService() metrics.MetricsService {
	return c.metricsService
}

func (c *serviceContainer) GetModels() *data.Models {
	return c.models
}

func (c *serviceContainer) GetConnectionPool() db.ConnectionPool {
	if c.databaseProvider == nil {
		return nil
	}
	return c.databaseProvider.GetConnectionPool()
}

func (c *serviceContainer) GetSupportedTxTypes() mapset.Set[transactions.TxType] {
	return c.supportedTxTypes
}

func (c *serviceContainer) GetAppTracker() apptracker.AppTracker {
	return c.appTracker
}

type flusher interface {
	Flush() bool
}

func (c *serviceContainer) Close() {
	c.fetchPool.StopAndWait()
	if f, ok := c.appTracker.(flusher); ok && !f.Flush() {
		log.Warn("app tracker did not flush all events before closing")
	}
	if c.databaseProvider != nil {
		if err := c.databaseProvider.Close(); err != nil {
			log.Errorf("closing service container: %v", err)
		}
	}
}

// NewServiceContainer creates a new service container with all required services
func NewServiceContainer(ctx context.Context, deps ServiceDependencies) (*serviceContainer, error) {
	if deps.HTTPClientProvider == nil {
		return nil, errors.New("http client provider is required")
	}
	if deps.AppTracker == nil {
		return nil, errors.New("app tracker is required")
	}
	if deps.FetchMaxWorkers <= 0 {
		return nil, fmt.Errorf("fetch max workers must be positive, got %d", deps.FetchMaxWorkers)
	}

	var sqlxDB *sqlx.DB
	if deps.DatabaseProvider != nil {
		var err error
		sqlxDB, err = deps.DatabaseProvider.GetDB(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting database: %w", err)
		}
	}
	metricsService := metrics.NewMetricsService(sqlxDB)

	models, recorder, err := createHistory(deps, metricsService)
	if err != nil {
		return nil, fmt.Errorf("creating run history: %w", err)
	}

	gatewayClient, err := gateway.NewClient(gateway.ClientOptions{
		Endpoint:        deps.MantleEndpoint,
		HTTPClient:      deps.HTTPClientProvider.GetClient(),
		MetricsService:  metricsService,
		AddressProvider: deps.AddressProvider,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gateway client: %w", err)
	}

	walletClient, err := wallet.NewClient(wallet.ClientOptions{
		BaseURL:        deps.WalletBridgeURL,
		HTTPClient:     deps.HTTPClientProvider.GetWalletClient(),
		MetricsService: metricsService,
	})
	if err != nil {
		return nil, fmt.Errorf("creating wallet client: %w", err)
	}

	fetchPool := pond.NewPool(deps.FetchMaxWorkers)
	metricsService.RegisterPoolMetrics(fetchPoolChannel, fetchPool)

	transactionService, err := createTransactionService(deps, transactionServiceParts{
		gatewayClient:  gatewayClient,
		walletClient:   walletClient,
		fetchPool:      fetchPool,
		metricsService: metricsService,
		recorder:       recorder,
	})
	if err != nil {
		fetchPool.StopAndWait()
		return nil, fmt.Errorf("creating transaction service: %w", err)
	}

	return &serviceContainer{
		transactionService: transactionService,
		metricsService:     metricsService,
		models:             models,
		databaseProvider:   deps.DatabaseProvider,
		fetchPool:          fetchPool,
		supportedTxTypes:   mapset.NewSet(transactions.AllTxTypes...),
		appTracker:         deps.AppTracker,
	}, nil
}

// createHistory returns nil models and recorder when no database is configured.
func createHistory(deps ServiceDependencies, metricsService metrics.MetricsService) (*data.Models, *history.Recorder, error) {
	if deps.DatabaseProvider == nil {
		log.Info("No database configured, transaction run history is disabled")
		return nil, nil, nil
	}

	models, err := data.NewModels(deps.DatabaseProvider.GetConnectionPool(), metricsService)
	if err != nil {
		return nil, nil, fmt.Errorf("creating data models: %w", err)
	}
	recorder, err := history.NewRecorder(models.TxRuns)
	if err != nil {
		return nil, nil, fmt.Errorf("creating recorder: %w", err)
	}
	return models, recorder, nil
}

type transactionServiceParts struct {
	gatewayClient  *gateway.Client
	walletClient   *wallet.Client
	fetchPool      pond.Pool
	metricsService metrics.MetricsService
	recorder       *history.Recorder
}

func createTransactionService(deps ServiceDependencies, parts transactionServiceParts) (transactions.Service, error) {
	opts := transactions.ServiceOptions{
		Deps: transactions.Deps{
			AddressProvider: deps.AddressProvider,
			Capabilities: tx.Capabilities{
				Poster:        parts.walletClient,
				TxInfos:       parts.gatewayClient,
				ErrorReporter: deps.AppTracker.CaptureException,
			},
			Config: tx.Config{
				Fee:  deps.FeePolicy,
				Poll: deps.PollConfig,
				Pool: parts.fetchPool,
			},
			BorrowData: parts.gatewayClient,
		},
		MetricsService: parts.metricsService,
	}
	// A nil *history.Recorder must not reach the interface field.
	if parts.recorder != nil {
		opts.Recorder = parts.recorder
	}

	transactionService, err := transactions.NewService(opts)
	if err != nil {
		return nil, fmt.Errorf("creating transaction service: %w", err)
	}
	return transactionService, nil
}
