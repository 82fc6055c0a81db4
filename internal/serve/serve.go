package serve

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	supporthttp "github.com/stellar/go-stellar-sdk/support/http"
	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

type Configs struct {
	Port     int
	LogLevel logrus.Level

	// Gateways
	MantleEndpoint  string
	WalletBridgeURL string
	AddressProvider anchor.AddressProvider

	// Pipeline
	FeePolicy       tx.FeePolicy
	PollConfig      tx.PollConfig
	FetchMaxWorkers int

	// DatabaseURL enables the run history when set.
	DatabaseURL string
	AppTracker  apptracker.AppTracker
}

func Serve(cfg Configs) error {
	ctx := context.Background()

	container, err := initServiceContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setting up service container: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	supporthttp.Run(supporthttp.Config{
		ListenAddr: addr,
		Handler:    NewHandler(HandlerDependencies{ServiceContainer: container}),
		OnStarting: func() {
			log.Infof("Starting Anchor transactions server on port %d", cfg.Port)
		},
		OnStopping: func() {
			log.Info("Stopping Anchor transactions server")
			container.Close()
		},
	})

	return nil
}

func initServiceContainer(ctx context.Context, cfg Configs) (*serviceContainer, error) {
	deps := ServiceDependencies{
		HTTPClientProvider: NewHTTPClientProvider(),
		MantleEndpoint:     cfg.MantleEndpoint,
		WalletBridgeURL:    cfg.WalletBridgeURL,
		AddressProvider:    cfg.AddressProvider,
		FeePolicy:          cfg.FeePolicy,
		PollConfig:         cfg.PollConfig,
		FetchMaxWorkers:    cfg.FetchMaxWorkers,
		AppTracker:         cfg.AppTracker,
	}

	if cfg.DatabaseURL != "" {
		databaseProvider, err := NewDatabaseProvider(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("creating database provider: %w", err)
		}
		deps.DatabaseProvider = databaseProvider
	}

	container, err := NewServiceContainer(ctx, deps)
	if err != nil {
		if deps.DatabaseProvider != nil {
			_ = deps.DatabaseProvider.Close()
		}
		return nil, err
	}
	return container, nil
}

// NewStandaloneContainer builds the services without an HTTP server, for one-off runs from the CLI.
func NewStandaloneContainer(ctx context.Context, cfg Configs) (ServiceContainer, error) {
	container, err := initServiceContainer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return container, nil
}
