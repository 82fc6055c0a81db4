package serve

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/anchor-protocol/anchor-txs/internal/db"
)

const (
	gatewayRequestTimeout = 30 * time.Second
	// walletPostTimeout bounds how long a user may take to approve a transaction in the wallet.
	walletPostTimeout = 15 * time.Minute
)

// databaseProvider implements DatabaseProvider
type databaseProvider struct {
	connectionPool db.ConnectionPool
}

func NewDatabaseProvider(databaseURL string) (*databaseProvider, error) {
	connectionPool, err := db.OpenDBConnectionPool(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database connection pool: %w", err)
	}

	return &databaseProvider{connectionPool: connectionPool}, nil
}

func (p *databaseProvider) GetConnectionPool() db.ConnectionPool {
	return p.connectionPool
}

func (p *databaseProvider) GetDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := p.connectionPool.SqlxDB(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting sqlx DB: %w", err)
	}
	return db, nil
}

func (p *databaseProvider) Close() error {
	if err := p.connectionPool.Close(); err != nil {
		return fmt.Errorf("closing database connection pool: %w", err)
	}
	return nil
}

// httpClientProvider implements HTTPClientProvider
type httpClientProvider struct {
	client       *http.Client
	walletClient *http.Client
}

func NewHTTPClientProvider() *httpClientProvider {
	return &httpClientProvider{
		client:       &http.Client{Timeout: gatewayRequestTimeout},
		walletClient: &http.Client{Timeout: walletPostTimeout},
	}
}

func (p *httpClientProvider) GetClient() *http.Client {
	return p.client
}

func (p *httpClientProvider) GetWalletClient() *http.Client {
	return p.walletClient
}
