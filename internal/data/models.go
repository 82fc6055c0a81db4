package data

import (
	"errors"

	"github.com/anchor-protocol/anchor-txs/internal/db"
	"github.com/anchor-protocol/anchor-txs/internal/metrics"
)

type Models struct {
	TxRuns *TxRunModel
}

func NewModels(db db.ConnectionPool, metricsService metrics.MetricsService) (*Models, error) {
	if db == nil {
		return nil, errors.New("ConnectionPool must be initialized")
	}
	if metricsService == nil {
		return nil, errors.New("MetricsService must be initialized")
	}

	return &Models{
		TxRuns: &TxRunModel{DB: db, MetricsService: metricsService},
	}, nil
}
