package transactions

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

type MockService struct {
	mock.Mock
}

var _ Service = (*MockService)(nil)

func (m *MockService) Start(ctx context.Context, txType TxType, req Request) (*tx.Stream, error) {
	args := m.Called(ctx, txType, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tx.Stream), args.Error(1)
}
