package gateway

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/terra"
)

type MockQuerier struct {
	mock.Mock
}

var _ Querier = (*MockQuerier)(nil)

func (m *MockQuerier) TxInfos(ctx context.Context, txHash string) (terra.TxInfos, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(terra.TxInfos), args.Error(1)
}

func (m *MockQuerier) BorrowMarket(ctx context.Context) (*anchor.BorrowMarket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anchor.BorrowMarket), args.Error(1)
}

func (m *MockQuerier) BorrowBorrower(ctx context.Context, address string) (*anchor.BorrowBorrower, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anchor.BorrowBorrower), args.Error(1)
}
