package tx

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/anchor-protocol/anchor-txs/internal/terra"
)

type MockPoster struct {
	mock.Mock
}

var _ Poster = (*MockPoster)(nil)

func (m *MockPoster) Post(ctx context.Context, txOptions terra.TxOptions) (terra.TxResult, error) {
	args := m.Called(ctx, txOptions)
	return args.Get(0).(terra.TxResult), args.Error(1)
}

type MockTxInfoFetcher struct {
	mock.Mock
}

var _ TxInfoFetcher = (*MockTxInfoFetcher)(nil)

func (m *MockTxInfoFetcher) TxInfos(ctx context.Context, txHash string) (terra.TxInfos, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(terra.TxInfos), args.Error(1)
}
