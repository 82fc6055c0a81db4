package transactions

import (
	"context"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

// Repay pays back UST to the market.
func Repay(ctx context.Context, deps Deps, params RepayParams, observers ...tx.Observer) *tx.Stream {
	return tx.Start(ctx, deps.Capabilities, deps.Config, &borrowCarry{}, tx.Definition[*borrowCarry]{
		Fabricate: func() ([]terra.Msg, error) {
			return anchor.FabricateMarketRepay(deps.AddressProvider, params.Address, params.Amount)
		},
		Queries:  borrowDataQueries(deps.BorrowData, params.Address),
		Receipts: loanReceipts("Repaid Amount"),
	}, observers...)
}
