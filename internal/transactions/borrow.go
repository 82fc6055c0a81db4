package transactions

import (
	"context"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

// Borrow borrows UST from the market against the locked bLuna collateral.
func Borrow(ctx context.Context, deps Deps, params BorrowParams, observers ...tx.Observer) *tx.Stream {
	return tx.Start(ctx, deps.Capabilities, deps.Config, &borrowCarry{}, tx.Definition[*borrowCarry]{
		Fabricate: func() ([]terra.Msg, error) {
			return anchor.FabricateMarketBorrow(deps.AddressProvider, params.Address, params.Amount, params.WithdrawTo)
		},
		Queries:  borrowDataQueries(deps.BorrowData, params.Address),
		Receipts: loanReceipts("Borrowed Amount"),
	}, observers...)
}
