package transactions

import (
	"context"
	"fmt"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

const (
	// the custody withdraw_collateral message
	redeemMsgIndex = 1
	// position of the withdrawn amount in the custody's from_contract event
	redeemAmountAttribute = 16
)

// RedeemCollateral unlocks bLuna collateral and withdraws it back to the wallet.
func RedeemCollateral(ctx context.Context, deps Deps, params RedeemCollateralParams, observers ...tx.Observer) *tx.Stream {
	return tx.Start(ctx, deps.Capabilities, deps.Config, &borrowCarry{}, tx.Definition[*borrowCarry]{
		Fabricate: func() ([]terra.Msg, error) {
			return anchor.FabricateRedeemCollateral(deps.AddressProvider, params.Address, params.Amount)
		},
		Queries:  borrowDataQueries(deps.BorrowData, params.Address),
		Receipts: redeemCollateralReceipts,
	}, observers...)
}

func redeemCollateralReceipts(helper *tx.Helper) tx.Stage[*borrowCarry] {
	return func(ctx context.Context, in tx.Snapshot[*borrowCarry], emit tx.Emitter) (tx.Snapshot[*borrowCarry], error) {
		c := in.Value
		if c.Market == nil || c.Borrower == nil {
			return tx.Terminal(c, helper.FailedToCreateReceipt(errFailedToLoadBorrowData)), nil
		}

		fromContract, failed := pickFromContract(helper, c.TxInfos, redeemMsgIndex)
		if failed != nil {
			return tx.Terminal(c, *failed), nil
		}

		return tx.Terminal(c, helper.ParseReceipts(func() (tx.Rendering, error) {
			redeemed, err := amountReceipt(fromContract, redeemAmountAttribute, "Redeemed Amount", anchor.FormatLuna, "bLuna")
			if err != nil {
				return tx.Rendering{}, fmt.Errorf("parsing redeemed amount: %w", err)
			}
			ltv, receiptErrors := newLtvReceipt(helper, c)

			return tx.Rendering{
				Phase:         tx.PhaseSucceed,
				ReceiptErrors: receiptErrors,
				Receipts: []tx.ReceiptSlot{
					redeemed,
					ltv,
					helper.TxHashReceipt(),
					helper.TxFeeReceipt(),
				},
			}, nil
		})), nil
	}
}
