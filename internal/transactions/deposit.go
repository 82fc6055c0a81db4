package transactions

import (
	"context"
	"fmt"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

// positions in the market's deposit_stable from_contract event
const (
	depositMintAmountAttribute    = 3
	depositDepositAmountAttribute = 4
)

// Deposit deposits UST into the market and receives aUST. It fetches no domain data.
func Deposit(ctx context.Context, deps Deps, params DepositParams, observers ...tx.Observer) *tx.Stream {
	return tx.Start(ctx, deps.Capabilities, deps.Config, &tx.Carry{}, tx.Definition[*tx.Carry]{
		Fabricate: func() ([]terra.Msg, error) {
			return anchor.FabricateMarketDepositStableCoin(deps.AddressProvider, params.Address, params.Amount)
		},
		Receipts: depositReceipts,
	}, observers...)
}

func depositReceipts(helper *tx.Helper) tx.Stage[*tx.Carry] {
	return func(ctx context.Context, in tx.Snapshot[*tx.Carry], emit tx.Emitter) (tx.Snapshot[*tx.Carry], error) {
		c := in.Value

		fromContract, failed := pickFromContract(helper, c.TxInfos, 0)
		if failed != nil {
			return tx.Terminal(c, *failed), nil
		}

		return tx.Terminal(c, helper.ParseReceipts(func() (tx.Rendering, error) {
			deposited, err := amountReceipt(fromContract, depositDepositAmountAttribute, "Deposit Amount", anchor.FormatUSTWithPostfixUnits, "UST")
			if err != nil {
				return tx.Rendering{}, fmt.Errorf("parsing deposit amount: %w", err)
			}
			received, err := amountReceipt(fromContract, depositMintAmountAttribute, "Received Amount", anchor.FormatUSTWithPostfixUnits, "aUST")
			if err != nil {
				return tx.Rendering{}, fmt.Errorf("parsing received amount: %w", err)
			}

			return tx.Rendering{
				Phase: tx.PhaseSucceed,
				Receipts: []tx.ReceiptSlot{
					deposited,
					received,
					helper.TxHashReceipt(),
					helper.TxFeeReceipt(),
				},
			}, nil
		})), nil
	}
}
