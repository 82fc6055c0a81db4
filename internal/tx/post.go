package tx

import (
	"context"
	"errors"
	"fmt"

	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/wallet"
)

// Poster asks the connected wallet to sign and broadcast.
type Poster interface {
	Post(ctx context.Context, txOptions terra.TxOptions) (terra.TxResult, error)
}

// PostTx emits POST, hands the tx options to the wallet exactly once and emits BROADCAST with the tx hash.
// The wallet call does not inherit the run's cancellation: a broadcast already requested is never aborted.
func PostTx[A Carrier](helper *Helper, poster Poster) Stage[A] {
	return func(ctx context.Context, in Snapshot[A], emit Emitter) (Snapshot[A], error) {
		emit(Rendering{
			Phase:    PhasePost,
			Receipts: []ReceiptSlot{helper.TxFeeReceipt()},
		})

		carry := in.Value.Base()
		result, err := poster.Post(context.WithoutCancel(ctx), carry.TxOptions)
		if err != nil {
			kind := KindWalletError
			switch {
			case wallet.IsUserDenied(err):
				kind = KindUserRejected
			case wallet.IsTimeout(err):
				log.Ctx(ctx).Warnf("wallet timed out posting the transaction: %v", err)
			}
			// the wallet may have broadcast before failing
			var walletErr *wallet.Error
			if errors.As(err, &walletErr) && walletErr.TxHash != "" {
				carry.TxResult.TxHash = walletErr.TxHash
				helper.SetTxHash(walletErr.TxHash)
			}
			return Terminal(in.Value, helper.Failed(NewError(kind, fmt.Errorf("posting transaction: %w", err)))), nil
		}

		carry.TxResult = result
		helper.SetTxHash(result.TxHash)
		log.Ctx(ctx).Infof("transaction %s broadcast", result.TxHash)

		broadcast := Snapshot[A]{
			Value: in.Value,
			Rendering: Rendering{
				Phase:    PhaseBroadcast,
				Receipts: []ReceiptSlot{helper.TxHashReceipt(), helper.TxFeeReceipt()},
			},
		}
		emit(broadcast.Rendering)
		return broadcast, nil
	}
}
