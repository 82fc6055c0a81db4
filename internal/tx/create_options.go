package tx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/terra"
)

var (
	ErrNoMsgs               = errors.New("transaction has no messages")
	ErrInvalidGasLimit      = errors.New("gas limit must be positive")
	ErrInvalidGasAdjustment = errors.New("gas adjustment must be positive")
)

// FeePolicy is the gas and fee configuration applied to every transaction.
type FeePolicy struct {
	GasLimit      int64
	GasAdjustment float64
	// TxFee is the flat fee in micro UST.
	TxFee string
}

// BuildTxOptions assembles the provider-ready options for msgs. It performs no I/O.
func BuildTxOptions(msgs []terra.Msg, policy FeePolicy) (terra.TxOptions, error) {
	if len(msgs) == 0 {
		return terra.TxOptions{}, ErrNoMsgs
	}
	if policy.GasLimit <= 0 {
		return terra.TxOptions{}, ErrInvalidGasLimit
	}
	if policy.GasAdjustment <= 0 {
		return terra.TxOptions{}, ErrInvalidGasAdjustment
	}

	fee, err := decimal.NewFromString(strings.TrimSpace(policy.TxFee))
	if err != nil {
		return terra.TxOptions{}, fmt.Errorf("parsing tx fee %q: %w", policy.TxFee, err)
	}
	if fee.IsNegative() {
		return terra.TxOptions{}, fmt.Errorf("tx fee %q is negative", policy.TxFee)
	}

	return terra.TxOptions{
		Msgs: msgs,
		Fee: terra.Fee{
			Gas:    policy.GasLimit,
			Amount: fee.Floor().String() + anchor.USTDenom,
		},
		GasAdjustment: policy.GasAdjustment,
	}, nil
}

// CreateTxOptions fabricates the messages and builds the tx options into the accumulator. Failures end
// the run as CreateTxFailed before anything is emitted.
func CreateTxOptions[A Carrier](helper *Helper, fabricate func() ([]terra.Msg, error), policy FeePolicy) Stage[A] {
	return func(ctx context.Context, in Snapshot[A], emit Emitter) (Snapshot[A], error) {
		msgs, err := fabricate()
		if err != nil {
			return Terminal(in.Value, helper.Failed(NewError(KindCreateTxFailed, fmt.Errorf("fabricating messages: %w", err)))), nil
		}

		txOptions, err := BuildTxOptions(msgs, policy)
		if err != nil {
			return Terminal(in.Value, helper.Failed(NewError(KindCreateTxFailed, err))), nil
		}

		in.Value.Base().TxOptions = txOptions
		return in, nil
	}
}
