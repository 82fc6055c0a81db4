package tx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/terra"
)

// TxInfoFetcher looks up the inclusion records of a transaction. An empty result means not found yet.
type TxInfoFetcher interface {
	TxInfos(ctx context.Context, txHash string) (terra.TxInfos, error)
}

type PollConfig struct {
	Interval    time.Duration
	MaxAttempts uint
}

var DefaultPollConfig = PollConfig{
	Interval:    500 * time.Millisecond,
	MaxAttempts: 120,
}

func (c PollConfig) Validate() error {
	if c.Interval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.MaxAttempts == 0 {
		return errors.New("poll max attempts must be positive")
	}
	return nil
}

var errTxInfoNotFound = errors.New("tx info not found")

// PollTxInfo queries the transaction's inclusion record every cfg.Interval, up to cfg.MaxAttempts times.
// Each attempt that does not find it re-emits the BROADCAST rendering. The found record is stored in the
// accumulator; a failed record, a gateway error or an exhausted budget end the run.
func PollTxInfo[A Carrier](helper *Helper, fetcher TxInfoFetcher, cfg PollConfig) Stage[A] {
	return func(ctx context.Context, in Snapshot[A], emit Emitter) (Snapshot[A], error) {
		carry := in.Value.Base()
		txHash := carry.TxResult.TxHash

		var txInfos terra.TxInfos
		err := retry.Do(
			func() error {
				infos, err := fetcher.TxInfos(ctx, txHash)
				if err != nil {
					if ctx.Err() != nil {
						return retry.Unrecoverable(ctx.Err())
					}
					return retry.Unrecoverable(NewError(KindGatewayError, fmt.Errorf("querying tx info of %s: %w", txHash, err)))
				}
				if len(infos) == 0 {
					if ctx.Err() != nil {
						return retry.Unrecoverable(ctx.Err())
					}
					emit(in.Rendering)
					return errTxInfoNotFound
				}
				txInfos = infos
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(cfg.MaxAttempts),
			retry.Delay(cfg.Interval),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
		)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return in, ctxErr
		}
		if errors.Is(err, errTxInfoNotFound) {
			log.Ctx(ctx).Warnf("transaction %s not found after %d attempts", txHash, cfg.MaxAttempts)
			return Terminal(in.Value, helper.Failed(Errorf(KindBroadcastTimeout,
				"timed out waiting for transaction %s to be confirmed", txHash))), nil
		}
		if err != nil {
			return Terminal(in.Value, helper.Failed(err)), nil
		}

		if failure, ok := txInfos.FirstFailure(); ok {
			return Terminal(in.Value, helper.Failed(NewError(KindTxFailed, errors.New(failure.RawLog)))), nil
		}

		carry.TxInfos = txInfos
		return in, nil
	}
}
