package history

import (
	"context"
	"errors"
	"time"

	"github.com/guregu/null"
	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/data"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

const defaultWriteTimeout = 5 * time.Second

type TxRunStore interface {
	Upsert(ctx context.Context, run data.TxRun) error
}

var _ TxRunStore = (*data.TxRunModel)(nil)

// Recorder writes the phase changes of transaction runs to the history table. A failed write is logged
// and never affects the run.
type Recorder struct {
	store        TxRunStore
	writeTimeout time.Duration
}

func NewRecorder(store TxRunStore) (*Recorder, error) {
	if store == nil {
		return nil, errors.New("tx run store is required")
	}
	return &Recorder{store: store, writeTimeout: defaultWriteTimeout}, nil
}

// Observer returns the observer recording one run. Repeated BROADCAST renderings are written once.
// Writes outlive ctx's cancellation so the last known state of a run abandoned by its caller is kept.
func (r *Recorder) Observer(ctx context.Context, txType, address string) tx.Observer {
	ctx = context.WithoutCancel(ctx)
	var lastPhase tx.Phase

	return func(runID string, rendering tx.Rendering) {
		if rendering.Phase == lastPhase {
			return
		}
		lastPhase = rendering.Phase

		writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
		defer cancel()
		if err := r.store.Upsert(writeCtx, TxRunFromRendering(runID, txType, address, rendering)); err != nil {
			log.Ctx(ctx).Errorf("recording %s phase of transaction run %s: %v", rendering.Phase, runID, err)
		}
	}
}

// TxRunFromRendering maps a rendering to its history row.
func TxRunFromRendering(runID, txType, address string, rendering tx.Rendering) data.TxRun {
	run := data.TxRun{
		ID:       runID,
		TxType:   txType,
		Address:  address,
		Phase:    rendering.Phase.String(),
		Receipts: rendering.VisibleReceipts(),
	}

	for _, receipt := range run.Receipts {
		if receipt.Name == "Tx Hash" {
			run.TxHash = null.StringFrom(receipt.Value)
		}
	}

	if reason := rendering.FailedReason; reason != nil {
		run.ErrorKind = null.StringFrom(string(reason.Kind))
		run.ErrorID = null.NewString(reason.ErrorID, reason.ErrorID != "")
		run.ErrorMessage = null.StringFrom(reason.Message())
	}
	return run
}
