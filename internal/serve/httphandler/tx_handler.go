package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-chi/chi"
	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/serve/httperror"
	"github.com/anchor-protocol/anchor-txs/internal/transactions"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

const ndjsonContentType = "application/x-ndjson"

type TxHandler struct {
	TxService        transactions.Service
	SupportedTxTypes mapset.Set[transactions.TxType]
	AppTracker       apptracker.AppTracker
}

// ProgressLine is one line of the progress stream. Receipts that could not be computed are omitted.
type ProgressLine struct {
	RunID         string              `json:"runId"`
	Phase         tx.Phase            `json:"phase"`
	FailedReason  *tx.ErrorRendering  `json:"failedReason,omitempty"`
	ReceiptErrors []tx.ErrorRendering `json:"receiptErrors,omitempty"`
	Receipts      []tx.Receipt        `json:"receipts"`
}

func NewProgressLine(runID string, r tx.Rendering) ProgressLine {
	return ProgressLine{
		RunID:         runID,
		Phase:         r.Phase,
		FailedReason:  r.FailedReason,
		ReceiptErrors: r.ReceiptErrors,
		Receipts:      r.VisibleReceipts(),
	}
}

// StartTx starts a transaction run and streams its progress as newline delimited JSON until the run ends.
// The run is cancelled when the client goes away.
func (h TxHandler) StartTx(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	txType := transactions.TxType(chi.URLParam(r, "txType"))
	if !h.SupportedTxTypes.Contains(txType) {
		httperror.NotFoundWithMessage("Unsupported transaction type.").Render(w)
		return
	}

	var reqBody transactions.Request
	if httpErr := DecodeJSONAndValidate(ctx, r, &reqBody, h.AppTracker); httpErr != nil {
		httpErr.Render(w)
		return
	}

	stream, err := h.TxService.Start(ctx, txType, reqBody)
	if err != nil {
		if errors.Is(err, transactions.ErrUnsupportedTxType) {
			httperror.NotFoundWithMessage("Unsupported transaction type.").Render(w)
			return
		}
		httperror.InternalServerError(ctx, "", err, nil, h.AppTracker).Render(w)
		return
	}

	w.Header().Set("Content-Type", ndjsonContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Run-Id", stream.ID())
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	encoder := json.NewEncoder(w)

	for {
		select {
		case <-ctx.Done():
			log.Ctx(ctx).Infof("client left transaction run %s", stream.ID())
			stream.Cancel()
			return
		case rendering, ok := <-stream.Snapshots():
			if !ok {
				return
			}
			if err := encoder.Encode(NewProgressLine(stream.ID(), rendering)); err != nil {
				log.Ctx(ctx).Warnf("writing progress of transaction run %s: %v", stream.ID(), err)
				stream.Cancel()
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
