package tx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
)

// ErrorReporter reports an unexpected failure and returns the id assigned to it.
type ErrorReporter func(err error) string

var (
	ErrFailedToFindRawLog = errors.New("failed to find raw log")
	ErrReceiptParse       = errors.New("failed to parse transaction result")
)

// Helper builds the receipts and failure renderings shared by every stage of a run.
type Helper struct {
	txFee    string
	txHash   string
	reporter ErrorReporter
}

// NewHelper returns a helper for a run paying txFee (micro UST). reporter may be nil.
func NewHelper(txFee string, reporter ErrorReporter) *Helper {
	return &Helper{txFee: txFee, reporter: reporter}
}

func (h *Helper) SetTxHash(txHash string) {
	h.txHash = txHash
}

func (h *Helper) TxHash() string {
	return h.txHash
}

func (h *Helper) TxHashReceipt() ReceiptSlot {
	if h.txHash == "" {
		return NoReceipt()
	}
	return NewReceipt("Tx Hash", h.txHash)
}

// TxFeeReceipt is absent unless the fee is a positive amount.
func (h *Helper) TxFeeReceipt() ReceiptSlot {
	fee, err := anchor.Demicrofy(h.txFee)
	if err != nil || !fee.IsPositive() {
		return NoReceipt()
	}
	return NewReceipt("Tx Fee", anchor.FormatUSTWithPostfixUnits(fee)+" UST")
}

// ErrorRendering classifies err and reports it when it is unexpected.
func (h *Helper) ErrorRendering(err error) ErrorRendering {
	rendering := ErrorRendering{Kind: KindOf(err), Error: err}
	if h.reporter != nil && shouldReport(err) {
		rendering.ErrorID = h.reporter(err)
	}
	return rendering
}

// Failed is the terminal rendering for err.
func (h *Helper) Failed(err error) Rendering {
	reason := h.ErrorRendering(err)
	return Rendering{
		Phase:        PhaseFailed,
		FailedReason: &reason,
		Receipts:     []ReceiptSlot{h.TxHashReceipt(), h.TxFeeReceipt()},
	}
}

func (h *Helper) FailedToCreateReceipt(err error) Rendering {
	return h.Failed(NewError(KindReceiptBuildFailure, err))
}

func (h *Helper) FailedToFindRawLog() Rendering {
	return h.Failed(NewError(KindMissingRawLog, ErrFailedToFindRawLog))
}

func (h *Helper) FailedToFindEvents(events ...string) Rendering {
	return h.Failed(Errorf(KindMissingEvent, "failed to find events: %s", strings.Join(events, ", ")))
}

func (h *Helper) FailedToParseTxResult(err error) Rendering {
	if err == nil {
		return h.Failed(NewError(KindReceiptParseFailure, ErrReceiptParse))
	}
	return h.Failed(NewError(KindReceiptParseFailure, fmt.Errorf("%w: %w", ErrReceiptParse, err)))
}

// ParseReceipts runs parse and turns a returned error or a panic into a FailedToParseTxResult rendering.
func (h *Helper) ParseReceipts(parse func() (Rendering, error)) (rendering Rendering) {
	defer func() {
		if r := recover(); r != nil {
			rendering = h.FailedToParseTxResult(fmt.Errorf("recovered: %v", r))
		}
	}()

	rendering, err := parse()
	if err != nil {
		return h.FailedToParseTxResult(err)
	}
	return rendering
}
