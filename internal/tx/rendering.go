package tx

import (
	"encoding/json"
)

// ErrorRendering describes a failure to the caller.
type ErrorRendering struct {
	// ErrorID is the id assigned by the error tracker, empty for expected failures.
	ErrorID string
	Kind    ErrorKind
	Error   error
}

// Message is the error's own description.
func (e ErrorRendering) Message() string {
	if e.Error == nil {
		return string(e.Kind)
	}
	return e.Error.Error()
}

func (e ErrorRendering) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ErrorID string    `json:"errorId,omitempty"`
		Kind    ErrorKind `json:"kind"`
		Error   string    `json:"error"`
	}{
		ErrorID: e.ErrorID,
		Kind:    e.Kind,
		Error:   e.Message(),
	})
}

// Rendering is the caller visible part of a progress snapshot.
type Rendering struct {
	Phase Phase `json:"phase"`
	// FailedReason is set iff Phase is PhaseFailed.
	FailedReason *ErrorRendering `json:"failedReason,omitempty"`
	// ReceiptErrors is set when the run succeeded but some receipts could not be computed.
	ReceiptErrors []ErrorRendering `json:"receiptErrors,omitempty"`
	Receipts      []ReceiptSlot    `json:"receipts"`
}

func (r Rendering) IsTerminal() bool {
	return r.Phase.IsTerminal()
}

func (r Rendering) VisibleReceipts() []Receipt {
	return VisibleReceipts(r.Receipts)
}

// Snapshot is a Rendering plus the accumulator threaded to the next stage.
type Snapshot[A any] struct {
	Value A `json:"-"`
	Rendering
}

// Terminal builds the snapshot a stage resolves to when it ends the run.
func Terminal[A any](value A, r Rendering) Snapshot[A] {
	return Snapshot[A]{Value: value, Rendering: r}
}
