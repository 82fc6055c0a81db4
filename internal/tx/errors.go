package tx

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a transaction run failed.
type ErrorKind string

const (
	KindUserRejected        ErrorKind = "UserRejected"
	KindWalletError         ErrorKind = "WalletError"
	KindCreateTxFailed      ErrorKind = "CreateTxFailed"
	KindBroadcastTimeout    ErrorKind = "BroadcastTimeout"
	KindTxFailed            ErrorKind = "TxFailed"
	KindGatewayError        ErrorKind = "GatewayError"
	KindReceiptBuildFailure ErrorKind = "ReceiptBuildFailure"
	KindMissingRawLog       ErrorKind = "MissingRawLog"
	KindMissingEvent        ErrorKind = "MissingEvent"
	KindReceiptParseFailure ErrorKind = "ReceiptParseFailure"
	KindUnknown             ErrorKind = "Unknown"
)

// IsReportable reports whether failures of this kind are unexpected and should reach the error tracker.
func (k ErrorKind) IsReportable() bool {
	switch k {
	case KindUserRejected, KindCreateTxFailed, KindTxFailed, KindBroadcastTimeout:
		return false
	default:
		return true
	}
}

// Error attaches an ErrorKind to a failure cause.
type Error struct {
	Kind ErrorKind
	Err  error
}

func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the outermost *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var txErr *Error
	if errors.As(err, &txErr) {
		return txErr.Kind
	}
	return KindUnknown
}

// reportable lets errors from the capabilities override the kind based decision, e.g. a wallet
// error code that is expected even though the kind is WalletError.
type reportable interface {
	Reportable() bool
}

func shouldReport(err error) bool {
	var r reportable
	if errors.As(err, &r) {
		return r.Reportable()
	}
	return KindOf(err).IsReportable()
}
