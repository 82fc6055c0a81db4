package wallet

import (
	"errors"
	"fmt"
)

// Code is the error code a wallet bridge reports when it could not post a transaction.
type Code string

const (
	CodeUserDenied         Code = "UserDenied"
	CodeCreateTxFailed     Code = "CreateTxFailed"
	CodeTxFailed           Code = "TxFailed"
	CodeTimeout            Code = "Timeout"
	CodeTxUnspecifiedError Code = "TxUnspecifiedError"
)

// Error is a failure reported by the wallet itself, as opposed to a transport failure.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	// TxHash is set when the wallet broadcast the transaction before failing.
	TxHash string `json:"txhash,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wallet error %s", e.Code)
	}
	return fmt.Sprintf("wallet error %s: %s", e.Code, e.Message)
}

// Reportable is false for the failures the wallet expects to happen during normal use.
func (e *Error) Reportable() bool {
	switch e.Code {
	case CodeUserDenied, CodeCreateTxFailed, CodeTxFailed, CodeTimeout:
		return false
	default:
		return true
	}
}

func codeOf(err error) (Code, bool) {
	var walletErr *Error
	if errors.As(err, &walletErr) {
		return walletErr.Code, true
	}
	return "", false
}

// IsUserDenied reports whether the user declined to sign.
func IsUserDenied(err error) bool {
	code, ok := codeOf(err)
	return ok && code == CodeUserDenied
}

// IsTimeout reports whether the wallet gave up waiting for the user or the chain.
func IsTimeout(err error) bool {
	code, ok := codeOf(err)
	return ok && code == CodeTimeout
}
