package transactions

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/anchor-protocol/anchor-txs/internal/validators"
)

// TxType names a transaction kind in URLs, metrics and the history table.
type TxType string

const (
	TxTypeDeposit          TxType = "deposit"
	TxTypeBorrow           TxType = "borrow"
	TxTypeRepay            TxType = "repay"
	TxTypeRedeemCollateral TxType = "redeem-collateral"
)

func (t TxType) String() string {
	return string(t)
}

// AllTxTypes lists every transaction kind that can be started.
var AllTxTypes = []TxType{TxTypeDeposit, TxTypeBorrow, TxTypeRepay, TxTypeRedeemCollateral}

// Params are the user inputs shared by every transaction kind. Amount is a display amount (UST or bLuna),
// not a micro amount.
type Params struct {
	Address string `json:"address" validate:"required,terra_address"`
	Amount  string `json:"amount" validate:"required,positive_amount"`
}

type DepositParams struct {
	Params
}

type BorrowParams struct {
	Params
	// WithdrawTo receives the borrowed UST instead of Address when set.
	WithdrawTo string `json:"withdrawTo,omitempty" validate:"omitempty,terra_address"`
}

type RepayParams struct {
	Params
}

type RedeemCollateralParams struct {
	Params
}

// ValidateParams checks params against their validate tags.
func ValidateParams(params any) error {
	if err := validators.NewValidator().Struct(params); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("invalid params: %v", validators.ParseValidationError(vErrs))
		}
		return fmt.Errorf("validating params: %w", err)
	}
	return nil
}
