package anchor

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrNoLockedCollateral = errors.New("borrower has no locked collateral")

// ComputeCurrentLtv returns loan_amount / ((balance - spendable) * oracle rate).
func ComputeCurrentLtv(info MarketBorrowerInfo, custody CustodyBorrower, oracle OraclePrice) (decimal.Decimal, error) {
	loan, err := decimal.NewFromString(info.LoanAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing loan amount: %w", err)
	}
	balance, err := decimal.NewFromString(custody.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing custody balance: %w", err)
	}
	spendable, err := decimal.NewFromString(custody.Spendable)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing custody spendable: %w", err)
	}
	rate, err := decimal.NewFromString(oracle.Rate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing oracle rate: %w", err)
	}

	collateralValue := balance.Sub(spendable).Mul(rate)
	if !collateralValue.IsPositive() {
		return decimal.Zero, ErrNoLockedCollateral
	}

	return loan.Div(collateralValue), nil
}
