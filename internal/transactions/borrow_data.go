package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

var errFailedToLoadBorrowData = errors.New("failed to load borrow data")

// borrowCarry is the accumulator of the runs that change a loan: borrow, repay and redeem collateral.
type borrowCarry struct {
	tx.Carry
	Market   *anchor.BorrowMarket
	Borrower *anchor.BorrowBorrower
}

func borrowDataQueries(querier BorrowDataQuerier, address string) []tx.DomainQuery[*borrowCarry] {
	return []tx.DomainQuery[*borrowCarry]{
		func(ctx context.Context) (func(*borrowCarry), error) {
			market, err := querier.BorrowMarket(ctx)
			if err != nil {
				return nil, fmt.Errorf("loading borrow market: %w", err)
			}
			return func(c *borrowCarry) { c.Market = market }, nil
		},
		func(ctx context.Context) (func(*borrowCarry), error) {
			borrower, err := querier.BorrowBorrower(ctx, address)
			if err != nil {
				return nil, fmt.Errorf("loading borrower %s: %w", address, err)
			}
			return func(c *borrowCarry) { c.Borrower = borrower }, nil
		},
	}
}

// newLtvReceipt renders the loan to value after the transaction. An LTV that cannot be computed is shown
// as 0; unless the borrower simply has no locked collateral left, the cause is returned as a receipt error.
func newLtvReceipt(helper *tx.Helper, c *borrowCarry) (tx.ReceiptSlot, []tx.ErrorRendering) {
	ltv, err := anchor.ComputeCurrentLtv(c.Borrower.MarketBorrowerInfo, c.Borrower.CustodyBorrower, c.Market.OraclePrice)
	if err == nil {
		return tx.NewReceipt("New LTV", anchor.FormatRate(ltv)+" %"), nil
	}

	slot := tx.NewReceipt("New LTV", anchor.FormatRate(decimal.Zero)+" %")
	if errors.Is(err, anchor.ErrNoLockedCollateral) {
		return slot, nil
	}
	return slot, []tx.ErrorRendering{
		helper.ErrorRendering(tx.NewError(tx.KindReceiptParseFailure, fmt.Errorf("computing new LTV: %w", err))),
	}
}

func outstandingLoanReceipt(c *borrowCarry) (tx.ReceiptSlot, error) {
	if c.Borrower.MarketBorrowerInfo.LoanAmount == "" {
		return tx.NoReceipt(), nil
	}
	return microReceipt("Outstanding Loan", c.Borrower.MarketBorrowerInfo.LoanAmount, anchor.FormatUSTWithPostfixUnits, "UST")
}

// loanReceipts is the receipts stage shared by borrow and repay: the amount moved by the market
// contract, the new LTV and the outstanding loan.
func loanReceipts(amountName string) func(helper *tx.Helper) tx.Stage[*borrowCarry] {
	return func(helper *tx.Helper) tx.Stage[*borrowCarry] {
		return func(ctx context.Context, in tx.Snapshot[*borrowCarry], emit tx.Emitter) (tx.Snapshot[*borrowCarry], error) {
			c := in.Value
			if c.Market == nil || c.Borrower == nil {
				return tx.Terminal(c, helper.FailedToCreateReceipt(errFailedToLoadBorrowData)), nil
			}

			fromContract, failed := pickFromContract(helper, c.TxInfos, 0)
			if failed != nil {
				return tx.Terminal(c, *failed), nil
			}

			return tx.Terminal(c, helper.ParseReceipts(func() (tx.Rendering, error) {
				amount, err := amountReceipt(fromContract, 3, amountName, anchor.FormatUSTWithPostfixUnits, "UST")
				if err != nil {
					return tx.Rendering{}, fmt.Errorf("parsing %s: %w", amountName, err)
				}
				ltv, receiptErrors := newLtvReceipt(helper, c)
				outstandingLoan, err := outstandingLoanReceipt(c)
				if err != nil {
					return tx.Rendering{}, fmt.Errorf("parsing outstanding loan: %w", err)
				}

				return tx.Rendering{
					Phase:         tx.PhaseSucceed,
					ReceiptErrors: receiptErrors,
					Receipts: []tx.ReceiptSlot{
						amount,
						ltv,
						outstandingLoan,
						helper.TxHashReceipt(),
						helper.TxFeeReceipt(),
					},
				}, nil
			})), nil
		}
	}
}
