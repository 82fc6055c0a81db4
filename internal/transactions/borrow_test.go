package transactions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

func TestBorrow(t *testing.T) {
	ctx := context.Background()
	params := BorrowParams{Params: Params{Address: testWallet, Amount: "1"}}
	borrowLog := fromContractLog(attributes(4, 3, "1000000"))

	t.Run("success", func(t *testing.T) {
		renderings := Borrow(ctx, newTestDeps(t, borrowLog, defaultBorrowData()), params).Collect()

		assert.Equal(t, []tx.Phase{tx.PhasePost, tx.PhaseBroadcast, tx.PhaseSucceed}, phasesOf(renderings))
		result := last(renderings)
		assert.Nil(t, result.FailedReason)
		assert.Empty(t, result.ReceiptErrors)
		assert.Equal(t, append([]tx.Receipt{
			{Name: "Borrowed Amount", Value: "1.000000 UST"},
			{Name: "New LTV", Value: "40.00 %"},
			{Name: "Outstanding Loan", Value: "4.000000 UST"},
		}, commonReceipts...), result.VisibleReceipts())
	})

	t.Run("borrowed_amount_attribute_missing", func(t *testing.T) {
		renderings := Borrow(ctx, newTestDeps(t, fromContractLog([]string{"x", "x"}), defaultBorrowData()), params).Collect()

		result := last(renderings)
		require.Equal(t, tx.PhaseSucceed, result.Phase)
		assert.False(t, result.Receipts[0].Valid)
		assert.Equal(t, "New LTV", result.VisibleReceipts()[0].Name)
	})

	t.Run("borrow_data_missing", func(t *testing.T) {
		data := defaultBorrowData()
		data.market = nil

		result := last(Borrow(ctx, newTestDeps(t, borrowLog, data), params).Collect())

		require.Equal(t, tx.PhaseFailed, result.Phase)
		assert.Equal(t, tx.KindReceiptBuildFailure, result.FailedReason.Kind)
		assert.Equal(t, "failed to load borrow data", result.FailedReason.Message())
		assert.Equal(t, "evt-1", result.FailedReason.ErrorID)
		assert.Equal(t, commonReceipts, result.VisibleReceipts())
	})

	t.Run("borrow_data_query_fails", func(t *testing.T) {
		result := last(Borrow(ctx, newTestDeps(t, borrowLog, &borrowData{err: errors.New("mantle is down")}), params).Collect())

		require.Equal(t, tx.PhaseFailed, result.Phase)
		assert.Equal(t, tx.KindGatewayError, result.FailedReason.Kind)
		assert.Contains(t, result.FailedReason.Message(), "mantle is down")
	})

	t.Run("raw_log_missing", func(t *testing.T) {
		result := last(Borrow(ctx, newTestDeps(t, "[]", defaultBorrowData()), params).Collect())

		require.Equal(t, tx.PhaseFailed, result.Phase)
		assert.Equal(t, tx.KindMissingRawLog, result.FailedReason.Kind)
		assert.Equal(t, "failed to find raw log", result.FailedReason.Message())
	})

	t.Run("from_contract_event_missing", func(t *testing.T) {
		rawLog := `[{"msg_index":0,"log":"","events":[{"type":"message","attributes":[]}]}]`
		result := last(Borrow(ctx, newTestDeps(t, rawLog, defaultBorrowData()), params).Collect())

		require.Equal(t, tx.PhaseFailed, result.Phase)
		assert.Equal(t, tx.KindMissingEvent, result.FailedReason.Kind)
		assert.Equal(t, "failed to find events: from_contract", result.FailedReason.Message())
	})

	t.Run("borrowed_amount_not_a_number", func(t *testing.T) {
		result := last(Borrow(ctx, newTestDeps(t, fromContractLog(attributes(4, 3, "lots")), defaultBorrowData()), params).Collect())

		require.Equal(t, tx.PhaseFailed, result.Phase)
		assert.Equal(t, tx.KindReceiptParseFailure, result.FailedReason.Kind)
		assert.ErrorIs(t, result.FailedReason.Error, tx.ErrReceiptParse)
	})

	t.Run("no_locked_collateral_shows_zero_ltv", func(t *testing.T) {
		data := defaultBorrowData()
		data.borrower.CustodyBorrower.Spendable = data.borrower.CustodyBorrower.Balance

		result := last(Borrow(ctx, newTestDeps(t, borrowLog, data), params).Collect())

		require.Equal(t, tx.PhaseSucceed, result.Phase)
		assert.Equal(t, tx.Receipt{Name: "New LTV", Value: "0.00 %"}, result.VisibleReceipts()[1])
		assert.Empty(t, result.ReceiptErrors)
	})

	t.Run("unparseable_ltv_inputs_are_receipt_errors", func(t *testing.T) {
		data := defaultBorrowData()
		data.market.OraclePrice.Rate = "n/a"

		result := last(Borrow(ctx, newTestDeps(t, borrowLog, data), params).Collect())

		require.Equal(t, tx.PhaseSucceed, result.Phase)
		assert.Equal(t, tx.Receipt{Name: "New LTV", Value: "0.00 %"}, result.VisibleReceipts()[1])
		require.Len(t, result.ReceiptErrors, 1)
		assert.Equal(t, tx.KindReceiptParseFailure, result.ReceiptErrors[0].Kind)
		assert.Contains(t, result.ReceiptErrors[0].Message(), "parsing oracle rate")
	})

	t.Run("invalid_amount_fails_before_posting", func(t *testing.T) {
		deps := newTestDeps(t, borrowLog, defaultBorrowData())
		deps.Capabilities.Poster = posterFunc(nil)

		renderings := Borrow(ctx, deps, BorrowParams{Params: Params{Address: testWallet, Amount: "0"}}).Collect()

		require.Equal(t, []tx.Phase{tx.PhaseFailed}, phasesOf(renderings))
		assert.Equal(t, tx.KindCreateTxFailed, renderings[0].FailedReason.Kind)
		assert.Empty(t, renderings[0].FailedReason.ErrorID)
	})
}

func TestRepay(t *testing.T) {
	ctx := context.Background()
	params := RepayParams{Params: Params{Address: testWallet, Amount: "2.5"}}

	renderings := Repay(ctx, newTestDeps(t, fromContractLog(attributes(5, 3, "2500000")), defaultBorrowData()), params).Collect()

	assert.Equal(t, []tx.Phase{tx.PhasePost, tx.PhaseBroadcast, tx.PhaseSucceed}, phasesOf(renderings))
	assert.Equal(t, append([]tx.Receipt{
		{Name: "Repaid Amount", Value: "2.500000 UST"},
		{Name: "New LTV", Value: "40.00 %"},
		{Name: "Outstanding Loan", Value: "4.000000 UST"},
	}, commonReceipts...), last(renderings).VisibleReceipts())
}

func TestRedeemCollateral(t *testing.T) {
	ctx := context.Background()
	params := RedeemCollateralParams{Params: Params{Address: testWallet, Amount: "2.5"}}

	t.Run("success", func(t *testing.T) {
		rawLog := fromContractLog(attributes(4, 3, "x"), attributes(17, 16, "2500000"))
		renderings := RedeemCollateral(ctx, newTestDeps(t, rawLog, defaultBorrowData()), params).Collect()

		assert.Equal(t, []tx.Phase{tx.PhasePost, tx.PhaseBroadcast, tx.PhaseSucceed}, phasesOf(renderings))
		assert.Equal(t, append([]tx.Receipt{
			{Name: "Redeemed Amount", Value: "2.500000 bLuna"},
			{Name: "New LTV", Value: "40.00 %"},
		}, commonReceipts...), last(renderings).VisibleReceipts())
	})

	t.Run("custody_log_missing", func(t *testing.T) {
		rawLog := fromContractLog(attributes(4, 3, "x"))
		result := last(RedeemCollateral(ctx, newTestDeps(t, rawLog, defaultBorrowData()), params).Collect())

		require.Equal(t, tx.PhaseFailed, result.Phase)
		assert.Equal(t, tx.KindMissingRawLog, result.FailedReason.Kind)
	})
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()
	params := DepositParams{Params: Params{Address: testWallet, Amount: "1"}}

	t.Run("success_without_domain_queries", func(t *testing.T) {
		data := defaultBorrowData()
		rawLog := fromContractLog([]string{"contract", "deposit_stable", testWallet, "980000", "1000000"})

		renderings := Deposit(ctx, newTestDeps(t, rawLog, data), params).Collect()

		assert.Equal(t, []tx.Phase{tx.PhasePost, tx.PhaseBroadcast, tx.PhaseSucceed}, phasesOf(renderings))
		assert.Equal(t, append([]tx.Receipt{
			{Name: "Deposit Amount", Value: "1.000000 UST"},
			{Name: "Received Amount", Value: "0.980000 aUST"},
		}, commonReceipts...), last(renderings).VisibleReceipts())
		assert.Zero(t, data.calls)
	})

	t.Run("tx_failed_on_chain", func(t *testing.T) {
		deps := newTestDeps(t, "", defaultBorrowData())
		deps.Capabilities.TxInfos = fetcherFunc(func(context.Context, string) (terra.TxInfos, error) {
			return terra.TxInfos{{TxHash: testTxHash, Success: false, RawLog: "out of gas"}}, nil
		})

		result := last(Deposit(ctx, deps, params).Collect())

		require.Equal(t, tx.PhaseFailed, result.Phase)
		assert.Equal(t, tx.KindTxFailed, result.FailedReason.Kind)
		assert.Equal(t, "out of gas", result.FailedReason.Message())
		assert.Empty(t, result.FailedReason.ErrorID)
	})
}
