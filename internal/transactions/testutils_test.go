package transactions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/terra"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

const (
	testWallet = "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v"
	testTxHash = "A1B2C3"
)

func testAddressProvider() anchor.AddressProvider {
	return anchor.AddressProvider{
		Market:     "terra1sepfj7s0aeg5967uxnfk4thzlerrsktkpelm5s",
		Overseer:   "terra1tmnqgvg567ypvsvk6rwsga3srp7e3lg6u0elp8",
		Custody:    "terra1ptjp2vfjrwh0j0faj9r6katm640kgjxnwwq9kn",
		Oracle:     "terra1cgg6yef7qcdm070qftghfulaxmllgmvk77nc7t",
		BLunaToken: "terra1kc87mu460fwkqte29rquh4hc20m54fxwtsx7gp",
		AUST:       "terra1hzh9vpxhsk8253se0vv5jj6etdvxu3nv8z07zu",
	}
}

type posterFunc func(ctx context.Context, txOptions terra.TxOptions) (terra.TxResult, error)

func (f posterFunc) Post(ctx context.Context, txOptions terra.TxOptions) (terra.TxResult, error) {
	return f(ctx, txOptions)
}

type fetcherFunc func(ctx context.Context, txHash string) (terra.TxInfos, error)

func (f fetcherFunc) TxInfos(ctx context.Context, txHash string) (terra.TxInfos, error) {
	return f(ctx, txHash)
}

// borrowData answers the borrow data queries with fixed records.
type borrowData struct {
	market   *anchor.BorrowMarket
	borrower *anchor.BorrowBorrower
	err      error
	calls    int
}

func (b *borrowData) BorrowMarket(ctx context.Context) (*anchor.BorrowMarket, error) {
	return b.market, b.err
}

func (b *borrowData) BorrowBorrower(ctx context.Context, address string) (*anchor.BorrowBorrower, error) {
	b.calls++
	return b.borrower, b.err
}

// defaultBorrowData yields an LTV of 4000000 / ((1500000 - 500000) * 10) = 40%.
func defaultBorrowData() *borrowData {
	return &borrowData{
		market: &anchor.BorrowMarket{OraclePrice: anchor.OraclePrice{Rate: "10"}},
		borrower: &anchor.BorrowBorrower{
			MarketBorrowerInfo: anchor.MarketBorrowerInfo{Borrower: testWallet, LoanAmount: "4000000"},
			CustodyBorrower:    anchor.CustodyBorrower{Borrower: testWallet, Balance: "1500000", Spendable: "500000"},
		},
	}
}

// fromContractLog builds a raw log where every message has a from_contract event with the given
// attribute values.
func fromContractLog(msgs ...[]string) string {
	rawLog := make([]terra.RawLogMsg, 0, len(msgs))
	for i, values := range msgs {
		attrs := make([]terra.RawLogAttribute, 0, len(values))
		for j, v := range values {
			attrs = append(attrs, terra.RawLogAttribute{Key: "key" + string(rune('a'+j)), Value: v})
		}
		rawLog = append(rawLog, terra.RawLogMsg{
			MsgIndex: i,
			Events: []terra.RawLogEvent{
				{Type: "message", Attributes: []terra.RawLogAttribute{{Key: "action", Value: "execute_contract"}}},
				{Type: "from_contract", Attributes: attrs},
			},
		})
	}
	b, err := json.Marshal(rawLog)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func attributes(n int, at int, value string) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = "x"
	}
	values[at] = value
	return values
}

func newTestDeps(t *testing.T, rawLog string, data BorrowDataQuerier) Deps {
	t.Helper()

	pool := pond.NewPool(2)
	t.Cleanup(pool.StopAndWait)

	return Deps{
		AddressProvider: testAddressProvider(),
		Capabilities: tx.Capabilities{
			Poster: posterFunc(func(context.Context, terra.TxOptions) (terra.TxResult, error) {
				return terra.TxResult{TxHash: testTxHash}, nil
			}),
			TxInfos: fetcherFunc(func(context.Context, string) (terra.TxInfos, error) {
				return terra.TxInfos{{TxHash: testTxHash, Success: true, RawLog: rawLog}}, nil
			}),
			ErrorReporter: func(error) string { return "evt-1" },
		},
		Config: tx.Config{
			Fee:  tx.FeePolicy{GasLimit: 1_000_000, GasAdjustment: 1.6, TxFee: "250000"},
			Poll: tx.PollConfig{Interval: time.Millisecond, MaxAttempts: 3},
			Pool: pool,
		},
		BorrowData: data,
	}
}

func phasesOf(renderings []tx.Rendering) []tx.Phase {
	phases := make([]tx.Phase, 0, len(renderings))
	for _, r := range renderings {
		phases = append(phases, r.Phase)
	}
	return phases
}

func last(renderings []tx.Rendering) tx.Rendering {
	return renderings[len(renderings)-1]
}

var commonReceipts = []tx.Receipt{
	{Name: "Tx Hash", Value: testTxHash},
	{Name: "Tx Fee", Value: "0.250000 UST"},
}
