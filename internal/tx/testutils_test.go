package tx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anchor-protocol/anchor-txs/internal/terra"
)

const testTxHash = "A1B2C3"

var testPollConfig = PollConfig{Interval: time.Millisecond, MaxAttempts: 5}

type posterFunc func(ctx context.Context, txOptions terra.TxOptions) (terra.TxResult, error)

func (f posterFunc) Post(ctx context.Context, txOptions terra.TxOptions) (terra.TxResult, error) {
	return f(ctx, txOptions)
}

type fetcherFunc func(ctx context.Context, txHash string) (terra.TxInfos, error)

func (f fetcherFunc) TxInfos(ctx context.Context, txHash string) (terra.TxInfos, error) {
	return f(ctx, txHash)
}

func testMsgs() []terra.Msg {
	return []terra.Msg{{
		Sender:     "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v",
		Contract:   "terra1sepfj7s0aeg5967uxnfk4thzlerrsktkpelm5s",
		ExecuteMsg: json.RawMessage(`{"deposit_stable":{}}`),
	}}
}

var testFeePolicy = FeePolicy{GasLimit: 1_000_000, GasAdjustment: 1.6, TxFee: "250000"}

func successfulTxInfos() terra.TxInfos {
	return terra.TxInfos{{TxHash: testTxHash, Success: true, RawLog: `[]`}}
}

func collector() (*[]Rendering, Emitter) {
	var renderings []Rendering
	return &renderings, func(r Rendering) { renderings = append(renderings, r) }
}

func phasesOf(renderings []Rendering) []Phase {
	phases := make([]Phase, 0, len(renderings))
	for _, r := range renderings {
		phases = append(phases, r.Phase)
	}
	return phases
}
