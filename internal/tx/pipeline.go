package tx

import (
	"context"
	"errors"

	"github.com/alitto/pond/v2"

	"github.com/anchor-protocol/anchor-txs/internal/terra"
)

// Capabilities are the collaborators a run is given. ErrorReporter is optional.
type Capabilities struct {
	Poster        Poster
	TxInfos       TxInfoFetcher
	ErrorReporter ErrorReporter
}

func (c Capabilities) Validate() error {
	if c.Poster == nil {
		return errors.New("poster is required")
	}
	if c.TxInfos == nil {
		return errors.New("tx info fetcher is required")
	}
	return nil
}

// Config is the policy shared by every run.
type Config struct {
	Fee  FeePolicy
	Poll PollConfig
	// Pool runs the domain queries.
	Pool pond.Pool
}

// Definition is what differs between transaction types.
type Definition[A Carrier] struct {
	Fabricate func() ([]terra.Msg, error)
	Queries   []DomainQuery[A]
	Receipts  func(helper *Helper) Stage[A]
}

// Start runs create options, post, poll, fetch domain data and the type's receipts stage on value.
func Start[A Carrier](ctx context.Context, caps Capabilities, cfg Config, value A, def Definition[A], observers ...Observer) *Stream {
	helper := NewHelper(cfg.Fee.TxFee, caps.ErrorReporter)
	stage := Catch(helper, Pipe(
		CreateTxOptions[A](helper, def.Fabricate, cfg.Fee),
		PostTx[A](helper, caps.Poster),
		PollTxInfo[A](helper, caps.TxInfos, cfg.Poll),
		FetchDomainData(helper, cfg.Pool, def.Queries...),
		def.Receipts(helper),
	))

	initial := Snapshot[A]{Value: value, Rendering: Rendering{Phase: PhasePost}}
	return Run(ctx, initial, stage, observers...)
}
