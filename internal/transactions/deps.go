package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

// BorrowDataQuerier loads the records the borrow receipts are computed from.
type BorrowDataQuerier interface {
	BorrowMarket(ctx context.Context) (*anchor.BorrowMarket, error)
	BorrowBorrower(ctx context.Context, address string) (*anchor.BorrowBorrower, error)
}

// Deps are the collaborators and policy every transaction run is started with.
type Deps struct {
	AddressProvider anchor.AddressProvider
	Capabilities    tx.Capabilities
	Config          tx.Config
	BorrowData      BorrowDataQuerier
}

func (d Deps) Validate() error {
	if err := d.AddressProvider.Validate(); err != nil {
		return fmt.Errorf("validating address provider: %w", err)
	}
	if err := d.Capabilities.Validate(); err != nil {
		return fmt.Errorf("validating capabilities: %w", err)
	}
	if err := d.Config.Poll.Validate(); err != nil {
		return fmt.Errorf("validating poll config: %w", err)
	}
	if d.Config.Pool == nil {
		return errors.New("pool is required")
	}
	if d.BorrowData == nil {
		return errors.New("borrow data querier is required")
	}
	return nil
}
