package dryrun

import (
	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
)

// DryRunTracker logs what would have been reported and never assigns error ids.
type DryRunTracker struct{}

var _ apptracker.AppTracker = (*DryRunTracker)(nil)

func (d *DryRunTracker) CaptureException(exception error) string {
	log.Errorf("[apptracker] %v", exception)
	return ""
}
