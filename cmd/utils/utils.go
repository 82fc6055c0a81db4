package utils

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stellar/go-stellar-sdk/support/config"
	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
	"github.com/anchor-protocol/anchor-txs/internal/apptracker/dryrun"
	"github.com/anchor-protocol/anchor-txs/internal/apptracker/sentry"
)

const sentryFlushSeconds = 5

func DefaultPersistentPreRunE(cfgOpts config.ConfigOptions) func(_ *cobra.Command, _ []string) error {
	return func(_ *cobra.Command, _ []string) error {
		if err := cfgOpts.RequireE(); err != nil {
			return fmt.Errorf("requiring values of config options: %w", err)
		}
		if err := cfgOpts.SetValues(); err != nil {
			return fmt.Errorf("setting values of config options: %w", err)
		}
		return nil
	}
}

// AppTrackerResolver returns a Sentry tracker, or a tracker that only logs when no DSN is configured.
func AppTrackerResolver(sentryDSN, environment string) (apptracker.AppTracker, error) {
	if sentryDSN == "" {
		log.Warn("No tracker DSN configured, unexpected failures will only be logged")
		return &dryrun.DryRunTracker{}, nil
	}

	appTracker, err := sentry.NewSentryTracker(sentryDSN, environment, sentryFlushSeconds)
	if err != nil {
		return nil, fmt.Errorf("initializing sentry tracker: %w", err)
	}
	return appTracker, nil
}
