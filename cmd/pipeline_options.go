package cmd

import (
	"github.com/stellar/go-stellar-sdk/support/config"
	"github.com/stellar/go-stellar-sdk/support/log"

	"github.com/anchor-protocol/anchor-txs/cmd/utils"
	"github.com/anchor-protocol/anchor-txs/internal/serve"
)

// pipelineOptions are the options shared by every command that starts transaction runs.
type pipelineOptions struct {
	sentryDSN   string
	environment string
}

func (o *pipelineOptions) configOptions(cfg *serve.Configs) config.ConfigOptions {
	cfgOpts := config.ConfigOptions{
		utils.LogLevelOption(&cfg.LogLevel),
		utils.MantleEndpointOption(&cfg.MantleEndpoint),
		utils.WalletBridgeURLOption(&cfg.WalletBridgeURL),
		utils.AddressProviderOption(&cfg.AddressProvider),
		utils.FetchMaxWorkersOption(&cfg.FetchMaxWorkers),
		utils.HistoryDatabaseURLOption(&cfg.DatabaseURL),
		utils.SentryDSNOption(&o.sentryDSN),
		utils.EnvironmentOption(&o.environment),
	}
	cfgOpts = append(cfgOpts, utils.FeePolicyOptions(&cfg.FeePolicy)...)
	cfgOpts = append(cfgOpts, utils.PollOptions(&cfg.PollConfig)...)
	return cfgOpts
}

// resolve finishes cfg once the option values are set.
func (o *pipelineOptions) resolve(cfg *serve.Configs) error {
	log.DefaultLogger.SetLevel(cfg.LogLevel)

	appTracker, err := utils.AppTrackerResolver(o.sentryDSN, o.environment)
	if err != nil {
		return err //nolint:wrapcheck
	}
	cfg.AppTracker = appTracker
	return nil
}
