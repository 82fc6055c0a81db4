package utils

import (
	"go/types"

	"github.com/sirupsen/logrus"
	"github.com/stellar/go-stellar-sdk/support/config"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
	"github.com/anchor-protocol/anchor-txs/internal/tx"
)

func DatabaseURLOption(configKey *string) *config.ConfigOption {
	return &config.ConfigOption{
		Name:        "database-url",
		Usage:       "Database connection URL.",
		OptType:     types.String,
		ConfigKey:   configKey,
		FlagDefault: "postgres://postgres@localhost:5432/anchor-txs?sslmode=disable",
		Required:    true,
	}
}

// HistoryDatabaseURLOption is the database-url option of commands that run without a database when it is empty.
func HistoryDatabaseURLOption(configKey *string) *config.ConfigOption {
	return &config.ConfigOption{
		Name:      "database-url",
		Usage:     "Database connection URL of the transaction run history. The history is disabled when empty.",
		OptType:   types.String,
		ConfigKey: configKey,
		Required:  false,
	}
}

func LogLevelOption(configKey *logrus.Level) *config.ConfigOption {
	return &config.ConfigOption{
		Name:           "log-level",
		Usage:          `The log level used in this project. Options: "TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", or "PANIC".`,
		OptType:        types.String,
		FlagDefault:    "INFO",
		ConfigKey:      configKey,
		CustomSetValue: SetConfigOptionLogLevel,
		Required:       false,
	}
}

func MantleEndpointOption(configKey *string) *config.ConfigOption {
	return &config.ConfigOption{
		Name:        "mantle-endpoint",
		Usage:       "The URL of the Mantle GraphQL gateway used to look up transactions and contract state.",
		OptType:     types.String,
		ConfigKey:   configKey,
		FlagDefault: "https://mantle.terra.dev",
		Required:    true,
	}
}

func WalletBridgeURLOption(configKey *string) *config.ConfigOption {
	return &config.ConfigOption{
		Name:        "wallet-bridge-url",
		Usage:       "The URL of the wallet bridge that signs and broadcasts transactions on behalf of the user.",
		OptType:     types.String,
		ConfigKey:   configKey,
		FlagDefault: "http://localhost:8010",
		Required:    true,
	}
}

func AddressProviderOption(configKey *anchor.AddressProvider) *config.ConfigOption {
	return &config.ConfigOption{
		Name:           "address-provider",
		Usage:          `The Anchor contract addresses as a JSON object with the keys "market", "overseer", "custody", "oracle", "interestModel", "bLunaToken" and "aUST".`,
		OptType:        types.String,
		CustomSetValue: SetConfigOptionAddressProvider,
		ConfigKey:      configKey,
		Required:       true,
	}
}

// FeePolicyOptions binds the gas limit, gas adjustment and flat fee of every transaction.
func FeePolicyOptions(policy *tx.FeePolicy) config.ConfigOptions {
	return config.ConfigOptions{
		{
			Name:           "gas-limit",
			Usage:          "The gas limit set on every transaction.",
			OptType:        types.Int,
			CustomSetValue: SetConfigOptionPositiveInt64,
			ConfigKey:      &policy.GasLimit,
			FlagDefault:    1_000_000,
			Required:       true,
		},
		{
			Name:           "gas-adjustment",
			Usage:          "The multiplier applied by the wallet to its gas estimate.",
			OptType:        types.String,
			CustomSetValue: SetConfigOptionPositiveFloat,
			ConfigKey:      &policy.GasAdjustment,
			FlagDefault:    "1.6",
			Required:       true,
		},
		{
			Name:           "tx-fee",
			Usage:          "The flat transaction fee, in micro UST.",
			OptType:        types.String,
			CustomSetValue: SetConfigOptionMicroAmount,
			ConfigKey:      &policy.TxFee,
			FlagDefault:    "250000",
			Required:       true,
		},
	}
}

// PollOptions binds how often and how long a broadcast transaction is looked up.
func PollOptions(poll *tx.PollConfig) config.ConfigOptions {
	return config.ConfigOptions{
		{
			Name:           "poll-interval-ms",
			Usage:          "The interval between two lookups of a broadcast transaction, in milliseconds.",
			OptType:        types.Int,
			CustomSetValue: SetConfigOptionMilliseconds,
			ConfigKey:      &poll.Interval,
			FlagDefault:    int(tx.DefaultPollConfig.Interval.Milliseconds()),
			Required:       true,
		},
		{
			Name:           "poll-max-attempts",
			Usage:          "The number of lookups after which a broadcast transaction is reported as timed out.",
			OptType:        types.Int,
			CustomSetValue: SetConfigOptionPositiveUint,
			ConfigKey:      &poll.MaxAttempts,
			FlagDefault:    int(tx.DefaultPollConfig.MaxAttempts),
			Required:       true,
		},
	}
}

func FetchMaxWorkersOption(configKey *int) *config.ConfigOption {
	return &config.ConfigOption{
		Name:        "fetch-max-workers",
		Usage:       "The maximum number of contract queries running at once across all transaction runs.",
		OptType:     types.Int,
		ConfigKey:   configKey,
		FlagDefault: 16,
		Required:    true,
	}
}

func SentryDSNOption(configKey *string) *config.ConfigOption {
	return &config.ConfigOption{
		Name:      "tracker-dsn",
		Usage:     "The Sentry DSN. Unexpected failures are only logged when empty.",
		OptType:   types.String,
		ConfigKey: configKey,
		Required:  false,
	}
}

func EnvironmentOption(configKey *string) *config.ConfigOption {
	return &config.ConfigOption{
		Name:        "environment",
		Usage:       "The environment reported with tracked errors, e.g. mainnet or testnet.",
		OptType:     types.String,
		ConfigKey:   configKey,
		FlagDefault: "development",
		Required:    false,
	}
}
