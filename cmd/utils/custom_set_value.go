package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stellar/go-stellar-sdk/support/config"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
)

func setConfigKey[T any](co *config.ConfigOption, value T) error {
	key, ok := co.ConfigKey.(*T)
	if !ok {
		var zero T
		return fmt.Errorf("the expected type for the config key in %s is a %T, but a %T was provided instead", co.Name, zero, co.ConfigKey)
	}
	*key = value
	return nil
}

func SetConfigOptionLogLevel(co *config.ConfigOption) error {
	logLevelStr := viper.GetString(co.Name)
	logLevel, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		return fmt.Errorf("couldn't parse log level in %s: %w", co.Name, err)
	}

	return setConfigKey(co, logLevel)
}

func SetConfigOptionAddressProvider(co *config.ConfigOption) error {
	raw := strings.TrimSpace(viper.GetString(co.Name))
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", co.Name)
	}

	addressProvider, err := anchor.ParseAddressProvider([]byte(raw))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", co.Name, err)
	}

	return setConfigKey(co, addressProvider)
}

func SetConfigOptionPositiveInt64(co *config.ConfigOption) error {
	value := viper.GetInt64(co.Name)
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %d", co.Name, value)
	}

	return setConfigKey(co, value)
}

func SetConfigOptionPositiveUint(co *config.ConfigOption) error {
	value := viper.GetInt(co.Name)
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %d", co.Name, value)
	}

	return setConfigKey(co, uint(value))
}

func SetConfigOptionPositiveFloat(co *config.ConfigOption) error {
	raw := viper.GetString(co.Name)
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", co.Name, err)
	}
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %s", co.Name, raw)
	}

	return setConfigKey(co, value)
}

// SetConfigOptionMicroAmount accepts a non negative whole number of micro units.
func SetConfigOptionMicroAmount(co *config.ConfigOption) error {
	raw := strings.TrimSpace(viper.GetString(co.Name))
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", co.Name, err)
	}
	if amount.IsNegative() || !amount.Equal(amount.Truncate(0)) {
		return fmt.Errorf("%s must be a non negative whole number of micro units, got %s", co.Name, raw)
	}

	return setConfigKey(co, amount.String())
}

func SetConfigOptionMilliseconds(co *config.ConfigOption) error {
	ms := viper.GetInt(co.Name)
	if ms <= 0 {
		return fmt.Errorf("%s must be positive, got %d", co.Name, ms)
	}

	return setConfigKey(co, time.Duration(ms)*time.Millisecond)
}
