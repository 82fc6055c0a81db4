package utils

import (
	"go/types"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stellar/go-stellar-sdk/support/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchor-protocol/anchor-txs/internal/anchor"
)

// customSetterTestCase is a test case to test a custom_set_value function.
type customSetterTestCase[T any] struct {
	name            string
	args            []string
	envValue        string
	wantErrContains string
	wantResult      T
}

// customSetterTester tests a custom_set_value function, according with the customSetterTestCase provided.
func customSetterTester[T any](t *testing.T, tc customSetterTestCase[T], co config.ConfigOption) {
	t.Helper()
	ClearTestEnvironment(t)
	if tc.envValue != "" {
		envName := strings.ToUpper(co.Name)
		envName = strings.ReplaceAll(envName, "-", "_")
		t.Setenv(envName, tc.envValue)
	}

	testCmd := cobra.Command{
		RunE: func(cmd *cobra.Command, args []string) error {
			co.Require()
			return co.SetValue()
		},
	}
	buf := new(strings.Builder)
	testCmd.SetOut(buf)

	err := co.Init(&testCmd)
	require.NoError(t, err)

	if len(tc.args) > 0 {
		testCmd.SetArgs(tc.args)
	}
	err = testCmd.Execute()

	if tc.wantErrContains != "" {
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.wantErrContains)
		return
	}
	require.NoError(t, err)

	destPointer, ok := co.ConfigKey.(*T)
	require.True(t, ok, "config key of %s is a %T", co.Name, co.ConfigKey)
	assert.Equal(t, tc.wantResult, *destPointer)
}

// ClearTestEnvironment removes all envs from the test environment. It's useful
// to make tests independent from the localhost environment variables.
func ClearTestEnvironment(t *testing.T) {
	t.Helper()

	for _, env := range os.Environ() {
		key := env[:strings.Index(env, "=")]
		t.Setenv(key, "")
	}
}

func Test_SetConfigOptionLogLevel(t *testing.T) {
	opts := struct{ logrusLevel logrus.Level }{}

	co := config.ConfigOption{
		Name:           "log-level",
		OptType:        types.String,
		CustomSetValue: SetConfigOptionLogLevel,
		ConfigKey:      &opts.logrusLevel,
	}

	testCases := []customSetterTestCase[logrus.Level]{
		{
			name:            "returns an error if the log level is empty",
			args:            []string{},
			wantErrContains: `couldn't parse log level in log-level: not a valid logrus Level: ""`,
		},
		{
			name:            "returns an error if the log level is invalid",
			args:            []string{"--log-level", "test"},
			wantErrContains: `couldn't parse log level in log-level: not a valid logrus Level: "test"`,
		},
		{
			name:       "handles log level TRACE (through CLI args)",
			args:       []string{"--log-level", "TRACE"},
			wantResult: logrus.TraceLevel,
		},
		{
			name:       "handles log level INFO (through ENV vars)",
			envValue:   "INFO",
			wantResult: logrus.InfoLevel,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts.logrusLevel = 0
			customSetterTester(t, tc, co)
		})
	}
}

func TestSetConfigOptionAddressProvider(t *testing.T) {
	opts := struct{ addressProvider anchor.AddressProvider }{}

	co := config.ConfigOption{
		Name:           "address-provider",
		OptType:        types.String,
		CustomSetValue: SetConfigOptionAddressProvider,
		ConfigKey:      &opts.addressProvider,
	}

	addressProviderJSON := `{
		"market": "terra1sepfj7s0aeg5967uxnfk4thzlerrsktkpelm5s",
		"overseer": "terra1tmnqgvg567ypvsvk6rwsga3srp7e3lg6u0elp8",
		"custody": "terra1ptjp2vfjrwh0j0faj9r6katm640kgjxnwwq9kn",
		"oracle": "terra1cgg6yef7qcdm070qftghfulaxmllgmvk77nc7t",
		"bLunaToken": "terra1kc87mu460fwkqte29rquh4hc20m54fxwtsx7gp",
		"aUST": "terra1hzh9vpxhsk8253se0vv5jj6etdvxu3nv8z07zu"
	}`
	expected := anchor.AddressProvider{
		Market:     "terra1sepfj7s0aeg5967uxnfk4thzlerrsktkpelm5s",
		Overseer:   "terra1tmnqgvg567ypvsvk6rwsga3srp7e3lg6u0elp8",
		Custody:    "terra1ptjp2vfjrwh0j0faj9r6katm640kgjxnwwq9kn",
		Oracle:     "terra1cgg6yef7qcdm070qftghfulaxmllgmvk77nc7t",
		BLunaToken: "terra1kc87mu460fwkqte29rquh4hc20m54fxwtsx7gp",
		AUST:       "terra1hzh9vpxhsk8253se0vv5jj6etdvxu3nv8z07zu",
	}

	testCases := []customSetterTestCase[anchor.AddressProvider]{
		{
			name:            "returns an error if the address provider is empty",
			wantErrContains: "address-provider cannot be empty",
		},
		{
			name:            "returns an error if the JSON is invalid",
			args:            []string{"--address-provider", "invalid"},
			wantErrContains: "parsing address-provider: decoding address provider",
		},
		{
			name:            "returns an error if an address is invalid",
			args:            []string{"--address-provider", `{"market": "terra1nope"}`},
			wantErrContains: "invalid address provider",
		},
		{
			name:       "handles the address provider through the CLI flag",
			args:       []string{"--address-provider", addressProviderJSON},
			wantResult: expected,
		},
		{
			name:       "handles the address provider through the ENV vars",
			envValue:   addressProviderJSON,
			wantResult: expected,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts.addressProvider = anchor.AddressProvider{}
			customSetterTester(t, tc, co)
		})
	}
}

func TestSetConfigOptionMilliseconds(t *testing.T) {
	opts := struct{ interval time.Duration }{}

	co := config.ConfigOption{
		Name:           "poll-interval-ms",
		OptType:        types.Int,
		CustomSetValue: SetConfigOptionMilliseconds,
		ConfigKey:      &opts.interval,
		FlagDefault:    500,
	}

	testCases := []customSetterTestCase[time.Duration]{
		{
			name:       "uses the flag default",
			wantResult: 500 * time.Millisecond,
		},
		{
			name:       "handles the interval through the CLI flag",
			args:       []string{"--poll-interval-ms", "250"},
			wantResult: 250 * time.Millisecond,
		},
		{
			name:            "returns an error if the interval is not positive",
			args:            []string{"--poll-interval-ms", "0"},
			wantErrContains: "poll-interval-ms must be positive, got 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts.interval = 0
			customSetterTester(t, tc, co)
		})
	}
}

func TestSetConfigOptionMicroAmount(t *testing.T) {
	opts := struct{ fee string }{}

	co := config.ConfigOption{
		Name:           "tx-fee",
		OptType:        types.String,
		CustomSetValue: SetConfigOptionMicroAmount,
		ConfigKey:      &opts.fee,
	}

	testCases := []customSetterTestCase[string]{
		{
			name:       "handles a whole micro amount",
			args:       []string{"--tx-fee", "250000"},
			wantResult: "250000",
		},
		{
			name:            "returns an error for a fractional micro amount",
			args:            []string{"--tx-fee", "1.5"},
			wantErrContains: "tx-fee must be a non negative whole number of micro units, got 1.5",
		},
		{
			name:            "returns an error for a negative amount",
			args:            []string{"--tx-fee", "-1"},
			wantErrContains: "tx-fee must be a non negative whole number of micro units, got -1",
		},
		{
			name:            "returns an error for a non numeric amount",
			args:            []string{"--tx-fee", "lots"},
			wantErrContains: "parsing tx-fee",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts.fee = ""
			customSetterTester(t, tc, co)
		})
	}
}

func TestSetConfigOptionPositiveFloat(t *testing.T) {
	opts := struct{ adjustment float64 }{}

	co := config.ConfigOption{
		Name:           "gas-adjustment",
		OptType:        types.String,
		CustomSetValue: SetConfigOptionPositiveFloat,
		ConfigKey:      &opts.adjustment,
	}

	testCases := []customSetterTestCase[float64]{
		{
			name:       "handles a positive float",
			args:       []string{"--gas-adjustment", "1.6"},
			wantResult: 1.6,
		},
		{
			name:            "returns an error for zero",
			args:            []string{"--gas-adjustment", "0"},
			wantErrContains: "gas-adjustment must be positive, got 0",
		},
		{
			name:            "returns an error for garbage",
			args:            []string{"--gas-adjustment", "abc"},
			wantErrContains: "parsing gas-adjustment",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts.adjustment = 0
			customSetterTester(t, tc, co)
		})
	}
}

func TestSetConfigKey_WrongType(t *testing.T) {
	var wrong int
	co := &config.ConfigOption{Name: "tx-fee", ConfigKey: &wrong}

	err := setConfigKey(co, "250000")
	assert.EqualError(t, err, "the expected type for the config key in tx-fee is a string, but a *int was provided instead")
}
