package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchor-protocol/anchor-txs/internal/terra"
)

const (
	testWallet   = "terra1x46rqay4d3cssq8gxxvqz8xt6nwlz4td20k38v"
	testMarket   = "terra1sepfj7s0aeg5967uxnfk4thzlerrsktkpelm5s"
	testOverseer = "terra1tmnqgvg567ypvsvk6rwsga3srp7e3lg6u0elp8"
	testCustody  = "terra1ptjp2vfjrwh0j0faj9r6katm640kgjxnwwq9kn"
	testOracle   = "terra1cgg6yef7qcdm070qftghfulaxmllgmvk77nc7t"
	testBLuna    = "terra1kc87mu460fwkqte29rquh4hc20m54fxwtsx7gp"
	testAUST     = "terra1hzh9vpxhsk8253se0vv5jj6etdvxu3nv8z07zu"
)

func testAddressProvider() AddressProvider {
	return AddressProvider{
		Market:     testMarket,
		Overseer:   testOverseer,
		Custody:    testCustody,
		Oracle:     testOracle,
		BLunaToken: testBLuna,
		AUST:       testAUST,
	}
}

func TestFabricateMarketBorrow(t *testing.T) {
	ap := testAddressProvider()

	t.Run("floors_micro_amount", func(t *testing.T) {
		msgs, err := FabricateMarketBorrow(ap, testWallet, "1.0000009", "")
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, testMarket, msgs[0].Contract)
		assert.Equal(t, testWallet, msgs[0].Sender)
		assert.JSONEq(t, `{"borrow_stable":{"borrow_amount":"1000000"}}`, string(msgs[0].ExecuteMsg))
		assert.Empty(t, msgs[0].Coins)
	})

	t.Run("withdraw_to", func(t *testing.T) {
		msgs, err := FabricateMarketBorrow(ap, testWallet, "2", testAUST)
		require.NoError(t, err)
		assert.JSONEq(t, `{"borrow_stable":{"borrow_amount":"2000000","to":"`+testAUST+`"}}`, string(msgs[0].ExecuteMsg))
	})

	t.Run("invalid_withdraw_to", func(t *testing.T) {
		_, err := FabricateMarketBorrow(ap, testWallet, "2", "nope")
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("invalid_wallet", func(t *testing.T) {
		_, err := FabricateMarketBorrow(ap, "", "2", "")
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("dust_amount", func(t *testing.T) {
		_, err := FabricateMarketBorrow(ap, testWallet, "0.0000001", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unparsable_amount", func(t *testing.T) {
		_, err := FabricateMarketBorrow(ap, testWallet, "abc", "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestFabricateStableCoinMsgs(t *testing.T) {
	ap := testAddressProvider()

	repay, err := FabricateMarketRepay(ap, testWallet, "10.5")
	require.NoError(t, err)
	require.Len(t, repay, 1)
	assert.JSONEq(t, `{"repay_stable":{}}`, string(repay[0].ExecuteMsg))
	assert.Equal(t, []terra.Coin{{Denom: "uusd", Amount: "10500000"}}, repay[0].Coins)

	deposit, err := FabricateMarketDepositStableCoin(ap, testWallet, "3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"deposit_stable":{}}`, string(deposit[0].ExecuteMsg))
	assert.Equal(t, []terra.Coin{{Denom: "uusd", Amount: "3000000"}}, deposit[0].Coins)
}

func TestFabricateRedeemCollateral(t *testing.T) {
	msgs, err := FabricateRedeemCollateral(testAddressProvider(), testWallet, "4")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, testOverseer, msgs[0].Contract)
	assert.JSONEq(t, `{"unlock_collateral":{"collaterals":[["`+testBLuna+`","4000000"]]}}`, string(msgs[0].ExecuteMsg))
	assert.Equal(t, testCustody, msgs[1].Contract)
	assert.JSONEq(t, `{"withdraw_collateral":{"amount":"4000000"}}`, string(msgs[1].ExecuteMsg))
}

func TestParseAddressProvider(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		raw := `{"market":"` + testMarket + `","overseer":"` + testOverseer + `","custody":"` + testCustody +
			`","oracle":"` + testOracle + `","bLunaToken":"` + testBLuna + `","aUST":"` + testAUST + `"}`
		ap, err := ParseAddressProvider([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, testAddressProvider(), ap)
	})

	t.Run("missing_market", func(t *testing.T) {
		_, err := ParseAddressProvider([]byte(`{"overseer":"` + testOverseer + `"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid address provider")
		assert.Contains(t, err.Error(), "market:This field is required")
	})

	t.Run("not_json", func(t *testing.T) {
		_, err := ParseAddressProvider([]byte(`{`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding address provider")
	})
}
