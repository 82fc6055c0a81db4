package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCurrentLtv(t *testing.T) {
	oracle := OraclePrice{Rate: "10"}

	t.Run("locked_collateral", func(t *testing.T) {
		ltv, err := ComputeCurrentLtv(
			MarketBorrowerInfo{LoanAmount: "4000000"},
			CustodyBorrower{Balance: "1500000", Spendable: "500000"},
			oracle,
		)
		require.NoError(t, err)
		assert.Equal(t, "0.4", ltv.String())
		assert.Equal(t, "40.00", FormatRate(ltv))
	})

	t.Run("nothing_locked", func(t *testing.T) {
		_, err := ComputeCurrentLtv(
			MarketBorrowerInfo{LoanAmount: "4000000"},
			CustodyBorrower{Balance: "500000", Spendable: "500000"},
			oracle,
		)
		assert.ErrorIs(t, err, ErrNoLockedCollateral)
	})

	t.Run("bad_rate", func(t *testing.T) {
		_, err := ComputeCurrentLtv(
			MarketBorrowerInfo{LoanAmount: "1"},
			CustodyBorrower{Balance: "2", Spendable: "1"},
			OraclePrice{Rate: ""},
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing oracle rate")
	})
}
