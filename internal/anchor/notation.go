package anchor

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// MicroDecimals is the number of decimals between a display unit and its micro unit.
	MicroDecimals = 6
	// USTDenom is the micro denomination of UST.
	USTDenom = "uusd"

	rateDecimals = 2
)

var (
	micro   = decimal.New(1, MicroDecimals)
	million = decimal.New(1, 6)
	hundred = decimal.NewFromInt(100)
	// amounts come from contract events and may not fit in an int64
	maxInt64 = decimal.NewFromInt(math.MaxInt64)

	printer = message.NewPrinter(language.English)
)

// Microfy converts a display amount (e.g. "1.5" UST) into micro units (1500000).
func Microfy(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return d.Mul(micro), nil
}

// Demicrofy converts a micro amount (e.g. "1500000" uusd) into its display amount.
func Demicrofy(microAmount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(microAmount))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing micro amount %q: %w", microAmount, err)
	}
	return d.Div(micro), nil
}

// FormatUST renders a display amount with 6 truncated decimals and thousands separators.
func FormatUST(amount decimal.Decimal) string {
	return formatDecimal(amount, MicroDecimals)
}

// FormatUSTWithPostfixUnits is FormatUST, shortened with an "M" postfix from one million on.
func FormatUSTWithPostfixUnits(amount decimal.Decimal) string {
	if amount.GreaterThanOrEqual(million) {
		return FormatUST(amount.Div(million)) + "M"
	}
	return FormatUST(amount)
}

// FormatLuna renders a (b)Luna display amount.
func FormatLuna(amount decimal.Decimal) string {
	return formatDecimal(amount, MicroDecimals)
}

// FormatRate renders a ratio as a percentage number with 2 decimals, e.g. 0.4512 -> "45.12".
func FormatRate(rate decimal.Decimal) string {
	return formatDecimal(rate.Mul(hundred), rateDecimals)
}

func formatDecimal(d decimal.Decimal, places int32) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	truncated := d.Truncate(places)
	integer := truncated.Truncate(0)
	fraction := strings.TrimPrefix(truncated.Sub(integer).StringFixed(places), "0")
	if truncated.IsZero() {
		sign = ""
	}

	return sign + groupThousands(integer) + fraction
}

// groupThousands renders a non negative integer with thousands separators.
func groupThousands(integer decimal.Decimal) string {
	if integer.LessThanOrEqual(maxInt64) {
		return printer.Sprintf("%d", integer.IntPart())
	}

	digits := integer.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
