// Package money handles parsing and formatting of monetary amounts.
// Amounts are decimals end to end; floats never touch a price. The wire
// format toward the store is always exactly two decimals with half-up
// rounding, while on-screen display trims trailing zeros.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Two decimal places, the store's price precision.
const precision = 2

// Parse reads a monetary or numeric cell value. It accepts either '.' or
// ',' as the decimal separator. An empty string yields (nil, true): absent,
// which is distinct from an explicit zero. Unparseable text yields ok=false.
func Parse(s string) (*decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return &d, true
}

// Wire formats an amount for transmission to the store: exactly two
// decimals, half-up rounding. 12 -> "12.00", 6.5 -> "6.50", 1.7391 -> "1.74".
func Wire(d decimal.Decimal) string {
	return d.Round(precision).StringFixed(precision)
}

// Display formats an amount for human consumption: half-up rounded to two
// decimals, then trailing zeros trimmed. 12.00 -> "12", 6.50 -> "6.5".
func Display(d decimal.Decimal) string {
	s := d.Round(precision).StringFixed(precision)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// Clamp returns the amount, floored at zero. Export cells never show a
// negative price.
func Clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Round applies the store's price rounding: two decimals, half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(precision)
}
