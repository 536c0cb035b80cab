package types

import "github.com/shopspring/decimal"

// Money math happens in decimal and is stored in cents. Rounding is
// half-up to 2 decimal places, applied once at each engine boundary.

// CentsFromDecimal rounds a dollar amount half-up to 2dp and converts to cents.
func CentsFromDecimal(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
}

// DecimalFromCents converts stored cents back into a dollar decimal.
func DecimalFromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}
