package tax

import "github.com/shopspring/decimal"

// Calculator computes the tax owed on a taxable subtotal. Jurisdiction is
// accepted but unused by the flat default; a real jurisdiction engine plugs
// in behind the same signature.
type Calculator interface {
	Calculate(subtotalCents int64, jurisdiction string) int64
}

// FlatRate taxes every jurisdiction at a single basis-point rate.
type FlatRate struct {
	RateBps int
}

// NewFlatRate builds the placeholder calculator. 825 bps is 8.25%.
func NewFlatRate(rateBps int) FlatRate {
	return FlatRate{RateBps: rateBps}
}

func (f FlatRate) Calculate(subtotalCents int64, _ string) int64 {
	if subtotalCents <= 0 || f.RateBps <= 0 {
		return 0
	}
	tax := decimal.NewFromInt(subtotalCents).
		Mul(decimal.NewFromInt(int64(f.RateBps))).
		Div(decimal.NewFromInt(10000))
	return tax.Round(0).IntPart()
}
