package shipping

import "github.com/drapeline/drapeline-backend/pkg/types"

// Package describes one parcel for rating purposes.
type Package struct {
	WeightOz int
	LengthIn float64
	WidthIn  float64
	HeightIn float64
}

// RateQuote is one carrier option returned by a provider.
type RateQuote struct {
	Carrier    string
	PriceCents int64
	ETADays    int
}

// RateProvider is the external carrier-rating contract. Providers own their
// caching and retries; callers treat Rate as a pure function.
type RateProvider interface {
	Rate(origin, destination types.Address, packages []Package) ([]RateQuote, error)
}

// Policy computes the shipping charge applied to a cart or order subtotal.
type Policy interface {
	Charge(subtotalCents int64) int64
}

// FlatPolicy charges a flat rate below a free-shipping threshold. A
// threshold of zero disables free shipping entirely.
type FlatPolicy struct {
	FlatRateCents         int64
	FreeShippingOverCents int64
}

func NewFlatPolicy(flatRateCents, freeOverCents int64) FlatPolicy {
	return FlatPolicy{FlatRateCents: flatRateCents, FreeShippingOverCents: freeOverCents}
}

func (p FlatPolicy) Charge(subtotalCents int64) int64 {
	if subtotalCents <= 0 {
		return 0
	}
	if p.FreeShippingOverCents > 0 && subtotalCents >= p.FreeShippingOverCents {
		return 0
	}
	return p.FlatRateCents
}
