package enums

import "fmt"

// PricingType selects the formula variant used to price a product.
type PricingType string

const (
	PricingTypeFormula PricingType = "formula"
	PricingTypePerArea PricingType = "per_area"
	PricingTypeFixed   PricingType = "fixed"
)

var validPricingTypes = []PricingType{
	PricingTypeFormula,
	PricingTypePerArea,
	PricingTypeFixed,
}

// String implements fmt.Stringer.
func (p PricingType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PricingType.
func (p PricingType) IsValid() bool {
	for _, candidate := range validPricingTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricingType converts raw input into a PricingType.
func ParsePricingType(value string) (PricingType, error) {
	for _, candidate := range validPricingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing type %q", value)
}
