package enums

import "fmt"

// CouponType selects how a coupon's value is interpreted.
type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

// IsValid reports whether the value is a known CouponType.
func (c CouponType) IsValid() bool {
	return c == CouponTypePercentage || c == CouponTypeFixed
}

// ParseCouponType converts raw input into a CouponType.
func ParseCouponType(value string) (CouponType, error) {
	switch CouponType(value) {
	case CouponTypePercentage, CouponTypeFixed:
		return CouponType(value), nil
	}
	return "", fmt.Errorf("invalid coupon type %q", value)
}

// CouponScope restricts which cart lines a coupon can discount.
type CouponScope string

const (
	CouponScopeAllVendorProducts  CouponScope = "all_vendor_products"
	CouponScopeSpecificProducts   CouponScope = "specific_products"
	CouponScopeSpecificCategories CouponScope = "specific_categories"
)

var validCouponScopes = []CouponScope{
	CouponScopeAllVendorProducts,
	CouponScopeSpecificProducts,
	CouponScopeSpecificCategories,
}

// IsValid reports whether the value is a known CouponScope.
func (c CouponScope) IsValid() bool {
	for _, candidate := range validCouponScopes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCouponScope converts raw input into a CouponScope.
func ParseCouponScope(value string) (CouponScope, error) {
	for _, candidate := range validCouponScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon scope %q", value)
}
