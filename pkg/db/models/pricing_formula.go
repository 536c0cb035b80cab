package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/drapeline/drapeline-backend/pkg/enums"
)

// PricingFormula converts dimensions and options into a price for one
// (product, vendor) pair. Exactly one active row per pair.
type PricingFormula struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	VendorID  uuid.UUID         `gorm:"column:vendor_id;type:uuid;not null"`
	Type      enums.PricingType `gorm:"column:type;type:text;not null"`

	Base       decimal.Decimal `gorm:"column:base;type:numeric(12,4);not null;default:0"`
	WidthRate  decimal.Decimal `gorm:"column:width_rate;type:numeric(12,4);not null;default:0"`
	HeightRate decimal.Decimal `gorm:"column:height_rate;type:numeric(12,4);not null;default:0"`
	AreaRate   decimal.Decimal `gorm:"column:area_rate;type:numeric(12,4);not null;default:0"`

	RatePerSquare decimal.Decimal `gorm:"column:rate_per_square;type:numeric(12,4);not null;default:0"`
	MinSquares    decimal.Decimal `gorm:"column:min_squares;type:numeric(12,4);not null;default:0"`

	FixedPrice decimal.Decimal `gorm:"column:fixed_price;type:numeric(12,4);not null;default:0"`

	MinCharge   decimal.Decimal `gorm:"column:min_charge;type:numeric(12,4);not null;default:0"`
	MaxWidthIn  float64         `gorm:"column:max_width_in;not null;default:0"`
	MaxHeightIn float64         `gorm:"column:max_height_in;not null;default:0"`

	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
