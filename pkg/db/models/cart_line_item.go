package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/pkg/types"
)

// CartLineItem is one product+vendor+configuration+quantity entry. The unit
// price is captured when the line is added and is the pricing authority for
// checkout totals; live vendor pricing is display-only.
type CartLineItem struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID          uuid.UUID           `gorm:"column:cart_id;type:uuid;not null"`
	ProductID       uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	VendorID        uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null"`
	Quantity        int                 `gorm:"column:quantity;not null"`
	Configuration   types.Configuration `gorm:"column:configuration;type:jsonb;serializer:json"`
	UnitPriceCents  int64               `gorm:"column:unit_price_cents;not null"`
	PriceCapturedAt time.Time           `gorm:"column:price_captured_at;not null"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
