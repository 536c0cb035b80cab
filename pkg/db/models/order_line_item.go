package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/pkg/enums"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

// OrderLineItem snapshots one cart line at order creation. Monetary fields
// and the configuration snapshot are immutable once the order leaves
// pending; only the status annotation moves afterward.
type OrderLineItem struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null"`
	ProductID      uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	VendorID       uuid.UUID            `gorm:"column:vendor_id;type:uuid;not null"`
	ProductName    string               `gorm:"column:product_name;not null"`
	Quantity       int                  `gorm:"column:quantity;not null"`
	UnitPriceCents int64                `gorm:"column:unit_price_cents;not null"`
	DiscountCents  int64                `gorm:"column:discount_cents;not null;default:0"`
	TaxCents       int64                `gorm:"column:tax_cents;not null;default:0"`
	TotalCents     int64                `gorm:"column:total_cents;not null"`
	Configuration  types.Configuration  `gorm:"column:configuration;type:jsonb;serializer:json"`
	Status         enums.LineItemStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
