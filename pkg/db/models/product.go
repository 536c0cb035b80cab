package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a configurable window-treatment item. DefaultVendorID is the
// last hop of the effective-vendor fallback chain.
type Product struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Category        string    `gorm:"column:category;not null"`
	DefaultVendorID uuid.UUID `gorm:"column:default_vendor_id;type:uuid;not null"`
	MinWidthIn      float64   `gorm:"column:min_width_in;not null;default:0"`
	MinHeightIn     float64   `gorm:"column:min_height_in;not null;default:0"`
	Active          bool      `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVendor links a product to a vendor actually selling it. Cart lines
// must reference one of these rows.
type ProductVendor struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	VendorID  uuid.UUID `gorm:"column:vendor_id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides gorm's default pluralization for the join table.
func (ProductVendor) TableName() string {
	return "product_vendors"
}
