package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModifierKind groups option modifiers by the configuration axis they price.
type ModifierKind string

const (
	ModifierKindColor    ModifierKind = "color"
	ModifierKindMaterial ModifierKind = "material"
	ModifierKindMount    ModifierKind = "mount"
	ModifierKindControl  ModifierKind = "control"
	ModifierKindRail     ModifierKind = "rail"
	ModifierKindAddon    ModifierKind = "addon"
)

// PriceModifier is a flat adjustment applied when the matching option is selected.
type PriceModifier struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VendorID   uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null"`
	Kind       ModifierKind    `gorm:"column:kind;type:text;not null"`
	OptionName string          `gorm:"column:option_name;not null"`
	PriceDelta decimal.Decimal `gorm:"column:price_delta;type:numeric(12,4);not null;default:0"`
	Active     bool            `gorm:"column:active;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
