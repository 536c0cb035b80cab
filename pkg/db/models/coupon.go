package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	dbtypes "github.com/drapeline/drapeline-backend/pkg/db/types"
	"github.com/drapeline/drapeline-backend/pkg/enums"
)

// Coupon is a vendor-scoped promotional rule. Code-activated rows carry a
// code; always-eligible discounts leave it null. Value is a percentage rate
// (0-100) or a fixed dollar amount depending on Type.
type Coupon struct {
	ID       uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID uuid.UUID         `gorm:"column:vendor_id;type:uuid;not null"`
	Code     *string           `gorm:"column:code"`
	Name     string            `gorm:"column:name;not null"`
	Type     enums.CouponType  `gorm:"column:type;type:text;not null"`
	Value    decimal.Decimal   `gorm:"column:value;type:numeric(12,4);not null"`
	Scope    enums.CouponScope `gorm:"column:scope;type:text;not null;default:'all_vendor_products'"`

	ProductIDs dbtypes.UUIDArray `gorm:"column:product_ids;type:uuid[]"`
	Categories pq.StringArray    `gorm:"column:categories;type:text[]"`

	ValidFrom  time.Time  `gorm:"column:valid_from;not null"`
	ValidUntil time.Time  `gorm:"column:valid_until;not null"`

	UsageLimitTotal       *int `gorm:"column:usage_limit_total"`
	UsageLimitPerCustomer *int `gorm:"column:usage_limit_per_customer"`
	UsageCount            int  `gorm:"column:usage_count;not null;default:0"`

	Stackable bool `gorm:"column:stackable;not null;default:false"`
	Priority  int  `gorm:"column:priority;not null;default:0"`
	Active    bool `gorm:"column:active;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CouponRedemption records one order's use of a coupon, backing the
// per-customer usage cap.
type CouponRedemption struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID  uuid.UUID  `gorm:"column:coupon_id;type:uuid;not null"`
	OrderID   uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
