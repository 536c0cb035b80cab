package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/pkg/enums"
)

// CommissionRecord is the vendor payout obligation derived from exactly one
// order line item at order-creation time. Never deleted; cancellation is a
// status, not a removal.
type CommissionRecord struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID        uuid.UUID              `gorm:"column:vendor_id;type:uuid;not null"`
	OrderID         uuid.UUID              `gorm:"column:order_id;type:uuid;not null"`
	OrderItemID     uuid.UUID              `gorm:"column:order_item_id;type:uuid;uniqueIndex;not null"`
	CommissionCents int64                  `gorm:"column:commission_cents;not null"`
	RateBps         int                    `gorm:"column:rate_bps;not null"`
	Status          enums.CommissionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	PaidAt          *time.Time             `gorm:"column:paid_at"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
