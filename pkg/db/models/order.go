package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/drapeline/drapeline-backend/pkg/enums"
)

// Order is the persisted result of a checkout. Totals are reconciled at
// creation and never silently recomputed afterward.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string            `gorm:"column:order_number;uniqueIndex;not null"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Currency    enums.Currency    `gorm:"column:currency;type:text;not null;default:'USD'"`

	SubtotalCents int64 `gorm:"column:subtotal_cents;not null"`
	DiscountCents int64 `gorm:"column:discount_cents;not null;default:0"`
	TaxCents      int64 `gorm:"column:tax_cents;not null;default:0"`
	ShippingCents int64 `gorm:"column:shipping_cents;not null;default:0"`
	TotalCents    int64 `gorm:"column:total_cents;not null"`

	ShippingAddressID uuid.UUID `gorm:"column:shipping_address_id;type:uuid;not null"`
	BillingAddressID  uuid.UUID `gorm:"column:billing_address_id;type:uuid;not null"`

	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`

	CouponCodes pq.StringArray `gorm:"column:coupon_codes;type:text[]"`

	Items   []OrderLineItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CompletedAt *time.Time `gorm:"column:completed_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
