package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/pkg/enums"
)

// OrderStatusHistory is the append-only transition log. No transition is silent.
type OrderStatusHistory struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	ActorID   uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	Notes     *string           `gorm:"column:notes"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the table singular-history rather than gorm's default.
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
