package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/pkg/enums"
)

// Cart holds prospective purchase lines for exactly one owner: an
// authenticated user or an anonymous session token. Carts are never
// hard-deleted; merged/abandoned are terminal soft states.
type Cart struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       *uuid.UUID       `gorm:"column:user_id;type:uuid"`
	SessionToken *string          `gorm:"column:session_token"`
	Status       enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Currency     enums.Currency   `gorm:"column:currency;type:text;not null;default:'USD'"`
	Items        []CartLineItem   `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
