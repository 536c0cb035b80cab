package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a selling party on the marketplace. Commission rates are stored
// in basis points so ledger math stays integral.
type Vendor struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string    `gorm:"column:name;not null"`
	Email             string    `gorm:"column:email;not null"`
	CommissionRateBps int       `gorm:"column:commission_rate_bps;not null;default:1000"`
	Active            bool      `gorm:"column:active;not null;default:true"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
