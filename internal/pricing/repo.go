package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
)

// Repository loads formula and modifier rows for the engine.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveFormula(ctx context.Context, productID, vendorID uuid.UUID) (*models.PricingFormula, error)
	ListActiveModifiers(ctx context.Context, productID, vendorID uuid.UUID) ([]models.PriceModifier, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pricing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveFormula(ctx context.Context, productID, vendorID uuid.UUID) (*models.PricingFormula, error) {
	var formula models.PricingFormula
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND vendor_id = ? AND active", productID, vendorID).
		First(&formula).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active pricing formula for this product and vendor")
		}
		return nil, err
	}
	return &formula, nil
}

func (r *repository) ListActiveModifiers(ctx context.Context, productID, vendorID uuid.UUID) ([]models.PriceModifier, error) {
	var modifiers []models.PriceModifier
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND vendor_id = ? AND active", productID, vendorID).
		Order("kind, option_name").
		Find(&modifiers).Error
	if err != nil {
		return nil, err
	}
	return modifiers, nil
}
