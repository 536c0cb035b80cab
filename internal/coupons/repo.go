package coupons

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
)

// Repository manages coupon rows, redemptions, and the usage counter.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListActiveDiscounts(ctx context.Context, vendorIDs []uuid.UUID) ([]models.Coupon, error)
	CountRedemptionsByUser(ctx context.Context, couponID uuid.UUID, userID uuid.UUID) (int64, error)
	IncrementUsage(ctx context.Context, couponID uuid.UUID) error
	CreateRedemption(ctx context.Context, redemption *models.CouponRedemption) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a coupon repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, err
	}
	return &coupon, nil
}

// ListActiveDiscounts returns the always-eligible rules (no code) for the
// given vendors. Window filtering happens in the resolver so preview and
// checkout share one clock.
func (r *repository) ListActiveDiscounts(ctx context.Context, vendorIDs []uuid.UUID) ([]models.Coupon, error) {
	if len(vendorIDs) == 0 {
		return nil, nil
	}
	var discounts []models.Coupon
	err := r.db.WithContext(ctx).
		Where("code IS NULL AND active AND vendor_id IN ?", vendorIDs).
		Order("priority DESC, created_at ASC").
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *repository) CountRedemptionsByUser(ctx context.Context, couponID uuid.UUID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementUsage bumps the usage counter, re-checking the cap in the same
// statement so concurrent checkouts near the limit cannot both win.
func (r *repository) IncrementUsage(ctx context.Context, couponID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit_total IS NULL OR usage_count < usage_limit_total)", couponID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "coupon usage limit reached")
	}
	return nil
}

func (r *repository) CreateRedemption(ctx context.Context, redemption *models.CouponRedemption) error {
	return r.db.WithContext(ctx).Create(redemption).Error
}
