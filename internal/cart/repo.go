package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
)

// Repository manages cart and cart-line persistence. Carts are soft-state
// rows; nothing here hard-deletes a cart.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindActiveBySession(ctx context.Context, sessionToken string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error

	FindLine(ctx context.Context, lineID uuid.UUID) (*models.CartLineItem, error)
	FindLineByPair(ctx context.Context, cartID, productID, vendorID uuid.UUID) (*models.CartLineItem, error)
	CreateLine(ctx context.Context, line *models.CartLineItem) error
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	ReassignLine(ctx context.Context, lineID, newCartID uuid.UUID) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteLinesByCart(ctx context.Context, cartID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return r.findActive(ctx, "user_id = ?", userID)
}

func (r *repository) FindActiveBySession(ctx context.Context, sessionToken string) (*models.Cart, error) {
	return r.findActive(ctx, "session_token = ?", sessionToken)
}

func (r *repository) findActive(ctx context.Context, query string, arg any) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where(query, arg).
		Where("status = ?", enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Create(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *repository) UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("status", status).Error
}

func (r *repository) FindLine(ctx context.Context, lineID uuid.UUID) (*models.CartLineItem, error) {
	var line models.CartLineItem
	err := r.db.WithContext(ctx).First(&line, "id = ?", lineID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *repository) FindLineByPair(ctx context.Context, cartID, productID, vendorID uuid.UUID) (*models.CartLineItem, error) {
	var line models.CartLineItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND vendor_id = ?", cartID, productID, vendorID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *repository) CreateLine(ctx context.Context, line *models.CartLineItem) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLineItem{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

func (r *repository) ReassignLine(ctx context.Context, lineID, newCartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLineItem{}).
		Where("id = ?", lineID).
		Update("cart_id", newCartID).Error
}

func (r *repository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartLineItem{}, "id = ?", lineID).Error
}

func (r *repository) DeleteLinesByCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartLineItem{}, "cart_id = ?", cartID).Error
}
