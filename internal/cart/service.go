package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/internal/catalog"
	"github.com/drapeline/drapeline-backend/internal/coupons"
	"github.com/drapeline/drapeline-backend/internal/pricing"
	"github.com/drapeline/drapeline-backend/internal/shipping"
	"github.com/drapeline/drapeline-backend/internal/tax"
	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/logger"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the cart and line-item lifecycle.
type Service interface {
	GetCart(ctx context.Context, owner Owner) (*View, error)
	AddItem(ctx context.Context, owner Owner, input AddItemInput) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, owner Owner, lineID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, owner Owner, lineID uuid.UUID) error
	ClearCart(ctx context.Context, owner Owner) error
	MergeCart(ctx context.Context, sessionToken string, userID uuid.UUID) (*models.Cart, error)
	Snapshot(ctx context.Context, cart *models.Cart) (coupons.CartSnapshot, error)
}

// AddItemInput carries one add request. UnitPriceCents must be precomputed
// through the pricing quote; the aggregator never silently re-prices.
type AddItemInput struct {
	ProductID      uuid.UUID
	VendorID       *uuid.UUID
	Quantity       int
	Configuration  types.Configuration
	UnitPriceCents int64
}

type service struct {
	repo       Repository
	tx         txRunner
	catalogSvc catalog.Service
	pricingSvc pricing.Service
	couponSvc  coupons.Service
	taxCalc    tax.Calculator
	shipPolicy shipping.Policy
	logg       *logger.Logger
}

// NewService builds the cart aggregator with its collaborators.
func NewService(
	repo Repository,
	tx txRunner,
	catalogSvc catalog.Service,
	pricingSvc pricing.Service,
	couponSvc coupons.Service,
	taxCalc tax.Calculator,
	shipPolicy shipping.Policy,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if pricingSvc == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	if taxCalc == nil {
		return nil, fmt.Errorf("tax calculator required")
	}
	if shipPolicy == nil {
		return nil, fmt.Errorf("shipping policy required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		catalogSvc: catalogSvc,
		pricingSvc: pricingSvc,
		couponSvc:  couponSvc,
		taxCalc:    taxCalc,
		shipPolicy: shipPolicy,
		logg:       logg,
	}, nil
}

func (s *service) findActive(ctx context.Context, owner Owner) (*models.Cart, error) {
	if err := owner.validate(); err != nil {
		return nil, err
	}
	if owner.UserID != nil {
		return s.repo.FindActiveByUser(ctx, *owner.UserID)
	}
	return s.repo.FindActiveBySession(ctx, *owner.SessionToken)
}

// AddItem appends a line to the owner's active cart, creating the cart on
// first add. A new quantity merges into an existing line when product and
// vendor match; configuration is deliberately not deep-compared.
func (s *service) AddItem(ctx context.Context, owner Owner, input AddItemInput) (*models.Cart, error) {
	if err := owner.validate(); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitPriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a precomputed unit price is required")
	}
	if err := input.Configuration.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid configuration")
	}

	product, err := s.catalogSvc.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	vendorID, err := s.catalogSvc.ResolveEffectiveVendor(ctx, input.ProductID, input.VendorID, input.Configuration)
	if err != nil {
		return nil, err
	}
	if err := s.catalogSvc.EnsureVendorSellsProduct(ctx, input.ProductID, vendorID); err != nil {
		return nil, err
	}

	var cart *models.Cart
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err = s.findActiveWith(ctx, repo, owner)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = &models.Cart{
				UserID:       owner.UserID,
				SessionToken: owner.SessionToken,
				Status:       enums.CartStatusActive,
				Currency:     enums.CurrencyUSD,
			}
			if err := repo.Create(ctx, cart); err != nil {
				return err
			}
		}

		existing, err := repo.FindLineByPair(ctx, cart.ID, input.ProductID, vendorID)
		if err != nil {
			return err
		}
		if existing != nil {
			return repo.UpdateLineQuantity(ctx, existing.ID, existing.Quantity+input.Quantity)
		}

		line := &models.CartLineItem{
			CartID:          cart.ID,
			ProductID:       input.ProductID,
			VendorID:        vendorID,
			Quantity:        input.Quantity,
			Configuration:   input.Configuration,
			UnitPriceCents:  input.UnitPriceCents,
			PriceCapturedAt: nowUTC(),
		}
		return repo.CreateLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}

	return s.findActive(ctx, owner)
}

func (s *service) findActiveWith(ctx context.Context, repo Repository, owner Owner) (*models.Cart, error) {
	if owner.UserID != nil {
		return repo.FindActiveByUser(ctx, *owner.UserID)
	}
	return repo.FindActiveBySession(ctx, *owner.SessionToken)
}

// UpdateQuantity changes a line's quantity after verifying the line belongs
// to a cart owned by the caller.
func (s *service) UpdateQuantity(ctx context.Context, owner Owner, lineID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	line, _, err := s.authorizeLine(ctx, owner, lineID)
	if err != nil {
		return err
	}
	return s.repo.UpdateLineQuantity(ctx, line.ID, quantity)
}

// RemoveItem deletes a line after the same ownership check.
func (s *service) RemoveItem(ctx context.Context, owner Owner, lineID uuid.UUID) error {
	line, _, err := s.authorizeLine(ctx, owner, lineID)
	if err != nil {
		return err
	}
	return s.repo.DeleteLine(ctx, line.ID)
}

func (s *service) authorizeLine(ctx context.Context, owner Owner, lineID uuid.UUID) (*models.CartLineItem, *models.Cart, error) {
	if err := owner.validate(); err != nil {
		return nil, nil, err
	}
	if lineID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}
	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	cart, err := s.findActive(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil || cart.ID != line.CartID || !owner.owns(cart.UserID, cart.SessionToken) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart line does not belong to the caller")
	}
	return line, cart, nil
}

// ClearCart removes every line from the owner's active cart. Clearing a
// missing or already-empty cart succeeds.
func (s *service) ClearCart(ctx context.Context, owner Owner) error {
	cart, err := s.findActive(ctx, owner)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.repo.DeleteLinesByCart(ctx, cart.ID)
}

// MergeCart folds a guest session cart into the user's cart in one
// transaction. Matching (product, vendor) lines accumulate quantity; other
// lines are reassigned. The guest cart is marked merged, never removed.
func (s *service) MergeCart(ctx context.Context, sessionToken string, userID uuid.UUID) (*models.Cart, error) {
	if sessionToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session token is required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		guest, err := repo.FindActiveBySession(ctx, sessionToken)
		if err != nil {
			return err
		}
		if guest == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "guest cart not found")
		}

		user, err := repo.FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			user = &models.Cart{
				UserID:   &userID,
				Status:   enums.CartStatusActive,
				Currency: guest.Currency,
			}
			if err := repo.Create(ctx, user); err != nil {
				return err
			}
		}

		for _, guestLine := range guest.Items {
			existing, err := repo.FindLineByPair(ctx, user.ID, guestLine.ProductID, guestLine.VendorID)
			if err != nil {
				return err
			}
			if existing != nil {
				if err := repo.UpdateLineQuantity(ctx, existing.ID, existing.Quantity+guestLine.Quantity); err != nil {
					return err
				}
				continue
			}
			if err := repo.ReassignLine(ctx, guestLine.ID, user.ID); err != nil {
				return err
			}
		}

		return repo.UpdateStatus(ctx, guest.ID, enums.CartStatusMerged)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindActiveByUser(ctx, userID)
}

// Snapshot projects the cart into the resolver's input shape, joining each
// line's product category.
func (s *service) Snapshot(ctx context.Context, cart *models.Cart) (coupons.CartSnapshot, error) {
	var snapshot coupons.CartSnapshot
	if cart == nil {
		return snapshot, nil
	}
	for _, line := range cart.Items {
		category := ""
		if product, err := s.catalogSvc.GetProduct(ctx, line.ProductID); err == nil {
			category = product.Category
		}
		snapshot.Lines = append(snapshot.Lines, coupons.SnapshotLine{
			ProductID:      line.ProductID,
			VendorID:       line.VendorID,
			Category:       category,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}
	return snapshot, nil
}
