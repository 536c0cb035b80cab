package coupons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
)

// Service previews coupon and discount pricing against a cart snapshot.
// Preview never persists or locks anything; the order pipeline re-runs
// resolution inside its transaction before committing.
type Service interface {
	Preview(ctx context.Context, codes []string, snapshot CartSnapshot, userID *uuid.UUID) (*Resolution, error)
	ResolveForCheckout(ctx context.Context, tx *gorm.DB, codes []string, snapshot CartSnapshot, userID *uuid.UUID) (*Resolution, error)
	CommitRedemptions(ctx context.Context, tx *gorm.DB, resolution *Resolution, orderID uuid.UUID, userID *uuid.UUID) error
}

// Resolution is the combined result across codes and always-on discounts.
type Resolution struct {
	Applied            []Application
	TotalDiscountCents int64
}

type service struct {
	repo             Repository
	maxCodesPerOrder int
	now              func() time.Time
}

// AppliedCodes returns the codes of applied code-activated rules, in
// application order. Always-on discounts have no code and are skipped.
func (r *Resolution) AppliedCodes() []string {
	var codes []string
	for _, application := range r.Applied {
		if application.Coupon.Code != nil {
			codes = append(codes, *application.Coupon.Code)
		}
	}
	return codes
}

// DiscountForVendorCents attributes the applied discount to one vendor's
// share, used by the per-vendor cart breakdown.
func (r *Resolution) DiscountForVendorCents(vendorID uuid.UUID) int64 {
	var total int64
	for _, application := range r.Applied {
		if application.Coupon.VendorID == vendorID {
			total += application.DiscountCents
		}
	}
	return total
}

// NewService wires the resolver with its repository and the per-order code cap.
func NewService(repo Repository, maxCodesPerOrder int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if maxCodesPerOrder <= 0 {
		maxCodesPerOrder = 1
	}
	return &service{repo: repo, maxCodesPerOrder: maxCodesPerOrder, now: time.Now}, nil
}

func (s *service) Preview(ctx context.Context, codes []string, snapshot CartSnapshot, userID *uuid.UUID) (*Resolution, error) {
	return s.resolve(ctx, s.repo, codes, snapshot, userID)
}

// ResolveForCheckout re-runs resolution against the committing line items
// inside the caller's transaction, so the preview a client saw can never be
// trusted over current state.
func (s *service) ResolveForCheckout(ctx context.Context, tx *gorm.DB, codes []string, snapshot CartSnapshot, userID *uuid.UUID) (*Resolution, error) {
	return s.resolve(ctx, s.repo.WithTx(tx), codes, snapshot, userID)
}

func (s *service) resolve(ctx context.Context, repo Repository, codes []string, snapshot CartSnapshot, userID *uuid.UUID) (*Resolution, error) {
	if len(snapshot.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	normalized, err := normalizeCodes(codes, s.maxCodesPerOrder)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var candidates []Application

	for _, code := range normalized {
		coupon, err := repo.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if err := s.checkPerCustomerCap(ctx, repo, coupon.ID, coupon.UsageLimitPerCustomer, userID); err != nil {
			return nil, err
		}
		application, err := Evaluate(*coupon, snapshot, now)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *application)
	}

	discounts, err := repo.ListActiveDiscounts(ctx, snapshot.VendorIDs())
	if err != nil {
		return nil, err
	}
	for _, discount := range discounts {
		application, err := Evaluate(discount, snapshot, now)
		if err != nil {
			// Always-on rules that fail validation simply don't apply;
			// only explicitly supplied codes surface their failures.
			continue
		}
		candidates = append(candidates, *application)
	}

	applied := Combine(candidates)

	// Explicit codes must survive stacking; a code displaced by an
	// always-on rule would silently drop a discount the buyer asked for.
	for _, code := range normalized {
		if !containsCode(applied, code) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("coupon %s cannot be combined with the applied discounts", code))
		}
	}

	resolution := &Resolution{Applied: applied}
	for _, application := range applied {
		resolution.TotalDiscountCents += application.DiscountCents
	}
	return resolution, nil
}

func (s *service) checkPerCustomerCap(ctx context.Context, repo Repository, couponID uuid.UUID, cap *int, userID *uuid.UUID) error {
	if cap == nil || userID == nil {
		return nil
	}
	used, err := repo.CountRedemptionsByUser(ctx, couponID, *userID)
	if err != nil {
		return err
	}
	if used >= int64(*cap) {
		return pkgerrors.New(pkgerrors.CodeConflict, "coupon per-customer usage limit reached")
	}
	return nil
}

func normalizeCodes(codes []string, max int) ([]string, error) {
	seen := map[string]struct{}{}
	var normalized []string
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		normalized = append(normalized, code)
	}
	if len(normalized) > max {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d coupon codes per order", max))
	}
	return normalized, nil
}

func containsCode(applied []Application, code string) bool {
	for _, application := range applied {
		if application.Coupon.Code != nil && strings.EqualFold(*application.Coupon.Code, code) {
			return true
		}
	}
	return false
}

// CommitRedemptions burns usage for every code-activated rule applied to a
// committing order, inside that order's transaction. The counter read and
// increment run as one guarded statement, so two checkouts racing toward a
// coupon's cap cannot both get under it.
func (s *service) CommitRedemptions(ctx context.Context, tx *gorm.DB, resolution *Resolution, orderID uuid.UUID, userID *uuid.UUID) error {
	if resolution == nil {
		return nil
	}
	repo := s.repo.WithTx(tx)
	for _, application := range resolution.Applied {
		if application.Coupon.Code == nil {
			// Always-on discounts carry no usage accounting.
			continue
		}
		if err := repo.IncrementUsage(ctx, application.Coupon.ID); err != nil {
			return err
		}
		if err := repo.CreateRedemption(ctx, &models.CouponRedemption{
			CouponID: application.Coupon.ID,
			OrderID:  orderID,
			UserID:   userID,
		}); err != nil {
			return err
		}
	}
	return nil
}
