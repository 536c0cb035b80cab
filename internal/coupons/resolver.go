package coupons

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
)

// SnapshotLine is one cart line as seen by the resolver: vendor already
// resolved at write time, price already captured.
type SnapshotLine struct {
	ProductID      uuid.UUID
	VendorID       uuid.UUID
	Category       string
	Quantity       int
	UnitPriceCents int64
}

// CartSnapshot is the immutable input the resolver prices against.
// Resolution is a pure function of the snapshot and the rule rows.
type CartSnapshot struct {
	Lines []SnapshotLine
}

// VendorIDs returns the distinct vendors present in the snapshot.
func (s CartSnapshot) VendorIDs() []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, line := range s.Lines {
		if _, ok := seen[line.VendorID]; ok {
			continue
		}
		seen[line.VendorID] = struct{}{}
		ids = append(ids, line.VendorID)
	}
	return ids
}

// Application is the priced result of one rule against a snapshot.
type Application struct {
	Coupon                  models.Coupon
	ApplicableSubtotalCents int64
	DiscountCents           int64
}

// Evaluate validates a single rule against the snapshot and prices its
// discount. It never persists anything.
func Evaluate(coupon models.Coupon, snapshot CartSnapshot, now time.Time) (*Application, error) {
	if !coupon.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is not active")
	}
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is expired or not yet valid")
	}
	if coupon.UsageLimitTotal != nil && coupon.UsageCount >= *coupon.UsageLimitTotal {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon usage limit reached")
	}

	applicable := applicableSubtotalCents(coupon, snapshot)
	if applicable == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon does not apply to any item in the cart")
	}

	discount, err := discountCents(coupon, applicable)
	if err != nil {
		return nil, err
	}

	return &Application{
		Coupon:                  coupon,
		ApplicableSubtotalCents: applicable,
		DiscountCents:           discount,
	}, nil
}

func applicableSubtotalCents(coupon models.Coupon, snapshot CartSnapshot) int64 {
	var subtotal int64
	for _, line := range snapshot.Lines {
		if line.VendorID != coupon.VendorID {
			continue
		}
		if !lineInScope(coupon, line) {
			continue
		}
		subtotal += line.UnitPriceCents * int64(line.Quantity)
	}
	return subtotal
}

func lineInScope(coupon models.Coupon, line SnapshotLine) bool {
	switch coupon.Scope {
	case enums.CouponScopeAllVendorProducts:
		return true
	case enums.CouponScopeSpecificProducts:
		for _, id := range coupon.ProductIDs {
			if id == line.ProductID {
				return true
			}
		}
		return false
	case enums.CouponScopeSpecificCategories:
		for _, category := range coupon.Categories {
			if strings.EqualFold(category, line.Category) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func discountCents(coupon models.Coupon, applicableCents int64) (int64, error) {
	switch coupon.Type {
	case enums.CouponTypePercentage:
		discount := decimal.NewFromInt(applicableCents).
			Mul(coupon.Value).
			Div(decimal.NewFromInt(100)).
			Round(0).IntPart()
		if discount > applicableCents {
			discount = applicableCents
		}
		return discount, nil
	case enums.CouponTypeFixed:
		discount := coupon.Value.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		if discount > applicableCents {
			discount = applicableCents
		}
		if discount < 0 {
			discount = 0
		}
		return discount, nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown coupon type")
	}
}

// Combine resolves stacking across candidate applications: rules apply in
// priority order (ties broken by larger discount); once a non-stackable
// rule has applied, nothing else joins, and a non-stackable rule never
// joins an existing stack.
func Combine(candidates []Application) []Application {
	sorted := make([]Application, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Coupon.Priority != sorted[j].Coupon.Priority {
			return sorted[i].Coupon.Priority > sorted[j].Coupon.Priority
		}
		return sorted[i].DiscountCents > sorted[j].DiscountCents
	})

	var applied []Application
	for _, candidate := range sorted {
		if len(applied) == 0 {
			applied = append(applied, candidate)
			if !candidate.Coupon.Stackable {
				break
			}
			continue
		}
		if candidate.Coupon.Stackable {
			applied = append(applied, candidate)
		}
	}
	return applied
}
