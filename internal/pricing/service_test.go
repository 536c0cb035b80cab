package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	"github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

type fakePricingRepo struct {
	formula   *models.PricingFormula
	modifiers []models.PriceModifier
}

func (f *fakePricingRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakePricingRepo) FindActiveFormula(ctx context.Context, productID, vendorID uuid.UUID) (*models.PricingFormula, error) {
	if f.formula == nil {
		return nil, errors.New(errors.CodeNotFound, "no active pricing formula for this product and vendor")
	}
	return f.formula, nil
}

func (f *fakePricingRepo) ListActiveModifiers(ctx context.Context, productID, vendorID uuid.UUID) ([]models.PriceModifier, error) {
	return f.modifiers, nil
}

type fakeCatalog struct {
	product *models.Product
	vendor  *models.Vendor
	sells   bool
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if f.product == nil {
		return nil, errors.New(errors.CodeNotFound, "product not found")
	}
	return f.product, nil
}

func (f *fakeCatalog) GetVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if f.vendor == nil {
		return nil, errors.New(errors.CodeNotFound, "vendor not found")
	}
	return f.vendor, nil
}

func (f *fakeCatalog) ResolveEffectiveVendor(ctx context.Context, productID uuid.UUID, explicit *uuid.UUID, cfg types.Configuration) (uuid.UUID, error) {
	if explicit != nil {
		return *explicit, nil
	}
	return f.product.DefaultVendorID, nil
}

func (f *fakeCatalog) EnsureVendorSellsProduct(ctx context.Context, productID, vendorID uuid.UUID) error {
	if !f.sells {
		return errors.New(errors.CodeValidation, "vendor does not sell this product")
	}
	return nil
}

func quoteFixtures() (*fakePricingRepo, *fakeCatalog) {
	vendorID := uuid.New()
	repo := &fakePricingRepo{
		formula: &models.PricingFormula{
			Type:       enums.PricingTypeFormula,
			Base:       decimal.NewFromInt(50),
			WidthRate:  decimal.RequireFromString("0.5"),
			HeightRate: decimal.RequireFromString("0.3"),
			AreaRate:   decimal.RequireFromString("0.01"),
			MinCharge:  decimal.NewFromInt(80),
			Active:     true,
		},
	}
	cat := &fakeCatalog{
		product: &models.Product{ID: uuid.New(), DefaultVendorID: vendorID, Active: true},
		vendor:  &models.Vendor{ID: vendorID},
		sells:   true,
	}
	return repo, cat
}

func TestQuoteHappyPath(t *testing.T) {
	repo, cat := quoteFixtures()
	svc, err := NewService(repo, cat)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	breakdown, err := svc.Quote(context.Background(), QuoteInput{
		ProductID:  cat.product.ID,
		Dimensions: types.Dimensions{WidthIn: 48, HeightIn: 72},
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if breakdown.FinalPriceCents != 13016 {
		t.Fatalf("final cents = %d, want 13016", breakdown.FinalPriceCents)
	}
}

func TestQuoteDimensionsFromConfiguration(t *testing.T) {
	repo, cat := quoteFixtures()
	svc, _ := NewService(repo, cat)

	breakdown, err := svc.Quote(context.Background(), QuoteInput{
		ProductID: cat.product.ID,
		Configuration: types.Configuration{
			Dimensions: &types.Dimensions{WidthIn: 48, HeightIn: 72},
		},
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if breakdown.FinalPriceCents != 13016 {
		t.Fatalf("final cents = %d, want 13016", breakdown.FinalPriceCents)
	}
}

func TestQuoteRejections(t *testing.T) {
	t.Run("inactive product", func(t *testing.T) {
		repo, cat := quoteFixtures()
		cat.product.Active = false
		svc, _ := NewService(repo, cat)
		_, err := svc.Quote(context.Background(), QuoteInput{ProductID: cat.product.ID, Dimensions: types.Dimensions{WidthIn: 10, HeightIn: 10}})
		if errors.As(err).Code() != errors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
	t.Run("vendor not selling", func(t *testing.T) {
		repo, cat := quoteFixtures()
		cat.sells = false
		svc, _ := NewService(repo, cat)
		_, err := svc.Quote(context.Background(), QuoteInput{ProductID: cat.product.ID, Dimensions: types.Dimensions{WidthIn: 10, HeightIn: 10}})
		if errors.As(err).Code() != errors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
	t.Run("missing formula", func(t *testing.T) {
		repo, cat := quoteFixtures()
		repo.formula = nil
		svc, _ := NewService(repo, cat)
		_, err := svc.Quote(context.Background(), QuoteInput{ProductID: cat.product.ID, Dimensions: types.Dimensions{WidthIn: 10, HeightIn: 10}})
		if errors.As(err).Code() != errors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
	t.Run("missing product id", func(t *testing.T) {
		repo, cat := quoteFixtures()
		svc, _ := NewService(repo, cat)
		_, err := svc.Quote(context.Background(), QuoteInput{})
		if errors.As(err).Code() != errors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
