package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

type fakeRepo struct {
	products map[uuid.UUID]*models.Product
	vendors  map[uuid.UUID]*models.Vendor
	links    map[[2]uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: map[uuid.UUID]*models.Product{},
		vendors:  map[uuid.UUID]*models.Vendor{},
		links:    map[[2]uuid.UUID]bool{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, errors.New(errors.CodeNotFound, "product not found")
}

func (f *fakeRepo) FindVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if v, ok := f.vendors[id]; ok {
		return v, nil
	}
	return nil, errors.New(errors.CodeNotFound, "vendor not found")
}

func (f *fakeRepo) VendorSellsProduct(ctx context.Context, productID, vendorID uuid.UUID) (bool, error) {
	return f.links[[2]uuid.UUID{productID, vendorID}], nil
}

func TestResolveEffectiveVendorPrecedence(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	defaultVendor := uuid.New()
	productID := uuid.New()
	repo.products[productID] = &models.Product{ID: productID, DefaultVendorID: defaultVendor}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	explicit := uuid.New()
	embedded := uuid.New()

	t.Run("explicit field wins", func(t *testing.T) {
		got, err := svc.ResolveEffectiveVendor(ctx, productID, &explicit, types.Configuration{
			Extra: map[string]string{"vendor_id": embedded.String()},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != explicit {
			t.Fatalf("expected explicit vendor, got %s", got)
		}
	})

	t.Run("configuration hint second", func(t *testing.T) {
		got, err := svc.ResolveEffectiveVendor(ctx, productID, nil, types.Configuration{
			Extra: map[string]string{"vendor_id": embedded.String()},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != embedded {
			t.Fatalf("expected embedded vendor, got %s", got)
		}
	})

	t.Run("product default last", func(t *testing.T) {
		got, err := svc.ResolveEffectiveVendor(ctx, productID, nil, types.Configuration{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != defaultVendor {
			t.Fatalf("expected default vendor, got %s", got)
		}
	})

	t.Run("bad embedded id rejected", func(t *testing.T) {
		_, err := svc.ResolveEffectiveVendor(ctx, productID, nil, types.Configuration{
			Extra: map[string]string{"vendor_id": "not-a-uuid"},
		})
		if errors.As(err).Code() != errors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestEnsureVendorSellsProduct(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	productID := uuid.New()
	vendorID := uuid.New()
	repo.links[[2]uuid.UUID{productID, vendorID}] = true

	svc, _ := NewService(repo)

	if err := svc.EnsureVendorSellsProduct(ctx, productID, vendorID); err != nil {
		t.Fatalf("expected linked pair to pass: %v", err)
	}
	err := svc.EnsureVendorSellsProduct(ctx, productID, uuid.New())
	if errors.As(err).Code() != errors.CodeValidation {
		t.Fatalf("expected validation error for unlinked vendor, got %v", err)
	}
}
