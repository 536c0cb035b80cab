package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

// Service exposes the catalog surface other domain services depend on:
// product/vendor lookup and the canonical effective-vendor resolution.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	ResolveEffectiveVendor(ctx context.Context, productID uuid.UUID, explicit *uuid.UUID, cfg types.Configuration) (uuid.UUID, error)
	EnsureVendorSellsProduct(ctx context.Context, productID, vendorID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.FindProduct(ctx, id)
}

func (s *service) GetVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	return s.repo.FindVendor(ctx, id)
}

// ResolveEffectiveVendor applies the canonical fallback chain once, at write
// time: explicit field, then a vendor_id carried in the configuration's
// extension map, then the product's default vendor. The resolved id is
// persisted on the line; reads never re-resolve.
func (s *service) ResolveEffectiveVendor(ctx context.Context, productID uuid.UUID, explicit *uuid.UUID, cfg types.Configuration) (uuid.UUID, error) {
	if explicit != nil && *explicit != uuid.Nil {
		return *explicit, nil
	}
	if raw, ok := cfg.ExtraVendorID(); ok {
		embedded, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "configuration vendor_id is not a valid uuid")
		}
		return embedded, nil
	}
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		return uuid.Nil, err
	}
	if product.DefaultVendorID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no default vendor")
	}
	return product.DefaultVendorID, nil
}

func (s *service) EnsureVendorSellsProduct(ctx context.Context, productID, vendorID uuid.UUID) error {
	if productID == uuid.Nil || vendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id and vendor id are required")
	}
	sells, err := s.repo.VendorSellsProduct(ctx, productID, vendorID)
	if err != nil {
		return err
	}
	if !sells {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor does not sell this product")
	}
	return nil
}
