package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/internal/catalog"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

// Service resolves the formula and modifier rows for a (product, vendor)
// pair and delegates to the pure computation.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*PriceBreakdown, error)
}

// QuoteInput identifies the pair being priced plus the buyer's selections.
// VendorID may be nil; the catalog fallback chain resolves it.
type QuoteInput struct {
	ProductID     uuid.UUID
	VendorID      *uuid.UUID
	Dimensions    types.Dimensions
	Configuration types.Configuration
}

type service struct {
	repo       Repository
	catalogSvc catalog.Service
}

// NewService wires the pricing service.
func NewService(repo Repository, catalogSvc catalog.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{repo: repo, catalogSvc: catalogSvc}, nil
}

func (s *service) Quote(ctx context.Context, input QuoteInput) (*PriceBreakdown, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := input.Configuration.Validate(); err != nil {
		return nil, err
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

	dimensions := input.Dimensions
	if dimensions.WidthIn == 0 && dimensions.HeightIn == 0 && input.Configuration.Dimensions != nil {
		dimensions = *input.Configuration.Dimensions
	}

	formula, err := s.repo.FindActiveFormula(ctx, input.ProductID, vendorID)
	if err != nil {
		return nil, err
	}
	modifiers, err := s.repo.ListActiveModifiers(ctx, input.ProductID, vendorID)
	if err != nil {
		return nil, err
	}

	return Compute(*formula, modifiers, ComputeInput{
		Dimensions:    dimensions,
		Configuration: input.Configuration,
		MinWidthIn:    product.MinWidthIn,
		MinHeightIn:   product.MinHeightIn,
	})
}
