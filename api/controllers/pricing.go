package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/api/responses"
	"github.com/drapeline/drapeline-backend/api/validators"
	"github.com/drapeline/drapeline-backend/internal/pricing"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/logger"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

type priceQuoteRequest struct {
	ProductID     uuid.UUID           `json:"product_id" validate:"required"`
	VendorID      *uuid.UUID          `json:"vendor_id"`
	WidthIn       float64             `json:"width_in" validate:"required,gt=0"`
	HeightIn      float64             `json:"height_in" validate:"required,gt=0"`
	Configuration types.Configuration `json:"configuration"`
}

// PriceQuote computes a deterministic unit price for one configured product.
func PriceQuote(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload priceQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := svc.Quote(r.Context(), pricing.QuoteInput{
			ProductID:     payload.ProductID,
			VendorID:      payload.VendorID,
			Dimensions:    types.Dimensions{WidthIn: payload.WidthIn, HeightIn: payload.HeightIn},
			Configuration: payload.Configuration,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, breakdown)
	}
}
