package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/api/middleware"
	"github.com/drapeline/drapeline-backend/api/responses"
	"github.com/drapeline/drapeline-backend/api/validators"
	cartsvc "github.com/drapeline/drapeline-backend/internal/cart"
	"github.com/drapeline/drapeline-backend/internal/coupons"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/logger"
)

type couponPreviewRequest struct {
	Codes []string `json:"codes" validate:"max=10,dive,min=1,max=64"`
}

type couponApplicationResponse struct {
	Code                    *string `json:"code,omitempty"`
	ApplicableSubtotalCents int64   `json:"applicable_subtotal_cents"`
	DiscountCents           int64   `json:"discount_cents"`
}

type couponPreviewResponse struct {
	Applied            []couponApplicationResponse `json:"applied"`
	TotalDiscountCents int64                       `json:"total_discount_cents"`
}

// CouponPreview prices the requested codes against the caller's active cart
// without burning any usage.
func CouponPreview(couponSvc coupons.Service, cartSvc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload couponPreviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := cartSvc.GetCart(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if view.Cart == nil || len(view.Lines) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
			return
		}

		snapshot, err := cartSvc.Snapshot(r.Context(), view.Cart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var userID *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if parsed, parseErr := uuid.Parse(raw); parseErr == nil {
				userID = &parsed
			}
		}

		resolution, err := couponSvc.Preview(r.Context(), payload.Codes, snapshot, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := couponPreviewResponse{
			Applied:            make([]couponApplicationResponse, 0, len(resolution.Applied)),
			TotalDiscountCents: resolution.TotalDiscountCents,
		}
		for _, application := range resolution.Applied {
			out.Applied = append(out.Applied, couponApplicationResponse{
				Code:                    application.Coupon.Code,
				ApplicableSubtotalCents: application.ApplicableSubtotalCents,
				DiscountCents:           application.DiscountCents,
			})
		}

		responses.WriteSuccess(w, out)
	}
}
