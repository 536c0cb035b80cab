package controllers

import (
	"net/http"

	"github.com/drapeline/drapeline-backend/api/responses"
	"github.com/drapeline/drapeline-backend/api/validators"
	"github.com/drapeline/drapeline-backend/internal/orders"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/logger"
	"github.com/drapeline/drapeline-backend/pkg/types"
)

type checkoutRequest struct {
	PaymentMethod   string        `json:"payment_method" validate:"required"`
	PaymentStatus   string        `json:"payment_status" validate:"required"`
	CouponCodes     []string      `json:"coupon_codes" validate:"max=10,dive,min=1,max=64"`
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
	BillingAddress  types.Address `json:"billing_address"`
}

// Checkout converts the caller's active cart into an order.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}
		status, err := enums.ParsePaymentStatus(payload.PaymentStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		billing := payload.BillingAddress
		if billing.IsZero() {
			billing = payload.ShippingAddress
		}

		order, err := svc.CreateOrder(r.Context(), orders.CreateOrderInput{
			UserID:          userID,
			PaymentMethod:   method,
			PaymentStatus:   status,
			CouponCodes:     payload.CouponCodes,
			ShippingAddress: payload.ShippingAddress,
			BillingAddress:  billing,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
