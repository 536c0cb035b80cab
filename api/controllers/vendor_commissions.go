package controllers

import (
	"net/http"

	"github.com/drapeline/drapeline-backend/api/responses"
	"github.com/drapeline/drapeline-backend/internal/commission"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/logger"
)

// VendorCommissionList returns the vendor's commission records, optionally
// filtered by status.
func VendorCommissionList(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := actorVendorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var statuses []enums.CommissionStatus
		for _, raw := range splitCSV(r.URL.Query().Get("status")) {
			status, parseErr := enums.ParseCommissionStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid commission status filter"))
				return
			}
			statuses = append(statuses, status)
		}

		records, err := svc.ListForVendor(r.Context(), vendorID, statuses)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"commissions": records})
	}
}

// VendorPayoutSummary returns the per-status rollup of the vendor's ledger.
func VendorPayoutSummary(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := actorVendorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.PayoutSummary(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
