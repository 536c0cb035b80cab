package controllers

import (
	"net/http"

	"github.com/drapeline/drapeline-backend/api/responses"
	"github.com/drapeline/drapeline-backend/internal/commission"
	"github.com/drapeline/drapeline-backend/pkg/logger"
)

// AdminCommissionMarkPayable flips one pending commission to payable.
func AdminCommissionMarkPayable(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "commissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.MarkPayable(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// AdminCommissionMarkPaid settles one payable commission.
func AdminCommissionMarkPaid(svc commission.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "commissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.MarkPaid(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}
