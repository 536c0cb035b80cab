package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/api/middleware"
	"github.com/drapeline/drapeline-backend/api/validators"
	cartsvc "github.com/drapeline/drapeline-backend/internal/cart"
	"github.com/drapeline/drapeline-backend/internal/reports"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/pagination"
)

// cartSessionHeader carries the guest cart identity for unauthenticated
// traffic. Authenticated requests ignore it.
const cartSessionHeader = "X-Cart-Session"

func actorUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func actorVendorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.VendorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid vendor id")
	}
	return id, nil
}

// cartOwner resolves the cart identity: the authenticated user when present,
// otherwise the guest session header.
func cartOwner(r *http.Request) (cartsvc.Owner, error) {
	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return cartsvc.Owner{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
		}
		return cartsvc.UserOwner(id), nil
	}
	if token := validators.SanitizeString(r.Header.Get(cartSessionHeader), 128); token != "" {
		return cartsvc.SessionOwner(token), nil
	}
	return cartsvc.Owner{}, pkgerrors.New(pkgerrors.CodeValidation, "cart identity required").
		WithDetails(map[string]string{"header": cartSessionHeader})
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").
			WithDetails(map[string]string{"param": name})
	}
	return id, nil
}

func parsePagination(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Page:     page,
		Limit:    limit,
		SortBy:   validators.SanitizeString(r.URL.Query().Get("sort_by"), 64),
		SortDesc: strings.EqualFold(r.URL.Query().Get("sort_dir"), "desc"),
	}, nil
}

func parseOrderFilters(r *http.Request) (reports.ListFilters, error) {
	query := r.URL.Query()
	filters := reports.ListFilters{
		Search: validators.SanitizeString(query.Get("search"), 128),
	}

	for _, raw := range splitCSV(query.Get("status")) {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return reports.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status filter")
		}
		filters.Statuses = append(filters.Statuses, status)
	}
	for _, raw := range splitCSV(query.Get("payment_status")) {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return reports.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter")
		}
		filters.PaymentStatuses = append(filters.PaymentStatuses, status)
	}

	var err error
	if filters.DateFrom, err = parseDateParam(query.Get("date_from"), "date_from"); err != nil {
		return reports.ListFilters{}, err
	}
	if filters.DateTo, err = parseDateParam(query.Get("date_to"), "date_to"); err != nil {
		return reports.ListFilters{}, err
	}
	return filters, nil
}

func parseDateParam(raw, name string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid date filter").
		WithDetails(map[string]string{"param": name, "expected": "RFC3339 or YYYY-MM-DD"})
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
