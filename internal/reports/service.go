package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/logger"
	"github.com/drapeline/drapeline-backend/pkg/pagination"
	"github.com/drapeline/drapeline-backend/pkg/visibility"
)

// Service is the order query and reporting layer. Vendor-facing reads are
// always projected; no caller of this service can build a vendor payload
// that bypasses visibility rules.
type Service interface {
	ListOrders(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error)
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID, filters ListFilters, params pagination.Params) (*VendorOrderList, error)
	Stats(ctx context.Context) (*Stats, error)
	VendorStats(ctx context.Context, vendorID uuid.UUID) (*Stats, error)
}

// OrderList is one page of fully visible orders (admin or owning buyer).
type OrderList struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// VendorOrderSummary is the vendor-visible slice of one order. Cross-vendor
// financial fields are deliberately absent.
type VendorOrderSummary struct {
	OrderID       uuid.UUID              `json:"order_id"`
	OrderNumber   string                 `json:"order_number"`
	Status        enums.OrderStatus      `json:"status"`
	PaymentStatus enums.PaymentStatus    `json:"payment_status"`
	CreatedAt     time.Time              `json:"created_at"`
	Items         []models.OrderLineItem `json:"items"`
	SubtotalCents int64                  `json:"subtotal_cents"`
	ItemCount     int                    `json:"item_count"`
}

// VendorOrderList is one page of projected vendor orders.
type VendorOrderList struct {
	Orders []VendorOrderSummary `json:"orders"`
	Total  int64                `json:"total"`
	Page   int                  `json:"page"`
	Limit  int                  `json:"limit"`
}

// Stats is the statistics rollup for one scope.
type Stats struct {
	TotalOrders          int64                       `json:"total_orders"`
	RevenueCents         int64                       `json:"revenue_cents"`
	AverageOrderCents    int64                       `json:"average_order_cents"`
	StatusHistogram      map[enums.OrderStatus]int64 `json:"status_histogram"`
	MonthlyRevenue       []MonthRevenue              `json:"monthly_revenue"`
	FulfillmentRate      float64                     `json:"fulfillment_rate"`
	AvgProcessingSeconds float64                     `json:"avg_processing_seconds"`
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the reporting service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func validateFilters(filters ListFilters) error {
	for _, status := range filters.Statuses {
		if !status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
		}
	}
	for _, status := range filters.PaymentStatuses {
		if !status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", status))
		}
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}
	return nil
}

func (s *service) list(ctx context.Context, scope Scope, filters ListFilters, params pagination.Params) (*OrderList, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	params = pagination.Normalize(params)
	orders, total, err := s.repo.ListOrders(ctx, scope, filters, params)
	if err != nil {
		return nil, err
	}
	return &OrderList{Orders: orders, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

func (s *service) ListOrders(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error) {
	return s.list(ctx, Scope{}, filters, params)
}

func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.list(ctx, Scope{UserID: &userID}, filters, params)
}

// ListVendorOrders lists orders containing at least one of the vendor's line
// items, each narrowed through the canonical projection.
func (s *service) ListVendorOrders(ctx context.Context, vendorID uuid.UUID, filters ListFilters, params pagination.Params) (*VendorOrderList, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	params = pagination.Normalize(params)
	orders, total, err := s.repo.ListOrders(ctx, Scope{VendorID: &vendorID}, filters, params)
	if err != nil {
		return nil, err
	}

	list := &VendorOrderList{Total: total, Page: params.Page, Limit: params.Limit}
	for i := range orders {
		projection, err := visibility.ProjectVendorOrder(&orders[i], vendorID)
		if err != nil {
			// A row the scope matched but the projection rejects would be a
			// query bug; skip it rather than leak or fail the page.
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"order_id": orders[i].ID}),
				"vendor projection rejected a scoped order: "+err.Error())
			continue
		}
		list.Orders = append(list.Orders, VendorOrderSummary{
			OrderID:       orders[i].ID,
			OrderNumber:   orders[i].OrderNumber,
			Status:        orders[i].Status,
			PaymentStatus: orders[i].PaymentStatus,
			CreatedAt:     orders[i].CreatedAt,
			Items:         projection.Items,
			SubtotalCents: projection.SubtotalCents,
			ItemCount:     projection.ItemCount,
		})
	}
	return list, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	return s.stats(ctx, Scope{})
}

func (s *service) VendorStats(ctx context.Context, vendorID uuid.UUID) (*Stats, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	return s.stats(ctx, Scope{VendorID: &vendorID})
}

func (s *service) stats(ctx context.Context, scope Scope) (*Stats, error) {
	totals, err := s.repo.Totals(ctx, scope)
	if err != nil {
		return nil, err
	}
	histogram, err := s.repo.StatusHistogram(ctx, scope)
	if err != nil {
		return nil, err
	}
	since := s.now().UTC().AddDate(0, -11, 0)
	since = time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthly, err := s.repo.MonthlyRevenue(ctx, scope, since)
	if err != nil {
		return nil, err
	}
	fulfillment, err := s.repo.FulfillmentTotals(ctx, scope)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalOrders:          totals.TotalOrders,
		RevenueCents:         totals.RevenueCents,
		StatusHistogram:      histogram,
		MonthlyRevenue:       monthly,
		AvgProcessingSeconds: fulfillment.AvgProcessingSeconds,
	}
	if totals.TotalOrders > 0 {
		stats.AverageOrderCents = totals.RevenueCents / totals.TotalOrders
	}
	if fulfillment.Total > 0 {
		stats.FulfillmentRate = float64(fulfillment.Completed) / float64(fulfillment.Total)
	}
	return stats, nil
}
