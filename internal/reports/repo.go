package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	"github.com/drapeline/drapeline-backend/pkg/pagination"
)

// Scope narrows a listing or rollup to one principal. A nil scope field
// means no restriction on that axis; vendor scoping is applied through an
// EXISTS over the vendor's line items, never a join that could duplicate
// order rows.
type Scope struct {
	UserID   *uuid.UUID
	VendorID *uuid.UUID
}

// ListFilters are the parametric inputs of the order listings.
type ListFilters struct {
	Statuses        []enums.OrderStatus
	PaymentStatuses []enums.PaymentStatus
	DateFrom        *time.Time
	DateTo          *time.Time
	Search          string
}

// Totals is the headline rollup.
type Totals struct {
	TotalOrders  int64
	RevenueCents int64
}

// MonthRevenue is one month's bucket of the trailing revenue rollup.
type MonthRevenue struct {
	Month        string `gorm:"column:month"`
	RevenueCents int64  `gorm:"column:revenue_cents"`
}

// FulfillmentTotals backs the fulfillment-rate and processing-time stats.
type FulfillmentTotals struct {
	Total                int64   `gorm:"column:total"`
	Completed            int64   `gorm:"column:completed"`
	AvgProcessingSeconds float64 `gorm:"column:avg_processing_seconds"`
}

// Repository runs the read-only report queries over persisted orders.
type Repository interface {
	ListOrders(ctx context.Context, scope Scope, filters ListFilters, params pagination.Params) ([]models.Order, int64, error)
	Totals(ctx context.Context, scope Scope) (*Totals, error)
	StatusHistogram(ctx context.Context, scope Scope) (map[enums.OrderStatus]int64, error)
	MonthlyRevenue(ctx context.Context, scope Scope, since time.Time) ([]MonthRevenue, error)
	FulfillmentTotals(ctx context.Context, scope Scope) (*FulfillmentTotals, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// revenueStatuses are the order states counted as revenue.
var revenueStatuses = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusProcessing,
	enums.OrderStatusShipped,
	enums.OrderStatusCompleted,
}

func (r *repository) scoped(ctx context.Context, scope Scope) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if scope.UserID != nil {
		query = query.Where("orders.user_id = ?", *scope.UserID)
	}
	if scope.VendorID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM order_line_items oli WHERE oli.order_id = orders.id AND oli.vendor_id = ?)",
			*scope.VendorID)
	}
	return query
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if len(filters.Statuses) > 0 {
		query = query.Where("orders.status IN ?", filters.Statuses)
	}
	if len(filters.PaymentStatuses) > 0 {
		query = query.Where("orders.payment_status IN ?", filters.PaymentStatuses)
	}
	if filters.DateFrom != nil {
		query = query.Where("orders.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("orders.created_at <= ?", *filters.DateTo)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("orders.order_number ILIKE ? OR orders.user_id::text ILIKE ?", like, like)
	}
	return query
}

func (r *repository) ListOrders(ctx context.Context, scope Scope, filters ListFilters, params pagination.Params) ([]models.Order, int64, error) {
	params = pagination.Normalize(params)
	query := applyFilters(r.scoped(ctx, scope), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Order("orders." + params.OrderClause()).
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Totals computes order count and revenue. Vendor-scoped revenue sums only
// the vendor's own active line items, so cross-vendor money never leaks
// into a vendor rollup.
func (r *repository) Totals(ctx context.Context, scope Scope) (*Totals, error) {
	var totals Totals
	if err := r.scoped(ctx, scope).Count(&totals.TotalOrders).Error; err != nil {
		return nil, err
	}

	if scope.VendorID != nil {
		err := r.db.WithContext(ctx).
			Model(&models.OrderLineItem{}).
			Select("COALESCE(SUM(order_line_items.total_cents - order_line_items.discount_cents), 0)").
			Joins("JOIN orders ON orders.id = order_line_items.order_id").
			Where("order_line_items.vendor_id = ?", *scope.VendorID).
			Where("order_line_items.status = ?", enums.LineItemStatusActive).
			Where("orders.status IN ?", revenueStatuses).
			Scan(&totals.RevenueCents).Error
		if err != nil {
			return nil, err
		}
		return &totals, nil
	}

	err := r.scoped(ctx, scope).
		Select("COALESCE(SUM(orders.total_cents), 0)").
		Where("orders.status IN ?", revenueStatuses).
		Scan(&totals.RevenueCents).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *repository) StatusHistogram(ctx context.Context, scope Scope) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus
		Count  int64
	}
	var rows []row
	err := r.scoped(ctx, scope).
		Select("orders.status, COUNT(*) AS count").
		Group("orders.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	histogram := make(map[enums.OrderStatus]int64, len(rows))
	for _, r := range rows {
		histogram[r.Status] = r.Count
	}
	return histogram, nil
}

func (r *repository) MonthlyRevenue(ctx context.Context, scope Scope, since time.Time) ([]MonthRevenue, error) {
	var rows []MonthRevenue
	err := r.scoped(ctx, scope).
		Select("to_char(date_trunc('month', orders.created_at), 'YYYY-MM') AS month, COALESCE(SUM(orders.total_cents), 0) AS revenue_cents").
		Where("orders.created_at >= ?", since).
		Where("orders.status IN ?", revenueStatuses).
		Group("1").
		Order("1 ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FulfillmentTotals(ctx context.Context, scope Scope) (*FulfillmentTotals, error) {
	var totals FulfillmentTotals
	err := r.scoped(ctx, scope).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE orders.status = 'completed') AS completed,
			COALESCE(AVG(EXTRACT(EPOCH FROM orders.completed_at - orders.created_at)) FILTER (WHERE orders.completed_at IS NOT NULL), 0) AS avg_processing_seconds`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
