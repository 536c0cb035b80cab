package visibility

import (
	"time"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/google/uuid"
)

// VendorOrderAccessInput drives the shared access check for vendor-scoped
// order reads. Every vendor-facing query goes through the same gate so
// another vendor's items never leak through an ad-hoc filter.
type VendorOrderAccessInput struct {
	Order    *models.Order
	VendorID uuid.UUID
}

// EnsureVendorOrderAccess enforces the canonical rule: a vendor may see an
// order only when at least one of its line items belongs to that vendor.
// Orders outside the vendor's slice surface as not found, never forbidden,
// so the existence of the order is not disclosed.
func EnsureVendorOrderAccess(input VendorOrderAccessInput) error {
	if input.VendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if input.Order == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	for _, item := range input.Order.Items {
		if item.VendorID == input.VendorID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// OrderHeader is the vendor-safe identity of an order. Cross-vendor money
// (the order's subtotal/total) and the other vendors' items never pass
// through it.
type OrderHeader struct {
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
}

// VendorOrderProjection is the vendor-scoped slice of an order: only the
// vendor's own line items, with totals recomputed over that slice. It
// serializes directly into vendor payloads, so it must never carry a
// reference back to the full order row.
type VendorOrderProjection struct {
	Order         OrderHeader            `json:"order"`
	Items         []models.OrderLineItem `json:"items"`
	SubtotalCents int64                  `json:"subtotal_cents"`
	ItemCount     int                    `json:"item_count"`
}

// ProjectVendorOrder narrows an order to the given vendor. It must be the
// only path vendor order payloads are built through. Cancelled and refunded
// line items stay in the projection so vendors see the full history of
// their slice; the subtotal counts active items only.
func ProjectVendorOrder(order *models.Order, vendorID uuid.UUID) (*VendorOrderProjection, error) {
	if err := EnsureVendorOrderAccess(VendorOrderAccessInput{Order: order, VendorID: vendorID}); err != nil {
		return nil, err
	}

	projection := &VendorOrderProjection{Order: OrderHeader{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
	}}
	for _, item := range order.Items {
		if item.VendorID != vendorID {
			continue
		}
		projection.Items = append(projection.Items, item)
		projection.ItemCount++
		if item.Status == enums.LineItemStatusActive {
			projection.SubtotalCents += item.UnitPriceCents * int64(item.Quantity)
		}
	}
	return projection, nil
}
