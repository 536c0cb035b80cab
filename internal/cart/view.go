package cart

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/internal/pricing"
	"github.com/drapeline/drapeline-backend/pkg/db/models"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// LineView joins a cart line with its live vendor price for display. The
// captured price is the pricing authority for every total; the live price
// exists only to flag drift to the buyer.
type LineView struct {
	Line           models.CartLineItem `json:"line"`
	LivePriceCents *int64              `json:"live_price_cents,omitempty"`
	PriceDrifted   bool                `json:"price_drifted"`
	LineTotalCents int64               `json:"line_total_cents"`
}

// VendorBreakdown is one vendor's share of a multi-vendor cart.
type VendorBreakdown struct {
	VendorID      uuid.UUID `json:"vendor_id"`
	SubtotalCents int64     `json:"subtotal_cents"`
	DiscountCents int64     `json:"discount_cents"`
	ItemCount     int       `json:"item_count"`
}

// View is the fully assembled cart response: lines, per-vendor breakdown,
// and totals with the placeholder tax and shipping policies applied.
type View struct {
	Cart          *models.Cart      `json:"cart,omitempty"`
	Lines         []LineView        `json:"lines"`
	Vendors       []VendorBreakdown `json:"vendors"`
	SubtotalCents int64             `json:"subtotal_cents"`
	DiscountCents int64             `json:"discount_cents"`
	TaxCents      int64             `json:"tax_cents"`
	ShippingCents int64             `json:"shipping_cents"`
	TotalCents    int64             `json:"total_cents"`
}

// GetCart assembles the owner's active cart view. A missing cart yields an
// empty view rather than an error.
func (s *service) GetCart(ctx context.Context, owner Owner) (*View, error) {
	cart, err := s.findActive(ctx, owner)
	if err != nil {
		return nil, err
	}
	view := &View{Lines: []LineView{}, Vendors: []VendorBreakdown{}}
	if cart == nil {
		return view, nil
	}
	view.Cart = cart

	vendorIndex := map[uuid.UUID]int{}
	for _, line := range cart.Items {
		lineTotal := line.UnitPriceCents * int64(line.Quantity)
		lineView := LineView{Line: line, LineTotalCents: lineTotal}
		s.attachLivePrice(ctx, &lineView)
		view.Lines = append(view.Lines, lineView)
		view.SubtotalCents += lineTotal

		idx, ok := vendorIndex[line.VendorID]
		if !ok {
			idx = len(view.Vendors)
			vendorIndex[line.VendorID] = idx
			view.Vendors = append(view.Vendors, VendorBreakdown{VendorID: line.VendorID})
		}
		view.Vendors[idx].SubtotalCents += lineTotal
		view.Vendors[idx].ItemCount += line.Quantity
	}

	if len(cart.Items) > 0 {
		snapshot, err := s.Snapshot(ctx, cart)
		if err != nil {
			return nil, err
		}
		resolution, err := s.couponSvc.Preview(ctx, nil, snapshot, cart.UserID)
		if err != nil {
			// Always-on discount resolution failing must not break the
			// cart read; the view degrades to an undiscounted total.
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cart_id": cart.ID}),
				"cart discount preview failed: "+err.Error())
		} else {
			view.DiscountCents = resolution.TotalDiscountCents
			for idx := range view.Vendors {
				view.Vendors[idx].DiscountCents = resolution.DiscountForVendorCents(view.Vendors[idx].VendorID)
			}
		}
	}

	taxable := view.SubtotalCents - view.DiscountCents
	if taxable < 0 {
		taxable = 0
	}
	view.TaxCents = s.taxCalc.Calculate(taxable, "")
	view.ShippingCents = s.shipPolicy.Charge(view.SubtotalCents)
	view.TotalCents = view.SubtotalCents - view.DiscountCents + view.TaxCents + view.ShippingCents

	return view, nil
}

// attachLivePrice quotes the line's configuration at current vendor pricing.
// Failures degrade to no live price; the captured price always stands.
func (s *service) attachLivePrice(ctx context.Context, lineView *LineView) {
	line := lineView.Line
	breakdown, err := s.pricingSvc.Quote(ctx, pricing.QuoteInput{
		ProductID:     line.ProductID,
		VendorID:      &line.VendorID,
		Configuration: line.Configuration,
	})
	if err != nil {
		if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cart_line_id": line.ID}),
				"live price lookup failed: "+err.Error())
		}
		return
	}
	live := breakdown.FinalPriceCents
	lineView.LivePriceCents = &live
	lineView.PriceDrifted = live != line.UnitPriceCents
}
