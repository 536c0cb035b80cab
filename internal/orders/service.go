package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/internal/cart"
	"github.com/drapeline/drapeline-backend/internal/catalog"
	"github.com/drapeline/drapeline-backend/internal/commission"
	"github.com/drapeline/drapeline-backend/internal/coupons"
	"github.com/drapeline/drapeline-backend/internal/shipping"
	"github.com/drapeline/drapeline-backend/internal/tax"
	"github.com/drapeline/drapeline-backend/pkg/db"
	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/logger"
	"github.com/drapeline/drapeline-backend/pkg/metrics"
	"github.com/drapeline/drapeline-backend/pkg/types"
	"github.com/drapeline/drapeline-backend/pkg/visibility"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the order transaction manager: it converts a priced cart into a
// persisted order atomically and drives the status state machine afterward.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*Detail, error)
	GetOrderByNumber(ctx context.Context, orderNumber string, userID uuid.UUID) (*Detail, error)
	GetVendorOrder(ctx context.Context, orderID, vendorID uuid.UUID) (*VendorDetail, error)
}

// CreateOrderInput is one checkout request. Addresses arrive by value and are
// snapshotted; payment fields are recorded verbatim after the external
// gateway step.
type CreateOrderInput struct {
	UserID          uuid.UUID
	PaymentMethod   enums.PaymentMethod
	PaymentStatus   enums.PaymentStatus
	CouponCodes     []string
	ShippingAddress types.Address
	BillingAddress  types.Address
}

// UpdateStatusInput drives one state-machine transition.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Next    enums.OrderStatus
	ActorID uuid.UUID
	Notes   *string
}

// Detail is the buyer-facing order read: the order plus its immutable
// address snapshots.
type Detail struct {
	Order           *models.Order           `json:"order"`
	ShippingAddress *models.AddressSnapshot `json:"shipping_address,omitempty"`
	BillingAddress  *models.AddressSnapshot `json:"billing_address,omitempty"`
}

// VendorDetail is the vendor-facing read: the projected slice of the order
// plus the vendor's own commission records.
type VendorDetail struct {
	Projection      *visibility.VendorOrderProjection `json:"projection"`
	Commissions     []models.CommissionRecord         `json:"commissions"`
	ShippingAddress *models.AddressSnapshot           `json:"shipping_address,omitempty"`
}

type service struct {
	repo          Repository
	tx            txRunner
	cartSvc       cart.Service
	catalogSvc    catalog.Service
	couponSvc     coupons.Service
	commissionSvc commission.Service
	taxCalc       tax.Calculator
	shipPolicy    shipping.Policy
	orderMetrics  *metrics.OrderMetrics
	logg          *logger.Logger
}

// NewService wires the order transaction manager.
func NewService(
	repo Repository,
	tx txRunner,
	cartSvc cart.Service,
	catalogSvc catalog.Service,
	couponSvc coupons.Service,
	commissionSvc commission.Service,
	taxCalc tax.Calculator,
	shipPolicy shipping.Policy,
	orderMetrics *metrics.OrderMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	if commissionSvc == nil {
		return nil, fmt.Errorf("commission service required")
	}
	if taxCalc == nil {
		return nil, fmt.Errorf("tax calculator required")
	}
	if shipPolicy == nil {
		return nil, fmt.Errorf("shipping policy required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:          repo,
		tx:            tx,
		cartSvc:       cartSvc,
		catalogSvc:    catalogSvc,
		couponSvc:     couponSvc,
		commissionSvc: commissionSvc,
		taxCalc:       taxCalc,
		shipPolicy:    shipPolicy,
		orderMetrics:  orderMetrics,
		logg:          logg,
	}, nil
}

// CreateOrder converts the user's active cart into a persisted order in one
// transaction: coupon re-resolution, address snapshots, header, line items,
// status history, commission fan-out, and coupon usage all commit together
// or not at all. The write is never auto-retried.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	start := time.Now()
	order, err := s.createOrder(ctx, input)
	if err != nil {
		reason := "internal"
		if typed := pkgerrors.As(err); typed != nil {
			reason = string(typed.Code())
		}
		s.orderMetrics.ObserveCheckout("failure", time.Since(start))
		s.orderMetrics.IncCheckoutFailure(reason)
		return nil, err
	}
	s.orderMetrics.ObserveCheckout("success", time.Since(start))
	s.orderMetrics.IncOrderCreated(input.PaymentMethod.String())
	return order, nil
}

func (s *service) createOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.PaymentStatus != "" && !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
	}
	if err := input.BillingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing address")
	}

	owner := cart.UserOwner(input.UserID)
	view, err := s.cartSvc.GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	if view.Cart == nil || len(view.Cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	activeCart := view.Cart

	snapshot, err := s.cartSvc.Snapshot(ctx, activeCart)
	if err != nil {
		return nil, err
	}

	productNames, err := s.lookupProductNames(ctx, activeCart.Items)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Coupon state is re-resolved against current counters inside the
		// transaction; the preview a client saw earlier carries no weight.
		resolution, err := s.couponSvc.ResolveForCheckout(ctx, tx, input.CouponCodes, snapshot, &input.UserID)
		if err != nil {
			return err
		}

		shippingID, billingID, err := s.snapshotAddresses(ctx, repo, input.ShippingAddress, input.BillingAddress)
		if err != nil {
			return err
		}

		orderNumber, err := GenerateOrderNumber(time.Now())
		if err != nil {
			return err
		}

		lines := buildLineItems(activeCart.Items, productNames, resolution)
		var subtotal int64
		for _, line := range lines {
			subtotal += line.TotalCents
		}
		discount := resolution.TotalDiscountCents
		if discount > subtotal {
			discount = subtotal
		}
		taxable := subtotal - discount
		taxCents := s.taxCalc.Calculate(taxable, input.ShippingAddress.Normalized().State)
		shippingCents := s.shipPolicy.Charge(subtotal)

		paymentStatus := input.PaymentStatus
		if paymentStatus == "" {
			paymentStatus = enums.PaymentStatusUnpaid
		}

		order := &models.Order{
			OrderNumber:       orderNumber,
			UserID:            input.UserID,
			Status:            enums.OrderStatusPending,
			Currency:          activeCart.Currency,
			SubtotalCents:     subtotal,
			DiscountCents:     discount,
			TaxCents:          taxCents,
			ShippingCents:     shippingCents,
			TotalCents:        subtotal - discount + taxCents + shippingCents,
			ShippingAddressID: shippingID,
			BillingAddressID:  billingID,
			PaymentMethod:     input.PaymentMethod,
			PaymentStatus:     paymentStatus,
			CouponCodes:       pq.StringArray(resolution.AppliedCodes()),
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order number collision, resubmit checkout")
			}
			return err
		}

		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := repo.CreateLineItems(ctx, lines); err != nil {
			return err
		}
		if err := repo.AppendStatusHistory(ctx, &models.OrderStatusHistory{
			OrderID: order.ID,
			Status:  enums.OrderStatusPending,
			ActorID: input.UserID,
		}); err != nil {
			return err
		}
		if _, err := s.commissionSvc.RecordForOrder(ctx, tx, order, lines); err != nil {
			return err
		}
		if err := s.couponSvc.CommitRedemptions(ctx, tx, resolution, order.ID, &input.UserID); err != nil {
			return err
		}

		created = order
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, txErr
		}
		// Raw store failures never reach callers; the cause stays in the
		// wrapped error for diagnostics.
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{
			"user_id": input.UserID,
			"cart_id": activeCart.ID,
		}), "order creation rolled back", txErr)
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransaction, txErr, "order creation failed")
	}

	// The converted cart is cleared outside the order transaction; a failure
	// here leaves a stale cart, not a broken order.
	if err := s.cartSvc.ClearCart(ctx, owner); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"order_id": created.ID,
			"cart_id":  activeCart.ID,
		}), "cart clear after checkout failed: "+err.Error())
	}

	// Read-after-commit so the caller sees exactly what was persisted.
	return s.repo.FindByID(ctx, created.ID)
}

func (s *service) lookupProductNames(ctx context.Context, items []models.CartLineItem) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		if _, ok := names[item.ProductID]; ok {
			continue
		}
		product, err := s.catalogSvc.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		names[item.ProductID] = product.Name
	}
	return names, nil
}

// snapshotAddresses writes immutable copies of the checkout addresses. When
// billing equals shipping after normalization, one row serves both.
func (s *service) snapshotAddresses(ctx context.Context, repo Repository, shippingAddr, billingAddr types.Address) (uuid.UUID, uuid.UUID, error) {
	shippingRow := snapshotRow(shippingAddr)
	if err := repo.CreateAddressSnapshot(ctx, shippingRow); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if shippingAddr.Equal(billingAddr) {
		return shippingRow.ID, shippingRow.ID, nil
	}
	billingRow := snapshotRow(billingAddr)
	if err := repo.CreateAddressSnapshot(ctx, billingRow); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return shippingRow.ID, billingRow.ID, nil
}

func snapshotRow(addr types.Address) *models.AddressSnapshot {
	normalized := addr.Normalized()
	return &models.AddressSnapshot{
		ID:         uuid.New(),
		Name:       normalized.Name,
		Line1:      normalized.Line1,
		Line2:      normalized.Line2,
		City:       normalized.City,
		State:      normalized.State,
		PostalCode: normalized.PostalCode,
		Country:    normalized.Country,
		Phone:      normalized.Phone,
	}
}

// buildLineItems snapshots each cart line. Line totals exclude discounts;
// the order-level discount reconciles against them, and per-line discount
// cents are an attribution annotation allocated within each vendor's slice.
func buildLineItems(items []models.CartLineItem, productNames map[uuid.UUID]string, resolution *coupons.Resolution) []models.OrderLineItem {
	lines := make([]models.OrderLineItem, 0, len(items))
	vendorTotals := map[uuid.UUID]int64{}
	for _, item := range items {
		total := item.UnitPriceCents * int64(item.Quantity)
		vendorTotals[item.VendorID] += total
		lines = append(lines, models.OrderLineItem{
			ID:             uuid.New(),
			ProductID:      item.ProductID,
			VendorID:       item.VendorID,
			ProductName:    productNames[item.ProductID],
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     total,
			Configuration:  item.Configuration,
			Status:         enums.LineItemStatusActive,
		})
	}

	// Allocate each vendor's discount across its lines proportional to line
	// total, with the remainder on the vendor's last line so the attribution
	// sums exactly.
	vendorRemaining := map[uuid.UUID]int64{}
	vendorLastIdx := map[uuid.UUID]int{}
	for vendorID := range vendorTotals {
		vendorRemaining[vendorID] = resolution.DiscountForVendorCents(vendorID)
	}
	for i, line := range lines {
		vendorLastIdx[line.VendorID] = i
	}
	for i := range lines {
		vendorID := lines[i].VendorID
		discount := vendorRemaining[vendorID]
		if discount <= 0 {
			continue
		}
		if vendorLastIdx[vendorID] == i {
			lines[i].DiscountCents = discount
			vendorRemaining[vendorID] = 0
			continue
		}
		share := discount * lines[i].TotalCents / vendorTotals[vendorID]
		if share > discount {
			share = discount
		}
		lines[i].DiscountCents = share
		vendorRemaining[vendorID] -= share
	}
	return lines
}

// UpdateStatus applies one transition of the order state machine, appends
// the history entry, and keeps the commission ledger in step, all in one
// transaction.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id is required")
	}
	if !input.Next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Next))
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(input.Next) {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("order cannot move from %s to %s", order.Status, input.Next))
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": input.Next}
		switch input.Next {
		case enums.OrderStatusCompleted:
			updates["completed_at"] = now
		case enums.OrderStatusCancelled, enums.OrderStatusRefunded:
			updates["cancelled_at"] = now
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return err
		}
		if err := repo.AppendStatusHistory(ctx, &models.OrderStatusHistory{
			OrderID: order.ID,
			Status:  input.Next,
			ActorID: input.ActorID,
			Notes:   input.Notes,
		}); err != nil {
			return err
		}

		switch input.Next {
		case enums.OrderStatusCancelled, enums.OrderStatusRefunded:
			if err := s.commissionSvc.CancelForOrder(ctx, tx, order.ID); err != nil {
				return err
			}
		case enums.OrderStatusCompleted:
			if err := s.commissionSvc.MarkPayableForOrder(ctx, tx, order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, txErr
		}
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{"order_id": input.OrderID}),
			"order status update rolled back", txErr)
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransaction, txErr, "order status update failed")
	}

	s.orderMetrics.IncStatusChange(input.Next.String())
	return s.repo.FindByID(ctx, input.OrderID)
}

// GetOrder returns the buyer's order with its address snapshots. Orders
// belonging to other users surface as not found.
func (s *service) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*Detail, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.buyerDetail(ctx, order, userID)
}

// GetOrderByNumber is the confirmation-page lookup: same read as GetOrder,
// keyed by the human-legible order number.
func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string, userID uuid.UUID) (*Detail, error) {
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return s.buyerDetail(ctx, order, userID)
}

func (s *service) buyerDetail(ctx context.Context, order *models.Order, userID uuid.UUID) (*Detail, error) {
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	detail := &Detail{Order: order}
	s.assembleBranches(ctx, order.ID,
		func() error {
			snapshot, err := s.repo.FindAddressSnapshot(ctx, order.ShippingAddressID)
			if err != nil {
				return err
			}
			detail.ShippingAddress = snapshot
			return nil
		},
		func() error {
			if order.BillingAddressID == order.ShippingAddressID {
				return nil
			}
			snapshot, err := s.repo.FindAddressSnapshot(ctx, order.BillingAddressID)
			if err != nil {
				return err
			}
			detail.BillingAddress = snapshot
			return nil
		},
	)
	if detail.BillingAddress == nil && order.BillingAddressID == order.ShippingAddressID {
		detail.BillingAddress = detail.ShippingAddress
	}
	return detail, nil
}

// GetVendorOrder returns the vendor's projected slice of the order together
// with the vendor's commission records for it.
func (s *service) GetVendorOrder(ctx context.Context, orderID, vendorID uuid.UUID) (*VendorDetail, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	projection, err := visibility.ProjectVendorOrder(order, vendorID)
	if err != nil {
		return nil, err
	}

	detail := &VendorDetail{Projection: projection}
	s.assembleBranches(ctx, order.ID,
		func() error {
			records, err := s.commissionSvc.ListForOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			for _, record := range records {
				if record.VendorID == vendorID {
					detail.Commissions = append(detail.Commissions, record)
				}
			}
			return nil
		},
		func() error {
			snapshot, err := s.repo.FindAddressSnapshot(ctx, order.ShippingAddressID)
			if err != nil {
				return err
			}
			detail.ShippingAddress = snapshot
			return nil
		},
	)
	return detail, nil
}

// assembleBranches runs independent sub-fetches concurrently. A failing
// branch degrades to its zero value and is logged; it never fails the
// aggregate read.
func (s *service) assembleBranches(ctx context.Context, orderID uuid.UUID, branches ...func() error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for _, branch := range branches {
		wg.Add(1)
		go func(fn func() error) {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}(branch)
	}
	wg.Wait()
	if errs != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"order_id": orderID}),
			"order detail branches degraded: "+errs.Error())
	}
}
