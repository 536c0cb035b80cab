package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/internal/catalog"
	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
	"github.com/drapeline/drapeline-backend/pkg/logger"
)

// Service is the commission ledger: one payout obligation per order line,
// derived at order-creation time and tracked through pending, payable, paid
// or cancelled.
type Service interface {
	RecordForOrder(ctx context.Context, tx *gorm.DB, order *models.Order, lines []models.OrderLineItem) ([]models.CommissionRecord, error)
	MarkPayable(ctx context.Context, id uuid.UUID) (*models.CommissionRecord, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.CommissionRecord, error)
	CancelForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
	MarkPayableForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
	ListForVendor(ctx context.Context, vendorID uuid.UUID, statuses []enums.CommissionStatus) ([]models.CommissionRecord, error)
	ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.CommissionRecord, error)
	PayoutSummary(ctx context.Context, vendorID uuid.UUID) (*PayoutSummary, error)
}

// PayoutSummary is the read-only rollup over a vendor's ledger.
type PayoutSummary struct {
	VendorID       uuid.UUID `json:"vendor_id"`
	PendingCents   int64     `json:"pending_cents"`
	PayableCents   int64     `json:"payable_cents"`
	PaidCents      int64     `json:"paid_cents"`
	CancelledCents int64     `json:"cancelled_cents"`
	// LifetimeCents counts everything the vendor has earned or stands to
	// earn, excluding cancellations.
	LifetimeCents int64 `json:"lifetime_cents"`
}

type service struct {
	repo       Repository
	catalogSvc catalog.Service
	logg       *logger.Logger
}

// NewService builds the commission ledger service.
func NewService(repo Repository, catalogSvc catalog.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("commission repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, catalogSvc: catalogSvc, logg: logg}, nil
}

// amountCents computes the vendor's cut of one line total at rateBps basis
// points, rounded to the nearest cent.
func amountCents(lineTotalCents int64, rateBps int) int64 {
	if lineTotalCents <= 0 || rateBps <= 0 {
		return 0
	}
	return decimal.NewFromInt(lineTotalCents).
		Mul(decimal.NewFromInt(int64(rateBps))).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()
}

// RecordForOrder derives one pending record per order line inside the
// caller's order-creation transaction. The vendor's rate is read once per
// distinct vendor and snapshotted onto each record.
func (s *service) RecordForOrder(ctx context.Context, tx *gorm.DB, order *models.Order, lines []models.OrderLineItem) ([]models.CommissionRecord, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	if len(lines) == 0 {
		return nil, nil
	}

	rates := map[uuid.UUID]int{}
	for _, line := range lines {
		if _, ok := rates[line.VendorID]; ok {
			continue
		}
		vendor, err := s.catalogSvc.GetVendor(ctx, line.VendorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeTransaction, err, "commission rate lookup failed")
		}
		rates[line.VendorID] = vendor.CommissionRateBps
	}

	records := make([]models.CommissionRecord, 0, len(lines))
	for _, line := range lines {
		rate := rates[line.VendorID]
		records = append(records, models.CommissionRecord{
			VendorID:        line.VendorID,
			OrderID:         order.ID,
			OrderItemID:     line.ID,
			CommissionCents: amountCents(line.TotalCents, rate),
			RateBps:         rate,
			Status:          enums.CommissionStatusPending,
		})
	}
	if err := s.repo.WithTx(tx).CreateBatch(ctx, records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransaction, err, "failed to persist commission records")
	}
	return records, nil
}

// MarkPayable moves a pending record to payable.
func (s *service) MarkPayable(ctx context.Context, id uuid.UUID) (*models.CommissionRecord, error) {
	return s.transition(ctx, id, enums.CommissionStatusPayable, nil)
}

// MarkPaid moves a payable record to paid and stamps the payout time.
func (s *service) MarkPaid(ctx context.Context, id uuid.UUID) (*models.CommissionRecord, error) {
	now := time.Now().UTC()
	return s.transition(ctx, id, enums.CommissionStatusPaid, &now)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, next enums.CommissionStatus, paidAt *time.Time) (*models.CommissionRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "commission record not found")
	}
	if !record.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("commission record cannot move from %s to %s", record.Status, next))
	}
	if err := s.repo.UpdateStatus(ctx, id, next, paidAt); err != nil {
		return nil, err
	}
	record.Status = next
	record.PaidAt = paidAt
	return record, nil
}

// CancelForOrder cancels every open record for the order, inside the
// caller's cancellation transaction. Paid records stay paid.
func (s *service) CancelForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	affected, err := s.repo.WithTx(tx).CancelByOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransaction, err, "failed to cancel commission records")
	}
	if affected > 0 {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id":  orderID,
			"cancelled": affected,
		}), "commission records cancelled with order")
	}
	return nil
}

// MarkPayableForOrder flips every pending record for a completed order to
// payable, inside the caller's status-change transaction.
func (s *service) MarkPayableForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	if _, err := s.repo.WithTx(tx).MarkPayableByOrder(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransaction, err, "failed to mark commission records payable")
	}
	return nil
}

func (s *service) ListForVendor(ctx context.Context, vendorID uuid.UUID, statuses []enums.CommissionStatus) ([]models.CommissionRecord, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	for _, status := range statuses {
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid commission status %q", status))
		}
	}
	return s.repo.ListByVendor(ctx, vendorID, statuses)
}

func (s *service) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.CommissionRecord, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.repo.ListByOrder(ctx, orderID)
}

// PayoutSummary rolls the ledger up by status for one vendor.
func (s *service) PayoutSummary(ctx context.Context, vendorID uuid.UUID) (*PayoutSummary, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if _, err := s.catalogSvc.GetVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	sums, err := s.repo.SumByVendorStatus(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	summary := &PayoutSummary{
		VendorID:       vendorID,
		PendingCents:   sums[enums.CommissionStatusPending],
		PayableCents:   sums[enums.CommissionStatusPayable],
		PaidCents:      sums[enums.CommissionStatusPaid],
		CancelledCents: sums[enums.CommissionStatusCancelled],
	}
	summary.LifetimeCents = summary.PendingCents + summary.PayableCents + summary.PaidCents
	return summary, nil
}
