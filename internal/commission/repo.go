package commission

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
)

// Repository persists the commission ledger. Records are append-then-update;
// nothing here deletes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, records []models.CommissionRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CommissionRecord, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.CommissionRecord, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, statuses []enums.CommissionStatus) ([]models.CommissionRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CommissionStatus, paidAt *time.Time) error
	CancelByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	MarkPayableByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	SumByVendorStatus(ctx context.Context, vendorID uuid.UUID) (map[enums.CommissionStatus]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a commission repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBatch(ctx context.Context, records []models.CommissionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CommissionRecord, error) {
	var record models.CommissionRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.CommissionRecord, error) {
	var records []models.CommissionRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, statuses []enums.CommissionStatus) ([]models.CommissionRecord, error) {
	query := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var records []models.CommissionRecord
	err := query.Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CommissionStatus, paidAt *time.Time) error {
	updates := map[string]any{"status": status}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	return r.db.WithContext(ctx).
		Model(&models.CommissionRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CancelByOrder flips every still-open record for the order to cancelled.
// Paid records are left alone; clawbacks are a payouts concern, not a
// ledger mutation.
func (r *repository) CancelByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CommissionRecord{}).
		Where("order_id = ? AND status IN ?", orderID,
			[]enums.CommissionStatus{enums.CommissionStatusPending, enums.CommissionStatusPayable}).
		Update("status", enums.CommissionStatusCancelled)
	return result.RowsAffected, result.Error
}

// MarkPayableByOrder flips the order's pending records to payable when the
// order completes.
func (r *repository) MarkPayableByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CommissionRecord{}).
		Where("order_id = ? AND status = ?", orderID, enums.CommissionStatusPending).
		Update("status", enums.CommissionStatusPayable)
	return result.RowsAffected, result.Error
}

func (r *repository) SumByVendorStatus(ctx context.Context, vendorID uuid.UUID) (map[enums.CommissionStatus]int64, error) {
	type row struct {
		Status enums.CommissionStatus
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.CommissionRecord{}).
		Select("status, COALESCE(SUM(commission_cents), 0) AS total").
		Where("vendor_id = ?", vendorID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[enums.CommissionStatus]int64, len(rows))
	for _, r := range rows {
		sums[r.Status] = r.Total
	}
	return sums, nil
}
