//go:build db
// +build db

package orders

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("DRAPELINE_DB_DSN")
	if dsn == "" {
		t.Skip("DRAPELINE_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryOrderFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	snapshot := &models.AddressSnapshot{
		ID:         uuid.New(),
		Name:       "Test Buyer",
		Line1:      "1 Integration Way",
		City:       "Austin",
		State:      "TX",
		PostalCode: "78701",
		Country:    "US",
	}
	if err := repo.CreateAddressSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("create address snapshot: %v", err)
	}

	number, err := GenerateOrderNumber(time.Now())
	if err != nil {
		t.Fatalf("order number: %v", err)
	}
	order := &models.Order{
		OrderNumber:       number,
		UserID:            uuid.New(),
		Status:            enums.OrderStatusPending,
		Currency:          enums.CurrencyUSD,
		SubtotalCents:     10000,
		TotalCents:        10825,
		TaxCents:          825,
		ShippingAddressID: snapshot.ID,
		BillingAddressID:  snapshot.ID,
		PaymentMethod:     enums.PaymentMethodCard,
		PaymentStatus:     enums.PaymentStatusUnpaid,
	}
	if err := repo.CreateOrder(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	items := []models.OrderLineItem{{
		ID:             uuid.New(),
		OrderID:        order.ID,
		ProductID:      uuid.New(),
		VendorID:       uuid.New(),
		ProductName:    "Roller Shade",
		Quantity:       2,
		UnitPriceCents: 5000,
		TotalCents:     10000,
		Status:         enums.LineItemStatusActive,
	}}
	if err := repo.CreateLineItems(ctx, items); err != nil {
		t.Fatalf("create line items: %v", err)
	}
	if err := repo.AppendStatusHistory(ctx, &models.OrderStatusHistory{
		OrderID: order.ID,
		Status:  enums.OrderStatusPending,
		ActorID: order.UserID,
	}); err != nil {
		t.Fatalf("append history: %v", err)
	}

	found, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if len(found.Items) != 1 || len(found.History) != 1 {
		t.Fatalf("preloads: items=%d history=%d", len(found.Items), len(found.History))
	}

	byNumber, err := repo.FindByNumber(ctx, number)
	if err != nil {
		t.Fatalf("find by number: %v", err)
	}
	if byNumber.ID != order.ID {
		t.Fatalf("find by number returned %s", byNumber.ID)
	}

	// The unique constraint backs number generation.
	dup := &models.Order{
		OrderNumber:       number,
		UserID:            uuid.New(),
		Status:            enums.OrderStatusPending,
		Currency:          enums.CurrencyUSD,
		ShippingAddressID: snapshot.ID,
		BillingAddressID:  snapshot.ID,
		PaymentMethod:     enums.PaymentMethodCard,
		PaymentStatus:     enums.PaymentStatusUnpaid,
	}
	if err := repo.CreateOrder(ctx, dup); err == nil {
		t.Fatal("duplicate order number must be rejected")
	}

	if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"status": enums.OrderStatusProcessing}); err != nil {
		t.Fatalf("update order: %v", err)
	}
	found, err = repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if found.Status != enums.OrderStatusProcessing {
		t.Fatalf("status = %s", found.Status)
	}
}
