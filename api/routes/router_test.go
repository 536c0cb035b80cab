package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	cartsvc "github.com/drapeline/drapeline-backend/internal/cart"
	"github.com/drapeline/drapeline-backend/internal/commission"
	"github.com/drapeline/drapeline-backend/internal/coupons"
	"github.com/drapeline/drapeline-backend/internal/orders"
	"github.com/drapeline/drapeline-backend/internal/pricing"
	"github.com/drapeline/drapeline-backend/internal/reports"
	pkgAuth "github.com/drapeline/drapeline-backend/pkg/auth"
	"github.com/drapeline/drapeline-backend/pkg/config"
	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	"github.com/drapeline/drapeline-backend/pkg/logger"
	"github.com/drapeline/drapeline-backend/pkg/pagination"
)

type stubPricing struct{}

func (stubPricing) Quote(context.Context, pricing.QuoteInput) (*pricing.PriceBreakdown, error) {
	return &pricing.PriceBreakdown{FinalPriceCents: 9900}, nil
}

type stubCart struct{}

func (stubCart) GetCart(context.Context, cartsvc.Owner) (*cartsvc.View, error) {
	return &cartsvc.View{Lines: []cartsvc.LineView{}, Vendors: []cartsvc.VendorBreakdown{}}, nil
}

func (stubCart) AddItem(context.Context, cartsvc.Owner, cartsvc.AddItemInput) (*models.Cart, error) {
	return &models.Cart{ID: uuid.New()}, nil
}

func (stubCart) UpdateQuantity(context.Context, cartsvc.Owner, uuid.UUID, int) error {
	return nil
}

func (stubCart) RemoveItem(context.Context, cartsvc.Owner, uuid.UUID) error {
	return nil
}

func (stubCart) ClearCart(context.Context, cartsvc.Owner) error {
	return nil
}

func (stubCart) MergeCart(context.Context, string, uuid.UUID) (*models.Cart, error) {
	return &models.Cart{ID: uuid.New()}, nil
}

func (stubCart) Snapshot(context.Context, *models.Cart) (coupons.CartSnapshot, error) {
	return coupons.CartSnapshot{}, nil
}

type stubCoupons struct{}

func (stubCoupons) Preview(context.Context, []string, coupons.CartSnapshot, *uuid.UUID) (*coupons.Resolution, error) {
	return &coupons.Resolution{}, nil
}

func (stubCoupons) ResolveForCheckout(context.Context, *gorm.DB, []string, coupons.CartSnapshot, *uuid.UUID) (*coupons.Resolution, error) {
	return &coupons.Resolution{}, nil
}

func (stubCoupons) CommitRedemptions(context.Context, *gorm.DB, *coupons.Resolution, uuid.UUID, *uuid.UUID) error {
	return nil
}

type stubOrders struct{}

func (stubOrders) CreateOrder(context.Context, orders.CreateOrderInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), OrderNumber: "DL-20260831-DEADBEEF"}, nil
}

func (stubOrders) UpdateStatus(context.Context, orders.UpdateStatusInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusCancelled}, nil
}

func (stubOrders) GetOrder(context.Context, uuid.UUID, uuid.UUID) (*orders.Detail, error) {
	return &orders.Detail{Order: &models.Order{ID: uuid.New()}}, nil
}

func (stubOrders) GetOrderByNumber(_ context.Context, orderNumber string, _ uuid.UUID) (*orders.Detail, error) {
	return &orders.Detail{Order: &models.Order{ID: uuid.New(), OrderNumber: orderNumber}}, nil
}

func (stubOrders) GetVendorOrder(context.Context, uuid.UUID, uuid.UUID) (*orders.VendorDetail, error) {
	return &orders.VendorDetail{}, nil
}

type stubCommissions struct{}

func (stubCommissions) RecordForOrder(context.Context, *gorm.DB, *models.Order, []models.OrderLineItem) ([]models.CommissionRecord, error) {
	return nil, nil
}

func (stubCommissions) MarkPayable(context.Context, uuid.UUID) (*models.CommissionRecord, error) {
	return &models.CommissionRecord{Status: enums.CommissionStatusPayable}, nil
}

func (stubCommissions) MarkPaid(context.Context, uuid.UUID) (*models.CommissionRecord, error) {
	return &models.CommissionRecord{Status: enums.CommissionStatusPaid}, nil
}

func (stubCommissions) CancelForOrder(context.Context, *gorm.DB, uuid.UUID) error {
	return nil
}

func (stubCommissions) MarkPayableForOrder(context.Context, *gorm.DB, uuid.UUID) error {
	return nil
}

func (stubCommissions) ListForVendor(context.Context, uuid.UUID, []enums.CommissionStatus) ([]models.CommissionRecord, error) {
	return []models.CommissionRecord{}, nil
}

func (stubCommissions) ListForOrder(context.Context, uuid.UUID) ([]models.CommissionRecord, error) {
	return []models.CommissionRecord{}, nil
}

func (stubCommissions) PayoutSummary(context.Context, uuid.UUID) (*commission.PayoutSummary, error) {
	return &commission.PayoutSummary{}, nil
}

type stubReports struct{}

func (stubReports) ListOrders(context.Context, reports.ListFilters, pagination.Params) (*reports.OrderList, error) {
	return &reports.OrderList{Orders: []models.Order{}, Page: 1, Limit: pagination.DefaultLimit}, nil
}

func (stubReports) ListUserOrders(context.Context, uuid.UUID, reports.ListFilters, pagination.Params) (*reports.OrderList, error) {
	return &reports.OrderList{Orders: []models.Order{}, Page: 1, Limit: pagination.DefaultLimit}, nil
}

func (stubReports) ListVendorOrders(context.Context, uuid.UUID, reports.ListFilters, pagination.Params) (*reports.VendorOrderList, error) {
	return &reports.VendorOrderList{Orders: []reports.VendorOrderSummary{}, Page: 1, Limit: pagination.DefaultLimit}, nil
}

func (stubReports) Stats(context.Context) (*reports.Stats, error) {
	return &reports.Stats{}, nil
}

func (stubReports) VendorStats(context.Context, uuid.UUID) (*reports.Stats, error) {
	return &reports.Stats{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "drapeline-test", ExpirationMinutes: 60},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	return NewRouter(cfg, logg, nil, nil, nil, stubPricing{}, stubCart{}, stubCoupons{}, stubOrders{}, stubCommissions{}, stubReports{})
}

func mintToken(t *testing.T, role enums.Role, vendorID *uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		VendorID: vendorID,
		Role:     role,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Drapeline-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-Drapeline-Env"))
	}
}

func TestCartRequiresIdentity(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("anonymous without session header: expected 400 got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Cart-Session", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("guest with session header: expected 200 got %d", resp.Code)
	}
}

func TestOrdersRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleCustomer, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrderLookupByNumber(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/number/DL-20260831-0a1b2c3d", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "DL-20260831-0a1b2c3d") {
		t.Fatalf("expected order number echoed, got %s", resp.Body.String())
	}
}

func TestCheckoutCreatesOrder(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"payment_method": "card",
		"payment_status": "paid",
		"shipping_address": {
			"name": "Dana Curtis",
			"line1": "400 Congress Ave",
			"city": "Austin",
			"state": "TX",
			"postal_code": "78701",
			"country": "US"
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleCustomer, nil))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber == "" {
		t.Fatal("expected order number in response")
	}
}

func TestVendorRoutesEnforceRole(t *testing.T) {
	router := newTestRouter(t)
	vendorID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/commissions/summary", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("customer on vendor route: expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/vendor/commissions/summary", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleVendor, &vendorID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("vendor on vendor route: expected 200 got %d", resp.Code)
	}
}

func TestAdminRoutesEnforceRole(t *testing.T) {
	router := newTestRouter(t)
	vendorID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports/stats", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleVendor, &vendorID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("vendor on admin route: expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports/stats", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleAdmin, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("admin on admin route: expected 200 got %d", resp.Code)
	}
}
