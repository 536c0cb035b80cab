package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/drapeline/drapeline-backend/api/middleware"
	"github.com/drapeline/drapeline-backend/internal/orders"
	"github.com/drapeline/drapeline-backend/pkg/db/models"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	pkgerrors "github.com/drapeline/drapeline-backend/pkg/errors"
)

type stubOrdersService struct {
	created *orders.CreateOrderInput
	order   *models.Order
	err     error
}

func (s *stubOrdersService) CreateOrder(_ context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	s.created = &input
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrdersService) UpdateStatus(context.Context, orders.UpdateStatusInput) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) GetOrder(context.Context, uuid.UUID, uuid.UUID) (*orders.Detail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &orders.Detail{Order: s.order}, nil
}

func (s *stubOrdersService) GetOrderByNumber(context.Context, string, uuid.UUID) (*orders.Detail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &orders.Detail{Order: s.order}, nil
}

func (s *stubOrdersService) GetVendorOrder(context.Context, uuid.UUID, uuid.UUID) (*orders.VendorDetail, error) {
	return nil, s.err
}

const checkoutBody = `{
	"payment_method": "card",
	"payment_status": "paid",
	"coupon_codes": ["SPRING10"],
	"shipping_address": {
		"name": "Dana Curtis",
		"line1": "400 Congress Ave",
		"city": "Austin",
		"state": "TX",
		"postal_code": "78701",
		"country": "US"
	}
}`

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	return req
}

func TestCheckoutCreatesOrder(t *testing.T) {
	svc := &stubOrdersService{order: &models.Order{ID: uuid.New(), OrderNumber: "DL-20260831-0AF1B2C3"}}
	handler := Checkout(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", checkoutBody))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.created == nil {
		t.Fatal("expected CreateOrder call")
	}
	if svc.created.PaymentMethod != enums.PaymentMethodCard {
		t.Fatalf("unexpected payment method %s", svc.created.PaymentMethod)
	}
	if len(svc.created.CouponCodes) != 1 || svc.created.CouponCodes[0] != "SPRING10" {
		t.Fatalf("unexpected coupon codes %v", svc.created.CouponCodes)
	}
	// Billing falls back to shipping when omitted.
	if !svc.created.BillingAddress.Equal(svc.created.ShippingAddress) {
		t.Fatal("expected billing to default to shipping")
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	handler := Checkout(&stubOrdersService{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody)))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	handler := Checkout(&stubOrdersService{}, nil)
	body := strings.Replace(checkoutBody, `"card"`, `"barter"`, 1)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", body))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutSurfacesEmptyCart(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	handler := Checkout(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/checkout", checkoutBody))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %s", envelope.Error.Code)
	}
}
