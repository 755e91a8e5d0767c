package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masego-dev/kasieats-backend/internal/orders"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
)

type stubOrdersService struct {
	checkoutInput  *orders.CheckoutInput
	checkoutResult *orders.CheckoutResult
	checkoutErr    error

	verifyReference string
	verifyResult    *orders.VerificationResult
	verifyErr       error

	lookupReference string
	lookupOrder     *orders.OrderDTO
	lookupErr       error

	listFilters *orders.ListFilters
	listPage    *orders.OrderPage
	listErr     error

	advanceInput *orders.AdvanceInput
	cancelInput  *orders.CancelInput
	refundInput  *orders.RefundInput
	mutateOrder  *orders.OrderDTO
	mutateErr    error
}

func (s *stubOrdersService) Checkout(_ context.Context, input orders.CheckoutInput) (*orders.CheckoutResult, error) {
	s.checkoutInput = &input
	return s.checkoutResult, s.checkoutErr
}

func (s *stubOrdersService) ReconcilePayment(context.Context, orders.ReconcileInput) (*orders.ReconcileResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not expected in controller tests")
}

func (s *stubOrdersService) VerifyPayment(_ context.Context, reference string) (*orders.VerificationResult, error) {
	s.verifyReference = reference
	return s.verifyResult, s.verifyErr
}

func (s *stubOrdersService) GetByReference(_ context.Context, reference string) (*orders.OrderDTO, error) {
	s.lookupReference = reference
	return s.lookupOrder, s.lookupErr
}

func (s *stubOrdersService) GetByID(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	return s.lookupOrder, s.lookupErr
}

func (s *stubOrdersService) ListOrders(_ context.Context, filters orders.ListFilters) (*orders.OrderPage, error) {
	s.listFilters = &filters
	return s.listPage, s.listErr
}

func (s *stubOrdersService) AdvanceStatus(_ context.Context, input orders.AdvanceInput) (*orders.OrderDTO, error) {
	s.advanceInput = &input
	return s.mutateOrder, s.mutateErr
}

func (s *stubOrdersService) Cancel(_ context.Context, input orders.CancelInput) (*orders.OrderDTO, error) {
	s.cancelInput = &input
	return s.mutateOrder, s.mutateErr
}

func (s *stubOrdersService) RefundOrder(_ context.Context, input orders.RefundInput) (*orders.OrderDTO, error) {
	s.refundInput = &input
	return s.mutateOrder, s.mutateErr
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func postJSON(handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func validCheckoutPayload() map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"name":  "Thandi Mokoena",
			"email": "thandi@example.co.za",
			"phone": "+27821234567",
		},
		"items": []map[string]any{
			{"mealId": "kota-classic", "mealName": "Classic Kota", "quantity": 2},
		},
	}
}

func TestCheckoutReturnsHostedPaymentDetails(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{checkoutResult: &orders.CheckoutResult{
		OrderID:          orderID,
		Reference:        "ke_ref_100",
		AuthorizationURL: "https://checkout.paystack.com/abc123",
	}}
	handler := Checkout(svc, testLogger())

	rec := postJSON(handler, "/api/v1/checkout", validCheckoutPayload())

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://checkout.paystack.com/abc123", body["authorizationUrl"])
	assert.Equal(t, "ke_ref_100", body["reference"])
	assert.Equal(t, orderID.String(), body["orderId"])

	require.NotNil(t, svc.checkoutInput)
	assert.Equal(t, "Thandi Mokoena", svc.checkoutInput.Customer.Name)
	require.Len(t, svc.checkoutInput.Items, 1)
	assert.Equal(t, 2, svc.checkoutInput.Items[0].Quantity)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc := &stubOrdersService{}
	handler := Checkout(svc, testLogger())

	payload := validCheckoutPayload()
	payload["items"] = []map[string]any{}
	rec := postJSON(handler, "/api/v1/checkout", payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.checkoutInput)
}

func TestCheckoutRejectsInvalidEmail(t *testing.T) {
	svc := &stubOrdersService{}
	handler := Checkout(svc, testLogger())

	payload := validCheckoutPayload()
	payload["customer"].(map[string]any)["email"] = "not-an-email"
	rec := postJSON(handler, "/api/v1/checkout", payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.checkoutInput)
}

func TestCheckoutSurfacesPriceMismatch(t *testing.T) {
	svc := &stubOrdersService{checkoutErr: pkgerrors.New(pkgerrors.CodeValidation, "submitted total does not match priced total")}
	handler := Checkout(svc, testLogger())

	rec := postJSON(handler, "/api/v1/checkout", validCheckoutPayload())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "submitted total does not match priced total")
}
