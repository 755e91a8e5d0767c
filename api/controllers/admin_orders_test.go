package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masego-dev/kasieats-backend/internal/orders"
	"github.com/masego-dev/kasieats-backend/pkg/enums"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/pagination"
)

func adminTestRouter(svc orders.Service) *chi.Mux {
	logg := testLogger()
	router := chi.NewRouter()
	router.Get("/orders", AdminOrdersList(svc, logg))
	router.Post("/orders/{orderId}/status", AdminOrderAdvance(svc, logg))
	router.Post("/orders/{orderId}/cancel", AdminOrderCancel(svc, logg))
	router.Post("/orders/{orderId}/refund", AdminOrderRefund(svc, logg))
	return router
}

func TestAdminOrdersListParsesFilters(t *testing.T) {
	svc := &stubOrdersService{listPage: &orders.OrderPage{Items: []orders.OrderDTO{*sampleOrderDTO("ke_ref_400")}}}
	router := adminTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders?status=preparing&paymentStatus=paid&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.listFilters)
	require.NotNil(t, svc.listFilters.Status)
	assert.Equal(t, enums.OrderStatusPreparing, *svc.listFilters.Status)
	require.NotNil(t, svc.listFilters.PaymentStatus)
	assert.Equal(t, enums.PaymentStatusPaid, *svc.listFilters.PaymentStatus)
	assert.Equal(t, 10, svc.listFilters.Limit)
	assert.Nil(t, svc.listFilters.Cursor)
}

func TestAdminOrdersListDefaultsLimit(t *testing.T) {
	svc := &stubOrdersService{listPage: &orders.OrderPage{}}
	router := adminTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.listFilters)
	assert.Equal(t, pagination.DefaultLimit, svc.listFilters.Limit)
}

func TestAdminOrdersListRejectsBadFilters(t *testing.T) {
	svc := &stubOrdersService{listPage: &orders.OrderPage{}}
	router := adminTestRouter(svc)

	for _, target := range []string{
		"/orders?status=shipped",
		"/orders?paymentStatus=settled",
		"/orders?cursor=not-a-cursor",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Nil(t, svc.listFilters)
}

func TestAdminOrderAdvanceCarriesActor(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{mutateOrder: sampleOrderDTO("ke_ref_401")}
	router := adminTestRouter(svc)

	body, _ := json.Marshal(map[string]any{"status": "preparing"})
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/status", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.advanceInput)
	assert.Equal(t, orderID, svc.advanceInput.OrderID)
	assert.Equal(t, enums.OrderStatusPreparing, svc.advanceInput.Target)
}

func TestAdminOrderAdvanceRejectsBadOrderID(t *testing.T) {
	svc := &stubOrdersService{}
	router := adminTestRouter(svc)

	body, _ := json.Marshal(map[string]any{"status": "preparing"})
	req := httptest.NewRequest(http.MethodPost, "/orders/not-a-uuid/status", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.advanceInput)
}

func TestAdminOrderAdvanceIllegalTransition(t *testing.T) {
	svc := &stubOrdersService{mutateErr: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move order from completed to preparing")}
	router := adminTestRouter(svc)

	body, _ := json.Marshal(map[string]any{"status": "preparing"})
	req := httptest.NewRequest(http.MethodPost, "/orders/"+uuid.NewString()+"/status", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminOrderCancelRequiresReason(t *testing.T) {
	svc := &stubOrdersService{mutateOrder: sampleOrderDTO("ke_ref_402")}
	router := adminTestRouter(svc)

	body, _ := json.Marshal(map[string]any{})
	req := httptest.NewRequest(http.MethodPost, "/orders/"+uuid.NewString()+"/cancel", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.cancelInput)
}

func TestAdminOrderRefundPassesAmount(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{mutateOrder: sampleOrderDTO("ke_ref_403")}
	router := adminTestRouter(svc)

	body, _ := json.Marshal(map[string]any{"amount": "100.00", "reason": "customer complaint"})
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/refund", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.refundInput)
	require.NotNil(t, svc.refundInput.Amount)
	assert.True(t, svc.refundInput.Amount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "customer complaint", svc.refundInput.Reason)
}
