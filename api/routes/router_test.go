package routes

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masego-dev/kasieats-backend/internal/menu"
	"github.com/masego-dev/kasieats-backend/internal/orders"
	paystackwebhook "github.com/masego-dev/kasieats-backend/internal/webhooks/paystack"
	pkgauth "github.com/masego-dev/kasieats-backend/pkg/auth"
	"github.com/masego-dev/kasieats-backend/pkg/config"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
	"github.com/masego-dev/kasieats-backend/pkg/paystack"
	"github.com/masego-dev/kasieats-backend/pkg/types"
	"github.com/masego-dev/kasieats-backend/pkg/webhooksig"
)

const routerWebhookSecret = "sk_test_router_secret"

type stubMenuService struct{}

func (stubMenuService) ListMenu(context.Context) ([]menu.MealDTO, error) {
	return []menu.MealDTO{}, nil
}

func (stubMenuService) GetMeal(context.Context, uuid.UUID) (*menu.MealDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Meal not found")
}

func (stubMenuService) ResolveItemPrice(context.Context, string, []string) (decimal.Decimal, types.AddOnSelections, error) {
	return decimal.Zero, nil, nil
}

func (stubMenuService) CreateMeal(context.Context, menu.CreateMealInput) (*menu.MealDTO, error) {
	return &menu.MealDTO{}, nil
}

func (stubMenuService) SetMealAvailability(context.Context, uuid.UUID, bool) error {
	return nil
}

type stubOrdersService struct {
	listCalls   int
	refundCalls int
}

func (s *stubOrdersService) Checkout(context.Context, orders.CheckoutInput) (*orders.CheckoutResult, error) {
	return &orders.CheckoutResult{OrderID: uuid.New(), Reference: "ke_ref", AuthorizationURL: "https://checkout.paystack.com/x"}, nil
}

func (s *stubOrdersService) ReconcilePayment(context.Context, orders.ReconcileInput) (*orders.ReconcileResult, error) {
	return &orders.ReconcileResult{Applied: true}, nil
}

func (s *stubOrdersService) VerifyPayment(context.Context, string) (*orders.VerificationResult, error) {
	return &orders.VerificationResult{Status: "success"}, nil
}

func (s *stubOrdersService) GetByReference(context.Context, string) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
}

func (s *stubOrdersService) GetByID(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
}

func (s *stubOrdersService) ListOrders(context.Context, orders.ListFilters) (*orders.OrderPage, error) {
	s.listCalls++
	return &orders.OrderPage{}, nil
}

func (s *stubOrdersService) AdvanceStatus(context.Context, orders.AdvanceInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (s *stubOrdersService) Cancel(context.Context, orders.CancelInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (s *stubOrdersService) RefundOrder(context.Context, orders.RefundInput) (*orders.OrderDTO, error) {
	s.refundCalls++
	return &orders.OrderDTO{}, nil
}

type stubWebhookService struct {
	events int
}

func (s *stubWebhookService) HandleEvent(context.Context, *paystack.WebhookEvent) error {
	s.events++
	return nil
}

type memIdemStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{keys: map[string]string{}}
}

func (m *memIdemStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.keys[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *memIdemStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.keys[key]; exists {
		return false, nil
	}
	m.keys[key] = "1"
	return true, nil
}

func (m *memIdemStore) IdempotencyKey(scope, id string) string {
	return "ke:idempotency:" + scope + ":" + id
}

func (m *memIdemStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.keys, key)
	}
	return nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func routerConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		StaffAuth: config.StaffAuthConfig{
			JWTSecret: "router-test-secret",
			Issuer:    "kasieats",
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *stubOrdersService, *stubWebhookService, *config.Config) {
	t.Helper()
	cfg := routerConfig()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	guard, err := paystackwebhook.NewIdempotencyGuard(newMemIdemStore(), time.Hour, "paystack-webhook")
	require.NoError(t, err)

	ordersSvc := &stubOrdersService{}
	webhookSvc := &stubWebhookService{}

	router := NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        okPinger{},
		RedisPinger:     okPinger{},
		MenuService:     stubMenuService{},
		CartService:     nil,
		OrdersService:   ordersSvc,
		WebhookService:  webhookSvc,
		WebhookVerifier: webhooksig.NewHMACSHA512(routerWebhookSecret),
		WebhookGuard:    guard,
	})
	return router, ordersSvc, webhookSvc, cfg
}

func staffToken(t *testing.T, cfg *config.Config, role pkgauth.StaffRole) string {
	t.Helper()
	token, err := pkgauth.MintStaffToken(cfg.StaffAuth, time.Now(), "staff-1", role, time.Hour)
	require.NoError(t, err)
	return token
}

func TestRouterHealthEndpoints(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	for _, target := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestRouterPublicRoutes(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/lookup", bytes.NewReader([]byte(`{"reference":"missing"}`))))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterWebhookRequiresSignature(t *testing.T) {
	router, _, webhookSvc, _ := newTestRouter(t)

	body := []byte(`{"event":"charge.success","data":{"reference":"ke_ref_500"}}`)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, webhookSvc.events)

	mac := hmac.New(sha512.New, []byte(routerWebhookSecret))
	mac.Write(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", bytes.NewReader(body))
	req.Header.Set(paystack.SignatureHeader, hex.EncodeToString(mac.Sum(nil)))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, webhookSvc.events)
}

func TestRouterAdminRequiresStaffToken(t *testing.T) {
	router, ordersSvc, _, cfg := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, ordersSvc.listCalls)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken(t, cfg, pkgauth.StaffRoleStaff))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ordersSvc.listCalls)
}

func TestRouterRefundRequiresAdminRole(t *testing.T) {
	router, ordersSvc, _, cfg := newTestRouter(t)
	target := "/api/admin/v1/orders/" + uuid.NewString() + "/refund"
	body := []byte(`{"reason":"customer complaint"}`)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+staffToken(t, cfg, pkgauth.StaffRoleStaff))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, ordersSvc.refundCalls)

	req = httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+staffToken(t, cfg, pkgauth.StaffRoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ordersSvc.refundCalls)
}
