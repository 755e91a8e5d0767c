package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
	"github.com/masego-dev/kasieats-backend/pkg/paystack"
	"github.com/masego-dev/kasieats-backend/pkg/webhooksig"
)

const testWebhookSecret = "sk_test_webhook_secret"

type fakeWebhookService struct {
	events []*paystack.WebhookEvent
	err    error
}

func (f *fakeWebhookService) HandleEvent(_ context.Context, event *paystack.WebhookEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeGuard struct {
	marked  map[string]bool
	deleted []string
	err     error
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{marked: map[string]bool{}}
}

func (f *fakeGuard) CheckAndMark(_ context.Context, eventID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.marked[eventID] {
		return true, nil
	}
	f.marked[eventID] = true
	return false, nil
}

func (f *fakeGuard) Delete(_ context.Context, eventID string) error {
	delete(f.marked, eventID)
	f.deleted = append(f.deleted, eventID)
	return nil
}

func signBody(t *testing.T, body []byte) string {
	t.Helper()
	mac := hmac.New(sha512.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func chargeSuccessBody(t *testing.T, reference string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"event": paystack.WebhookChargeSuccess,
		"data": map[string]any{
			"id":        4099260516,
			"reference": reference,
			"amount":    27600,
			"currency":  "ZAR",
			"channel":   "card",
			"status":    "success",
			"paid_at":   "2026-08-30T14:05:00Z",
		},
	})
	require.NoError(t, err)
	return body
}

func postWebhook(handler http.HandlerFunc, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(paystack.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func newWebhookHandler(svc *fakeWebhookService, guard *fakeGuard) http.HandlerFunc {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return PaystackWebhook(svc, webhooksig.NewHMACSHA512(testWebhookSecret), guard, logg)
}

func TestPaystackWebhookAcksValidEvent(t *testing.T) {
	svc := &fakeWebhookService{}
	guard := newFakeGuard()
	handler := newWebhookHandler(svc, guard)

	body := chargeSuccessBody(t, "ke_ref_001")
	rec := postWebhook(handler, body, signBody(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.Len(t, svc.events, 1)
	assert.Equal(t, paystack.WebhookChargeSuccess, svc.events[0].Event)
	assert.Equal(t, "ke_ref_001", svc.events[0].Data.Reference)
	assert.True(t, guard.marked[paystack.WebhookChargeSuccess+":ke_ref_001"])
}

func TestPaystackWebhookDuplicateDeliveryAckedOnce(t *testing.T) {
	svc := &fakeWebhookService{}
	guard := newFakeGuard()
	handler := newWebhookHandler(svc, guard)

	body := chargeSuccessBody(t, "ke_ref_002")
	signature := signBody(t, body)

	first := postWebhook(handler, body, signature)
	second := postWebhook(handler, body, signature)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Len(t, svc.events, 1)
}

func TestPaystackWebhookRejectsBadSignature(t *testing.T) {
	svc := &fakeWebhookService{}
	handler := newWebhookHandler(svc, newFakeGuard())

	body := chargeSuccessBody(t, "ke_ref_003")

	tampered := postWebhook(handler, body, signBody(t, []byte("something else")))
	missing := postWebhook(handler, body, "")

	assert.Equal(t, http.StatusUnauthorized, tampered.Code)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Empty(t, svc.events)
}

func TestPaystackWebhookReleasesGuardOnServiceFailure(t *testing.T) {
	svc := &fakeWebhookService{err: pkgerrors.New(pkgerrors.CodeInternal, "db down")}
	guard := newFakeGuard()
	handler := newWebhookHandler(svc, guard)

	body := chargeSuccessBody(t, "ke_ref_004")
	rec := postWebhook(handler, body, signBody(t, body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, guard.deleted, paystack.WebhookChargeSuccess+":ke_ref_004")
	assert.False(t, guard.marked[paystack.WebhookChargeSuccess+":ke_ref_004"])
}

func TestPaystackWebhookAcksUndecodableBody(t *testing.T) {
	svc := &fakeWebhookService{}
	handler := newWebhookHandler(svc, newFakeGuard())

	body := []byte("not json")
	rec := postWebhook(handler, body, signBody(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.events)
}
