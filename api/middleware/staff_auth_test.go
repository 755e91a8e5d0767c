package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/masego-dev/kasieats-backend/pkg/auth"
	"github.com/masego-dev/kasieats-backend/pkg/config"
)

var staffAuthTestConfig = config.StaffAuthConfig{
	JWTSecret: "test-secret",
	Issuer:    "kasieats",
}

func staffProtected(t *testing.T, cfg config.StaffAuthConfig) (http.Handler, *string) {
	t.Helper()
	var seenSubject string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSubject = StaffSubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return StaffAuth(cfg, nil)(inner), &seenSubject
}

func TestStaffAuthAllowsValidToken(t *testing.T) {
	token, err := pkgAuth.MintStaffToken(staffAuthTestConfig, time.Now(), "sipho@kasieats.co.za", pkgAuth.StaffRoleStaff, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	handler, subject := staffProtected(t, staffAuthTestConfig)
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if *subject != "sipho@kasieats.co.za" {
		t.Fatalf("subject not propagated: %q", *subject)
	}
}

func TestStaffAuthRejectsMissingHeader(t *testing.T) {
	handler, _ := staffProtected(t, staffAuthTestConfig)
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestStaffAuthRejectsTamperedToken(t *testing.T) {
	other := config.StaffAuthConfig{JWTSecret: "other-secret", Issuer: "kasieats"}
	token, err := pkgAuth.MintStaffToken(other, time.Now(), "sipho@kasieats.co.za", pkgAuth.StaffRoleStaff, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	handler, _ := staffProtected(t, staffAuthTestConfig)
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireStaffRole(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireStaffRole(pkgAuth.StaffRoleAdmin, nil)(inner)

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/x/refund", nil)
	req = req.WithContext(WithStaffRole(req.Context(), "staff"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("staff role should be forbidden, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/orders/x/refund", nil)
	req = req.WithContext(WithStaffRole(req.Context(), "admin"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("admin role should pass, got %d", w.Code)
	}
}
