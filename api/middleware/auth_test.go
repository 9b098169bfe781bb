package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "storefront/pkg/auth"
	"storefront/pkg/config"
)

type stubSessionChecker struct {
	ok  bool
	err error
}

func (s stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, s.err
}

type stubAdminChecker struct {
	admins map[string]bool
}

func (s stubAdminChecker) IsAdmin(email string) bool {
	return s.admins[email]
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "storefront",
		ExpirationMinutes: 15,
	}
}

func mintToken(t *testing.T, email string) (string, string) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Email:  email,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID.String()
}

func TestAuthInjectsPrincipal(t *testing.T) {
	token, userID := mintToken(t, "admin@example.com")

	var gotUserID, gotEmail, gotAccessID string
	var gotAdmin bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotEmail = EmailFromContext(r.Context())
		gotAccessID = AccessIDFromContext(r.Context())
		gotAdmin = IsAdminFromContext(r.Context())
	})

	handler := Auth(testJWTConfig(), stubSessionChecker{ok: true}, stubAdminChecker{admins: map[string]bool{"admin@example.com": true}}, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotUserID != userID {
		t.Fatalf("expected user %s in context, got %q", userID, gotUserID)
	}
	if gotEmail != "admin@example.com" {
		t.Fatalf("unexpected email %q", gotEmail)
	}
	if gotAccessID == "" {
		t.Fatal("expected access id in context")
	}
	if !gotAdmin {
		t.Fatal("expected allow-listed email to be flagged admin")
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWTConfig(), stubSessionChecker{ok: true}, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token, _ := mintToken(t, "shopper@example.com")

	handler := Auth(testJWTConfig(), stubSessionChecker{ok: false}, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a revoked session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireAdminBlocksNonAdmins(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req = req.WithContext(WithAdmin(req.Context(), false))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req = req.WithContext(WithAdmin(req.Context(), true))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
}
