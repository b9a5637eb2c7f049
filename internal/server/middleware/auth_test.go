package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HEGATNB/kyrsach-basketball/internal/auth"
	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

func issueToken(t *testing.T, tokens *auth.TokenManager, role string) string {
	t.Helper()
	token, err := tokens.Issue(domain.User{ID: 7, Email: "fan@example.com", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	var gotClaims auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := Authenticate(tokens)(next)

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + issueToken(t, tokens, domain.RoleUser), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			protected.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}

	if gotClaims.UserID != 7 {
		t.Errorf("claims user id = %d, want 7", gotClaims.UserID)
	}
	if gotClaims.Role != domain.RoleUser {
		t.Errorf("claims role = %q, want %q", gotClaims.Role, domain.RoleUser)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager("test-secret", -time.Minute)
	verify := auth.NewTokenManager("test-secret", time.Hour)

	protected := Authenticate(verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, expired, domain.RoleUser))
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := Authenticate(tokens)(RequireRole(domain.RoleAdmin)(next))
	staff := Authenticate(tokens)(RequireRole(domain.RoleAdmin, domain.RoleOperator)(next))

	cases := []struct {
		name       string
		handler    http.Handler
		role       string
		wantStatus int
	}{
		{"user blocked from admin route", adminOnly, domain.RoleUser, http.StatusForbidden},
		{"operator blocked from admin route", adminOnly, domain.RoleOperator, http.StatusForbidden},
		{"admin allowed", adminOnly, domain.RoleAdmin, http.StatusOK},
		{"operator allowed on staff route", staff, domain.RoleOperator, http.StatusOK},
		{"user blocked from staff route", staff, domain.RoleUser, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/teams/1", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, tc.role))
			rr := httptest.NewRecorder()
			tc.handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	guarded := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	rr := httptest.NewRecorder()
	guarded.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}
