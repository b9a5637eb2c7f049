package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HEGATNB/kyrsach-basketball/internal/auth"
	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

func newTestAuthService(users domain.UserStore) *AuthService {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(users, tokens, &fakeAuditStore{}, testLogger())
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(users)

	reg, err := svc.Register(context.Background(), "Fan@Example.COM", "Fan", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Token == "" {
		t.Error("register returned empty token")
	}
	if reg.User.Email != "fan@example.com" {
		t.Errorf("email = %q, want lowercased fan@example.com", reg.User.Email)
	}
	if reg.User.Role != domain.RoleUser {
		t.Errorf("role = %q, want %q", reg.User.Role, domain.RoleUser)
	}
	if reg.User.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}

	login, err := svc.Login(context.Background(), "fan@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.Token == "" {
		t.Error("login returned empty token")
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user id = %d, want %d", login.User.ID, reg.User.ID)
	}

	stored, err := users.GetByID(context.Background(), reg.User.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.LastLoginAt == nil {
		t.Error("last login was not recorded")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password"},
		{"malformed email", "not-an-email", "password"},
		{"short password", "fan@example.com", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.email, "Fan", tc.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("Register error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore())

	if _, err := svc.Register(context.Background(), "fan@example.com", "Fan", "hunter22"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), "fan@example.com", "Other", "hunter22")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate Register error = %v, want ErrAlreadyExists", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(users)

	if _, err := svc.Register(context.Background(), "fan@example.com", "Fan", "hunter22"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "fan@example.com", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "hunter22"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", err)
	}
}

func TestLoginBlockedAccount(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(users)

	reg, err := svc.Register(context.Background(), "fan@example.com", "Fan", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	blocked := users.users[reg.User.ID]
	blocked.IsBlocked = true
	users.users[reg.User.ID] = blocked

	if _, err := svc.Login(context.Background(), "fan@example.com", "hunter22"); !errors.Is(err, domain.ErrAccountBlocked) {
		t.Fatalf("blocked login error = %v, want ErrAccountBlocked", err)
	}
}
