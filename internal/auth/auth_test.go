package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	user := domain.User{ID: 42, Email: "coach@example.com", Role: domain.RoleOperator}

	token, err := tm.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != user.Role {
		t.Errorf("claims = %+v, want user %+v", claims, user)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)
	token, err := tm.Issue(domain.User{ID: 1, Email: "a@b.c", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := tm.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Verify(expired) error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(domain.User{ID: 1})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Verify(wrong secret) error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	if _, err := tm.Verify("not.a.token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Verify(garbage) error = %v, want ErrUnauthorized", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals the plaintext password")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Error("CheckPassword rejected the correct password")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("CheckPassword accepted a wrong password")
	}
}
