package service

import (
	"errors"
	"testing"
	"time"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	auth, err := NewAuthService(map[string]string{
		"admin": "admin123",
		"user":  "pass123",
	}, "clave-de-prueba", time.Minute)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return auth
}

func TestLogin(t *testing.T) {
	auth := newTestAuth(t)

	if err := auth.Login("admin", "admin123"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if err := auth.Login("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: expected ErrInvalidCredentials, got %v", err)
	}
	if err := auth.Login("nadie", "admin123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newTestAuth(t)

	token, err := auth.GenerateToken("user", "pass123")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	username, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if username != "user" {
		t.Fatalf("expected username user, got %q", username)
	}
}

func TestGenerateTokenRejectsBadCredentials(t *testing.T) {
	auth := newTestAuth(t)

	if _, err := auth.GenerateToken("user", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestParseTokenRejectsGarbageAndForeignKey(t *testing.T) {
	auth := newTestAuth(t)

	if _, err := auth.ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}

	other, err := NewAuthService(map[string]string{"admin": "admin123"}, "otra-clave", time.Minute)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	token, err := other.GenerateToken("admin", "admin123")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := auth.ParseToken(token); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}
