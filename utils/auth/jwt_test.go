package auth

import (
	"testing"
	"time"
)

func newTestManager(secret string, expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret: secret,
		Expiry: expiry,
		Issuer: "opencoder-api-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestManager("test-secret", time.Hour)

	token, jti, err := m.GenerateAccessToken(42, "student@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" || jti == "" {
		t.Fatal("expected token and jti")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "student@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != jti {
		t.Fatalf("jti mismatch: %q vs %q", claims.ID, jti)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := newTestManager("test-secret", time.Hour)
	token, _, err := m.GenerateAccessToken(1, "a@b.c")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	other := newTestManager("different-secret", time.Hour)
	if _, err := other.ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	m := newTestManager("test-secret", -time.Minute)
	token, _, err := m.GenerateAccessToken(1, "a@b.c")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.ValidateToken(token); err != ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateGarbageToken(t *testing.T) {
	m := newTestManager("test-secret", time.Hour)
	if _, err := m.ValidateToken("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
