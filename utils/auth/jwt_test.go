package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-key",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "learnsphere-academy-api",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	manager := newTestManager(t)

	token, jti, err := manager.GenerateAccessToken(42, "alice@example.com", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if jti == "" {
		t.Error("expected a non-empty JTI")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("unexpected email: %q", claims.Email)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected access token type, got %q", claims.TokenType)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("expected token version 3, got %d", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("claims ID %q does not match returned JTI %q", claims.ID, jti)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	manager := newTestManager(t)
	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour})

	token, _, err := manager.GenerateAccessToken(1, "a@example.com", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret: "test-secret-key",
		Expiry: -time.Minute,
	})

	token, _, err := manager.GenerateAccessToken(1, "a@example.com", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	manager := newTestManager(t)

	refresh, _, err := manager.GenerateRefreshToken(7, "bob@example.com", 1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	access, _, err := manager.RefreshAccessToken(refresh, 1)
	if err != nil {
		t.Fatalf("RefreshAccessToken failed: %v", err)
	}

	claims, err := manager.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected access token type, got %q", claims.TokenType)
	}
	if claims.UserID != 7 {
		t.Errorf("expected user id 7, got %d", claims.UserID)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	manager := newTestManager(t)

	access, _, err := manager.GenerateAccessToken(7, "bob@example.com", 1)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, _, err := manager.RefreshAccessToken(access, 1); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken when refreshing with an access token, got %v", err)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := VerifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("expected the right password to verify, got %v", err)
	}
	if err := VerifyPassword(hash, "wrong password"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}

	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}
