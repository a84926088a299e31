package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/workhive/workhive-backend/internal/utils"
)

func TestSignJWT_RoundTrip(t *testing.T) {
	accountID := uuid.NewString()

	token, err := utils.SignJWT("test-secret", accountID, "freelancer", 60)
	if err != nil {
		t.Fatalf("SignJWT returned error: %v", err)
	}

	claims := &utils.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse signed token: valid=%v err=%v", parsed != nil && parsed.Valid, err)
	}

	if claims.UserID != accountID {
		t.Errorf("uid claim = %q, want %q", claims.UserID, accountID)
	}
	if claims.Role != "freelancer" {
		t.Errorf("role claim = %q, want %q", claims.Role, "freelancer")
	}
	if ttl := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); ttl != 60*time.Minute {
		t.Errorf("token lifetime = %v, want 60m", ttl)
	}
}

func TestSignJWT_WrongSecretRejected(t *testing.T) {
	token, err := utils.SignJWT("test-secret", uuid.NewString(), "client", 60)
	if err != nil {
		t.Fatalf("SignJWT returned error: %v", err)
	}

	_, err = jwt.ParseWithClaims(token, &utils.Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	if err == nil {
		t.Error("token parsed with the wrong secret")
	}
}
