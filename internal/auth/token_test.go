package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret", 60)

	token, expiresAt, err := codec.Encode(map[string]any{
		"sub":    "alice@example.com",
		"userId": int64(42),
		"role":   "cliente",
	})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if time.Until(expiresAt) < 59*time.Minute {
		t.Fatalf("expiry too soon: %v", expiresAt)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if claims["sub"] != "alice@example.com" {
		t.Fatalf("unexpected sub: %v", claims["sub"])
	}
	if claims["role"] != "cliente" {
		t.Fatalf("unexpected role: %v", claims["role"])
	}
	if _, ok := claims["iat"]; !ok {
		t.Fatalf("iat claim missing")
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("exp claim missing")
	}
}

func TestTokenCodec_TamperedTokenRejected(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	token, _, err := codec.Encode(map[string]any{"sub": "alice@example.com"})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three segments, got %d", len(parts))
	}
	forgedBody := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"mallory@example.com"}`))
	forged := parts[0] + "." + forgedBody + "." + parts[2]

	if _, err := codec.Decode(forged); err == nil {
		t.Fatalf("expected tampered token to fail verification")
	}
}

func TestTokenCodec_WrongSecretRejected(t *testing.T) {
	token, _, err := NewTokenCodec("secret-a", 60).Encode(map[string]any{"sub": "x"})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if _, err := NewTokenCodec("secret-b", 60).Decode(token); err == nil {
		t.Fatalf("expected verification with wrong secret to fail")
	}
}

func TestTokenCodec_Base64PrefixedSecret(t *testing.T) {
	raw := []byte("shared-signing-key")
	encoded := "base64:" + base64.StdEncoding.EncodeToString(raw)

	token, _, err := NewTokenCodec(encoded, 60).Encode(map[string]any{"sub": "x"})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	// A peer keyed on the decoded bytes must accept the token.
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return raw, nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("expected token to verify against decoded secret bytes: %v", err)
	}
}

func TestTokenCodec_ExpiredTokenRejected(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	token, _, err := codec.EncodeWithLifetime(map[string]any{"sub": "x"}, -time.Minute)
	if err != nil {
		t.Fatalf("EncodeWithLifetime returned error: %v", err)
	}
	if _, err := codec.Decode(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestTokenCodec_AlgorithmPinned(t *testing.T) {
	secret := []byte("secret")
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{"sub": "x"})
	signed, err := foreign.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := NewTokenCodec("secret", 60).Decode(signed); err == nil {
		t.Fatalf("expected non-HS256 token to be rejected")
	}
}
