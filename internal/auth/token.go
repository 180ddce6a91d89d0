package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenCodec issues and verifies HMAC-SHA256 signed claims tokens. The wire
// format is a standard three-segment JWT so tokens interoperate with any
// service sharing the secret. The signing algorithm is pinned to HS256 on
// verification; the header's declared alg is never trusted.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec with the given default token lifetime.
func NewTokenCodec(secret string, ttlMinutes int) *TokenCodec {
	if ttlMinutes <= 0 {
		ttlMinutes = 1440
	}
	return &TokenCodec{
		secret: normalizeSecret(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

// normalizeSecret resolves a "base64:"-prefixed secret to its decoded bytes;
// anything else is keyed on its raw bytes.
func normalizeSecret(secret string) []byte {
	if rest, ok := strings.CutPrefix(secret, "base64:"); ok {
		if decoded, err := base64.StdEncoding.DecodeString(rest); err == nil {
			return decoded
		}
	}
	return []byte(secret)
}

// Encode signs the claims with the default lifetime and returns the token
// plus its expiry.
func (tc *TokenCodec) Encode(claims map[string]any) (string, time.Time, error) {
	return tc.EncodeWithLifetime(claims, tc.ttl)
}

// EncodeWithLifetime signs the claims merged with fresh iat/exp values,
// where exp = iat + lifetime.
func (tc *TokenCodec) EncodeWithLifetime(claims map[string]any, lifetime time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(lifetime)

	merged := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	for k, v := range claims {
		merged[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, merged)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature and expiry and returns the claims mapping.
// Expiry is enforced only when an exp claim is present.
func (tc *TokenCodec) Decode(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return tc.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
