package auth

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"

	"github.com/ventaplus/commerce-service/internal/domain"
)

// ErrUserNotFound marks a structurally valid token whose claims match no
// stored user.
var ErrUserNotFound = errors.New("user not found")

// UserFinder is the user-store lookup the resolver depends on. Lookups are
// fresh per request; identities are never cached.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Resolver turns a raw request credential into a stored user.
type Resolver struct {
	codec *TokenCodec
	users UserFinder
}

// NewResolver constructs a resolver over the given codec and user store.
func NewResolver(codec *TokenCodec, users UserFinder) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// Resolve strips an optional Bearer prefix, validates the token and resolves
// the claims to a user. Lookup order: numeric sub, email sub, userId claim,
// email claim; the first hit wins.
func (r *Resolver) Resolve(ctx context.Context, rawCredential string) (*domain.User, error) {
	token := strings.TrimSpace(rawCredential)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = token[7:]
	}

	claims, err := r.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	if sub, ok := claims["sub"]; ok {
		switch v := sub.(type) {
		case string:
			if id, parseErr := strconv.ParseInt(v, 10, 64); parseErr == nil {
				if user, lookupErr := r.users.GetByID(ctx, id); lookupErr == nil {
					return user, nil
				}
			} else if isEmail(v) {
				if user, lookupErr := r.users.GetByEmail(ctx, v); lookupErr == nil {
					return user, nil
				}
			}
		case float64:
			if user, lookupErr := r.users.GetByID(ctx, int64(v)); lookupErr == nil {
				return user, nil
			}
		}
	}

	if id, ok := numericClaim(claims["userId"]); ok {
		if user, lookupErr := r.users.GetByID(ctx, id); lookupErr == nil {
			return user, nil
		}
	}

	if email, ok := claims["email"].(string); ok && isEmail(email) {
		if user, lookupErr := r.users.GetByEmail(ctx, email); lookupErr == nil {
			return user, nil
		}
	}

	return nil, ErrUserNotFound
}

func numericClaim(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	}
	return 0, false
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
