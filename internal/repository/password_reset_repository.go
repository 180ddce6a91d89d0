package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResetTokenNotFound signals an unknown or expired reset token.
var ErrResetTokenNotFound = errors.New("reset token not found")

// PasswordResetRepository stores one-shot password reset tokens.
type PasswordResetRepository interface {
	Store(ctx context.Context, token, email string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

type passwordResetRepository struct {
	client *redis.Client
}

// NewPasswordResetRepository returns a Redis-backed implementation. Tokens
// expire on their own through the key TTL.
func NewPasswordResetRepository(client *redis.Client) PasswordResetRepository {
	return &passwordResetRepository{client: client}
}

func resetKey(token string) string {
	return "password_reset:" + token
}

func (r *passwordResetRepository) Store(ctx context.Context, token, email string, ttl time.Duration) error {
	return r.client.Set(ctx, resetKey(token), email, ttl).Err()
}

// Consume returns the email bound to the token and deletes it so the token
// cannot be replayed.
func (r *passwordResetRepository) Consume(ctx context.Context, token string) (string, error) {
	key := resetKey(token)
	email, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrResetTokenNotFound
	}
	if err != nil {
		return "", err
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return "", err
	}
	return email, nil
}
