package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ventaplus/commerce-service/internal/auth"
	"github.com/ventaplus/commerce-service/internal/config"
	"github.com/ventaplus/commerce-service/internal/domain"
	"github.com/ventaplus/commerce-service/internal/events"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/pkg/util"
)

// AuthService coordinates registration, login and credential recovery.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	codec      *auth.TokenCodec
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Codec             *auth.TokenCodec
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		codec:      deps.Codec,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute,
	}
}

// RegisterInput describes a signup payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  *string
	RoleID   *int64
}

// ProfileUpdateInput carries optional profile changes. Nil fields stay as-is.
type ProfileUpdateInput struct {
	Name    *string
	Email   *string
	Address *string
}

// Login authenticates by email and password and issues a signed token. The
// token carries the account role label so downstream services can authorize
// without a user lookup.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err == pgx.ErrNoRows {
		return nil, "", util.NewValidationError("invalid credentials", nil)
	}
	if err != nil {
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", util.NewDomainError("forbidden", "account disabled", 403, nil)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", util.NewValidationError("invalid credentials", nil)
	}

	token, _, err := s.codec.Encode(map[string]any{
		"sub":    user.Email,
		"userId": user.ID,
		"email":  user.Email,
		"role":   strings.ToLower(user.RoleLabel()),
	})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register creates a new account. Unless a role is supplied the account is a
// client.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", util.NewConflict("email already registered", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	roleID := input.RoleID
	if roleID == nil {
		roles, err := s.users.ListRoles(ctx)
		if err != nil {
			return nil, "", err
		}
		for i := range roles {
			if auth.NormalizeRole(roles[i].Name) == auth.RoleClient {
				id := roles[i].ID
				roleID = &id
				break
			}
		}
	}

	user := &domain.User{
		RoleID:       roleID,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Address:      input.Address,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	if created, err := s.users.GetByID(ctx, user.ID); err == nil {
		user = created
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		Timestamp: time.Now(),
		Payload: events.UserRegisteredPayload{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.RoleLabel(),
		},
	})

	token, _, err := s.codec.Encode(map[string]any{
		"sub":    user.Email,
		"userId": user.ID,
		"email":  user.Email,
		"role":   strings.ToLower(user.RoleLabel()),
	})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ForgotPassword issues a reset token for the account. The email lookup
// result does not leak: an unknown address still returns success and only the
// log records the miss.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if err == pgx.ErrNoRows {
			s.logger.Info("password reset requested for unknown email")
			return "", nil
		}
		return "", err
	}

	token := uuid.NewString()
	if err := s.resets.Store(ctx, token, email, s.resetTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token and updates the password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.resets.Consume(ctx, token)
	if err == repository.ErrResetTokenNotFound {
		return util.NewValidationError("invalid or expired reset token", nil)
	}
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return util.NewValidationError("invalid credentials", nil)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// UpdateProfile applies the non-nil fields to the account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email != user.Email {
			exists, err := s.users.EmailExists(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, util.NewConflict("email already registered", nil)
			}
			user.Email = email
		}
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		user.Address = input.Address
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
