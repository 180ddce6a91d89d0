package service

import (
	"context"
	"strings"

	"github.com/ventaplus/commerce-service/internal/auth"
	"github.com/ventaplus/commerce-service/internal/domain"
	"github.com/ventaplus/commerce-service/internal/repository"
	"github.com/ventaplus/commerce-service/pkg/util"
)

// UserAdminService covers account management performed by administrators.
type UserAdminService struct {
	users      repository.UserRepository
	orders     repository.OrderRepository
	bcryptCost int
}

// NewUserAdminService builds the service.
func NewUserAdminService(users repository.UserRepository, orders repository.OrderRepository, bcryptCost int) *UserAdminService {
	return &UserAdminService{users: users, orders: orders, bcryptCost: bcryptCost}
}

// UserCreateInput describes an admin-created account.
type UserCreateInput struct {
	RoleID   int64
	Name     string
	Email    string
	Password string
	Address  *string
}

// UserUpdateInput carries optional changes. Nil fields stay as-is.
type UserUpdateInput struct {
	RoleID   *int64
	Name     *string
	Email    *string
	Password *string
	Address  *string
	IsActive *bool
}

// ClientSummary is a client account with lifetime purchase totals.
type ClientSummary struct {
	User       domain.User
	OrderCount int64
	TotalSpent float64
}

func (s *UserAdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *UserAdminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserAdminService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.NewConflict("email already registered", nil)
	}
	if _, err := s.users.GetRole(ctx, input.RoleID); err != nil {
		return nil, util.NewValidationError("unknown role", map[string]any{"role_id": input.RoleID})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	roleID := input.RoleID
	user := &domain.User{
		RoleID:       &roleID,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Address:      input.Address,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, user.ID)
}

func (s *UserAdminService) UpdateUser(ctx context.Context, id int64, input UserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
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
	if input.RoleID != nil {
		if _, err := s.users.GetRole(ctx, *input.RoleID); err != nil {
			return nil, util.NewValidationError("unknown role", map[string]any{"role_id": *input.RoleID})
		}
		user.RoleID = input.RoleID
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// DeleteUser removes an account. Admins cannot remove themselves.
func (s *UserAdminService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return util.NewValidationError("cannot delete own account", nil)
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

func (s *UserAdminService) SetUserActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	if err := s.users.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// ListSellers returns the seller accounts. Role rows carry the Spanish label
// so the lookup normalizes before matching.
func (s *UserAdminService) ListSellers(ctx context.Context) ([]domain.User, error) {
	roles, err := s.users.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	var sellers []domain.User
	for _, role := range roles {
		if auth.NormalizeRole(role.Name) != auth.RoleSeller {
			continue
		}
		batch, err := s.users.ListByRoleName(ctx, role.Name)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, batch...)
	}
	return sellers, nil
}

// ListClients returns client accounts with their lifetime order totals.
func (s *UserAdminService) ListClients(ctx context.Context) ([]ClientSummary, error) {
	roles, err := s.users.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	var summaries []ClientSummary
	for _, role := range roles {
		if auth.NormalizeRole(role.Name) != auth.RoleClient {
			continue
		}
		batch, err := s.users.ListByRoleName(ctx, role.Name)
		if err != nil {
			return nil, err
		}
		for _, user := range batch {
			count, spent, err := s.orders.ClientStats(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			summaries = append(summaries, ClientSummary{User: user, OrderCount: count, TotalSpent: spent})
		}
	}
	return summaries, nil
}

func (s *UserAdminService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.users.ListRoles(ctx)
}

func (s *UserAdminService) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	return s.users.GetRole(ctx, id)
}
