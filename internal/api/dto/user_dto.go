package dto

import "github.com/ventaplus/commerce-service/internal/domain"

// CreateUserRequest payload for admin-created accounts.
type CreateUserRequest struct {
	RoleID   int64   `json:"role_id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Address  *string `json:"address"`
}

// UpdateUserRequest payload. Absent fields are left unchanged.
type UpdateUserRequest struct {
	RoleID   *int64  `json:"role_id"`
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

// SetActiveRequest payload.
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// RoleResponse is the public view of a role.
type RoleResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewRoleResponse maps a single role.
func NewRoleResponse(role *domain.Role) RoleResponse {
	return RoleResponse{ID: role.ID, Name: role.Name}
}

// NewRoleResponses maps a slice.
func NewRoleResponses(roles []domain.Role) []RoleResponse {
	result := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		result = append(result, RoleResponse{ID: role.ID, Name: role.Name})
	}
	return result
}

// NewUserResponses maps a slice.
func NewUserResponses(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, NewUserResponse(&users[i]))
	}
	return result
}

// ClientSummaryResponse is a client account with lifetime purchase totals.
type ClientSummaryResponse struct {
	UserResponse
	OrderCount int64   `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}
