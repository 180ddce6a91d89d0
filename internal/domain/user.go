package domain

import "time"

// User is the domain model for any account: clients, sellers and admins are
// distinguished only by the free-form role label attached via role_id.
type User struct {
	ID           int64
	RoleID       *int64
	RoleName     *string
	Name         string
	Email        string
	PasswordHash string
	Address      *string
	IsActive     bool
	CreatedAt    time.Time
}

// RoleLabel returns the raw stored role label, empty when the user has none.
func (u *User) RoleLabel() string {
	if u == nil || u.RoleName == nil {
		return ""
	}
	return *u.RoleName
}

// Role is a stored role record. Labels are free-form and possibly localized;
// canonical mapping happens in the auth package.
type Role struct {
	ID   int64
	Name string
}
