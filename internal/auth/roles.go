package auth

import "strings"

// Role is a canonical access role derived from the free-form labels stored
// per user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleClient Role = "client"

	// RoleNone means the label could not be recognized; it grants no access.
	RoleNone Role = ""
)

var exactRoleLabels = map[string]Role{
	"admin":          RoleAdmin,
	"administrator":  RoleAdmin,
	"administrador":  RoleAdmin,
	"administradora": RoleAdmin,
	"vendedor":       RoleSeller,
	"vendedora":      RoleSeller,
	"seller":         RoleSeller,
	"vendor":         RoleSeller,
	"cliente":        RoleClient,
	"client":         RoleClient,
	"customer":       RoleClient,
}

// NormalizeRole maps a stored role label (Spanish or English, any casing) to
// a canonical role. Exact dictionary matches win; otherwise substring
// containment decides, admin before seller before client.
func NormalizeRole(raw string) Role {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return RoleNone
	}
	if role, ok := exactRoleLabels[label]; ok {
		return role
	}
	switch {
	case strings.Contains(label, "admin"):
		return RoleAdmin
	case strings.Contains(label, "vend"), strings.Contains(label, "sell"):
		return RoleSeller
	case strings.Contains(label, "cli"), strings.Contains(label, "cust"):
		return RoleClient
	}
	return RoleNone
}
