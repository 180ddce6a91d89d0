package auth

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"admin", RoleAdmin},
		{"Administrator", RoleAdmin},
		{"administrador", RoleAdmin},
		{"ADMINISTRADORA", RoleAdmin},
		{"vendedor", RoleSeller},
		{"Vendedora", RoleSeller},
		{"seller", RoleSeller},
		{"vendor", RoleSeller},
		{"cliente", RoleClient},
		{"client", RoleClient},
		{"Customer", RoleClient},
		{"  admin  ", RoleAdmin},

		// Substring fallback for labels outside the dictionaries.
		{"superadmin", RoleAdmin},
		{"super-vendedor-x", RoleSeller},
		{"pre-cliente", RoleClient},

		{"", RoleNone},
		{"guest", RoleNone},
		{"moderator", RoleNone},
	}

	for _, tc := range cases {
		if got := NormalizeRole(tc.raw); got != tc.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeRole_AdminWinsOverSubstrings(t *testing.T) {
	// "administrador" contains no seller/client substring, but a label
	// containing both admin and vend resolves to admin first.
	if got := NormalizeRole("admin-vendedor"); got != RoleAdmin {
		t.Fatalf("expected admin precedence, got %q", got)
	}
}
