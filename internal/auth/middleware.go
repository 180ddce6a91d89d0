package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ventaplus/commerce-service/internal/domain"
	"github.com/ventaplus/commerce-service/pkg/util"
)

const identityKey = "auth_identity"

// legacyCookieName is an older frontend cookie still accepted as a
// credential source of last resort.
const legacyCookieName = "WMF_Uniq"

// Middleware resolves request credentials and gates routes by role.
type Middleware struct {
	resolver *Resolver
}

// NewMiddleware constructs middleware over a resolver.
func NewMiddleware(resolver *Resolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// CredentialFromRequest extracts the raw credential, first non-empty wins:
// Authorization header, token query parameter, then the token, auth_token
// and legacy cookies.
func CredentialFromRequest(c *fiber.Ctx) string {
	if v := c.Get(fiber.HeaderAuthorization); v != "" {
		return v
	}
	if v := c.Query("token"); v != "" {
		return v
	}
	for _, name := range []string{"token", "auth_token", legacyCookieName} {
		if v := c.Cookies(name); v != "" {
			return v
		}
	}
	return ""
}

// Authenticate enforces a valid credential and attaches the resolved user to
// the request. Failures collapse to unauthenticated/invalid_token without
// revealing which check failed.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	credential := CredentialFromRequest(c)
	if credential == "" {
		return util.NewUnauthenticated()
	}

	user, err := m.resolver.Resolve(c.Context(), credential)
	if err != nil {
		if err == ErrUserNotFound {
			return util.NewUnauthenticated()
		}
		return util.NewInvalidToken()
	}

	c.Locals(identityKey, user)
	return c.Next()
}

// Optional resolves the caller when a valid credential is present and never
// fails the request; handlers branch on identity presence.
func (m *Middleware) Optional(c *fiber.Ctx) error {
	if credential := CredentialFromRequest(c); credential != "" {
		if user, err := m.resolver.Resolve(c.Context(), credential); err == nil {
			c.Locals(identityKey, user)
		}
	}
	return c.Next()
}

// RequireRole gates the route on the caller's normalized role.
func RequireRole(required Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := IdentityFromContext(c)
		if !ok {
			return util.NewUnauthenticated()
		}
		if NormalizeRole(user.RoleLabel()) != required {
			return util.NewForbidden()
		}
		return c.Next()
	}
}

// IdentityFromContext retrieves the authenticated user, if any.
func IdentityFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
