package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/ventaplus/commerce-service/pkg/util"
)

func newTestApp(mw *Middleware, role Role) *fiber.App {
	app := fiber.New()
	// Mirror the production error envelope so status codes survive.
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}
		domainErr := util.ToDomainError(err)
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"code": domainErr.Code, "message": domainErr.Message},
		})
	})

	handlers := []fiber.Handler{mw.Authenticate}
	if role != RoleNone {
		handlers = append(handlers, RequireRole(role))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		user, ok := IdentityFromContext(c)
		if !ok {
			return util.NewInternalError(nil)
		}
		return c.JSON(fiber.Map{"id": user.ID})
	})
	app.Get("/protected", handlers...)
	return app
}

func issueToken(t *testing.T, codec *TokenCodec, email string) string {
	t.Helper()
	token, _, err := codec.Encode(map[string]any{"sub": email})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return token
}

func TestMiddleware_MissingCredential(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	mw := NewMiddleware(NewResolver(codec, newStubUserFinder()))
	app := newTestApp(mw, RoleNone)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMiddleware_HeaderCredential(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	alice := testUser(1, "alice@example.com")
	mw := NewMiddleware(NewResolver(codec, newStubUserFinder(alice)))
	app := newTestApp(mw, RoleNone)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, codec, alice.Email))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMiddleware_QueryCredential(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	alice := testUser(1, "alice@example.com")
	mw := NewMiddleware(NewResolver(codec, newStubUserFinder(alice)))
	app := newTestApp(mw, RoleNone)

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+issueToken(t, codec, alice.Email), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMiddleware_CookieCredentials(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	alice := testUser(1, "alice@example.com")
	mw := NewMiddleware(NewResolver(codec, newStubUserFinder(alice)))
	app := newTestApp(mw, RoleNone)

	for _, cookie := range []string{"token", "auth_token", "WMF_Uniq"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: cookie, Value: issueToken(t, codec, alice.Email)})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("cookie %q: expected 200, got %d", cookie, resp.StatusCode)
		}
	}
}

func TestMiddleware_HeaderWinsOverCookie(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	alice := testUser(1, "alice@example.com")
	mw := NewMiddleware(NewResolver(codec, newStubUserFinder(alice)))
	app := newTestApp(mw, RoleNone)

	// Valid cookie, garbage header: header takes precedence so the request
	// must fail.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: "token", Value: issueToken(t, codec, alice.Email)})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireRole(t *testing.T) {
	codec := NewTokenCodec("secret", 60)

	cases := []struct {
		name     string
		userRole string
		required Role
		want     int
	}{
		{"admin allowed", "administrador", RoleAdmin, http.StatusOK},
		{"seller allowed", "vendedor", RoleSeller, http.StatusOK},
		{"client allowed", "cliente", RoleClient, http.StatusOK},
		{"client blocked from admin", "cliente", RoleAdmin, http.StatusForbidden},
		{"seller blocked from admin", "vendedor", RoleAdmin, http.StatusForbidden},
		{"admin blocked from seller", "administrador", RoleSeller, http.StatusForbidden},
		{"unknown role blocked", "guest", RoleClient, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			role := tc.userRole
			user := testUser(1, "user@example.com")
			user.RoleName = &role
			mw := NewMiddleware(NewResolver(codec, newStubUserFinder(user)))
			app := newTestApp(mw, tc.required)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, codec, user.Email))
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestMiddleware_Optional(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	alice := testUser(1, "alice@example.com")
	mw := NewMiddleware(NewResolver(codec, newStubUserFinder(alice)))

	app := fiber.New()
	app.Get("/me", mw.Optional, func(c *fiber.Ctx) error {
		if user, ok := IdentityFromContext(c); ok {
			return c.JSON(fiber.Map{"id": user.ID})
		}
		return c.JSON(fiber.Map{"id": nil})
	})

	// Anonymous requests pass through.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for anonymous, got %d", resp.StatusCode)
	}

	// So do requests with a broken token.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for broken token, got %d", resp.StatusCode)
	}
}
