package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ventaplus/commerce-service/internal/api/dto"
	"github.com/ventaplus/commerce-service/internal/auth"
	"github.com/ventaplus/commerce-service/internal/service"
	"github.com/ventaplus/commerce-service/pkg/util"
)

// AuthHandler exposes login, registration and account self-service.
type AuthHandler struct {
	auth     *service.AuthService
	tokenTTL time.Duration
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, tokenTTLMinutes int) *AuthHandler {
	if tokenTTLMinutes <= 0 {
		tokenTTLMinutes = 1440
	}
	return &AuthHandler{auth: authService, tokenTTL: time.Duration(tokenTTLMinutes) * time.Minute}
}

// Login handles POST /api/auth/login. The token is returned in the body and
// mirrored into cookies for browser clients.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setAuthCookies(c, token)
	return success(c, http.StatusOK, fiber.Map{
		"token": token,
		"user":  dto.NewUserResponse(user),
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}

	h.setAuthCookies(c, token)
	return success(c, http.StatusCreated, fiber.Map{
		"token": token,
		"user":  dto.NewUserResponse(user),
	})
}

// Me handles GET /api/auth/me. Runs behind the optional middleware so an
// anonymous caller gets user:null instead of an error.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return success(c, http.StatusOK, fiber.Map{"user": nil})
	}
	return success(c, http.StatusOK, fiber.Map{"user": dto.NewUserResponse(user)})
}

// Logout handles POST /api/auth/logout. Tokens are stateless so logout just
// clears the cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearAuthCookies(c)
	return success(c, http.StatusOK, fiber.Map{"message": "logged out"})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.auth.ForgotPassword(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	payload := fiber.Map{"message": "if the email exists, a reset token was issued"}
	// The token would be emailed; it is only echoed back until a mailer
	// lands. TODO remove once the notification stub sends real email.
	if token != "" {
		payload["reset_token"] = token
	}
	return success(c, http.StatusOK, payload)
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"message": "password updated"})
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}

	var req dto.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"message": "password updated"})
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c)
	if !ok {
		return util.NewUnauthenticated()
	}

	var req dto.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.auth.UpdateProfile(c.UserContext(), user.ID, service.ProfileUpdateInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"user": dto.NewUserResponse(updated)})
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, token string) {
	expires := time.Now().Add(h.tokenTTL)
	for _, name := range []string{"token", "auth_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    token,
			Expires:  expires,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
		})
	}
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"token", "auth_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
		})
	}
}
