package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/api/dto"
	"github.com/spec-kit/blog-platform/internal/config"
	"github.com/spec-kit/blog-platform/internal/service"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// AuthHandler exposes the token issuance, refresh and logout endpoints. The
// session token travels only as an HTTP-only cookie; the access token only in
// the response body.
type AuthHandler struct {
	auth   *service.AuthService
	cookie config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookieCfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookieCfg}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, creds, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, creds.SessionToken, creds.SessionTTL)
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		AccessToken: creds.AccessToken,
		ExpiresAt:   creds.AccessExpiresAt,
		User:        dto.NewUserResponse(user),
	}})
}

// Refresh handles POST /refresh. The session cookie accompanies the call; the
// session is rotated unconditionally on success.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	presented := c.Cookies(h.cookie.CookieName)
	if presented == "" {
		return apperrors.NewUnauthenticated("no session token provided")
	}

	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("userId required to refresh", nil)
	}

	user, creds, err := h.auth.Refresh(c.UserContext(), req.UserID, presented)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, creds.SessionToken, creds.SessionTTL)
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		AccessToken: creds.AccessToken,
		ExpiresAt:   creds.AccessExpiresAt,
		User:        dto.NewUserResponse(user),
	}})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID != "" {
		if err := h.auth.Logout(c.UserContext(), req.UserID); err != nil {
			return err
		}
	}

	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    value,
		Domain:   h.cookie.CookieDomain,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: h.cookie.CookieSameSite,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Domain:   h.cookie.CookieDomain,
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: h.cookie.CookieSameSite,
	})
}
