package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

const identityKey = "auth_identity"

// Middleware authenticates requests from the bearer access token. It is a
// pure function of the credential header: no store lookup happens here.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware around a token manager.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	ident, err := m.identityFromHeader(c)
	if err != nil {
		return err
	}
	c.Locals(identityKey, ident)
	return c.Next()
}

// HandleOptional attaches an identity when a valid token is presented but
// never rejects. Used by endpoints that personalize without requiring login.
func (m *Middleware) HandleOptional(c *fiber.Ctx) error {
	if ident, err := m.identityFromHeader(c); err == nil {
		c.Locals(identityKey, ident)
	}
	return c.Next()
}

func (m *Middleware) identityFromHeader(c *fiber.Ctx) (*Identity, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthenticated("invalid authorization header")
	}

	ident, err := m.tokens.Parse(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthenticated("invalid or expired token")
	}
	return ident, nil
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	ident, ok := val.(*Identity)
	return ident, ok
}
