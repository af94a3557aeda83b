package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-platform/internal/domain"
	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// OwnershipLookup resolves the current author of a content resource. The
// cache-coherent read path implements it, falling back to the primary store
// on a miss.
type OwnershipLookup interface {
	AuthorID(ctx context.Context, resourceID string) (string, error)
}

// CanCreate allows any role except Reader to create content.
func CanCreate(role domain.Role) bool {
	return role.Valid() && role != domain.RoleReader
}

// CanEdit allows Admin and Editor unconditionally; Writers only on their own
// resources; Readers never.
func CanEdit(ident *Identity, authorID string) bool {
	switch ident.Role {
	case domain.RoleAdmin, domain.RoleEditor:
		return true
	case domain.RoleWriter:
		return authorID != "" && authorID == ident.SubjectID
	default:
		return false
	}
}

// CanDelete allows only Admin.
func CanDelete(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// RequireCreate guards content creation routes.
func RequireCreate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if !CanCreate(ident.Role) {
			return apperrors.NewForbidden("readers cannot create content")
		}
		return c.Next()
	}
}

// RequireEdit guards edit routes; ownership is resolved through the given
// lookup for Writer callers.
func RequireEdit(ownership OwnershipLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}

		switch ident.Role {
		case domain.RoleAdmin, domain.RoleEditor:
			return c.Next()
		case domain.RoleWriter:
			authorID, err := ownership.AuthorID(c.UserContext(), c.Params("id"))
			if err != nil {
				return err
			}
			if CanEdit(ident, authorID) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("cannot edit this resource")
	}
}

// RequireAdmin guards delete and administration routes.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if !CanDelete(ident.Role) {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// RequireAuthenticated guards routes that only need a verified identity.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		return c.Next()
	}
}
