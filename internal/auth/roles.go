package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/article-service/internal/domain"
)

// RequireRole authenticates the request and rejects callers whose role is
// below min. Authentication failures and role failures stay distinct.
func (m *AuthMiddleware) RequireRole(min domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := m.Authenticate(c)
		if err != nil {
			return err
		}
		if !identity.Role.AtLeast(min) {
			return ErrAuthorization
		}
		return c.Next()
	}
}

// RequireAdmin is RequireRole(domain.RoleAdmin).
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.RequireRole(domain.RoleAdmin)
}

// RequireUser admits any authenticated account.
func (m *AuthMiddleware) RequireUser() fiber.Handler {
	return m.RequireRole(domain.RoleUser)
}
