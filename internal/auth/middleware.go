package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/article-service/internal/domain"
)

const identityKey = "auth_identity"

// AuthMiddleware validates bearer tokens. The identity it exposes comes from
// the token alone; storage is never consulted on a guarded request.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate resolves the bearer token into an Identity stored on the request.
func (m *AuthMiddleware) Authenticate(c *fiber.Ctx) (domain.Identity, error) {
	token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return domain.Identity{}, err
	}

	identity, err := m.tokens.Validate(token)
	if err != nil {
		return domain.Identity{}, ErrAuthentication
	}

	c.Locals(identityKey, identity)
	return identity, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredentials
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMalformedCredentials
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedCredentials
	}
	return token, nil
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}
