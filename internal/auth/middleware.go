package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/kanban-board/pkg/util/errorutil"
)

const claimsKey = "auth_claims"

// AuthMiddleware validates bearer tokens on protected routes.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware. A nil manager disables the check.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Enabled reports whether tokens are required.
func (m *AuthMiddleware) Enabled() bool {
	return m != nil && m.tokens != nil
}

// RequireScope enforces a valid bearer token carrying scope.
func (m *AuthMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !m.Enabled() {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.NewUnauthorized("missing authorization header")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.NewUnauthorized("invalid authorization header")
		}

		claims, err := m.tokens.ParseToken(parts[1])
		if err != nil {
			return apperrors.NewUnauthorized("invalid token")
		}
		if claims.Scope != scope {
			return fiber.NewError(fiber.StatusForbidden, "insufficient scope")
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext retrieves the verified token claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok
}
