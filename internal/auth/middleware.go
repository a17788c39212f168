package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller as asserted by the identity
// provider. No database lookup happens during verification; handlers use the
// subject id directly.
type Principal struct {
	UserID string
	Name   string
	Email  string
}

// AuthMiddleware validates bearer tokens and attaches principals.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Handle enforces authentication for protected routes. A missing token fails
// with 401; a present but invalid, expired or malformed token fails with 403.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.verifier.Verify(parts[1])
	if err != nil {
		return apperrors.NewForbidden("invalid token")
	}

	c.Locals(principalKey, &Principal{
		UserID: claims.Subject,
		Name:   claims.Name,
		Email:  claims.Email,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
