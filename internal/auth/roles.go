package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/nailfeed-service/internal/domain"
	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

const currentUserKey = "auth_user"

// UserLoader resolves a stored account for role checks.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// RequireTechnician ensures the caller has a stored account with the
// technician role. The loaded user is attached for downstream handlers.
func RequireTechnician(users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}

		user, err := users.GetByID(c.Context(), principal.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewForbidden("technician account required")
			}
			return apperrors.MapError(err)
		}
		if user.Role != domain.RoleTechnician {
			return apperrors.NewForbidden("technician role required")
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUserFromContext retrieves the account loaded by a role gate.
func CurrentUserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(currentUserKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
