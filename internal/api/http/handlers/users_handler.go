package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/nailfeed-service/internal/api/dto"
	"github.com/spec-kit/nailfeed-service/internal/auth"
	"github.com/spec-kit/nailfeed-service/internal/domain"
	"github.com/spec-kit/nailfeed-service/internal/service"
	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

// UsersHandler records authenticated accounts on first login.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Upsert POST /api/users. Idempotent: an existing account is returned as
// stored, never overwritten.
func (h *UsersHandler) Upsert(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpsertUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, _, err := h.users.EnsureUser(c.Context(), principal.UserID, service.UserUpsertInput{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     domain.UserRole(req.Role),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "user recorded",
		"data": dto.UserResponse{
			ID:        user.ID,
			FullName:  user.FullName,
			Email:     user.Email,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		},
	})
}
