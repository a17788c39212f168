package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/nailfeed-service/internal/api/dto"
	"github.com/spec-kit/nailfeed-service/internal/auth"
	"github.com/spec-kit/nailfeed-service/internal/service"
	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

// MatchesHandler records swipe decisions.
type MatchesHandler struct {
	matches *service.MatchService
}

// NewMatchesHandler constructs handler.
func NewMatchesHandler(matchService *service.MatchService) *MatchesHandler {
	return &MatchesHandler{matches: matchService}
}

// Create POST /api/matches.
func (h *MatchesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if _, err := h.matches.RecordSwipe(c.Context(), principal.UserID, req.DesignID, *req.Liked); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "swipe recorded"})
}
