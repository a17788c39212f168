package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/nailfeed-service/internal/api/dto"
	"github.com/spec-kit/nailfeed-service/internal/auth"
	"github.com/spec-kit/nailfeed-service/internal/service"
	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

// FeedHandler serves the unseen-designs feed.
type FeedHandler struct {
	feed *service.FeedService
}

// NewFeedHandler constructs handler.
func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{feed: feedService}
}

// Unseen GET /api/feed/unseen.
func (h *FeedHandler) Unseen(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	designs, err := h.feed.Unseen(c.Context(), principal.UserID, parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}

	items := make([]dto.FeedItem, 0, len(designs))
	for _, design := range designs {
		items = append(items, dto.FeedItem{
			ID:          design.ID,
			Title:       design.Title,
			Description: design.Description,
			ImageURL:    design.ImageURL,
			CreatedAt:   design.CreatedAt,
		})
	}
	return c.JSON(items)
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
