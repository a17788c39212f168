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

// DesignsHandler manages design authoring and reads.
type DesignsHandler struct {
	designs *service.DesignService
}

// NewDesignsHandler constructs handler.
func NewDesignsHandler(designService *service.DesignService) *DesignsHandler {
	return &DesignsHandler{designs: designService}
}

// Create POST /api/designs. Technician-only (enforced by the route gate).
func (h *DesignsHandler) Create(c *fiber.Ctx) error {
	technician, ok := auth.CurrentUserFromContext(c)
	if !ok {
		return apperrors.NewForbidden("technician account required")
	}

	var req dto.CreateDesignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	detail, err := h.designs.Create(c.Context(), technician.ID, service.DesignCreateInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
		ExtraImages: req.ExtraImages,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "design created",
		"data":    designResponse(detail),
	})
}

// Get GET /api/designs/:id.
func (h *DesignsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.designs.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(designResponse(detail))
}

func designResponse(detail *domain.DesignDetail) dto.DesignResponse {
	tags := detail.Tags
	if tags == nil {
		tags = []string{}
	}
	images := detail.ExtraImages
	if images == nil {
		images = []string{}
	}
	return dto.DesignResponse{
		ID:           detail.ID,
		TechnicianID: detail.TechnicianID,
		Title:        detail.Title,
		Description:  detail.Description,
		ImageURL:     detail.ImageURL,
		Likes:        detail.Likes,
		Tags:         tags,
		ExtraImages:  images,
		CreatedAt:    detail.CreatedAt,
	}
}
