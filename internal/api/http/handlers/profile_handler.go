package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/nailfeed-service/internal/api/dto"
	"github.com/spec-kit/nailfeed-service/internal/auth"
	"github.com/spec-kit/nailfeed-service/internal/domain"
	"github.com/spec-kit/nailfeed-service/internal/service"
	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

// ProfileHandler serves technician profile reads and writes.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profileService}
}

// Me GET /api/profile/me. 404 when the caller is not a technician.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	view, err := h.profiles.Get(c.Context(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(profileResponse(view))
}

// UpdateMe PUT /api/profile/me. Technician-only (enforced by the route
// gate); all fields are overwritten on every call.
func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	technician, ok := auth.CurrentUserFromContext(c)
	if !ok {
		return apperrors.NewForbidden("technician account required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if _, err := h.profiles.Update(c.Context(), technician.ID, service.ProfileUpdateInput{
		Bio:             req.Bio,
		Location:        req.Location,
		Phone:           req.Phone,
		YearsExperience: req.YearsExperience,
		SocialLinks:     req.SocialLinks,
		Specialties:     req.Specialties,
		ProfileImageURL: req.ProfileImageURL,
	}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "profile updated"})
}

// ByID GET /api/profile/:techId.
func (h *ProfileHandler) ByID(c *fiber.Ctx) error {
	view, err := h.profiles.Get(c.Context(), c.Params("techId"))
	if err != nil {
		return err
	}
	return c.JSON(profileResponse(view))
}

func profileResponse(view *domain.ProfileView) dto.ProfileResponse {
	links := view.Profile.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	specialties := view.Profile.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return dto.ProfileResponse{
		ID:              view.User.ID,
		FullName:        view.User.FullName,
		Email:           view.User.Email,
		Bio:             view.Profile.Bio,
		Location:        view.Profile.Location,
		Phone:           view.Profile.Phone,
		YearsExperience: view.Profile.YearsExperience,
		SocialLinks:     links,
		Specialties:     specialties,
		ProfileImageURL: view.Profile.ProfileImageURL,
		TotalDesigns:    view.TotalDesigns,
		TotalLikes:      view.TotalLikes,
		TopDesigns:      designResponses(view.TopDesigns),
		RecentDesigns:   designResponses(view.RecentDesigns),
		UpdatedAt:       view.Profile.UpdatedAt,
	}
}

func designResponses(details []domain.DesignDetail) []dto.DesignResponse {
	resp := make([]dto.DesignResponse, 0, len(details))
	for i := range details {
		resp = append(resp, designResponse(&details[i]))
	}
	return resp
}
