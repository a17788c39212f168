package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/nailfeed-service/internal/domain"
	"github.com/spec-kit/nailfeed-service/internal/events"
	"github.com/spec-kit/nailfeed-service/internal/repository"
	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

// DesignService coordinates design authoring.
type DesignService struct {
	designs    repository.DesignRepository
	dispatcher events.Dispatcher
}

// DesignCreateInput describes the design authoring payload.
type DesignCreateInput struct {
	Title       string
	Description string
	ImageURL    string
	Tags        []string
	ExtraImages []string
}

// NewDesignService constructs the service.
func NewDesignService(designs repository.DesignRepository, dispatcher events.Dispatcher) *DesignService {
	return &DesignService{designs: designs, dispatcher: dispatcher}
}

// Create validates the payload and inserts the design with its tags and
// extra images in one transaction. Validation failures happen before the
// transaction opens; no partial design is ever persisted.
func (s *DesignService) Create(ctx context.Context, technicianID string, input DesignCreateInput) (*domain.DesignDetail, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if len(title) > domain.MaxTitleLen {
		return nil, apperrors.NewValidationError(fmt.Sprintf("title exceeds %d characters", domain.MaxTitleLen), nil)
	}
	if len(input.Description) > domain.MaxDescriptionLen {
		return nil, apperrors.NewValidationError(fmt.Sprintf("description exceeds %d characters", domain.MaxDescriptionLen), nil)
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, apperrors.NewValidationError("image_url required", nil)
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}
	if len(input.ExtraImages) > domain.MaxExtraImages {
		return nil, apperrors.NewValidationError(fmt.Sprintf("at most %d extra images allowed", domain.MaxExtraImages), nil)
	}

	design := &domain.Design{
		TechnicianID: technicianID,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		ImageURL:     strings.TrimSpace(input.ImageURL),
	}
	if err := s.designs.CreateWithAssets(ctx, design, tags, input.ExtraImages); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDesignCreated,
			ActorID:   technicianID,
			Timestamp: time.Now(),
			Payload: events.DesignCreatedPayload{
				DesignID:     design.ID,
				TechnicianID: technicianID,
				Title:        design.Title,
				TagCount:     len(tags),
			},
		})
	}

	return &domain.DesignDetail{
		Design:      *design,
		Tags:        tags,
		ExtraImages: input.ExtraImages,
	}, nil
}

// Get returns a design with its tags and extra images.
func (s *DesignService) Get(ctx context.Context, designID string) (*domain.DesignDetail, error) {
	if _, err := uuid.Parse(designID); err != nil {
		return nil, apperrors.NewNotFound("design", map[string]any{"design_id": designID})
	}
	detail, err := s.designs.GetDetail(ctx, designID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("design", map[string]any{"design_id": designID})
		}
		return nil, err
	}
	return detail, nil
}

// normalizeTags trims, drops empties and duplicates, and enforces bounds.
func normalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if len(tag) > domain.MaxTagLen {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("tag exceeds %d characters", domain.MaxTagLen),
				map[string]any{"tag": tag})
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > domain.MaxTags {
		return nil, apperrors.NewValidationError(fmt.Sprintf("at most %d tags allowed", domain.MaxTags), nil)
	}
	return tags, nil
}
