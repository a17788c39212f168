package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/nailfeed-service/internal/domain"
	"github.com/spec-kit/nailfeed-service/internal/persistence"
	"github.com/spec-kit/nailfeed-service/internal/repository"
	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

// ProfileService reads and writes technician profiles.
type ProfileService struct {
	profiles repository.ProfileRepository
	cache    *persistence.Redis
	cacheTTL time.Duration
	logger   *zap.Logger
}

// ProfileUpdateInput carries the full profile field set. Every call writes
// all fields; there is no partial merge.
type ProfileUpdateInput struct {
	Bio             string
	Location        string
	Phone           string
	YearsExperience int
	SocialLinks     map[string]string
	Specialties     []string
	ProfileImageURL string
}

// NewProfileService constructs the service. A nil cache disables the
// read-through layer.
func NewProfileService(profiles repository.ProfileRepository, cache *persistence.Redis, cacheTTL time.Duration, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Get returns the composed profile view for a technician, from cache when a
// fresh copy exists.
func (s *ProfileService) Get(ctx context.Context, techID string) (*domain.ProfileView, error) {
	if cached := s.cacheGet(ctx, techID); cached != nil {
		return cached, nil
	}

	view, err := s.profiles.GetComposed(ctx, techID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": techID})
		}
		return nil, err
	}

	s.cacheSet(ctx, techID, view)
	return view, nil
}

// Update overwrites every profile field and bumps the updated timestamp,
// creating the row when the technician has none yet.
func (s *ProfileService) Update(ctx context.Context, techID string, input ProfileUpdateInput) (*domain.TechnicianProfile, error) {
	if len(input.Specialties) > domain.MaxSpecialties {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at most %d specialties allowed", domain.MaxSpecialties), nil)
	}

	profile := &domain.TechnicianProfile{
		UserID:          techID,
		Bio:             input.Bio,
		Location:        input.Location,
		Phone:           input.Phone,
		YearsExperience: input.YearsExperience,
		SocialLinks:     input.SocialLinks,
		Specialties:     input.Specialties,
		ProfileImageURL: input.ProfileImageURL,
	}
	if profile.SocialLinks == nil {
		profile.SocialLinks = map[string]string{}
	}
	if profile.Specialties == nil {
		profile.Specialties = []string{}
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	s.Invalidate(ctx, techID)
	return profile, nil
}

// Invalidate drops the cached view for a technician. Called after any write
// that changes the composed read: profile updates, new designs, like-counter
// transitions.
func (s *ProfileService) Invalidate(ctx context.Context, techID string) {
	client := s.cache.Handle()
	if client == nil {
		return
	}
	if err := client.Del(ctx, profileCacheKey(techID)).Err(); err != nil {
		s.logger.Warn("profile cache invalidate failed", zap.String("technician_id", techID), zap.Error(err))
	}
}

func (s *ProfileService) cacheGet(ctx context.Context, techID string) *domain.ProfileView {
	client := s.cache.Handle()
	if client == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := client.Get(ctx, profileCacheKey(techID)).Bytes()
	if err != nil {
		return nil
	}
	var view domain.ProfileView
	if err := json.Unmarshal(raw, &view); err != nil {
		s.logger.Warn("profile cache decode failed", zap.String("technician_id", techID), zap.Error(err))
		return nil
	}
	return &view
}

func (s *ProfileService) cacheSet(ctx context.Context, techID string, view *domain.ProfileView) {
	client := s.cache.Handle()
	if client == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := client.Set(ctx, profileCacheKey(techID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("profile cache set failed", zap.String("technician_id", techID), zap.Error(err))
	}
}

func profileCacheKey(techID string) string {
	return "profile:" + techID
}
