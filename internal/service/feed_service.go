package service

import (
	"context"

	"github.com/spec-kit/nailfeed-service/internal/config"
	"github.com/spec-kit/nailfeed-service/internal/domain"
	"github.com/spec-kit/nailfeed-service/internal/repository"
)

// FeedService serves the unseen-designs feed.
type FeedService struct {
	designs repository.DesignRepository
	cfg     config.FeedConfig
}

// NewFeedService constructs the service.
func NewFeedService(designs repository.DesignRepository, cfg config.FeedConfig) *FeedService {
	return &FeedService{designs: designs, cfg: cfg}
}

// Unseen returns designs the user has not swiped on, newest first. A design
// reappears only if its match row is removed; there is no pagination cursor.
func (s *FeedService) Unseen(ctx context.Context, userID string, limit int) ([]domain.Design, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return s.designs.ListUnseen(ctx, userID, limit)
}
