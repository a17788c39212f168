package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/nailfeed-service/internal/domain"
	"github.com/spec-kit/nailfeed-service/internal/events"
	"github.com/spec-kit/nailfeed-service/internal/repository"
	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

// MatchService records swipe decisions.
type MatchService struct {
	matches    repository.MatchRepository
	dispatcher events.Dispatcher
}

// NewMatchService constructs the service.
func NewMatchService(matches repository.MatchRepository, dispatcher events.Dispatcher) *MatchService {
	return &MatchService{matches: matches, dispatcher: dispatcher}
}

// RecordSwipe upserts the caller's decision on a design. The like counter
// moves only on an actual transition: first like or dislike->like adds one,
// like->dislike removes one, a repeated identical swipe changes nothing.
func (s *MatchService) RecordSwipe(ctx context.Context, userID, designID string, liked bool) (*domain.SwipeResult, error) {
	if _, err := uuid.Parse(designID); err != nil {
		return nil, apperrors.NewValidationError("invalid design_id", map[string]any{"design_id": designID})
	}

	result, err := s.matches.RecordSwipe(ctx, userID, designID, liked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("design", map[string]any{"design_id": designID})
		}
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSwipeRecorded,
			ActorID:   userID,
			Timestamp: time.Now(),
			Payload: events.SwipeRecordedPayload{
				DesignID:     designID,
				TechnicianID: result.TechnicianID,
				Liked:        liked,
				LikesDelta:   result.LikesDelta,
			},
		})
	}

	return result, nil
}
