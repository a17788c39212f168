package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/nailfeed-service/internal/domain"
	"github.com/spec-kit/nailfeed-service/internal/events"
	"github.com/spec-kit/nailfeed-service/internal/repository"
	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

// UserService records newly authenticated accounts.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// UserUpsertInput describes the registration payload.
type UserUpsertInput struct {
	FullName string
	Email    string
	Role     domain.UserRole
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// EnsureUser records the account on first call and is a no-op afterwards.
// Safe to call on every login: an existing row keeps its original name and
// role. The returned user always reflects the stored row.
func (s *UserService) EnsureUser(ctx context.Context, subjectID string, input UserUpsertInput) (*domain.User, bool, error) {
	if !input.Role.Valid() {
		return nil, false, apperrors.NewValidationError("role must be customer or technician", nil)
	}

	user := &domain.User{
		ID:       subjectID,
		FullName: input.FullName,
		Email:    input.Email,
		Role:     input.Role,
	}
	created, err := s.users.Upsert(ctx, user)
	if err != nil {
		return nil, false, err
	}
	if !created {
		stored, err := s.users.GetByID(ctx, subjectID)
		if err != nil {
			return nil, false, err
		}
		return stored, false, nil
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRegistered,
			ActorID:   subjectID,
			Timestamp: time.Now(),
			Payload: events.UserRegisteredPayload{
				Role:  user.Role,
				Email: user.Email,
			},
		})
	}

	return user, true, nil
}
