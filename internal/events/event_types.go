package events

import (
	"time"

	"github.com/spec-kit/nailfeed-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDesignCreated  EventType = "design_created"
	EventSwipeRecorded  EventType = "swipe_recorded"
	EventUserRegistered EventType = "user_registered"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DesignCreatedPayload payload.
type DesignCreatedPayload struct {
	DesignID     string `json:"design_id"`
	TechnicianID string `json:"technician_id"`
	Title        string `json:"title"`
	TagCount     int    `json:"tag_count"`
}

// SwipeRecordedPayload payload.
type SwipeRecordedPayload struct {
	DesignID     string `json:"design_id"`
	TechnicianID string `json:"technician_id"`
	Liked        bool   `json:"liked"`
	LikesDelta   int    `json:"likes_delta"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Role  domain.UserRole `json:"role"`
	Email string          `json:"email"`
}
