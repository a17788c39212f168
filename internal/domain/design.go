package domain

import "time"

// Field bounds enforced before any design write reaches the store.
const (
	MaxTitleLen       = 50
	MaxDescriptionLen = 300
	MaxTagLen         = 20
	MaxTags           = 5
	MaxExtraImages    = 4
)

// Design is the aggregate for a published nail design. Likes is a
// denormalized counter maintained by the match recorder.
type Design struct {
	ID           string
	TechnicianID string
	Title        string
	Description  string
	ImageURL     string
	Likes        int
	CreatedAt    time.Time
}

// DesignDetail is a design with its child rows attached.
type DesignDetail struct {
	Design
	Tags        []string
	ExtraImages []string
}
