package domain

import "time"

// Match records one swipe decision per (user, design) pair. A later swipe on
// the same design overwrites the flag; the pair is the primary key.
type Match struct {
	UserID    string
	DesignID  string
	Liked     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SwipeResult reports what a recorded swipe actually changed.
type SwipeResult struct {
	// Inserted is true when this was the first decision for the pair.
	Inserted bool
	// LikesDelta is the exact adjustment applied to the design's like
	// counter: +1 on a new like or a dislike->like flip, -1 on a
	// like->dislike flip, 0 when the decision did not change.
	LikesDelta int
	// TechnicianID is the owner of the swiped design.
	TechnicianID string
}
