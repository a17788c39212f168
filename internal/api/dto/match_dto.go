package dto

// CreateMatchRequest payload. Liked is a pointer so that an explicit
// `false` (dislike) survives the required check.
type CreateMatchRequest struct {
	DesignID string `json:"design_id" validate:"required,uuid"`
	Liked    *bool  `json:"liked" validate:"required"`
}
