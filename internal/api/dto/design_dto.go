package dto

import "time"

// CreateDesignRequest payload. Bounds mirror the store schema; anything
// oversized is rejected before the insert transaction opens.
type CreateDesignRequest struct {
	Title       string   `json:"title" validate:"required,max=50"`
	Description string   `json:"description" validate:"max=300"`
	ImageURL    string   `json:"image_url" validate:"required"`
	Tags        []string `json:"tags" validate:"max=5,dive,max=20"`
	ExtraImages []string `json:"extra_images" validate:"max=4,dive,required"`
}

// FeedItem is one entry of the unseen feed.
type FeedItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"created_at"`
}

// DesignResponse is a design with its child rows.
type DesignResponse struct {
	ID           string    `json:"id"`
	TechnicianID string    `json:"technician_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	Likes        int       `json:"likes"`
	Tags         []string  `json:"tags"`
	ExtraImages  []string  `json:"extra_images"`
	CreatedAt    time.Time `json:"created_at"`
}
