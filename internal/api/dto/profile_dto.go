package dto

import "time"

// UpdateProfileRequest carries the full profile field set; every call
// overwrites all fields.
type UpdateProfileRequest struct {
	Bio             string            `json:"bio" validate:"max=1000"`
	Location        string            `json:"location" validate:"max=120"`
	Phone           string            `json:"phone" validate:"max=30"`
	YearsExperience int               `json:"years_experience" validate:"gte=0,lte=80"`
	SocialLinks     map[string]string `json:"social_links" validate:"max=10"`
	Specialties     []string          `json:"specialties" validate:"max=3,dive,required,max=30"`
	ProfileImageURL string            `json:"profile_image_url"`
}

// ProfileResponse is the composed technician profile.
type ProfileResponse struct {
	ID              string            `json:"id"`
	FullName        string            `json:"full_name"`
	Email           string            `json:"email"`
	Bio             string            `json:"bio"`
	Location        string            `json:"location"`
	Phone           string            `json:"phone"`
	YearsExperience int               `json:"years_experience"`
	SocialLinks     map[string]string `json:"social_links"`
	Specialties     []string          `json:"specialties"`
	ProfileImageURL string            `json:"profile_image_url"`
	TotalDesigns    int               `json:"total_designs"`
	TotalLikes      int               `json:"total_likes"`
	TopDesigns      []DesignResponse  `json:"top_designs"`
	RecentDesigns   []DesignResponse  `json:"recent_designs"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
