package domain

import "time"

// MaxSpecialties bounds the specialties set on a technician profile.
const MaxSpecialties = 3

// TechnicianProfile holds the editable profile fields for a technician.
// Every write overwrites all fields; there is no partial-merge path.
type TechnicianProfile struct {
	UserID          string
	Bio             string
	Location        string
	Phone           string
	YearsExperience int
	SocialLinks     map[string]string
	Specialties     []string
	ProfileImageURL string
	UpdatedAt       time.Time
}

// ProfileView is the composed read model: user attributes, profile fields,
// aggregated design statistics and two small design subsets.
type ProfileView struct {
	User          User
	Profile       TechnicianProfile
	TotalDesigns  int
	TotalLikes    int
	TopDesigns    []DesignDetail
	RecentDesigns []DesignDetail
}
