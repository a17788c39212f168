package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/nailfeed-service/internal/domain"
)

// ProfileRepository encapsulates technician profile persistence.
type ProfileRepository interface {
	// GetComposed executes the composed profile read: user + profile
	// fields, design aggregates, and the top/recent design subsets with
	// nested tags and extra images. Returns pgx.ErrNoRows when no
	// technician with the id exists.
	GetComposed(ctx context.Context, techID string) (*domain.ProfileView, error)
	// Upsert overwrites every profile field and bumps updated_at,
	// creating the row when missing.
	Upsert(ctx context.Context, profile *domain.TechnicianProfile) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

// designSubset mirrors the JSON rows produced by the composed query.
type designSubset struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []string  `json:"tags"`
	ExtraImages []string  `json:"extra_images"`
}

const designSubsetSelect = `
    SELECT d.id, d.title, d.description, d.image_url, d.likes, d.created_at,
           (SELECT COALESCE(json_agg(dt.tag ORDER BY dt.tag), '[]'::json)
              FROM design_tags dt WHERE dt.design_id = d.id) AS tags,
           (SELECT COALESCE(json_agg(di.image_url ORDER BY di.image_url), '[]'::json)
              FROM design_images di WHERE di.design_id = d.id) AS extra_images
    FROM designs d WHERE d.technician_id = u.id`

func (r *profileRepository) GetComposed(ctx context.Context, techID string) (*domain.ProfileView, error) {
	query := fmt.Sprintf(`
        SELECT u.id, u.full_name, u.email, u.role, u.created_at,
               COALESCE(p.bio, ''),
               COALESCE(p.location, ''),
               COALESCE(p.phone, ''),
               COALESCE(p.years_experience, 0),
               COALESCE(p.social_links, '{}'::jsonb),
               COALESCE(p.specialties, '{}'),
               COALESCE(p.profile_image_url, ''),
               COALESCE(p.updated_at, u.created_at),
               (SELECT COUNT(*) FROM designs d WHERE d.technician_id = u.id),
               (SELECT COALESCE(SUM(d.likes), 0) FROM designs d WHERE d.technician_id = u.id),
               (SELECT COALESCE(json_agg(t), '[]'::json) FROM (
                   %s ORDER BY d.likes DESC, d.created_at DESC LIMIT 3) t),
               (SELECT COALESCE(json_agg(t), '[]'::json) FROM (
                   %s ORDER BY d.created_at DESC LIMIT 3) t)
        FROM users u
        LEFT JOIN technician_profiles p ON p.user_id = u.id
        WHERE u.id = $1 AND u.role = 'technician'`,
		designSubsetSelect, designSubsetSelect)

	var (
		view       domain.ProfileView
		topJSON    []byte
		recentJSON []byte
	)
	view.Profile.SocialLinks = map[string]string{}

	if err := r.pool.QueryRow(ctx, query, techID).Scan(
		&view.User.ID,
		&view.User.FullName,
		&view.User.Email,
		&view.User.Role,
		&view.User.CreatedAt,
		&view.Profile.Bio,
		&view.Profile.Location,
		&view.Profile.Phone,
		&view.Profile.YearsExperience,
		&view.Profile.SocialLinks,
		&view.Profile.Specialties,
		&view.Profile.ProfileImageURL,
		&view.Profile.UpdatedAt,
		&view.TotalDesigns,
		&view.TotalLikes,
		&topJSON,
		&recentJSON,
	); err != nil {
		return nil, err
	}
	view.Profile.UserID = view.User.ID

	top, err := decodeDesignSubset(topJSON)
	if err != nil {
		return nil, fmt.Errorf("decode top designs: %w", err)
	}
	view.TopDesigns = top

	recent, err := decodeDesignSubset(recentJSON)
	if err != nil {
		return nil, fmt.Errorf("decode recent designs: %w", err)
	}
	view.RecentDesigns = recent

	return &view, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.TechnicianProfile) error {
	const query = `
        INSERT INTO technician_profiles
            (user_id, bio, location, phone, years_experience, social_links, specialties, profile_image_url, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        ON CONFLICT (user_id) DO UPDATE SET
            bio = EXCLUDED.bio,
            location = EXCLUDED.location,
            phone = EXCLUDED.phone,
            years_experience = EXCLUDED.years_experience,
            social_links = EXCLUDED.social_links,
            specialties = EXCLUDED.specialties,
            profile_image_url = EXCLUDED.profile_image_url,
            updated_at = NOW()
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.Bio,
		profile.Location,
		profile.Phone,
		profile.YearsExperience,
		profile.SocialLinks,
		profile.Specialties,
		profile.ProfileImageURL,
	).Scan(&profile.UpdatedAt)
}

func decodeDesignSubset(raw []byte) ([]domain.DesignDetail, error) {
	var rows []designSubset
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	details := make([]domain.DesignDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, domain.DesignDetail{
			Design: domain.Design{
				ID:          row.ID,
				Title:       row.Title,
				Description: row.Description,
				ImageURL:    row.ImageURL,
				Likes:       row.Likes,
				CreatedAt:   row.CreatedAt,
			},
			Tags:        row.Tags,
			ExtraImages: row.ExtraImages,
		})
	}
	return details, nil
}
