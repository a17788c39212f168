package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/nailfeed-service/internal/domain"
)

// DesignRepository encapsulates design persistence.
type DesignRepository interface {
	// CreateWithAssets inserts the design together with its tags and
	// extra images inside a single transaction.
	CreateWithAssets(ctx context.Context, design *domain.Design, tags, extraImages []string) error
	GetDetail(ctx context.Context, id string) (*domain.DesignDetail, error)
	// ListUnseen returns designs the user has not swiped on, newest
	// first, truncated to limit.
	ListUnseen(ctx context.Context, userID string, limit int) ([]domain.Design, error)
}

type designRepository struct {
	pool *pgxpool.Pool
}

// NewDesignRepository instantiates repository.
func NewDesignRepository(pool *pgxpool.Pool) DesignRepository {
	return &designRepository{pool: pool}
}

func (r *designRepository) CreateWithAssets(ctx context.Context, design *domain.Design, tags, extraImages []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertDesign = `
        INSERT INTO designs (technician_id, title, description, image_url)
        VALUES ($1, $2, $3, $4)
        RETURNING id, likes, created_at`
	if err := tx.QueryRow(ctx, insertDesign,
		design.TechnicianID,
		design.Title,
		design.Description,
		design.ImageURL,
	).Scan(&design.ID, &design.Likes, &design.CreatedAt); err != nil {
		return err
	}

	const insertTag = `INSERT INTO design_tags (design_id, tag) VALUES ($1, $2)`
	for _, tag := range tags {
		if _, err := tx.Exec(ctx, insertTag, design.ID, tag); err != nil {
			return err
		}
	}

	const insertImage = `INSERT INTO design_images (design_id, image_url) VALUES ($1, $2)`
	for _, url := range extraImages {
		if _, err := tx.Exec(ctx, insertImage, design.ID, url); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *designRepository) GetDetail(ctx context.Context, id string) (*domain.DesignDetail, error) {
	const query = `
        SELECT id, technician_id, title, description, image_url, likes, created_at
        FROM designs WHERE id=$1`

	var detail domain.DesignDetail
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.TechnicianID,
		&detail.Title,
		&detail.Description,
		&detail.ImageURL,
		&detail.Likes,
		&detail.CreatedAt,
	); err != nil {
		return nil, err
	}

	const tagQuery = `SELECT tag FROM design_tags WHERE design_id=$1 ORDER BY tag`
	tags, err := r.collectStrings(ctx, tagQuery, id)
	if err != nil {
		return nil, err
	}
	detail.Tags = tags

	const imageQuery = `SELECT image_url FROM design_images WHERE design_id=$1 ORDER BY image_url`
	images, err := r.collectStrings(ctx, imageQuery, id)
	if err != nil {
		return nil, err
	}
	detail.ExtraImages = images

	return &detail, nil
}

func (r *designRepository) ListUnseen(ctx context.Context, userID string, limit int) ([]domain.Design, error) {
	const query = `
        SELECT d.id, d.technician_id, d.title, d.description, d.image_url, d.likes, d.created_at
        FROM designs d
        WHERE NOT EXISTS (
            SELECT 1 FROM matches m WHERE m.user_id=$1 AND m.design_id=d.id
        )
        ORDER BY d.created_at DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDesigns(rows)
}

func (r *designRepository) collectStrings(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var val string
		if err := rows.Scan(&val); err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, rows.Err()
}

func scanDesigns(rows pgx.Rows) ([]domain.Design, error) {
	var result []domain.Design
	for rows.Next() {
		var design domain.Design
		if err := rows.Scan(
			&design.ID,
			&design.TechnicianID,
			&design.Title,
			&design.Description,
			&design.ImageURL,
			&design.Likes,
			&design.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, design)
	}
	return result, rows.Err()
}
