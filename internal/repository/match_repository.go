package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/nailfeed-service/internal/domain"
)

// MatchRepository encapsulates swipe persistence.
type MatchRepository interface {
	// RecordSwipe upserts the (user, design) decision and adjusts the
	// design's like counter by the exact transition delta, all within one
	// transaction. Returns pgx.ErrNoRows when the design does not exist.
	RecordSwipe(ctx context.Context, userID, designID string, liked bool) (*domain.SwipeResult, error)
}

type matchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository instantiates repository.
func NewMatchRepository(pool *pgxpool.Pool) MatchRepository {
	return &matchRepository{pool: pool}
}

func (r *matchRepository) RecordSwipe(ctx context.Context, userID, designID string, liked bool) (*domain.SwipeResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	result := &domain.SwipeResult{}

	const designQuery = `SELECT technician_id FROM designs WHERE id=$1`
	if err := tx.QueryRow(ctx, designQuery, designID).Scan(&result.TechnicianID); err != nil {
		return nil, err
	}

	// The DO UPDATE fires only when the stored flag actually changes, so a
	// repeated identical swipe returns no row and leaves the counter
	// alone. Under a concurrent duplicate swipe the later writer
	// re-evaluates against the committed row and also gets a zero delta.
	const upsert = `
        INSERT INTO matches AS m (user_id, design_id, liked)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, design_id) DO UPDATE
            SET liked = EXCLUDED.liked, updated_at = NOW()
            WHERE m.liked IS DISTINCT FROM EXCLUDED.liked
        RETURNING (xmax = 0) AS inserted`

	var inserted bool
	err = tx.QueryRow(ctx, upsert, userID, designID, liked).Scan(&inserted)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// Same decision as before; nothing changed.
	case err != nil:
		return nil, err
	default:
		result.Inserted = inserted
		if liked {
			result.LikesDelta = 1
		} else if !inserted {
			// like -> dislike flip.
			result.LikesDelta = -1
		}
	}

	if result.LikesDelta != 0 {
		const adjust = `UPDATE designs SET likes = likes + $2 WHERE id=$1`
		if _, err := tx.Exec(ctx, adjust, designID, result.LikesDelta); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
