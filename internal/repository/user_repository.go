package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/nailfeed-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	// Upsert inserts the user unless a row with the same id already
	// exists. It reports whether a new row was created; an existing row
	// is never overwritten.
	Upsert(ctx context.Context, user *domain.User) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) (bool, error) {
	const query = `
        INSERT INTO users (id, full_name, email, role)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO NOTHING
        RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.Role,
	).Scan(&user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict: the row pre-existed and stays untouched.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, full_name, email, role, created_at
        FROM users WHERE id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
