package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/nailfeed-service/internal/domain"
)

type fakeDesignRepo struct {
	created     []*domain.Design
	createdTags [][]string
	createdImgs [][]string
	createErr   error

	detail    *domain.DesignDetail
	detailErr error

	unseen      []domain.Design
	unseenErr   error
	unseenLimit int
}

func (f *fakeDesignRepo) CreateWithAssets(ctx context.Context, design *domain.Design, tags, extraImages []string) error {
	if f.createErr != nil {
		return f.createErr
	}
	design.ID = uuid.NewString()
	f.created = append(f.created, design)
	f.createdTags = append(f.createdTags, tags)
	f.createdImgs = append(f.createdImgs, extraImages)
	return nil
}

func (f *fakeDesignRepo) GetDetail(ctx context.Context, id string) (*domain.DesignDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeDesignRepo) ListUnseen(ctx context.Context, userID string, limit int) ([]domain.Design, error) {
	f.unseenLimit = limit
	return f.unseen, f.unseenErr
}

type fakeMatchRepo struct {
	result *domain.SwipeResult
	err    error

	lastUserID   string
	lastDesignID string
	lastLiked    bool
}

func (f *fakeMatchRepo) RecordSwipe(ctx context.Context, userID, designID string, liked bool) (*domain.SwipeResult, error) {
	f.lastUserID = userID
	f.lastDesignID = designID
	f.lastLiked = liked
	return f.result, f.err
}

type fakeUserRepo struct {
	rows      map[string]*domain.User
	created   bool
	upsertErr error
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *domain.User) (bool, error) {
	if f.upsertErr != nil {
		return false, f.upsertErr
	}
	if f.rows == nil {
		f.rows = map[string]*domain.User{}
	}
	if _, exists := f.rows[user.ID]; exists {
		return false, nil
	}
	copied := *user
	f.rows[user.ID] = &copied
	f.created = true
	return true, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

type fakeProfileRepo struct {
	view    *domain.ProfileView
	viewErr error

	upserted  *domain.TechnicianProfile
	upsertErr error
}

func (f *fakeProfileRepo) GetComposed(ctx context.Context, techID string) (*domain.ProfileView, error) {
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return f.view, nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *domain.TechnicianProfile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = profile
	return nil
}
