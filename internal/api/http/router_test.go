package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/nailfeed-service/internal/api/http/handlers"
	"github.com/spec-kit/nailfeed-service/internal/auth"
	"github.com/spec-kit/nailfeed-service/internal/config"
	"github.com/spec-kit/nailfeed-service/internal/domain"
	"github.com/spec-kit/nailfeed-service/internal/events"
	"github.com/spec-kit/nailfeed-service/internal/observability"
	"github.com/spec-kit/nailfeed-service/internal/service"

	httptransport "github.com/spec-kit/nailfeed-service/internal/api/http"
)

// memStore is an in-memory stand-in for the Postgres repositories, close
// enough to the real semantics to exercise the full HTTP stack.
type memStore struct {
	users    map[string]*domain.User
	designs  []*domain.DesignDetail
	matches  map[string]map[string]bool
	profiles map[string]*domain.TechnicianProfile
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*domain.User{},
		matches:  map[string]map[string]bool{},
		profiles: map[string]*domain.TechnicianProfile{},
	}
}

func (s *memStore) Upsert(ctx context.Context, user *domain.User) (bool, error) {
	if _, exists := s.users[user.ID]; exists {
		return false, nil
	}
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return true, nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *memStore) CreateWithAssets(ctx context.Context, design *domain.Design, tags, extraImages []string) error {
	design.ID = uuid.NewString()
	design.CreatedAt = time.Now()
	s.designs = append(s.designs, &domain.DesignDetail{
		Design:      *design,
		Tags:        tags,
		ExtraImages: extraImages,
	})
	return nil
}

func (s *memStore) GetDetail(ctx context.Context, id string) (*domain.DesignDetail, error) {
	for _, d := range s.designs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *memStore) ListUnseen(ctx context.Context, userID string, limit int) ([]domain.Design, error) {
	seen := s.matches[userID]
	items := make([]domain.Design, 0, limit)
	for _, d := range s.designs {
		if _, swiped := seen[d.ID]; swiped {
			continue
		}
		items = append(items, d.Design)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *memStore) RecordSwipe(ctx context.Context, userID, designID string, liked bool) (*domain.SwipeResult, error) {
	detail, err := s.GetDetail(ctx, designID)
	if err != nil {
		return nil, err
	}

	prev, swiped := s.matches[userID][designID]
	if swiped && prev == liked {
		return &domain.SwipeResult{TechnicianID: detail.TechnicianID}, nil
	}

	delta := 0
	if liked {
		delta = 1
	} else if swiped && prev {
		delta = -1
	}
	detail.Likes += delta

	if s.matches[userID] == nil {
		s.matches[userID] = map[string]bool{}
	}
	s.matches[userID][designID] = liked
	return &domain.SwipeResult{
		Inserted:     !swiped,
		LikesDelta:   delta,
		TechnicianID: detail.TechnicianID,
	}, nil
}

func (s *memStore) GetComposed(ctx context.Context, techID string) (*domain.ProfileView, error) {
	user, ok := s.users[techID]
	if !ok || user.Role != domain.RoleTechnician {
		return nil, pgx.ErrNoRows
	}

	view := &domain.ProfileView{User: *user}
	if profile, ok := s.profiles[techID]; ok {
		view.Profile = *profile
	}
	for _, d := range s.designs {
		if d.TechnicianID != techID {
			continue
		}
		view.TotalDesigns++
		view.TotalLikes += d.Likes
		view.RecentDesigns = append(view.RecentDesigns, *d)
	}
	return view, nil
}

func (s *memStore) UpsertProfile(ctx context.Context, profile *domain.TechnicianProfile) error {
	profile.UpdatedAt = time.Now()
	copied := *profile
	s.profiles[profile.UserID] = &copied
	return nil
}

// profileStore adapts memStore to the profile repository's Upsert name,
// which collides with the user repository's.
type profileStore struct{ *memStore }

func (p profileStore) Upsert(ctx context.Context, profile *domain.TechnicianProfile) error {
	return p.UpsertProfile(ctx, profile)
}

func newTestApp(t *testing.T) (*fiber.App, *auth.HMACVerifier, *memStore) {
	t.Helper()

	store := newMemStore()
	verifier := auth.NewHMACVerifier("test-secret", 60)
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()

	feedSvc := service.NewFeedService(store, config.FeedConfig{DefaultLimit: 20, MaxLimit: 50})
	matchSvc := service.NewMatchService(store, dispatcher)
	designSvc := service.NewDesignService(store, dispatcher)
	profileSvc := service.NewProfileService(profileStore{store}, nil, 0, logger)
	userSvc := service.NewUserService(store, dispatcher)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("nailfeed-service", "test", nil, nil),
		Feed:           handlers.NewFeedHandler(feedSvc),
		Matches:        handlers.NewMatchesHandler(matchSvc),
		Designs:        handlers.NewDesignsHandler(designSvc),
		Profile:        handlers.NewProfileHandler(profileSvc),
		Users:          handlers.NewUsersHandler(userSvc),
		AuthMiddleware: auth.NewAuthMiddleware(verifier),
		TechnicianGate: auth.RequireTechnician(store),
	})
	app.Get("/boom", func(c *fiber.Ctx) error { panic("kaput") })

	return app, verifier, store
}

func token(t *testing.T, verifier *auth.HMACVerifier, subject string) string {
	t.Helper()
	signed, _, err := verifier.GenerateToken(subject, "Test User", subject+"@example.com")
	require.NoError(t, err)
	return signed
}

func request(t *testing.T, app *fiber.App, method, path, bearer string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func registerUser(t *testing.T, app *fiber.App, bearer, name, role string) {
	t.Helper()
	resp, _ := request(t, app, http.MethodPost, "/api/users", bearer, map[string]any{
		"full_name": name,
		"email":     fmt.Sprintf("%s@example.com", role),
		"role":      role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHealthLive(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := request(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
}

func TestAPIRequiresToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := request(t, app, http.MethodGet, "/api/feed/unseen", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "UNAUTHORIZED", errObj["code"])
}

func TestDesignAuthoringFlow(t *testing.T) {
	app, verifier, _ := newTestApp(t)
	techToken := token(t, verifier, "tech-1")
	registerUser(t, app, techToken, "Dana Kim", "technician")

	resp, body := request(t, app, http.MethodPost, "/api/designs", techToken, map[string]any{
		"title":        "Spring Pink",
		"image_url":    "https://x/y.jpg",
		"tags":         []string{"pink", "spring"},
		"extra_images": []string{},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "design created", body["message"])

	data := body["data"].(map[string]any)
	designID := data["id"].(string)
	assert.NotEmpty(t, designID)
	assert.Equal(t, "Spring Pink", data["title"])
	assert.Equal(t, "https://x/y.jpg", data["imageUrl"])
	assert.EqualValues(t, 0, data["likes"])

	resp, body = request(t, app, http.MethodGet, "/api/designs/"+designID, techToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tech-1", body["technician_id"])
	assert.ElementsMatch(t, []any{"pink", "spring"}, body["tags"].([]any))
}

func TestDesignAuthoringRequiresTechnician(t *testing.T) {
	app, verifier, _ := newTestApp(t)
	custToken := token(t, verifier, "cust-1")
	registerUser(t, app, custToken, "Casey Lee", "customer")

	resp, body := request(t, app, http.MethodPost, "/api/designs", custToken, map[string]any{
		"title":     "Spring Pink",
		"image_url": "https://x/y.jpg",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "FORBIDDEN", errObj["code"])
}

func TestDesignValidationFailure(t *testing.T) {
	app, verifier, _ := newTestApp(t)
	techToken := token(t, verifier, "tech-1")
	registerUser(t, app, techToken, "Dana Kim", "technician")

	resp, body := request(t, app, http.MethodPost, "/api/designs", techToken, map[string]any{
		"description": "no title or image",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
}

func TestFeedAndSwipeFlow(t *testing.T) {
	app, verifier, _ := newTestApp(t)
	techToken := token(t, verifier, "tech-1")
	custToken := token(t, verifier, "cust-1")
	registerUser(t, app, techToken, "Dana Kim", "technician")
	registerUser(t, app, custToken, "Casey Lee", "customer")

	resp, body := request(t, app, http.MethodPost, "/api/designs", techToken, map[string]any{
		"title":     "Spring Pink",
		"image_url": "https://x/y.jpg",
		"tags":      []string{"pink"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	designID := body["data"].(map[string]any)["id"].(string)

	// The design shows up in the customer's unseen feed.
	req := httptest.NewRequest(http.MethodGet, "/api/feed/unseen", nil)
	req.Header.Set("Authorization", "Bearer "+custToken)
	feedResp, err := app.Test(req)
	require.NoError(t, err)
	defer feedResp.Body.Close()
	require.Equal(t, http.StatusOK, feedResp.StatusCode)

	var feed []map[string]any
	require.NoError(t, json.NewDecoder(feedResp.Body).Decode(&feed))
	require.Len(t, feed, 1)
	assert.Equal(t, designID, feed[0]["id"])
	assert.Equal(t, "https://x/y.jpg", feed[0]["imageUrl"])

	// Swiping removes it from the feed and bumps the like counter.
	resp, body = request(t, app, http.MethodPost, "/api/matches", custToken, map[string]any{
		"design_id": designID,
		"liked":     true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "swipe recorded", body["message"])

	req = httptest.NewRequest(http.MethodGet, "/api/feed/unseen", nil)
	req.Header.Set("Authorization", "Bearer "+custToken)
	feedResp, err = app.Test(req)
	require.NoError(t, err)
	defer feedResp.Body.Close()

	feed = nil
	require.NoError(t, json.NewDecoder(feedResp.Body).Decode(&feed))
	assert.Empty(t, feed)

	resp, body = request(t, app, http.MethodGet, "/api/designs/"+designID, custToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["likes"])

	// A repeated like is a no-op.
	resp, _ = request(t, app, http.MethodPost, "/api/matches", custToken, map[string]any{
		"design_id": designID,
		"liked":     true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body = request(t, app, http.MethodGet, "/api/designs/"+designID, custToken, nil)
	assert.EqualValues(t, 1, body["likes"])

	// Flipping to dislike takes the like back.
	resp, _ = request(t, app, http.MethodPost, "/api/matches", custToken, map[string]any{
		"design_id": designID,
		"liked":     false,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body = request(t, app, http.MethodGet, "/api/designs/"+designID, custToken, nil)
	assert.EqualValues(t, 0, body["likes"])
}

func TestSwipeUnknownDesign(t *testing.T) {
	app, verifier, _ := newTestApp(t)
	custToken := token(t, verifier, "cust-1")
	registerUser(t, app, custToken, "Casey Lee", "customer")

	resp, body := request(t, app, http.MethodPost, "/api/matches", custToken, map[string]any{
		"design_id": uuid.NewString(),
		"liked":     true,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestProfileFlow(t *testing.T) {
	app, verifier, _ := newTestApp(t)
	techToken := token(t, verifier, "tech-1")
	custToken := token(t, verifier, "cust-1")
	registerUser(t, app, techToken, "Dana Kim", "technician")
	registerUser(t, app, custToken, "Casey Lee", "customer")

	resp, body := request(t, app, http.MethodPut, "/api/profile/me", techToken, map[string]any{
		"bio":              "Nail artist in Seoul",
		"location":         "Seoul",
		"years_experience": 4,
		"specialties":      []string{"gel", "acrylic"},
		"social_links":     map[string]string{"instagram": "@dana"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "profile updated", body["message"])

	resp, body = request(t, app, http.MethodGet, "/api/profile/tech-1", custToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Dana Kim", body["full_name"])
	assert.Equal(t, "Nail artist in Seoul", body["bio"])
	assert.ElementsMatch(t, []any{"gel", "acrylic"}, body["specialties"].([]any))

	resp, body = request(t, app, http.MethodGet, "/api/profile/me", techToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tech-1", body["id"])

	// Customers have no technician profile to show.
	resp, body = request(t, app, http.MethodGet, "/api/profile/me", custToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errObj["code"])

	resp, _ = request(t, app, http.MethodPut, "/api/profile/me", custToken, map[string]any{"bio": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUserUpsertIdempotent(t *testing.T) {
	app, verifier, store := newTestApp(t)
	custToken := token(t, verifier, "cust-1")

	payload := map[string]any{"full_name": "Casey Lee", "email": "casey@example.com", "role": "customer"}
	resp, body := request(t, app, http.MethodPost, "/api/users", custToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "cust-1", data["id"])
	assert.Equal(t, "customer", data["role"])

	// A repeat call returns the stored row untouched.
	payload["full_name"] = "C. Lee"
	payload["role"] = "technician"
	resp, body = request(t, app, http.MethodPost, "/api/users", custToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, "Casey Lee", data["full_name"])
	assert.Equal(t, "customer", data["role"])
	assert.Len(t, store.users, 1)
}

func TestPanicBecomesInternalError(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := request(t, app, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "INTERNAL_ERROR", errObj["code"])
}
