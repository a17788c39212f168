package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/nailfeed-service/internal/config"
	"github.com/spec-kit/nailfeed-service/internal/events"
	"github.com/spec-kit/nailfeed-service/internal/persistence"
)

const recentActivityKey = "activity:recent"

// ActivityService reacts to domain events: it notifies technicians about
// engagement, keeps a capped recent-activity list in Redis, and drops stale
// profile cache entries.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.ActivityConfig
	redis      *persistence.Redis
	profiles   *ProfileService
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.ActivityConfig, redis *persistence.Redis, profiles *ProfileService) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		redis:      redis,
		profiles:   profiles,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSwipeRecorded, a.handleSwipeRecorded)
	a.dispatcher.Subscribe(events.EventDesignCreated, a.handleDesignCreated)
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
}

func (a *ActivityService) handleSwipeRecorded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SwipeRecordedPayload)
	if !ok {
		return nil
	}
	a.logger.Info("SwipeRecorded",
		zap.String("design_id", payload.DesignID),
		zap.Bool("liked", payload.Liked),
		zap.Int("likes_delta", payload.LikesDelta))

	if payload.Liked {
		a.sendWebhookNotificationStub(ctx, event)
	}
	a.recordRecent(ctx, event)
	if payload.LikesDelta != 0 && a.profiles != nil {
		a.profiles.Invalidate(ctx, payload.TechnicianID)
	}
	return nil
}

func (a *ActivityService) handleDesignCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DesignCreatedPayload)
	if !ok {
		return nil
	}
	a.logger.Info("DesignCreated",
		zap.String("design_id", payload.DesignID),
		zap.String("technician_id", payload.TechnicianID))

	a.recordRecent(ctx, event)
	if a.profiles != nil {
		a.profiles.Invalidate(ctx, payload.TechnicianID)
	}
	return nil
}

func (a *ActivityService) handleUserRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("UserRegistered", zap.String("user_id", event.ActorID))
	a.sendEmailNotificationStub(ctx, event)
	return nil
}

// recordRecent pushes the event onto a capped Redis list.
func (a *ActivityService) recordRecent(ctx context.Context, event events.Event) {
	client := a.redis.Handle()
	if client == nil || a.cfg.RecentMaxLen <= 0 {
		return
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := client.LPush(ctx, recentActivityKey, raw).Err(); err != nil {
		a.logger.Warn("record recent activity failed", zap.Error(err))
		return
	}
	if err := client.LTrim(ctx, recentActivityKey, 0, a.cfg.RecentMaxLen-1).Err(); err != nil {
		a.logger.Warn("trim recent activity failed", zap.Error(err))
	}
}

func (a *ActivityService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.EmailFrom) == "" {
		return
	}
	a.logger.Debug("sendEmailNotificationStub",
		zap.String("from", a.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (a *ActivityService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
