package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/nailfeed-service/internal/api/http"
	"github.com/spec-kit/nailfeed-service/internal/api/http/handlers"
	"github.com/spec-kit/nailfeed-service/internal/auth"
	"github.com/spec-kit/nailfeed-service/internal/config"
	"github.com/spec-kit/nailfeed-service/internal/events"
	"github.com/spec-kit/nailfeed-service/internal/observability"
	"github.com/spec-kit/nailfeed-service/internal/persistence"
	"github.com/spec-kit/nailfeed-service/internal/repository"
	"github.com/spec-kit/nailfeed-service/internal/service"
	"github.com/spec-kit/nailfeed-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	verifier, err := auth.NewVerifier(ctx, cfg.Auth, logger)
	if err != nil {
		logger.Fatal("failed to init token verifier", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	designRepo := repository.NewDesignRepository(pool)
	matchRepo := repository.NewMatchRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	feedService := service.NewFeedService(designRepo, cfg.Feed)
	matchService := service.NewMatchService(matchRepo, dispatcher)
	designService := service.NewDesignService(designRepo, dispatcher)
	profileService := service.NewProfileService(profileRepo, redis, cfg.Cache.ProfileTTL(), logger)
	userService := service.NewUserService(userRepo, dispatcher)
	activityService := service.NewActivityService(dispatcher, logger, cfg.Activity, redis, profileService)

	worker.StartActivityWorker(activityService)

	authMiddleware := auth.NewAuthMiddleware(verifier)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Feed:           handlers.NewFeedHandler(feedService),
		Matches:        handlers.NewMatchesHandler(matchService),
		Designs:        handlers.NewDesignsHandler(designService),
		Profile:        handlers.NewProfileHandler(profileService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
		TechnicianGate: auth.RequireTechnician(userRepo),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if closer, ok := verifier.(interface{ Close() }); ok {
		closer.Close()
	}
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
