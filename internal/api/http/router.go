package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/nailfeed-service/internal/api/http/handlers"
	"github.com/spec-kit/nailfeed-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Feed           *handlers.FeedHandler
	Matches        *handlers.MatchesHandler
	Designs        *handlers.DesignsHandler
	Profile        *handlers.ProfileHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	TechnicianGate fiber.Handler
}

// RegisterRoutes wires HTTP routes. Every /api route is bearer-token
// protected; authoring routes additionally require the technician role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	api.Get("/feed/unseen", cfg.Feed.Unseen)

	api.Post("/matches", cfg.Matches.Create)

	api.Post("/designs", cfg.TechnicianGate, cfg.Designs.Create)
	api.Get("/designs/:id", cfg.Designs.Get)

	// /profile/me must register before the :techId wildcard.
	api.Get("/profile/me", cfg.Profile.Me)
	api.Put("/profile/me", cfg.TechnicianGate, cfg.Profile.UpdateMe)
	api.Get("/profile/:techId", cfg.Profile.ByID)

	api.Post("/users", cfg.Users.Upsert)
}
