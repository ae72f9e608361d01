package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kanban-board/internal/api/http/handlers"
	"github.com/spec-kit/kanban-board/internal/auth"
	apperrors "github.com/spec-kit/kanban-board/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Board          *handlers.BoardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Get("/tickets", cfg.Board.ListTickets)
	app.Get("/users", cfg.Board.ListUsers)

	boardGroup := app.Group("/board")
	boardGroup.Get("", cfg.Board.GetBoard)
	boardGroup.Get("/preferences", cfg.Board.GetPreferences)
	boardGroup.Put("/preferences", cfg.Board.UpdatePreferences)
	boardGroup.Post("/refresh", cfg.AuthMiddleware.RequireScope(auth.ScopeBoardAdmin), cfg.Board.Refresh)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("route", map[string]any{"method": c.Method(), "path": c.Path()})
	})
}
