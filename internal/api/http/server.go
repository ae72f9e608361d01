package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/kanban-board/internal/observability"
)

// ServerConfig carries what NewServer needs beyond the routes.
type ServerConfig struct {
	AppName        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// NewServer builds the fiber app with middlewares and routes registered.
func NewServer(cfg ServerConfig, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RequestTimeout)
	RegisterRoutes(app, routes)
	return app
}
