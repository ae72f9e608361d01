package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kanban-board/internal/cache"
	"github.com/spec-kit/kanban-board/internal/observability"
)

// HealthHandler responds to liveness and readiness checks and exposes counters.
type HealthHandler struct {
	serviceName  string
	version      string
	cacheBackend string
	store        cache.Store
	metrics      *observability.Metrics
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version, cacheBackend string, store cache.Store, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{
		serviceName:  serviceName,
		version:      version,
		cacheBackend: cacheBackend,
		store:        store,
		metrics:      metrics,
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking the cache backend.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "cache backend unavailable",
				"details": fiber.Map{h.cacheBackend: err.Error()},
			},
		})
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": fiber.Map{h.cacheBackend: "ok"},
	})
}

// Metrics GET /metrics.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
