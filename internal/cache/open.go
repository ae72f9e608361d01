package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/kanban-board/internal/config"
	"github.com/spec-kit/kanban-board/internal/persistence"
)

// Open builds the Store selected by cfg.Cache.Backend. When a remote backend
// cannot be reached the board still runs on an in-memory store; the returned
// name reports which backend is actually in use. The close func is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, string, func()) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		r, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis cache unavailable; using memory", zap.Error(err))
			break
		}
		return NewRedisStore(r.Client, cfg.Cache.KeyPrefix), config.CacheBackendRedis, r.Close
	case config.CacheBackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Warn("postgres cache unavailable; using memory", zap.Error(err))
			break
		}
		return NewPostgresStore(pg.Pool, cfg.Cache.KeyPrefix), config.CacheBackendPostgres, pg.Close
	}
	return NewMemory(), config.CacheBackendMemory, func() {}
}
