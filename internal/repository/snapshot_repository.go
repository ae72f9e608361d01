package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/kanban-board/internal/cache"
	"github.com/spec-kit/kanban-board/internal/domain"
)

// Cache keys for the ticket and user lists.
const (
	KeyTickets = "kanban-tickets"
	KeyUsers   = "kanban-users"
)

// SnapshotRepository persists the last fetched ticket and user lists.
type SnapshotRepository interface {
	LoadTickets(ctx context.Context) ([]domain.Ticket, error)
	LoadUsers(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, tickets []domain.Ticket, users []domain.User) error
	Clear(ctx context.Context) error
}

type snapshotRepository struct {
	store  cache.Store
	logger *zap.Logger
}

// NewSnapshotRepository returns a repository over store.
func NewSnapshotRepository(store cache.Store, logger *zap.Logger) SnapshotRepository {
	return &snapshotRepository{store: store, logger: logger}
}

func (r *snapshotRepository) LoadTickets(ctx context.Context) ([]domain.Ticket, error) {
	return loadList[domain.Ticket](ctx, r, KeyTickets)
}

func (r *snapshotRepository) LoadUsers(ctx context.Context) ([]domain.User, error) {
	return loadList[domain.User](ctx, r, KeyUsers)
}

// loadList decodes the JSON list under key. A missing or malformed entry
// reads as an empty list; only store failures are returned.
func loadList[T any](ctx context.Context, r *snapshotRepository, key string) ([]T, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		r.logger.Warn("discarding malformed cache entry", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return list, nil
}

func (r *snapshotRepository) Save(ctx context.Context, tickets []domain.Ticket, users []domain.User) error {
	if err := r.saveList(ctx, KeyTickets, tickets); err != nil {
		return err
	}
	return r.saveList(ctx, KeyUsers, users)
}

func (r *snapshotRepository) saveList(ctx context.Context, key string, list any) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *snapshotRepository) Clear(ctx context.Context) error {
	for _, key := range []string{KeyTickets, KeyUsers} {
		if err := r.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}
