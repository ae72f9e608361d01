package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps entries in the board_cache table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	prefix string
}

// NewPostgresStore wraps a migrated pool.
func NewPostgresStore(pool *pgxpool.Pool, prefix string) *PostgresStore {
	return &PostgresStore{pool: pool, prefix: prefix}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM board_cache WHERE key=$1`
	var value string
	err := s.pool.QueryRow(ctx, query, s.prefix+key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select cache entry %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO board_cache (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	if _, err := s.pool.Exec(ctx, query, s.prefix+key, value); err != nil {
		return fmt.Errorf("upsert cache entry %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	const query = `DELETE FROM board_cache WHERE key=$1`
	if _, err := s.pool.Exec(ctx, query, s.prefix+key); err != nil {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
