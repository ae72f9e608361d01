package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/kanban-board/internal/cache"
	"github.com/spec-kit/kanban-board/internal/domain"
)

type failingStore struct {
	cache.Store
}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	repo := NewSnapshotRepository(store, zap.NewNop())

	tickets := []domain.Ticket{{ID: "CAM-1", Title: "Fix", Status: "Todo", Priority: 2, UserID: "usr-1"}}
	users := []domain.User{{ID: "usr-1", Name: "Anoop", Available: true}}
	require.NoError(t, repo.Save(ctx, tickets, users))

	raw, ok, _ := store.Get(ctx, KeyTickets)
	require.True(t, ok)
	assert.Contains(t, raw, `"userId":"usr-1"`)

	gotTickets, err := repo.LoadTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, tickets, gotTickets)

	gotUsers, err := repo.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, gotUsers)

	require.NoError(t, repo.Clear(ctx))
	gotTickets, err = repo.LoadTickets(ctx)
	require.NoError(t, err)
	assert.Empty(t, gotTickets)
}

func TestSnapshotMalformedEntryReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	require.NoError(t, store.Set(ctx, KeyTickets, "{not json"))
	require.NoError(t, store.Set(ctx, KeyUsers, `[{"id":"1","name":"Alice"},{"id":{}}]`))
	repo := NewSnapshotRepository(store, zap.NewNop())

	tickets, err := repo.LoadTickets(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets)

	users, err := repo.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSnapshotStoreFailureIsReturned(t *testing.T) {
	repo := NewSnapshotRepository(failingStore{}, zap.NewNop())

	_, err := repo.LoadTickets(context.Background())
	assert.ErrorContains(t, err, KeyTickets)
}

func TestPreferencesDefaultsAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	repo := NewPreferenceRepository(store)

	prefs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)

	require.NoError(t, repo.Save(ctx, Preferences{GroupBy: domain.GroupByUser, SortBy: domain.SortByTitle}))
	raw, _, _ := store.Get(ctx, KeySortBy)
	assert.Equal(t, "title", raw)

	prefs, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupByUser, prefs.GroupBy)
	assert.Equal(t, domain.SortByTitle, prefs.SortBy)

	require.NoError(t, repo.Clear(ctx))
	prefs, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestPreferencesUnknownGroupingReadsAsStatus(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	require.NoError(t, store.Set(ctx, KeyGrouping, "assignee"))

	prefs, err := NewPreferenceRepository(store).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupByStatus, prefs.GroupBy)
	assert.Equal(t, domain.SortByPriority, prefs.SortBy)
}
