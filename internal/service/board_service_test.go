package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/spec-kit/kanban-board/internal/cache"
	"github.com/spec-kit/kanban-board/internal/domain"
	"github.com/spec-kit/kanban-board/internal/events"
	"github.com/spec-kit/kanban-board/internal/observability"
	"github.com/spec-kit/kanban-board/internal/repository"
	"github.com/spec-kit/kanban-board/internal/source"
	apperrors "github.com/spec-kit/kanban-board/pkg/util/errorutil"
)

type stubFetcher struct {
	mu      sync.Mutex
	payload source.Payload
	err     error
	calls   int
}

func (f *stubFetcher) Fetch(context.Context) (source.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.payload, f.err
}

func (f *stubFetcher) URL() string { return "http://feed.test" }

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	store      *cache.Memory
	fetcher    *stubFetcher
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	svc        *BoardService
	published  *[]events.EventType
}

func newFixture(t *testing.T, payload source.Payload, fetchErr error) fixture {
	t.Helper()
	store := cache.NewMemory()
	fetcher := &stubFetcher{payload: payload, err: fetchErr}
	dispatcher := events.NewInMemoryDispatcher()
	var mu sync.Mutex
	published := []events.EventType{}
	record := func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, e.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventSnapshotReplaced, record)
	dispatcher.Subscribe(events.EventFetchFailed, record)
	dispatcher.Subscribe(events.EventPreferencesChanged, record)

	metrics := observability.NewMetrics()
	svc := NewBoardService(BoardDependencies{
		SnapshotRepo:   repository.NewSnapshotRepository(store, zap.NewNop()),
		PreferenceRepo: repository.NewPreferenceRepository(store),
		Fetcher:        fetcher,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         zap.NewNop(),
	})
	return fixture{store: store, fetcher: fetcher, dispatcher: dispatcher, metrics: metrics, svc: svc, published: &published}
}

func samplePayload() source.Payload {
	return source.Payload{
		Tickets: []domain.Ticket{
			{ID: "1", Title: "b", Status: "Todo", Priority: 2, UserID: "1"},
			{ID: "2", Title: "a", Status: "Todo", Priority: 4, UserID: "2"},
			{ID: "3", Title: "c", Status: "Done", Priority: 1, UserID: "99"},
		},
		Users: []domain.User{{ID: "1", Name: "Alice"}, {ID: "2", Name: "Bob"}},
	}
}

func TestStartFetchesWhenCacheEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)
	fx := newFixture(t, samplePayload(), nil)
	ctx := context.Background()

	fx.svc.Start(ctx)
	fx.svc.Wait()

	snap := fx.svc.Snapshot()
	assert.Equal(t, OriginFeed, snap.Origin)
	assert.Len(t, snap.Tickets, 3)
	assert.Equal(t, 1, fx.fetcher.callCount())

	cached, err := repository.NewSnapshotRepository(fx.store, zap.NewNop()).LoadTickets(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 3)
	assert.Equal(t, []events.EventType{events.EventSnapshotReplaced}, *fx.published)
	assert.Equal(t, int64(1), fx.metrics.Snapshot().FetchSucceeded)
}

func TestStartUsesCompleteCache(t *testing.T) {
	fx := newFixture(t, source.Payload{}, errors.New("should not be called"))
	ctx := context.Background()
	p := samplePayload()
	require.NoError(t, repository.NewSnapshotRepository(fx.store, zap.NewNop()).Save(ctx, p.Tickets, p.Users))

	fx.svc.Start(ctx)
	fx.svc.Wait()

	assert.Equal(t, OriginCache, fx.svc.Snapshot().Origin)
	assert.Zero(t, fx.fetcher.callCount())
}

func TestStartRefetchesWhenUsersMissing(t *testing.T) {
	fx := newFixture(t, samplePayload(), nil)
	ctx := context.Background()
	require.NoError(t, fx.store.Set(ctx, repository.KeyTickets, `[{"id":"old","status":"Todo","userId":"1"}]`))

	fx.svc.Start(ctx)
	fx.svc.Wait()

	assert.Equal(t, 1, fx.fetcher.callCount())
	assert.Len(t, fx.svc.Snapshot().Tickets, 3)
}

func TestFailedFetchKeepsBoardEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)
	fx := newFixture(t, source.Payload{}, errors.New("dial tcp: connection refused"))
	ctx := context.Background()

	fx.svc.Start(ctx)
	fx.svc.Wait()

	assert.Empty(t, fx.svc.Board(ctx, BoardQuery{}).Groups)
	assert.Equal(t, []events.EventType{events.EventFetchFailed}, *fx.published)
	assert.Equal(t, int64(1), fx.metrics.Snapshot().FetchFailed)

	_, err := fx.svc.Refresh(ctx)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", de.Code)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	fx := newFixture(t, samplePayload(), nil)
	ctx := context.Background()
	_, err := fx.svc.Refresh(ctx)
	require.NoError(t, err)

	fx.fetcher.mu.Lock()
	fx.fetcher.err = errors.New("timeout")
	fx.fetcher.mu.Unlock()

	snap, err := fx.svc.Refresh(ctx)
	require.Error(t, err)
	assert.Len(t, snap.Tickets, 3)
	assert.Equal(t, OriginFeed, fx.svc.Snapshot().Origin)
}

func TestBoardUsesStoredPreferences(t *testing.T) {
	fx := newFixture(t, samplePayload(), nil)
	ctx := context.Background()
	_, err := fx.svc.Refresh(ctx)
	require.NoError(t, err)

	view := fx.svc.Board(ctx, BoardQuery{})
	assert.Equal(t, domain.GroupByStatus, view.GroupBy)
	assert.Equal(t, []string{"Todo", "Done"}, view.Labels())
	todo, _ := view.Lookup("Todo")
	assert.Equal(t, "2", todo[0].ID)

	_, err = fx.svc.SetPreferences(ctx, repository.Preferences{GroupBy: domain.GroupByUser, SortBy: domain.SortByTitle})
	require.NoError(t, err)

	view, cols := fx.svc.Columns(ctx, BoardQuery{})
	assert.Equal(t, []string{"Alice", "Bob", domain.UnknownUserLabel}, view.Labels())
	require.Len(t, cols, 3)
	assert.Equal(t, "Low", cols[2].Cards[0].PriorityLabel)

	groupBy := domain.GroupByPriority
	view = fx.svc.Board(ctx, BoardQuery{GroupBy: &groupBy})
	assert.Equal(t, []string{"2", "4", "1"}, view.Labels())
	assert.Equal(t, domain.SortByTitle, view.SortBy)
}

func TestSetPreferencesValidates(t *testing.T) {
	fx := newFixture(t, samplePayload(), nil)
	ctx := context.Background()

	_, err := fx.svc.SetPreferences(ctx, repository.Preferences{GroupBy: "team", SortBy: domain.SortByTitle})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)

	_, err = fx.svc.SetPreferences(ctx, repository.Preferences{GroupBy: domain.GroupByUser, SortBy: "created"})
	require.Error(t, err)

	prefs := fx.svc.Preferences(ctx)
	assert.Equal(t, repository.DefaultPreferences(), prefs)
	assert.Empty(t, *fx.published)

	saved, err := fx.svc.SetPreferences(ctx, repository.Preferences{GroupBy: "USER", SortBy: "Title"})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupByUser, saved.GroupBy)
	assert.Equal(t, []events.EventType{events.EventPreferencesChanged}, *fx.published)
}

func TestResetClearsEverything(t *testing.T) {
	fx := newFixture(t, samplePayload(), nil)
	ctx := context.Background()
	_, err := fx.svc.Refresh(ctx)
	require.NoError(t, err)
	_, err = fx.svc.SetPreferences(ctx, repository.Preferences{GroupBy: domain.GroupByUser, SortBy: domain.SortByTitle})
	require.NoError(t, err)

	require.NoError(t, fx.svc.Reset(ctx))

	assert.Equal(t, OriginEmpty, fx.svc.Snapshot().Origin)
	assert.Equal(t, repository.DefaultPreferences(), fx.svc.Preferences(ctx))
	_, ok, _ := fx.store.Get(ctx, repository.KeyTickets)
	assert.False(t, ok)
}

type gatedFetcher struct {
	payload source.Payload
	started chan struct{}
	release chan struct{}
}

func (f *gatedFetcher) Fetch(context.Context) (source.Payload, error) {
	close(f.started)
	<-f.release
	return f.payload, nil
}

func TestResetWaitsForRefreshInProgress(t *testing.T) {
	store := cache.NewMemory()
	fetcher := &gatedFetcher{payload: samplePayload(), started: make(chan struct{}), release: make(chan struct{})}
	svc := NewBoardService(BoardDependencies{
		SnapshotRepo:   repository.NewSnapshotRepository(store, zap.NewNop()),
		PreferenceRepo: repository.NewPreferenceRepository(store),
		Fetcher:        fetcher,
	})
	ctx := context.Background()

	refreshed := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(ctx)
		refreshed <- err
	}()
	<-fetcher.started

	reset := make(chan error, 1)
	go func() { reset <- svc.Reset(ctx) }()
	select {
	case <-reset:
		t.Fatal("reset finished while a refresh was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(fetcher.release)
	require.NoError(t, <-refreshed)
	require.NoError(t, <-reset)

	assert.Equal(t, OriginEmpty, svc.Snapshot().Origin)
	_, ok, err := store.Get(ctx, repository.KeyTickets)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadReadsCacheWithoutFetching(t *testing.T) {
	fx := newFixture(t, samplePayload(), nil)
	ctx := context.Background()
	require.NoError(t, repository.NewSnapshotRepository(fx.store, zap.NewNop()).Save(ctx, samplePayload().Tickets, nil))

	snap := fx.svc.Load(ctx)

	assert.Equal(t, OriginCache, snap.Origin)
	assert.Len(t, snap.Tickets, 3)
	assert.False(t, snap.Complete())
	assert.Equal(t, 0, fx.fetcher.callCount())
}
