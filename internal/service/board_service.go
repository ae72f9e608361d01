package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/kanban-board/internal/board"
	"github.com/spec-kit/kanban-board/internal/domain"
	"github.com/spec-kit/kanban-board/internal/events"
	"github.com/spec-kit/kanban-board/internal/observability"
	"github.com/spec-kit/kanban-board/internal/repository"
	"github.com/spec-kit/kanban-board/internal/source"
	apperrors "github.com/spec-kit/kanban-board/pkg/util/errorutil"
)

// Snapshot origins.
const (
	OriginEmpty = "empty"
	OriginCache = "cache"
	OriginFeed  = "feed"
)

// Snapshot is an immutable copy of the ticket and user lists. It is replaced
// wholesale, never modified.
type Snapshot struct {
	Tickets  []domain.Ticket
	Users    []domain.User
	Origin   string
	LoadedAt time.Time
}

// Complete reports whether both lists are present.
func (s *Snapshot) Complete() bool {
	return len(s.Tickets) > 0 && len(s.Users) > 0
}

// BoardQuery overrides the stored modes for a single board computation.
type BoardQuery struct {
	GroupBy *domain.GroupingMode
	SortBy  *domain.SortMode
}

// BoardService owns the current snapshot and computes board views from it.
type BoardService struct {
	snapshots  repository.SnapshotRepository
	prefs      repository.PreferenceRepository
	fetcher    source.Fetcher
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger

	current  atomic.Pointer[Snapshot]
	refresh  sync.Mutex
	inFlight sync.WaitGroup
}

// BoardDependencies bundles collaborators for the board service.
type BoardDependencies struct {
	SnapshotRepo   repository.SnapshotRepository
	PreferenceRepo repository.PreferenceRepository
	Fetcher        source.Fetcher
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewBoardService constructs the service with an empty snapshot.
func NewBoardService(deps BoardDependencies) *BoardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BoardService{
		snapshots:  deps.SnapshotRepo,
		prefs:      deps.PreferenceRepo,
		fetcher:    deps.Fetcher,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
	s.current.Store(&Snapshot{Origin: OriginEmpty})
	return s
}

// Start loads the cached snapshot. When either list is missing it starts a
// single background fetch and returns without waiting for it; use Wait to
// block until that fetch has finished.
func (s *BoardService) Start(ctx context.Context) {
	snap := s.Load(ctx)
	if snap.Complete() {
		s.logger.Info("board loaded from cache",
			zap.Int("tickets", len(snap.Tickets)), zap.Int("users", len(snap.Users)))
		return
	}

	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Done()
		// Failures are already logged and published by Refresh.
		_, _ = s.Refresh(ctx)
	}()
}

// Wait blocks until a fetch started by Start has completed.
func (s *BoardService) Wait() {
	s.inFlight.Wait()
}

// Load replaces the current snapshot with the cached one without fetching.
func (s *BoardService) Load(ctx context.Context) *Snapshot {
	snap := s.loadCached(ctx)
	s.current.Store(snap)
	return snap
}

func (s *BoardService) loadCached(ctx context.Context) *Snapshot {
	tickets, err := s.snapshots.LoadTickets(ctx)
	if err != nil {
		s.logger.Warn("cached tickets unavailable", zap.Error(err))
	}
	users, err := s.snapshots.LoadUsers(ctx)
	if err != nil {
		s.logger.Warn("cached users unavailable", zap.Error(err))
	}
	origin := OriginCache
	if len(tickets) == 0 && len(users) == 0 {
		origin = OriginEmpty
	}
	return &Snapshot{Tickets: tickets, Users: users, Origin: origin, LoadedAt: time.Now().UTC()}
}

// Refresh fetches the feed once and, on success, replaces the snapshot and
// writes it to the cache. On failure the current snapshot is kept.
func (s *BoardService) Refresh(ctx context.Context) (*Snapshot, error) {
	s.refresh.Lock()
	defer s.refresh.Unlock()

	start := time.Now()
	payload, err := s.fetcher.Fetch(ctx)
	s.metrics.RecordFetch(err == nil, time.Since(start))
	if err != nil {
		s.logger.Error("error fetching board data", zap.Error(err))
		s.publish(ctx, events.Event{
			Type:    events.EventFetchFailed,
			Payload: events.FetchFailedPayload{URL: s.sourceURL(), Error: err.Error()},
		})
		return s.Snapshot(), apperrors.NewUpstreamError(err)
	}

	snap := &Snapshot{
		Tickets:  payload.Tickets,
		Users:    payload.Users,
		Origin:   OriginFeed,
		LoadedAt: time.Now().UTC(),
	}
	s.current.Store(snap)

	if err := s.snapshots.Save(ctx, snap.Tickets, snap.Users); err != nil {
		s.logger.Warn("unable to cache board data", zap.Error(err))
	}
	s.logger.Info("board data fetched",
		zap.Int("tickets", len(snap.Tickets)),
		zap.Int("users", len(snap.Users)),
		zap.Duration("took", time.Since(start)))
	s.publish(ctx, events.Event{
		Type: events.EventSnapshotReplaced,
		Payload: events.SnapshotReplacedPayload{
			Origin:      snap.Origin,
			TicketCount: len(snap.Tickets),
			UserCount:   len(snap.Users),
		},
	})
	return snap, nil
}

// Snapshot returns the current snapshot.
func (s *BoardService) Snapshot() *Snapshot {
	return s.current.Load()
}

// Preferences returns the stored modes, or the defaults when they cannot be read.
func (s *BoardService) Preferences(ctx context.Context) repository.Preferences {
	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		s.logger.Warn("stored preferences unavailable", zap.Error(err))
		return repository.DefaultPreferences()
	}
	return prefs
}

// SetPreferences validates and stores the selected modes.
func (s *BoardService) SetPreferences(ctx context.Context, prefs repository.Preferences) (repository.Preferences, error) {
	groupBy, ok := domain.ParseGroupingMode(string(prefs.GroupBy))
	if !ok {
		return repository.Preferences{}, apperrors.NewValidationError("unsupported group_by", map[string]any{
			"group_by": prefs.GroupBy,
			"allowed":  domain.GroupingModes(),
		})
	}
	sortBy, ok := domain.ParseSortMode(string(prefs.SortBy))
	if !ok {
		return repository.Preferences{}, apperrors.NewValidationError("unsupported sort_by", map[string]any{
			"sort_by": prefs.SortBy,
			"allowed": domain.SortModes(),
		})
	}

	clean := repository.Preferences{GroupBy: groupBy, SortBy: sortBy}
	if err := s.prefs.Save(ctx, clean); err != nil {
		return repository.Preferences{}, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventPreferencesChanged,
		Payload: events.PreferencesChangedPayload{GroupBy: clean.GroupBy, SortBy: clean.SortBy},
	})
	return clean, nil
}

// Board groups and sorts the current snapshot. Modes absent from q come from
// the stored preferences.
func (s *BoardService) Board(ctx context.Context, q BoardQuery) domain.GroupedView {
	view, _ := s.compute(ctx, q)
	return view
}

// Columns is Board rendered as cards.
func (s *BoardService) Columns(ctx context.Context, q BoardQuery) (domain.GroupedView, []board.Column) {
	view, snap := s.compute(ctx, q)
	return view, board.Columns(view, snap.Users)
}

func (s *BoardService) compute(ctx context.Context, q BoardQuery) (domain.GroupedView, *Snapshot) {
	prefs := s.Preferences(ctx)
	if q.GroupBy != nil {
		prefs.GroupBy = *q.GroupBy
	}
	if q.SortBy != nil {
		prefs.SortBy = *q.SortBy
	}
	snap := s.Snapshot()
	return board.GroupAndSort(snap.Tickets, snap.Users, prefs.GroupBy, prefs.SortBy), snap
}

// Reset forgets the cached snapshot and preferences. It waits for a
// refresh in progress so that refresh cannot repopulate the cache.
func (s *BoardService) Reset(ctx context.Context) error {
	s.refresh.Lock()
	defer s.refresh.Unlock()

	if err := s.snapshots.Clear(ctx); err != nil {
		return err
	}
	if err := s.prefs.Clear(ctx); err != nil {
		return err
	}
	s.current.Store(&Snapshot{Origin: OriginEmpty})
	return nil
}

func (s *BoardService) sourceURL() string {
	if c, ok := s.fetcher.(interface{ URL() string }); ok {
		return c.URL()
	}
	return ""
}

func (s *BoardService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
