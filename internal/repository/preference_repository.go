package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/kanban-board/internal/cache"
	"github.com/spec-kit/kanban-board/internal/domain"
)

// Cache keys for the selected board modes.
const (
	KeyGrouping = "kanban-grouping"
	KeySortBy   = "kanban-sortBy"
)

// Preferences are the board modes last chosen by the viewer.
type Preferences struct {
	GroupBy domain.GroupingMode
	SortBy  domain.SortMode
}

// DefaultPreferences is what a fresh board starts with.
func DefaultPreferences() Preferences {
	return Preferences{GroupBy: domain.DefaultGroupingMode, SortBy: domain.DefaultSortMode}
}

// PreferenceRepository persists the selected grouping and sort modes.
type PreferenceRepository interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, prefs Preferences) error
	Clear(ctx context.Context) error
}

type preferenceRepository struct {
	store cache.Store
}

// NewPreferenceRepository returns a repository over store.
func NewPreferenceRepository(store cache.Store) PreferenceRepository {
	return &preferenceRepository{store: store}
}

// Load returns the stored modes. Absent entries take their defaults; a stored
// grouping outside the known set also reads back as the default.
func (r *preferenceRepository) Load(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()

	grouping, ok, err := r.store.Get(ctx, KeyGrouping)
	if err != nil {
		return prefs, fmt.Errorf("load %s: %w", KeyGrouping, err)
	}
	if ok && grouping != "" {
		prefs.GroupBy, _ = domain.ParseGroupingMode(grouping)
	}

	sortBy, ok, err := r.store.Get(ctx, KeySortBy)
	if err != nil {
		return prefs, fmt.Errorf("load %s: %w", KeySortBy, err)
	}
	if ok && sortBy != "" {
		prefs.SortBy, _ = domain.ParseSortMode(sortBy)
	}
	return prefs, nil
}

func (r *preferenceRepository) Save(ctx context.Context, prefs Preferences) error {
	if err := r.store.Set(ctx, KeyGrouping, string(prefs.GroupBy)); err != nil {
		return fmt.Errorf("save %s: %w", KeyGrouping, err)
	}
	if err := r.store.Set(ctx, KeySortBy, string(prefs.SortBy)); err != nil {
		return fmt.Errorf("save %s: %w", KeySortBy, err)
	}
	return nil
}

func (r *preferenceRepository) Clear(ctx context.Context) error {
	for _, key := range []string{KeyGrouping, KeySortBy} {
		if err := r.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}
