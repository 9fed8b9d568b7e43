// Package watchlist persists the user's saved titles.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/vadimtrunov/CineScope/internal/catalog"
)

// ErrNotFound is returned by Get for a key that is not saved.
var ErrNotFound = errors.New("watchlist entry not found")

// Entry is a saved summary snapshot.
type Entry struct {
	Summary catalog.Summary `json:"summary"`
	AddedAt time.Time       `json:"added_at"`
}

// Key returns the entry's catalog key.
func (e Entry) Key() catalog.Key {
	return e.Summary.Key()
}

// Store is a set of entries keyed by catalog key, listed in insertion order.
type Store interface {
	// Get returns the entry for key or ErrNotFound.
	Get(ctx context.Context, key catalog.Key) (Entry, error)

	// Add saves s unless its key is already present, reporting whether it
	// was inserted.
	Add(ctx context.Context, s catalog.Summary) (bool, error)

	// Remove deletes key if present, reporting whether it was removed.
	Remove(ctx context.Context, key catalog.Key) (bool, error)

	// Contains reports whether key is saved.
	Contains(ctx context.Context, key catalog.Key) (bool, error)

	// List returns all entries, oldest first.
	List(ctx context.Context) ([]Entry, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	Close() error
}

// Drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Open creates the store selected by driver. path is ignored for memory.
func Open(ctx context.Context, driver, path string, logger *slog.Logger) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverJSON, "":
		return OpenFile(path, logger)
	case DriverSQLite:
		return OpenSQL(ctx, path, logger)
	}
	return nil, fmt.Errorf("unknown watchlist driver %q", driver)
}

// entrySet is the ordered set shared by the in-process stores. It is not
// safe for concurrent use.
type entrySet struct {
	entries []Entry
}

func (s *entrySet) index(key catalog.Key) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.Key() == key })
}

func (s *entrySet) get(key catalog.Key) (Entry, error) {
	i := s.index(key)
	if i < 0 {
		return Entry{}, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	return s.entries[i], nil
}

// with returns a copy of the set with s appended, or false when present.
func (s *entrySet) with(sum catalog.Summary, now time.Time) ([]Entry, bool) {
	if s.index(sum.Key()) >= 0 {
		return s.entries, false
	}
	next := slices.Clone(s.entries)
	return append(next, Entry{Summary: sum, AddedAt: now}), true
}

// without returns a copy of the set without key, or false when absent.
func (s *entrySet) without(key catalog.Key) ([]Entry, bool) {
	i := s.index(key)
	if i < 0 {
		return s.entries, false
	}
	next := slices.Clone(s.entries)
	return slices.Delete(next, i, i+1), true
}

func (s *entrySet) list() []Entry {
	return slices.Clone(s.entries)
}
