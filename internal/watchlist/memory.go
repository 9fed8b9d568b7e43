package watchlist

import (
	"context"
	"sync"
	"time"

	"github.com/vadimtrunov/CineScope/internal/catalog"
)

// MemoryStore keeps entries in process memory only.
type MemoryStore struct {
	mu  sync.RWMutex
	set entrySet
	now func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Get returns the entry for key, or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, key catalog.Key) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.get(key)
}

// Add saves s and reports whether it was new.
func (m *MemoryStore) Add(_ context.Context, s catalog.Summary) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, added := m.set.with(s, m.now())
	m.set.entries = next
	return added, nil
}

// Remove deletes key and reports whether it was present.
func (m *MemoryStore) Remove(_ context.Context, key catalog.Key) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, removed := m.set.without(key)
	m.set.entries = next
	return removed, nil
}

// Contains reports whether key is saved.
func (m *MemoryStore) Contains(_ context.Context, key catalog.Key) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.index(key) >= 0, nil
}

// List returns the entries, oldest first.
func (m *MemoryStore) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.list(), nil
}

// Clear drops every entry.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.entries = nil
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
