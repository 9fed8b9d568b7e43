package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vadimtrunov/CineScope/internal/catalog"
)

// FileStore keeps the watchlist as one JSON array on disk. The file is read
// once at open and rewritten in full after every mutation.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	set    entrySet
	now    func() time.Time
	logger *slog.Logger
}

// OpenFile loads the store at path. A missing file is an empty watchlist; an
// unreadable or corrupt one is logged and treated as empty.
func OpenFile(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil, errors.New("open watchlist: empty path")
	}
	f := &FileStore{path: path, now: time.Now, logger: logger}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read watchlist %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("corrupt watchlist file, starting empty",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return f, nil
	}
	// Drop duplicate keys a hand-edited file may carry, keeping the first.
	for _, e := range entries {
		if next, added := f.set.with(e.Summary, e.AddedAt); added {
			f.set.entries = next
		}
	}
	return f, nil
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

// Get returns the entry for key, or ErrNotFound.
func (f *FileStore) Get(_ context.Context, key catalog.Key) (Entry, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.set.get(key)
}

// Add saves s and reports whether it was new. Re-adding keeps the original
// AddedAt.
func (f *FileStore) Add(_ context.Context, s catalog.Summary) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	next, added := f.set.with(s, f.now())
	if !added {
		return false, nil
	}
	if err := f.commit(next); err != nil {
		return false, fmt.Errorf("add %s: %w", s.Key(), err)
	}
	return true, nil
}

// Remove deletes key and reports whether it was present.
func (f *FileStore) Remove(_ context.Context, key catalog.Key) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	next, removed := f.set.without(key)
	if !removed {
		return false, nil
	}
	if err := f.commit(next); err != nil {
		return false, fmt.Errorf("remove %s: %w", key, err)
	}
	return true, nil
}

// Contains reports whether key is saved.
func (f *FileStore) Contains(_ context.Context, key catalog.Key) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.set.index(key) >= 0, nil
}

// List returns the entries, oldest first.
func (f *FileStore) List(_ context.Context) ([]Entry, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.set.list(), nil
}

// Clear empties the watchlist and rewrites the file.
func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.commit([]Entry{}); err != nil {
		return fmt.Errorf("clear watchlist: %w", err)
	}
	return nil
}

// Close is a no-op; every mutation is already on disk.
func (f *FileStore) Close() error { return nil }

// commit writes entries and only then makes them the in-memory state, so a
// failed write leaves both unchanged.
func (f *FileStore) commit(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}
	if err := writeAtomic(f.path, data); err != nil {
		return err
	}
	f.set.entries = entries
	return nil
}

// writeAtomic replaces path via a temp file in the same directory.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create watchlist dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".watchlist-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace watchlist: %w", err)
	}
	return nil
}
