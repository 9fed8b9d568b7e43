package watchlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/vadimtrunov/CineScope/internal/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS watchlist_entries (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	media_type TEXT      NOT NULL,
	tmdb_id    INTEGER   NOT NULL,
	summary    TEXT      NOT NULL,
	added_at   TIMESTAMP NOT NULL,
	UNIQUE (media_type, tmdb_id)
)`

// row is one watchlist_entries record. The summary snapshot is stored as JSON.
type row struct {
	Summary string    `db:"summary"`
	AddedAt time.Time `db:"added_at"`
}

func (r row) entry() (Entry, error) {
	var s catalog.Summary
	if err := json.Unmarshal([]byte(r.Summary), &s); err != nil {
		return Entry{}, fmt.Errorf("decode summary: %w", err)
	}
	return Entry{Summary: s, AddedAt: r.AddedAt}, nil
}

// SQLStore keeps the watchlist in a SQLite database.
type SQLStore struct {
	db     *sqlx.DB
	now    func() time.Time
	logger *slog.Logger
}

// OpenSQL opens or creates the SQLite database at path.
func OpenSQL(ctx context.Context, path string, logger *slog.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil, errors.New("open watchlist database: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create watchlist dir: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", "file:"+path+"?_fk=1&mode=rwc&_mutex=full&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open watchlist database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create watchlist schema: %w", err)
	}
	logger.Debug("watchlist database ready", slog.String("path", path))
	return &SQLStore{db: db, now: time.Now, logger: logger}, nil
}

// Get returns the entry for key, or ErrNotFound.
func (s *SQLStore) Get(ctx context.Context, key catalog.Key) (Entry, error) {
	var r row
	err := s.db.GetContext(ctx, &r,
		`SELECT summary, added_at FROM watchlist_entries WHERE media_type = ? AND tmdb_id = ?`,
		string(key.Type), key.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get %s: %w", key, err)
	}
	return r.entry()
}

// Add inserts sum and reports whether it was new. An existing row keeps its
// added_at.
func (s *SQLStore) Add(ctx context.Context, sum catalog.Summary) (bool, error) {
	data, err := json.Marshal(sum)
	if err != nil {
		return false, fmt.Errorf("encode summary: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO watchlist_entries (media_type, tmdb_id, summary, added_at) VALUES (?, ?, ?, ?)`,
		string(sum.MediaType), sum.ID, string(data), s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("add %s: %w", sum.Key(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add %s: %w", sum.Key(), err)
	}
	return n > 0, nil
}

// Remove deletes key and reports whether a row was removed.
func (s *SQLStore) Remove(ctx context.Context, key catalog.Key) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist_entries WHERE media_type = ? AND tmdb_id = ?`,
		string(key.Type), key.ID)
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", key, err)
	}
	return n > 0, nil
}

// Contains reports whether key is saved.
func (s *SQLStore) Contains(ctx context.Context, key catalog.Key) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM watchlist_entries WHERE media_type = ? AND tmdb_id = ?`,
		string(key.Type), key.ID)
	if err != nil {
		return false, fmt.Errorf("contains %s: %w", key, err)
	}
	return n > 0, nil
}

// List returns the entries, oldest first. Rows whose snapshot no longer
// decodes are skipped.
func (s *SQLStore) List(ctx context.Context) ([]Entry, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT summary, added_at FROM watchlist_entries ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e, err := r.entry()
		if err != nil {
			s.logger.Warn("skipping unreadable watchlist row", slog.String("error", err.Error()))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Clear deletes every row.
func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM watchlist_entries`); err != nil {
		return fmt.Errorf("clear watchlist: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
