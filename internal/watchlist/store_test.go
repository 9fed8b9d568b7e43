package watchlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vadimtrunov/CineScope/internal/catalog"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	inception = catalog.Summary{ID: 27205, MediaType: catalog.Movie, Title: "Inception", Year: "2010", Rating: "8.4"}
	matrix    = catalog.Summary{ID: 603, MediaType: catalog.Movie, Title: "The Matrix", Year: "1999", Rating: "8.2"}
	// Same numeric id as a movie, different media type.
	show = catalog.Summary{ID: 603, MediaType: catalog.TV, Title: "Some Show", Rating: "N/A"}
)

type factory struct {
	name string
	open func(t *testing.T) Store
}

func factories() []factory {
	return []factory{
		{"memory", func(*testing.T) Store { return NewMemoryStore() }},
		{"json", func(t *testing.T) Store {
			s, err := OpenFile(filepath.Join(t.TempDir(), "watchlist.json"), discardLogger)
			if err != nil {
				t.Fatalf("open file store: %v", err)
			}
			return s
		}},
		{"sqlite", func(t *testing.T) Store {
			s, err := OpenSQL(context.Background(), filepath.Join(t.TempDir(), "watchlist.db"), discardLogger)
			if err != nil {
				t.Fatalf("open sql store: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		}},
	}
}

func keys(t *testing.T, s Store) []catalog.Key {
	t.Helper()
	entries, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	out := make([]catalog.Key, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key())
	}
	return out
}

func equalKeys(a, b []catalog.Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStore_AddIsIdempotent(t *testing.T) {
	t.Parallel()
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := f.open(t)

			added, err := s.Add(ctx, inception)
			if err != nil || !added {
				t.Fatalf("first add: added=%v err=%v", added, err)
			}
			added, err = s.Add(ctx, inception)
			if err != nil || added {
				t.Fatalf("second add: added=%v err=%v", added, err)
			}
			if got := keys(t, s); len(got) != 1 {
				t.Errorf("expected 1 entry, got %v", got)
			}
		})
	}
}

func TestStore_ReAddKeepsPositionAndAddedAt(t *testing.T) {
	t.Parallel()
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := f.open(t)
			for _, sum := range []catalog.Summary{inception, matrix, show} {
				if _, err := s.Add(ctx, sum); err != nil {
					t.Fatalf("add %s: %v", sum.Key(), err)
				}
			}
			first, err := s.Get(ctx, inception.Key())
			if err != nil {
				t.Fatalf("get: %v", err)
			}

			s.Add(ctx, inception)
			want := []catalog.Key{inception.Key(), matrix.Key(), show.Key()}
			if got := keys(t, s); !equalKeys(got, want) {
				t.Errorf("expected oldest first %v, got %v", want, got)
			}
			again, err := s.Get(ctx, inception.Key())
			if err != nil {
				t.Fatalf("get after re-add: %v", err)
			}
			if !again.AddedAt.Equal(first.AddedAt) {
				t.Errorf("AddedAt moved from %v to %v", first.AddedAt, again.AddedAt)
			}
		})
	}
}

func TestStore_AddRemoveRoundTrip(t *testing.T) {
	t.Parallel()
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := f.open(t)
			s.Add(ctx, inception)
			s.Add(ctx, show)
			before := keys(t, s)

			if _, err := s.Add(ctx, matrix); err != nil {
				t.Fatalf("add: %v", err)
			}
			removed, err := s.Remove(ctx, matrix.Key())
			if err != nil || !removed {
				t.Fatalf("remove: removed=%v err=%v", removed, err)
			}
			if after := keys(t, s); !equalKeys(before, after) {
				t.Errorf("round trip changed contents: before %v, after %v", before, after)
			}

			removed, err = s.Remove(ctx, matrix.Key())
			if err != nil || removed {
				t.Errorf("removing an absent key: removed=%v err=%v", removed, err)
			}
		})
	}
}

func TestStore_KeysAreMediaTypeQualified(t *testing.T) {
	t.Parallel()
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := f.open(t)
			s.Add(ctx, matrix)
			s.Add(ctx, show)

			want := []catalog.Key{{Type: catalog.Movie, ID: 603}, {Type: catalog.TV, ID: 603}}
			if got := keys(t, s); !equalKeys(got, want) {
				t.Errorf("expected %v in insertion order, got %v", want, got)
			}

			ok, err := s.Contains(ctx, show.Key())
			if err != nil || !ok {
				t.Errorf("contains tv:603: ok=%v err=%v", ok, err)
			}
			ok, _ = s.Contains(ctx, inception.Key())
			if ok {
				t.Error("contains reported an absent key")
			}
		})
	}
}

func TestStore_GetAndClear(t *testing.T) {
	t.Parallel()
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := f.open(t)

			if _, err := s.Get(ctx, inception.Key()); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			s.Add(ctx, inception)
			e, err := s.Get(ctx, inception.Key())
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if e.Summary.Title != "Inception" || e.Summary.Year != "2010" || e.AddedAt.IsZero() {
				t.Errorf("unexpected entry %+v", e)
			}

			s.Add(ctx, matrix)
			if err := s.Clear(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if got := keys(t, s); len(got) != 0 {
				t.Errorf("expected empty list after clear, got %v", got)
			}
		})
	}
}

func TestFileStore_RehydratesOnOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "watchlist.json")

	s, err := OpenFile(path, discardLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Add(ctx, inception)
	s.Add(ctx, matrix)
	s.Remove(ctx, inception.Key())
	s.Add(ctx, show)

	reopened, err := OpenFile(path, discardLogger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	want := []catalog.Key{matrix.Key(), show.Key()}
	if got := keys(t, reopened); !equalKeys(got, want) {
		t.Errorf("expected %v after reopen, got %v", want, got)
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".watchlist-*"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestFileStore_CorruptFileIsEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "watchlist.json")
	if err := os.WriteFile(path, []byte(`[{"summary": {"id": 1,`), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := OpenFile(path, discardLogger)
	if err != nil {
		t.Fatalf("corrupt file should not fail open: %v", err)
	}
	if got := keys(t, s); len(got) != 0 {
		t.Errorf("expected empty store, got %v", got)
	}

	if _, err := s.Add(context.Background(), inception); err != nil {
		t.Fatalf("add: %v", err)
	}
	data, _ := os.ReadFile(path)
	if len(data) == 0 || data[0] != '[' {
		t.Errorf("expected file rewritten as JSON array, got %q", data)
	}
}

func TestFileStore_DropsDuplicateKeysOnLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "watchlist.json")
	content := `[
		{"summary": {"id": 603, "media_type": "movie", "title": "First"}, "added_at": "2026-01-01T00:00:00Z"},
		{"summary": {"id": 603, "media_type": "movie", "title": "Second"}, "added_at": "2026-01-02T00:00:00Z"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := OpenFile(path, discardLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	entries, _ := s.List(context.Background())
	if len(entries) != 1 || entries[0].Summary.Title != "First" {
		t.Errorf("expected first entry kept, got %+v", entries)
	}
}

func TestSQLStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "watchlist.db")

	s, err := OpenSQL(ctx, path, discardLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Add(ctx, show)
	s.Add(ctx, inception)
	s.Close()

	reopened, err := OpenSQL(ctx, path, discardLogger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	want := []catalog.Key{show.Key(), inception.Key()}
	if got := keys(t, reopened); !equalKeys(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{DriverMemory, DriverJSON, DriverSQLite} {
		s, err := Open(ctx, driver, filepath.Join(dir, driver+".store"), discardLogger)
		if err != nil {
			t.Fatalf("%s: %v", driver, err)
		}
		if _, err := s.Add(ctx, inception); err != nil {
			t.Errorf("%s add: %v", driver, err)
		}
		s.Close()
	}
	if _, err := Open(ctx, "postgres", "", discardLogger); err == nil {
		t.Error("expected error for unknown driver")
	}
}
