package core

import (
	"context"
	"time"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/watchlist"
)

// Catalog defines the read surface frontends query (CLI, MCP, Telegram)
type Catalog interface {
	// List returns a curated list page (popular, top rated, trending, ...)
	List(ctx context.Context, mt catalog.MediaType, kind catalog.ListKind, page int) (*catalog.ListPage, error)

	// Search runs a free-text title search
	Search(ctx context.Context, mt catalog.MediaType, query string, page int) (*catalog.ListPage, error)

	// Discover queries with sort order and filters applied by the provider
	Discover(ctx context.Context, mt catalog.MediaType, q catalog.DiscoverQuery) (*catalog.ListPage, error)

	// Genres returns the provider's genre list for a media type
	Genres(ctx context.Context, mt catalog.MediaType) ([]catalog.Genre, error)

	// Details returns the full detail view for a title
	Details(ctx context.Context, k catalog.Key) (*catalog.Detail, error)

	// Similar returns titles similar to a movie
	Similar(ctx context.Context, id, page int) (*catalog.ListPage, error)

	// Featured resolves the hero rotation; failed keys become placeholders
	Featured(ctx context.Context, keys []catalog.Key) ([]catalog.Detail, error)

	// News builds the news feed from the given titles
	News(ctx context.Context, keys []catalog.Key, now time.Time) ([]catalog.Article, error)
}

// Watchlist defines the saved-titles surface frontends mutate
type Watchlist interface {
	// Add saves a title; false means it was already saved
	Add(ctx context.Context, s catalog.Summary) (bool, error)

	// Remove deletes a title; false means it was not saved
	Remove(ctx context.Context, key catalog.Key) (bool, error)

	// Contains reports whether a title is saved
	Contains(ctx context.Context, key catalog.Key) (bool, error)

	// List returns saved titles in insertion order
	List(ctx context.Context) ([]watchlist.Entry, error)
}

// Frontend defines the interface for long-running user-facing frontends (Telegram, MCP)
type Frontend interface {
	// Start runs the frontend until ctx is canceled
	Start(ctx context.Context) error

	// Stop stops the frontend
	Stop(ctx context.Context) error

	// Name returns the frontend name (e.g., "telegram", "mcp")
	Name() string
}

// compile-time checks.
var (
	_ Catalog   = (*catalog.Service)(nil)
	_ Watchlist = (watchlist.Store)(nil)
)
