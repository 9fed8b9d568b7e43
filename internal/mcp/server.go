package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/core"
	"github.com/vadimtrunov/CineScope/internal/explore"
)

// Deps holds the dependencies for MCP tool handlers.
type Deps struct {
	Catalog   core.Catalog
	Watchlist core.Watchlist

	// Featured and News default to the built-in key lists when empty.
	Featured []catalog.Key
	News     []catalog.Key

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server wraps an MCP SDK server with CineScope tool handlers.
type Server struct {
	server *mcpsdk.Server
	deps   Deps
	logger *slog.Logger
}

// compile-time check.
var _ core.Frontend = (*Server)(nil)

// NewServer creates an MCP server with all CineScope tools registered.
func NewServer(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if len(deps.Featured) == 0 {
		deps.Featured = catalog.DefaultFeatured
	}
	if len(deps.News) == 0 {
		deps.News = catalog.DefaultNews
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "cinescope",
			Version: "0.1.0",
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, deps: deps, logger: logger}
	srv.registerTools()
	return srv
}

// Name returns the frontend name.
func (s *Server) Name() string { return "mcp" }

// Start serves over stdin/stdout until ctx is canceled or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	return s.ServeStdio(ctx)
}

// Stop is a no-op; Start returns when ctx is canceled.
func (s *Server) Stop(_ context.Context) error {
	return nil
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(searchTool(), s.handleSearch)
	s.server.AddTool(listTitlesTool(), s.handleListTitles)
	s.server.AddTool(discoverTool(), s.handleDiscover)
	s.server.AddTool(getDetailsTool(), s.handleGetDetails)
	s.server.AddTool(similarTool(), s.handleSimilar)
	s.server.AddTool(listGenresTool(), s.handleListGenres)
	s.server.AddTool(featuredTool(), s.handleFeatured)
	s.server.AddTool(newsTool(), s.handleNews)
	s.server.AddTool(watchlistListTool(), s.handleWatchlistList)
	s.server.AddTool(watchlistAddTool(), s.handleWatchlistAdd)
	s.server.AddTool(watchlistRemoveTool(), s.handleWatchlistRemove)
}

// Tool definitions.

var mediaTypeProp = map[string]any{
	"type":        "string",
	"enum":        []any{"movie", "tv"},
	"description": "movie or tv (default movie)",
}

var pageProp = map[string]any{
	"type":        "integer",
	"description": "Result page, starting at 1",
}

var keyProp = map[string]any{
	"type":        "string",
	"description": `Catalog key such as "movie:550" or "tv:1396". A bare id means a movie.`,
}

func searchTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "search",
		Description: "Search movies or TV series by title. Returns matching titles with their catalog keys, years and ratings.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The title to search for",
				},
				"media_type": mediaTypeProp,
				"page":       pageProp,
			},
			"required": []any{"query"},
		},
	}
}

func listTitlesTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_titles",
		Description: "List a curated catalog page: popular, top_rated, trending, now_playing and upcoming (movies), on_the_air (tv).",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"list": map[string]any{
					"type":        "string",
					"enum":        []any{"popular", "top_rated", "trending", "now_playing", "upcoming", "on_the_air"},
					"description": "Which curated list to return",
				},
				"media_type": mediaTypeProp,
				"page":       pageProp,
			},
			"required": []any{"list"},
		},
	}
}

func discoverTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "discover",
		Description: "Browse titles with a sort order and filters on genre, release year range and rating range.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"media_type": mediaTypeProp,
				"sort": map[string]any{
					"type":        "string",
					"description": "popularity, rating, newest, oldest or revenue (movies only)",
				},
				"genre_ids": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "integer"},
					"description": "Genre ids; a title must match all of them",
				},
				"year_from":   map[string]any{"type": "integer"},
				"year_to":     map[string]any{"type": "integer"},
				"rating_from": map[string]any{"type": "number"},
				"rating_to":   map[string]any{"type": "number"},
				"page":        pageProp,
			},
		},
	}
}

func getDetailsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_details",
		Description: "Get the full detail view of a title: runtime, genres, cast, director, trailer, similar titles and IMDb data when available.",
		InputSchema: keySchema(),
	}
}

func similarTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "similar",
		Description: "Get movies similar to a given movie. Falls back to recommendations when TMDb has no similar titles.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tmdb_id": map[string]any{
					"type":        "integer",
					"description": "The TMDb ID of the movie",
				},
				"page": pageProp,
			},
			"required": []any{"tmdb_id"},
		},
	}
}

func listGenresTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_genres",
		Description: "List genre ids and names for movies or TV.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"media_type": mediaTypeProp,
			},
		},
	}
}

func featuredTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "featured",
		Description: "Get the featured titles shown in the hero rotation.",
		InputSchema: emptySchema(),
	}
}

func newsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "news",
		Description: "Get the latest movie news cards.",
		InputSchema: emptySchema(),
	}
}

func watchlistListTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "watchlist_list",
		Description: "List the saved watchlist in the order titles were added.",
		InputSchema: emptySchema(),
	}
}

func watchlistAddTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "watchlist_add",
		Description: "Save a title to the watchlist. Adding a title twice is a no-op.",
		InputSchema: keySchema(),
	}
}

func watchlistRemoveTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "watchlist_remove",
		Description: "Remove a title from the watchlist.",
		InputSchema: keySchema(),
	}
}

func keySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key": keyProp,
		},
		"required": []any{"key"},
	}
}

func emptySchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// Tool handlers. Each parses arguments, calls the catalog or watchlist and
// returns JSON text content. Failures are reported as error results.

func (s *Server) handleSearch(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("catalog not configured"), nil
	}

	var args struct {
		Query     string `json:"query"`
		MediaType string `json:"media_type"`
		Page      int    `json:"page"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Query == "" {
		return toolError("search requires a 'query' string argument"), nil
	}
	mt, err := catalog.ParseMediaType(args.MediaType)
	if err != nil {
		return toolError(err.Error()), nil
	}

	page, err := s.deps.Catalog.Search(ctx, mt, args.Query, args.Page)
	if err != nil {
		return s.failed("search", err), nil
	}
	return toolJSON(page)
}

func (s *Server) handleListTitles(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("catalog not configured"), nil
	}

	var args struct {
		List      string `json:"list"`
		MediaType string `json:"media_type"`
		Page      int    `json:"page"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	kind, err := catalog.ParseListKind(args.List)
	if err != nil {
		return toolError(err.Error()), nil
	}
	mt, err := catalog.ParseMediaType(args.MediaType)
	if err != nil {
		return toolError(err.Error()), nil
	}

	page, err := s.deps.Catalog.List(ctx, mt, kind, args.Page)
	if err != nil {
		return s.failed("list", err), nil
	}
	return toolJSON(page)
}

func (s *Server) handleDiscover(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("catalog not configured"), nil
	}

	var args struct {
		MediaType  string   `json:"media_type"`
		Sort       string   `json:"sort"`
		GenreIDs   []int    `json:"genre_ids"`
		YearFrom   *int     `json:"year_from"`
		YearTo     *int     `json:"year_to"`
		RatingFrom *float64 `json:"rating_from"`
		RatingTo   *float64 `json:"rating_to"`
		Page       int      `json:"page"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	mt, err := catalog.ParseMediaType(args.MediaType)
	if err != nil {
		return toolError(err.Error()), nil
	}
	sortBy, err := explore.ParseSort(args.Sort)
	if err != nil {
		return toolError(err.Error()), nil
	}
	if !sortBy.SupportedBy(mt) {
		return toolError(fmt.Sprintf("sort %q is not available for %s", args.Sort, mt)), nil
	}

	f := catalog.DefaultFilters(s.deps.Now())
	f.GenreIDs = args.GenreIDs
	if args.YearFrom != nil {
		f.YearFrom = *args.YearFrom
	}
	if args.YearTo != nil {
		f.YearTo = *args.YearTo
	}
	if args.RatingFrom != nil {
		f.RatingFrom = *args.RatingFrom
	}
	if args.RatingTo != nil {
		f.RatingTo = *args.RatingTo
	}

	page, err := s.deps.Catalog.Discover(ctx, mt, catalog.DiscoverQuery{Sort: string(sortBy), Filters: f, Page: args.Page})
	if err != nil {
		return s.failed("discover", err), nil
	}
	return toolJSON(page)
}

func (s *Server) handleGetDetails(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("catalog not configured"), nil
	}

	key, err := extractKeyFromArgs(req.Params.Arguments)
	if err != nil {
		return toolError(err.Error()), nil
	}

	d, err := s.deps.Catalog.Details(ctx, key)
	if err != nil {
		return s.failed("details", err), nil
	}
	return toolJSON(d)
}

func (s *Server) handleSimilar(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("catalog not configured"), nil
	}

	tmdbID, err := extractIntFromArgs(req.Params.Arguments, "tmdb_id")
	if err != nil {
		return toolError(err.Error()), nil
	}
	page, _ := extractIntFromArgs(req.Params.Arguments, "page")

	similar, err := s.deps.Catalog.Similar(ctx, tmdbID, page)
	if err != nil {
		return s.failed("similar", err), nil
	}
	return toolJSON(similar)
}

func (s *Server) handleListGenres(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("catalog not configured"), nil
	}

	var args struct {
		MediaType string `json:"media_type"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	mt, err := catalog.ParseMediaType(args.MediaType)
	if err != nil {
		return toolError(err.Error()), nil
	}

	genres, err := s.deps.Catalog.Genres(ctx, mt)
	if err != nil {
		return s.failed("genres", err), nil
	}
	return toolJSON(genres)
}

func (s *Server) handleFeatured(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolError("catalog not configured"), nil
	}

	featured, err := s.deps.Catalog.Featured(ctx, s.deps.Featured)
	if err != nil {
		return s.failed("featured", err), nil
	}
	return toolJSON(featured)
}

func (s *Server) handleNews(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Catalog == nil {
		return toolJSON(catalog.FallbackNews())
	}

	articles, err := s.deps.Catalog.News(ctx, s.deps.News, s.deps.Now())
	if err != nil {
		return s.failed("news", err), nil
	}
	if len(articles) == 0 {
		articles = catalog.FallbackNews()
	}
	return toolJSON(articles)
}

func (s *Server) handleWatchlistList(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Watchlist == nil {
		return toolError("watchlist not configured"), nil
	}

	entries, err := s.deps.Watchlist.List(ctx)
	if err != nil {
		return s.failed("watchlist list", err), nil
	}
	return toolJSON(entries)
}

// handleWatchlistAdd resolves the title through the catalog first so the
// saved entry carries a full summary.
func (s *Server) handleWatchlistAdd(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Watchlist == nil || s.deps.Catalog == nil {
		return toolError("watchlist not configured"), nil
	}

	key, err := extractKeyFromArgs(req.Params.Arguments)
	if err != nil {
		return toolError(err.Error()), nil
	}

	d, err := s.deps.Catalog.Details(ctx, key)
	if err != nil {
		return s.failed("details", err), nil
	}
	added, err := s.deps.Watchlist.Add(ctx, d.Summary)
	if err != nil {
		return s.failed("watchlist add", err), nil
	}

	return toolJSON(map[string]any{
		"key":   key.String(),
		"title": d.Title,
		"added": added,
	})
}

func (s *Server) handleWatchlistRemove(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Watchlist == nil {
		return toolError("watchlist not configured"), nil
	}

	key, err := extractKeyFromArgs(req.Params.Arguments)
	if err != nil {
		return toolError(err.Error()), nil
	}

	removed, err := s.deps.Watchlist.Remove(ctx, key)
	if err != nil {
		return s.failed("watchlist remove", err), nil
	}

	return toolJSON(map[string]any{
		"key":     key.String(),
		"removed": removed,
	})
}

// Helper functions.

// failed logs err and converts it to an error result. Unavailable providers
// get a short message; the wrapped cause stays in the log.
func (s *Server) failed(op string, err error) *mcpsdk.CallToolResult {
	s.logger.Warn("tool failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	if errors.Is(err, catalog.ErrUnavailable) {
		return toolError(fmt.Sprintf("%s failed: %v", op, catalog.ErrUnavailable))
	}
	return toolError(fmt.Sprintf("%s failed: %v", op, err))
}

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// extractKeyFromArgs parses the "key" argument into a catalog key.
func extractKeyFromArgs(raw json.RawMessage) (catalog.Key, error) {
	s, err := extractStringFromArgs(raw, "key")
	if err != nil {
		return catalog.Key{}, err
	}
	return catalog.ParseKey(s)
}

// extractIntFromArgs extracts an integer argument from raw JSON arguments.
func extractIntFromArgs(raw json.RawMessage, key string) (int, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return 0, fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}

	switch v := val.(type) {
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, val)
	}
}

// extractStringFromArgs extracts a string argument from raw JSON arguments.
func extractStringFromArgs(raw json.RawMessage, key string) (string, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}

	s, ok := val.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return s, nil
}
