package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/vadimtrunov/CineScope/internal/httpclient"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultLanguage = "en-US"
	defaultCacheTTL = 15 * time.Minute
	imageBaseURL    = "https://image.tmdb.org/t/p/"
	maxBodySize     = 8 << 20

	detailAppend   = "videos,credits,similar,recommendations"
	tvDetailAppend = "videos,credits,similar,recommendations,external_ids"
)

// Config configures a Client. Either APIKey or AccessToken must be set;
// the bearer AccessToken wins when both are present.
type Config struct {
	APIKey      string
	AccessToken string
	BaseURL     string
	Language    string
	Region      string
	CacheTTL    time.Duration
	HTTP        httpclient.Config
}

// Client is a TMDb API v3 client.
type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	language    string
	region      string
	http        *httpclient.Client
	cache       *cache
	logger      *slog.Logger
}

// New creates a new TMDb client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.HTTP.MaxRetries == 0 && cfg.HTTP.Timeout == 0 {
		cfg.HTTP = httpclient.DefaultConfig()
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		accessToken: cfg.AccessToken,
		language:    cfg.Language,
		region:      cfg.Region,
		http:        httpclient.New(cfg.HTTP, logger),
		cache:       newCache(cfg.CacheTTL),
		logger:      logger,
	}
}

// NewForTest creates a TMDb client with a custom base URL, no retries and a
// short cache, for tests in other packages.
func NewForTest(baseURL string, logger *slog.Logger) *Client {
	return New(Config{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		CacheTTL: defaultCacheTTL,
		HTTP: httpclient.Config{
			MaxRetries: 1,
			BaseDelay:  time.Millisecond,
			MaxDelay:   time.Millisecond,
			Timeout:    5 * time.Second,
		},
	}, logger)
}

// PopularMovies returns a page of currently popular movies.
func (c *Client) PopularMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return fetchPage[Movie](ctx, c, "/movie/popular", c.regional(pageValues(page)))
}

// TopRatedMovies returns a page of the highest rated movies.
func (c *Client) TopRatedMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return fetchPage[Movie](ctx, c, "/movie/top_rated", c.regional(pageValues(page)))
}

// NowPlayingMovies returns a page of movies currently in theaters.
func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return fetchPage[Movie](ctx, c, "/movie/now_playing", c.regional(pageValues(page)))
}

// UpcomingMovies returns a page of movies about to be released.
func (c *Client) UpcomingMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return fetchPage[Movie](ctx, c, "/movie/upcoming", c.regional(pageValues(page)))
}

// TrendingMovies returns the trending movies for the given window.
func (c *Client) TrendingMovies(ctx context.Context, window TimeWindow, page int) (*Page[Movie], error) {
	return fetchPage[Movie](ctx, c, "/trending/movie/"+string(normalizeWindow(window)), pageValues(page))
}

// SearchMovies searches for movies by title.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page[Movie], error) {
	params := pageValues(page)
	params.Set("query", query)
	params.Set("include_adult", "false")
	return fetchPage[Movie](ctx, c, "/search/movie", params)
}

// DiscoverMovies lists movies matching the given filters.
func (c *Client) DiscoverMovies(ctx context.Context, p DiscoverParams) (*Page[Movie], error) {
	return fetchPage[Movie](ctx, c, "/discover/movie", p.values("primary_release_date"))
}

// MovieGenres returns the provider's movie genre list.
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	var resp genreList
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, fmt.Errorf("movie genres: %w", err)
	}
	return resp.Genres, nil
}

// GetMovie retrieves full details for a movie by TMDb ID, including videos,
// credits, similar titles and recommendations.
func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetails, error) {
	var details MovieDetails
	params := url.Values{"append_to_response": {detailAppend}}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return &details, nil
}

// MovieVideos returns the videos attached to a movie.
func (c *Client) MovieVideos(ctx context.Context, id int) ([]Video, error) {
	var resp VideoList
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get videos for %d: %w", id, err)
	}
	return resp.Results, nil
}

// MovieCredits returns cast and crew for a movie.
func (c *Client) MovieCredits(ctx context.Context, id int) (*Credits, error) {
	var resp Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get credits for %d: %w", id, err)
	}
	return &resp, nil
}

// SimilarMovies returns movies similar to a given movie ID.
func (c *Client) SimilarMovies(ctx context.Context, id, page int) (*Page[Movie], error) {
	return fetchPage[Movie](ctx, c, fmt.Sprintf("/movie/%d/similar", id), pageValues(page))
}

// Recommendations returns recommended movies based on a movie ID.
func (c *Client) Recommendations(ctx context.Context, id, page int) (*Page[Movie], error) {
	return fetchPage[Movie](ctx, c, fmt.Sprintf("/movie/%d/recommendations", id), pageValues(page))
}

// PopularTV returns a page of popular TV series.
func (c *Client) PopularTV(ctx context.Context, page int) (*Page[Show], error) {
	return fetchPage[Show](ctx, c, "/tv/popular", pageValues(page))
}

// TopRatedTV returns a page of the highest rated TV series.
func (c *Client) TopRatedTV(ctx context.Context, page int) (*Page[Show], error) {
	return fetchPage[Show](ctx, c, "/tv/top_rated", pageValues(page))
}

// OnTheAirTV returns series with an episode airing in the next week.
func (c *Client) OnTheAirTV(ctx context.Context, page int) (*Page[Show], error) {
	return fetchPage[Show](ctx, c, "/tv/on_the_air", pageValues(page))
}

// TrendingTV returns the trending series for the given window.
func (c *Client) TrendingTV(ctx context.Context, window TimeWindow, page int) (*Page[Show], error) {
	return fetchPage[Show](ctx, c, "/trending/tv/"+string(normalizeWindow(window)), pageValues(page))
}

// SearchTV searches for TV series by name.
func (c *Client) SearchTV(ctx context.Context, query string, page int) (*Page[Show], error) {
	params := pageValues(page)
	params.Set("query", query)
	params.Set("include_adult", "false")
	return fetchPage[Show](ctx, c, "/search/tv", params)
}

// DiscoverTV lists TV series matching the given filters.
func (c *Client) DiscoverTV(ctx context.Context, p DiscoverParams) (*Page[Show], error) {
	return fetchPage[Show](ctx, c, "/discover/tv", p.values("first_air_date"))
}

// TVGenres returns the provider's TV genre list.
func (c *Client) TVGenres(ctx context.Context) ([]Genre, error) {
	var resp genreList
	if err := c.get(ctx, "/genre/tv/list", nil, &resp); err != nil {
		return nil, fmt.Errorf("tv genres: %w", err)
	}
	return resp.Genres, nil
}

// GetTV retrieves full details for a TV series by TMDb ID.
func (c *Client) GetTV(ctx context.Context, id int) (*ShowDetails, error) {
	var details ShowDetails
	params := url.Values{"append_to_response": {tvDetailAppend}}
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), params, &details); err != nil {
		return nil, fmt.Errorf("get tv %d: %w", id, err)
	}
	return &details, nil
}

// ImageURL joins an image CDN base, a size token and a provider-relative path.
// An empty path yields an empty URL.
func ImageURL(base, size, path string) string {
	if path == "" {
		return ""
	}
	if base == "" {
		base = imageBaseURL
	}
	return base + size + path
}

// PosterURL returns the full URL for a poster path on the default CDN.
func PosterURL(posterPath, size string) string {
	return ImageURL(imageBaseURL, size, posterPath)
}

func fetchPage[T any](ctx context.Context, c *Client, path string, params url.Values) (*Page[T], error) {
	var page Page[T]
	if err := c.get(ctx, path, params, &page); err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	return &page, nil
}

func (c *Client) regional(params url.Values) url.Values {
	if c.region != "" {
		params.Set("region", c.region)
	}
	return params
}

func normalizeWindow(w TimeWindow) TimeWindow {
	if w == Day {
		return Day
	}
	return Week
}

// get performs an authenticated GET request to the TMDb API and decodes the
// JSON response. Successful bodies are cached under the credential-free URL.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	q := u.Query()
	q.Set("language", c.language)
	for k, vs := range params {
		q[k] = vs
	}
	cacheKey := path + "?" + q.Encode()
	if body, ok := c.cache.Get(cacheKey); ok {
		return json.Unmarshal(body, result)
	}

	if c.accessToken == "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return newAPIError(resp.StatusCode, body)
	}
	if apiErr := payloadError(resp.StatusCode, body); apiErr != nil {
		return apiErr
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	c.cache.Set(cacheKey, body)
	c.logger.Debug("tmdb request",
		slog.String("path", path),
		slog.String("page", q.Get("page")),
	)
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{HTTPStatus: status}
	var payload statusPayload
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Code = payload.StatusCode
		apiErr.Message = payload.StatusMessage
	}
	return apiErr
}

// payloadError detects a provider-reported failure inside a 200 response.
func payloadError(status int, body []byte) *APIError {
	var payload statusPayload
	if json.Unmarshal(body, &payload) != nil || payload.Success == nil || *payload.Success {
		return nil
	}
	return &APIError{HTTPStatus: status, Code: payload.StatusCode, Message: payload.StatusMessage}
}

// IsNotFound reports whether err is a TMDb "resource not found" response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.HTTPStatus == http.StatusNotFound || apiErr.Code == 34
}
