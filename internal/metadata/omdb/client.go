package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/vadimtrunov/CineScope/internal/httpclient"
)

const (
	defaultBaseURL = "https://www.omdbapi.com/"
	maxBodySize    = 1 << 20
)

// Client is an OMDb API client.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	logger  *slog.Logger
}

// New creates a new OMDb client. An empty baseURL selects the public API.
func New(apiKey, baseURL string, cfg httpclient.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpclient.New(cfg, logger),
		logger:  logger,
	}
}

// GetByIMDbID fetches the full record for an IMDb id such as "tt0137523".
func (c *Client) GetByIMDbID(ctx context.Context, imdbID string) (*Movie, error) {
	if !strings.HasPrefix(imdbID, "tt") {
		return nil, fmt.Errorf("invalid imdb id %q", imdbID)
	}
	var m Movie
	if err := c.get(ctx, url.Values{"i": {imdbID}, "plot": {"short"}}, &m); err != nil {
		return nil, fmt.Errorf("get %s: %w", imdbID, err)
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, params url.Values, result any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	q := u.Query()
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	_ = json.Unmarshal(body, &env)
	if resp.StatusCode != http.StatusOK {
		return &APIError{HTTPStatus: resp.StatusCode, Message: env.Error}
	}
	if strings.EqualFold(env.Response, "False") {
		return &APIError{HTTPStatus: resp.StatusCode, Message: env.Error}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
