package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/config"
	"github.com/vadimtrunov/CineScope/internal/httpclient"
	"github.com/vadimtrunov/CineScope/internal/metadata/omdb"
	"github.com/vadimtrunov/CineScope/internal/metadata/tmdb"
	"github.com/vadimtrunov/CineScope/internal/watchlist"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	styleRating  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	styleTitle   = lipgloss.NewStyle().Bold(true)

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)
)

// loadConfig loads and validates the configuration file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// services bundles what a command needs once the config is loaded.
type services struct {
	cfg       *config.Config
	logger    *slog.Logger
	catalog   *catalog.Service
	watchlist watchlist.Store
	closeLog  func()
}

// openServices loads the config, sets up logging and builds the catalog.
// The watchlist is opened only when withWatchlist is set.
func openServices(ctx context.Context, withWatchlist bool) (*services, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, closeLog := config.SetupLogger(cfg.App)
	s := &services{
		cfg:      cfg,
		logger:   logger,
		catalog:  initCatalog(cfg, logger),
		closeLog: closeLog,
	}

	if withWatchlist {
		s.watchlist, err = initWatchlist(ctx, cfg, logger)
		if err != nil {
			closeLog()
			return nil, err
		}
	}
	return s, nil
}

// Close releases the watchlist and the log file.
func (s *services) Close() {
	if s.watchlist != nil {
		if err := s.watchlist.Close(); err != nil {
			s.logger.Warn("close watchlist", slog.String("error", err.Error()))
		}
	}
	s.closeLog()
}

// httpConfig maps the http section onto the retrying client's config.
func httpConfig(c config.HTTPConfig) httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.MaxRetries = c.MaxRetries
	hc.Timeout = c.Timeout
	hc.RequestsPerSecond = c.RequestsPerSecond
	hc.Burst = c.Burst
	return hc
}

// initCatalog creates the catalog service over TMDb, with OMDb enrichment
// when an OMDb key is configured.
func initCatalog(cfg *config.Config, logger *slog.Logger) *catalog.Service {
	hc := httpConfig(cfg.HTTP)

	client := tmdb.New(tmdb.Config{
		APIKey:      cfg.TMDb.APIKey,
		AccessToken: cfg.TMDb.AccessToken,
		BaseURL:     cfg.TMDb.BaseURL,
		Language:    cfg.TMDb.Language,
		Region:      cfg.TMDb.Region,
		CacheTTL:    cfg.TMDb.CacheTTL,
		HTTP:        hc,
	}, logger)
	logger.Debug("TMDb client initialized", slog.String("url", sanitizeURL(cfg.TMDb.BaseURL)))

	norm := catalog.DefaultNormalizer()
	if cfg.Catalog.ImageBase != "" {
		norm.ImageBase = cfg.Catalog.ImageBase
	}
	if cfg.Catalog.PosterSize != "" {
		norm.PosterSize = cfg.Catalog.PosterSize
	}

	opts := []catalog.Option{
		catalog.WithNormalizer(norm),
		catalog.WithConcurrency(cfg.Catalog.Concurrency),
	}
	if cfg.OMDb != nil {
		opts = append(opts, catalog.WithEnricher(omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL, hc, logger)))
		logger.Debug("OMDb enrichment enabled", slog.String("url", sanitizeURL(cfg.OMDb.BaseURL)))
	}

	return catalog.NewService(client, logger, opts...)
}

// initWatchlist opens the configured watchlist store.
func initWatchlist(ctx context.Context, cfg *config.Config, logger *slog.Logger) (watchlist.Store, error) {
	store, err := watchlist.Open(ctx, cfg.Watchlist.Driver, cfg.Watchlist.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open watchlist: %w", err)
	}
	logger.Debug("watchlist opened",
		slog.String("driver", cfg.Watchlist.Driver),
		slog.String("path", cfg.Watchlist.Path),
	)
	return store, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	if raw == "" {
		return "<default>"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// now is swapped in tests.
var now = time.Now
