package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/vadimtrunov/CineScope/internal/catalog"
)

// Config represents the main application configuration
type Config struct {
	// Metadata providers
	TMDb TMDbConfig  `yaml:"tmdb"`
	OMDb *OMDbConfig `yaml:"omdb,omitempty"`

	// Outbound HTTP behaviour shared by the providers
	HTTP HTTPConfig `yaml:"http"`

	Catalog   CatalogConfig   `yaml:"catalog"`
	Watchlist WatchlistConfig `yaml:"watchlist"`

	// Frontends
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// TMDbConfig holds TMDb API configuration
type TMDbConfig struct {
	APIKey      string        `yaml:"api_key"`
	AccessToken string        `yaml:"access_token,omitempty"` // v4 read access token, sent as bearer
	BaseURL     string        `yaml:"base_url,omitempty"`
	Language    string        `yaml:"language,omitempty"`
	Region      string        `yaml:"region,omitempty"`
	CacheTTL    time.Duration `yaml:"cache_ttl,omitempty"` // 0 disables the response cache
}

// OMDbConfig enables IMDb enrichment of detail views
type OMDbConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// HTTPConfig holds retry and rate limit settings
type HTTPConfig struct {
	MaxRetries        int           `yaml:"max_retries"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // 0 disables limiting
	Burst             int           `yaml:"burst"`
}

// CatalogConfig holds listing and normalization settings
type CatalogConfig struct {
	Featured    []string `yaml:"featured,omitempty"` // keys like "movie:27205"
	News        []string `yaml:"news,omitempty"`
	Concurrency int      `yaml:"concurrency"`
	PosterSize  string   `yaml:"poster_size,omitempty"`
	ImageBase   string   `yaml:"image_base_url,omitempty"`
}

// WatchlistConfig selects the watchlist backend
type WatchlistConfig struct {
	Driver string `yaml:"driver"` // "json", "sqlite", "memory"
	Path   string `yaml:"path,omitempty"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel      string `yaml:"log_level"` // "debug", "info", "warn", "error"
	DataDir       string `yaml:"data_dir"`  // Directory for the watchlist
	LogFile       string `yaml:"log_file,omitempty"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb,omitempty"`
	LogMaxBackups int    `yaml:"log_max_backups,omitempty"`
	LogMaxAgeDays int    `yaml:"log_max_age_days,omitempty"`
}

// Load loads configuration from a YAML file with environment variable overrides
func Load(path string) (*Config, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func validateConfigPath(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides() {
	// TMDb
	envString("CINESCOPE_TMDB_API_KEY", &c.TMDb.APIKey)
	envString("CINESCOPE_TMDB_ACCESS_TOKEN", &c.TMDb.AccessToken)
	envString("CINESCOPE_TMDB_BASE_URL", &c.TMDb.BaseURL)
	envString("CINESCOPE_TMDB_LANGUAGE", &c.TMDb.Language)
	envString("CINESCOPE_TMDB_REGION", &c.TMDb.Region)

	// OMDb
	if v := os.Getenv("CINESCOPE_OMDB_API_KEY"); v != "" {
		if c.OMDb == nil {
			c.OMDb = &OMDbConfig{}
		}
		c.OMDb.APIKey = v
	}

	// HTTP
	envInt("CINESCOPE_HTTP_MAX_RETRIES", &c.HTTP.MaxRetries)
	if v := os.Getenv("CINESCOPE_HTTP_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			rps = -1 // rejected by Validate
		}
		c.HTTP.RequestsPerSecond = rps
	}

	// Watchlist
	envString("CINESCOPE_WATCHLIST_DRIVER", &c.Watchlist.Driver)
	envString("CINESCOPE_WATCHLIST_PATH", &c.Watchlist.Path)

	// Telegram
	if v := os.Getenv("CINESCOPE_TELEGRAM_BOT_TOKEN"); v != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.BotToken = v
	}

	// App
	envString("CINESCOPE_LOG_LEVEL", &c.App.LogLevel)
	envString("CINESCOPE_DATA_DIR", &c.App.DataDir)
	envString("CINESCOPE_LOG_FILE", &c.App.LogFile)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// envInt stores -1 for an unparsable value so Validate reports it.
func envInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		n = -1
	}
	*dst = n
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.TMDb.APIKey == "" && c.TMDb.AccessToken == "" {
		return fmt.Errorf("tmdb.api_key or tmdb.access_token is required")
	}
	if c.TMDb.BaseURL != "" {
		if err := validateURL(c.TMDb.BaseURL, "tmdb.base_url"); err != nil {
			return err
		}
	}
	if c.TMDb.CacheTTL < 0 {
		return fmt.Errorf("tmdb.cache_ttl must not be negative")
	}

	if c.OMDb != nil {
		if c.OMDb.APIKey == "" {
			return fmt.Errorf("omdb.api_key is required")
		}
		if c.OMDb.BaseURL != "" {
			if err := validateURL(c.OMDb.BaseURL, "omdb.base_url"); err != nil {
				return err
			}
		}
	}

	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must not be negative")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http.requests_per_second must not be negative")
	}

	for _, keys := range [][]string{c.Catalog.Featured, c.Catalog.News} {
		for _, k := range keys {
			if _, err := catalog.ParseKey(k); err != nil {
				return fmt.Errorf("catalog: %w", err)
			}
		}
	}
	if c.Catalog.Concurrency < 0 {
		return fmt.Errorf("catalog.concurrency must not be negative")
	}

	switch c.Watchlist.Driver {
	case "", "json", "sqlite", "memory":
	default:
		return fmt.Errorf("watchlist.driver must be one of: json, sqlite, memory")
	}

	if c.Telegram != nil && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	switch strings.ToLower(c.App.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of: debug, info, warn, error")
	}

	c.setDefaults()
	return nil
}

func (c *Config) setDefaults() {
	if c.TMDb.Language == "" {
		c.TMDb.Language = "en-US"
	}

	if c.HTTP.MaxRetries == 0 {
		c.HTTP.MaxRetries = 3
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.RequestsPerSecond > 0 && c.HTTP.Burst <= 0 {
		c.HTTP.Burst = 1
	}

	if c.Catalog.Concurrency == 0 {
		c.Catalog.Concurrency = 4
	}

	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.DataDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			c.App.DataDir = filepath.Join(homeDir, ".cinescope")
		} else {
			c.App.DataDir = ".cinescope"
		}
	}
	if c.App.LogFile != "" {
		if c.App.LogMaxSizeMB == 0 {
			c.App.LogMaxSizeMB = 10
		}
		if c.App.LogMaxBackups == 0 {
			c.App.LogMaxBackups = 3
		}
	}

	if c.Watchlist.Driver == "" {
		c.Watchlist.Driver = "json"
	}
	if c.Watchlist.Path == "" && c.Watchlist.Driver != "memory" {
		name := "watchlist.json"
		if c.Watchlist.Driver == "sqlite" {
			name = "watchlist.db"
		}
		c.Watchlist.Path = filepath.Join(c.App.DataDir, name)
	}
}

// FeaturedKeys returns the configured featured keys, or the built-in rotation.
func (c *Config) FeaturedKeys() []catalog.Key {
	return parseKeys(c.Catalog.Featured, catalog.DefaultFeatured)
}

// NewsKeys returns the configured news keys, or the built-in list.
func (c *Config) NewsKeys() []catalog.Key {
	return parseKeys(c.Catalog.News, catalog.DefaultNews)
}

// parseKeys assumes the values passed Validate.
func parseKeys(values []string, fallback []catalog.Key) []catalog.Key {
	if len(values) == 0 {
		return fallback
	}
	keys := make([]catalog.Key, 0, len(values))
	for _, v := range values {
		if k, err := catalog.ParseKey(v); err == nil {
			keys = append(keys, k)
		}
	}
	return keys
}

func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host", field)
	}
	return nil
}
