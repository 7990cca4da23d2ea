package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	ReadwiseToken      string        `mapstructure:"readwise_token"`
	APIBaseURL         string        `mapstructure:"api_base_url"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	RequestDelayMs     int64         `mapstructure:"request_delay_ms"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	RequestDelay       time.Duration `mapstructure:"-"`

	FeedLocation  string `mapstructure:"feed_location"`
	PromoteTo     string `mapstructure:"promote_to"`
	VerdictMarker string `mapstructure:"verdict_marker"`

	CacheBackend string `mapstructure:"cache_backend"`
	CachePath    string `mapstructure:"cache_path"`

	PublishersFile string `mapstructure:"publishers_file"`
	EnrichTitles   bool   `mapstructure:"enrich_titles"`

	DryRun       bool `mapstructure:"dry_run"`
	NoCache      bool `mapstructure:"no_cache"`
	Limit        int  `mapstructure:"limit"`
	SinceDays    int  `mapstructure:"since_days"`
	ArchiveLater bool `mapstructure:"archive_later"`

	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`
}

// DefaultBaseURL is the Reader v3 API root.
const DefaultBaseURL = "https://readwise.io/api/v3"

// DefaultVerdictMarker is the substring Ghostreader prompts are instructed
// to embed in a summary when a document is worth keeping.
const DefaultVerdictMarker = "📖 READ"

// Load reads configuration from environment variables and an optional config
// file. The token check happens here so a misconfigured run fails before any
// network activity.
func Load(file string) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "lectern-reader-agent")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("readwise_token", "")
	v.SetDefault("api_base_url", DefaultBaseURL)
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("request_delay_ms", 3000) // ~20 requests/minute
	v.SetDefault("feed_location", domain.LocationFeed)
	v.SetDefault("promote_to", domain.LocationLater)
	v.SetDefault("verdict_marker", DefaultVerdictMarker)
	v.SetDefault("cache_backend", "json")
	v.SetDefault("cache_path", "./data/processed.json")
	v.SetDefault("publishers_file", "")
	v.SetDefault("enrich_titles", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("no_cache", false)
	v.SetDefault("limit", 0)
	v.SetDefault("since_days", 0)
	v.SetDefault("archive_later", false)
	v.SetDefault("poll_interval", 0)

	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.RequestDelay = time.Duration(cfg.RequestDelayMs) * time.Millisecond
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	return &cfg, nil
}

// Validate checks the configuration's field constraints. Load runs it once;
// callers that mutate the config afterwards should run it again.
func (c *Config) Validate() error {
	if c.ReadwiseToken == "" {
		return fmt.Errorf("readwise_token is required (set READWISE_TOKEN)")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive)")
	}
	if c.RequestDelayMs < 0 {
		return fmt.Errorf("invalid request_delay_ms (must not be negative)")
	}
	if !domain.ValidLocation(c.FeedLocation) {
		return fmt.Errorf("invalid feed_location %q", c.FeedLocation)
	}
	if !domain.ValidLocation(c.PromoteTo) {
		return fmt.Errorf("invalid promote_to %q", c.PromoteTo)
	}
	if c.VerdictMarker == "" {
		return fmt.Errorf("verdict_marker must not be empty")
	}
	switch c.CacheBackend {
	case "json", "bbolt", "none":
	default:
		return fmt.Errorf("unsupported cache_backend %q", c.CacheBackend)
	}
	if c.CacheBackend != "none" && c.CachePath == "" {
		return fmt.Errorf("cache_path is required for cache_backend %q", c.CacheBackend)
	}
	if c.Limit < 0 {
		return fmt.Errorf("invalid limit (must not be negative)")
	}
	if c.SinceDays < 0 {
		return fmt.Errorf("invalid since_days (must not be negative)")
	}
	if c.PollIntervalSeconds < 0 {
		return fmt.Errorf("invalid poll_interval (must not be negative seconds)")
	}
	return nil
}

// Redacted returns a copy safe for startup logging, with the token masked.
func (c *Config) Redacted() Config {
	out := *c
	if out.ReadwiseToken != "" {
		out.ReadwiseToken = "***"
	}
	return out
}
