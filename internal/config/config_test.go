package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("READWISE_TOKEN", "tok-123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.APIBaseURL != DefaultBaseURL {
		t.Errorf("api base = %q", cfg.APIBaseURL)
	}
	if cfg.FeedLocation != domain.LocationFeed || cfg.PromoteTo != domain.LocationLater {
		t.Errorf("partition defaults wrong: feed=%q promote=%q", cfg.FeedLocation, cfg.PromoteTo)
	}
	if cfg.VerdictMarker != DefaultVerdictMarker {
		t.Errorf("marker default = %q", cfg.VerdictMarker)
	}
	if cfg.RequestDelay != 3*time.Second {
		t.Errorf("request delay = %v", cfg.RequestDelay)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("http timeout = %v", cfg.HTTPTimeout)
	}
	if cfg.CacheBackend != "json" {
		t.Errorf("cache backend = %q", cfg.CacheBackend)
	}
	if cfg.PollInterval != 0 {
		t.Errorf("poll interval should default to one-shot, got %v", cfg.PollInterval)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("READWISE_TOKEN", "")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error without a token")
	}
	if !strings.Contains(err.Error(), "readwise_token") {
		t.Errorf("error should name the missing key: %v", err)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	t.Setenv("READWISE_TOKEN", "tok-123")

	path := filepath.Join(t.TempDir(), "triager.yaml")
	raw := `
promote_to: shortlist
request_delay_ms: 100
cache_backend: bbolt
cache_path: ./data/processed.db
archive_later: true
poll_interval: 900
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PromoteTo != domain.LocationShortlist {
		t.Errorf("promote_to = %q", cfg.PromoteTo)
	}
	if cfg.RequestDelay != 100*time.Millisecond {
		t.Errorf("request delay = %v", cfg.RequestDelay)
	}
	if cfg.CacheBackend != "bbolt" || cfg.CachePath != "./data/processed.db" {
		t.Errorf("cache settings wrong: %q %q", cfg.CacheBackend, cfg.CachePath)
	}
	if !cfg.ArchiveLater {
		t.Error("archive_later not read")
	}
	if cfg.PollInterval != 15*time.Minute {
		t.Errorf("poll interval = %v", cfg.PollInterval)
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("READWISE_TOKEN", "tok-123")
	t.Setenv("PROMOTE_TO", domain.LocationArchive)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PromoteTo != domain.LocationArchive {
		t.Errorf("env override ignored, promote_to = %q", cfg.PromoteTo)
	}
}

func TestLoadRejectsInvalidLocation(t *testing.T) {
	t.Setenv("READWISE_TOKEN", "tok-123")
	t.Setenv("PROMOTE_TO", "pile")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown location")
	}
}

func TestLoadRejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("READWISE_TOKEN", "tok-123")
	t.Setenv("CACHE_BACKEND", "redis")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unsupported cache backend")
	}
}

func TestValidateRejectsNegativeValuesSetAfterLoad(t *testing.T) {
	t.Setenv("READWISE_TOKEN", "tok-123")

	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"limit", func(c *Config) { c.Limit = -5 }, "limit"},
		{"since_days", func(c *Config) { c.SinceDays = -3 }, "since_days"},
		{"poll_interval", func(c *Config) { c.PollIntervalSeconds = -10 }, "poll_interval"},
	} {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("%s: Load returned error: %v", tc.name, err)
		}
		tc.mutate(cfg)
		err = cfg.Validate()
		if err == nil {
			t.Errorf("%s: negative value passed Validate", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error should name the field: %v", tc.name, err)
		}
	}
}

func TestRedactedMasksToken(t *testing.T) {
	cfg := Config{ReadwiseToken: "super-secret"}
	if got := cfg.Redacted().ReadwiseToken; got != "***" {
		t.Errorf("token not masked: %q", got)
	}
	if cfg.ReadwiseToken != "super-secret" {
		t.Error("Redacted must not mutate the original")
	}
}
