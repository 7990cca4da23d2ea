package cli

import (
	"strings"
	"testing"

	"github.com/lectern-hq/lectern-reader-agent/internal/config"
	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
)

func validConfig() *config.Config {
	return &config.Config{
		ReadwiseToken:      "tok-123",
		HTTPTimeoutSeconds: 30,
		FeedLocation:       domain.LocationFeed,
		PromoteTo:          domain.LocationLater,
		VerdictMarker:      "📖 READ",
		CacheBackend:       "none",
	}
}

func TestNegativeFlagOverridesAreRejected(t *testing.T) {
	if err := rootCmd.ParseFlags([]string{"--limit=-5", "--since=-3"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := validConfig()
	applyFlagOverrides(rootCmd, cfg)

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected negative overrides to fail validation")
	}
	if !strings.Contains(err.Error(), "limit") {
		t.Errorf("error should name the offending field: %v", err)
	}
}
