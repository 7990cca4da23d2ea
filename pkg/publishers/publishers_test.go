package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegistryFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeRegistryFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestLoadRegistryParsesQueueTypes(t *testing.T) {
	path := writeRegistryFile(t, "publishers.yaml", `
publishers:
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.eu-west-1.amazonaws.com/123/promotions
      region: eu-west-1
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-west-1:123:promotions
      region: eu-west-1
  - id: gcp
    type: gcp_pubsub
    pubsub:
      project_id: lectern-prod
      topic: promotions
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 3 {
		t.Fatalf("expected 3 publishers, got %d", got)
	}
	cfg, ok := reg.ByID("topic")
	if !ok || cfg.SNS == nil || cfg.SNS.TopicARN != "arn:aws:sns:eu-west-1:123:promotions" {
		t.Fatalf("sns config not loaded: %#v", cfg)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeRegistryFile(t, "publishers.json", `
{"publishers": [{"id": "hook", "type": "http", "http": {"url": "https://example.com"}}]}
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 1 {
		t.Fatalf("expected 1 publisher, got %d", got)
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	path := writeRegistryFile(t, "publishers.yaml", `
publishers:
  - id: same
    type: log
  - id: same
    type: log
`)

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfigRejectsMissingBlocks(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "h1", Type: TypeHTTP},
		{ID: "q1", Type: TypeSQS},
		{ID: "t1", Type: TypeSNS},
		{ID: "g1", Type: TypeGCPPubSub},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Errorf("expected validation error for %s publisher without its block", cfg.Type)
		}
	}
}

func TestSanitizeAppliesHTTPDefaults(t *testing.T) {
	cfg := sanitizePublisherConfig(PublisherConfig{
		ID:   " hook ",
		Type: " HTTP ",
		HTTP: &HTTPPublisherConfig{URL: " https://example.com "},
	})
	if cfg.ID != "hook" || cfg.Type != "http" {
		t.Fatalf("id/type not trimmed: %#v", cfg)
	}
	if cfg.HTTP.Method != "POST" || cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", cfg.HTTP)
	}
	if !cfg.EnabledValue() {
		t.Fatalf("enabled should default to true")
	}
}
