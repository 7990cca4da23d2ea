package publishers

import (
	"context"
	"os"
	"strings"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
)

func TestGCPPubSubSenderPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	defer os.Unsetenv("PUBSUB_EMULATOR_HOST")
	os.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if _, err := client.CreateTopic(ctx, "topic-1"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	sender, err := newGCPPubSubSender(ctx, &GCPPubSubConfig{
		ProjectID: "test-project",
		Topic:     "topic-1",
	}, nil)
	if err != nil {
		t.Fatalf("newGCPPubSubSender: %v", err)
	}
	defer sender.Close()

	err = sender.Send(ctx, Event{
		DocumentID: "doc-1",
		Location:   domain.LocationLater,
		Document:   domain.Document{ID: "doc-1"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message on the emulator, got %d", len(msgs))
	}
	if got := msgs[0].Attributes["location"]; got != domain.LocationLater {
		t.Fatalf("location attribute = %q", got)
	}
	if !strings.Contains(string(msgs[0].Data), `"document_id":"doc-1"`) {
		t.Fatalf("payload missing document_id: %s", msgs[0].Data)
	}
}
