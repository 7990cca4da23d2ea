package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// gcpPubSubSender delivers promotion events to a Google Cloud Pub/Sub topic.
type gcpPubSubSender struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	log    Logger
}

// newGCPPubSubSender connects to Pub/Sub and binds the topic.
func newGCPPubSubSender(ctx context.Context, cfg *GCPPubSubConfig, log Logger) (*gcpPubSubSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing pubsub configuration")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &gcpPubSubSender{
		client: client,
		topic:  client.Topic(cfg.Topic),
		log:    ensureLogger(log),
	}, nil
}

// newGCPPubSubPublisher creates a Pub/Sub publisher with the given configuration.
func newGCPPubSubPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("publisher %q missing pubsub configuration", cfg.ID)
	}

	sender, err := newGCPPubSubSender(ctx, cfg.PubSub, log)
	if err != nil {
		return nil, err
	}
	return &sinkPublisher{id: cfg.ID, typ: TypeGCPPubSub, sender: sender}, nil
}

// Send publishes the event and waits for the server acknowledgement.
func (g *gcpPubSubSender) Send(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	res := g.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"location": evt.Location,
		},
	})
	if _, err := res.Get(ctx); err != nil {
		g.log.ErrorObj("pubsub publisher send failed", "publisher_pubsub_error", map[string]any{
			"topic": g.topic.ID(),
			"error": err.Error(),
		})
		return fmt.Errorf("publish to pubsub: %w", err)
	}

	g.log.DebugObj("pubsub publisher delivered event", "publisher_pubsub_delivery", map[string]any{
		"topic":       g.topic.ID(),
		"document_id": evt.DocumentID,
	})
	return nil
}

// Close flushes pending messages and releases the client.
func (g *gcpPubSubSender) Close() error {
	g.topic.Stop()
	return g.client.Close()
}
