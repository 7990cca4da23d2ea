package publishers

import "context"

// Publisher delivers promotion events to a downstream sink (SQS, SNS,
// Pub/Sub, HTTP, etc).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
