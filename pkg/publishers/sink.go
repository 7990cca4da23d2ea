package publishers

import (
	"context"
	"io"
)

// sender is the transport half of a queue publisher.
type sender interface {
	Send(ctx context.Context, evt Event) error
}

// sinkPublisher pairs a config identity with a sender.
type sinkPublisher struct {
	id     string
	typ    string
	sender sender
}

func (p *sinkPublisher) ID() string   { return p.id }
func (p *sinkPublisher) Type() string { return p.typ }

func (p *sinkPublisher) Publish(ctx context.Context, evt Event) error {
	return p.sender.Send(ctx, evt)
}

// Close releases the sender when it holds a connection.
func (p *sinkPublisher) Close() error {
	if c, ok := p.sender.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
