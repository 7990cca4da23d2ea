package publishers

import "context"

// logPublisher writes events to the structured log. Useful as a first sink
// before any real queue exists, and in development.
type logPublisher struct {
	id  string
	log Logger
}

func newLogPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	return &logPublisher{id: cfg.ID, log: ensureLogger(log)}, nil
}

func (l *logPublisher) ID() string   { return l.id }
func (l *logPublisher) Type() string { return TypeLog }

func (l *logPublisher) Publish(_ context.Context, evt Event) error {
	l.log.InfoObj("promotion event", "event", map[string]any{
		"document_id": evt.DocumentID,
		"title":       evt.Title,
		"location":    evt.Location,
	})
	return nil
}
