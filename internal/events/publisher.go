package events

import "context"

// Publisher announces post lifecycle events to other services.
type Publisher interface {
	PublishPostPublished(ctx context.Context, e PostPublished) error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPostPublished(context.Context, PostPublished) error {
	return nil
}

var _ Publisher = NoopPublisher{}
