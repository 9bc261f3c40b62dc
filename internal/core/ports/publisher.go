package ports

import "context"

// ChannelPublisher pushes a structured message onto a named real-time
// channel. Implementations must be safe for concurrent use and must
// respect the context deadline; a failed publish is reported, never
// retried here.
type ChannelPublisher interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

// EmailEnqueuer hands an email off for out-of-band delivery. Acceptance
// means the email is durably queued, not that it was sent.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, evt EmailQueuedEvent) error
}

// EmailEventPublisher ships a queued email from the outbox to the mail
// broker. Implemented by the RabbitMQ adapter, consumed by the relay.
type EmailEventPublisher interface {
	PublishEmailQueued(ctx context.Context, evt EmailQueuedEvent) error
}
