package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

var _ ports.EmailEventPublisher = (*RabbitMQBroker)(nil)

// PublishEmailQueued ships one queued email to the mail queue. Called
// by the outbox relay, never by the request path directly.
func (rmq *RabbitMQBroker) PublishEmailQueued(ctx context.Context, evt ports.EmailQueuedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    evt.ID,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
