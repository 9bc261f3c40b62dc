package messaging

import (
	"context"
	"encoding/json"
	"log"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
	"github.com/campus-hub/scolarite/student-docs-service/internal/metrics"
)

// EmailSender delivers one email. Implemented by the SMTP mailer.
type EmailSender interface {
	Send(ctx context.Context, evt ports.EmailQueuedEvent) error
}

// Consume reads queued emails until ctx is cancelled and hands each to
// the sender. A failed send is nacked back onto the queue for redelivery;
// a message that cannot even be decoded is dropped, redelivery would
// never fix it.
func (rmq *RabbitMQBroker) Consume(ctx context.Context, sender EmailSender) error {
	deliveries, err := rmq.ch.ConsumeWithContext(
		ctx,
		rmq.queueName,
		"",    // consumer tag (auto-generated)
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			var evt ports.EmailQueuedEvent
			if err := json.Unmarshal(d.Body, &evt); err != nil {
				log.Printf("[MAILER] Dropping undecodable message %s: %v", d.MessageId, err)
				d.Nack(false, false)
				continue
			}

			if err := sender.Send(ctx, evt); err != nil {
				log.Printf("[MAILER] Send failed for %s, requeueing: %v", evt.ID, err)
				metrics.EmailsSent.WithLabelValues("failure").Inc()
				d.Nack(false, true)
				continue
			}
			metrics.EmailsSent.WithLabelValues("success").Inc()
			d.Ack(false)
		}
	}
}
