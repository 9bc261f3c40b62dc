package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
	"github.com/campus-hub/scolarite/student-docs-service/internal/metrics"
)

const (
	// StaffChannel carries new-request and registration events to every
	// connected staff/admin client.
	StaffChannel = "admin-staff"

	// clientChannelPrefix + user id addresses a single user's clients.
	clientChannelPrefix = "client-"

	dispatchTimeout = 5 * time.Second
)

// channelMessage is the tagged payload published on the real-time
// channel: either a persisted notification row or a plain message.
type channelMessage struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// MultiChannelDispatcher delivers notification events over the
// real-time channel and the mail queue, best effort. It runs after the
// primary transaction has committed and never fails the caller's
// operation; the returned error is informational.
type MultiChannelDispatcher struct {
	channels ports.ChannelPublisher
	mail     ports.EmailEnqueuer
}

var _ ports.Dispatcher = (*MultiChannelDispatcher)(nil)

func NewMultiChannelDispatcher(channels ports.ChannelPublisher, mail ports.EmailEnqueuer) *MultiChannelDispatcher {
	return &MultiChannelDispatcher{channels: channels, mail: mail}
}

func (d *MultiChannelDispatcher) Dispatch(ctx context.Context, evt ports.NotificationEvent) error {
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	var errs []error

	if err := d.publish(ctx, evt); err != nil {
		log.Printf("dispatcher: channel publish failed (%s): %v", evt.Type, err)
		metrics.ChannelPublishes.WithLabelValues("failure").Inc()
		errs = append(errs, err)
	} else {
		metrics.ChannelPublishes.WithLabelValues("success").Inc()
	}

	if err := d.enqueueEmail(ctx, evt); err != nil {
		log.Printf("dispatcher: email enqueue failed (%s): %v", evt.Type, err)
		metrics.EmailsEnqueued.WithLabelValues("failure").Inc()
		errs = append(errs, err)
	} else if len(evt.EmailRecipients) > 0 {
		metrics.EmailsEnqueued.WithLabelValues("success").Inc()
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrDependencyFailure, errors.Join(errs...))
	}
	return nil
}

// ClientChannel names the per-user channel a user's own clients listen
// on.
func ClientChannel(userID string) string {
	return clientChannelPrefix + userID
}

// ChannelFor derives the channel name an event is published on:
// validation events go to the requester's own channel, everything else
// to the shared staff channel.
func ChannelFor(evt ports.NotificationEvent) string {
	if evt.TargetUserID != "" {
		return ClientChannel(evt.TargetUserID)
	}
	return StaffChannel
}

func (d *MultiChannelDispatcher) publish(ctx context.Context, evt ports.NotificationEvent) error {
	msg := channelMessage{Kind: evt.Kind}
	switch evt.Kind {
	case ports.PayloadRequestNotification:
		msg.Payload = evt.Notification
	case ports.PayloadPlainMessage:
		msg.Payload = evt.Message
	default:
		return fmt.Errorf("%w: unknown payload kind %q", domain.ErrInvalidArgument, evt.Kind)
	}

	return d.channels.Publish(ctx, ChannelFor(evt), string(evt.Type), msg)
}

func (d *MultiChannelDispatcher) enqueueEmail(ctx context.Context, evt ports.NotificationEvent) error {
	if len(evt.EmailRecipients) == 0 {
		return nil
	}

	return d.mail.EnqueueEmail(ctx, ports.EmailQueuedEvent{
		ID:         uuid.NewString(),
		Recipients: evt.EmailRecipients,
		Subject:    evt.EmailSubject,
		Body:       evt.EmailBody,
		Kind:       string(evt.Type),
	})
}
