package ports

import (
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
)

// Payload variant tags for the real-time channel message. A notification
// event either carries a persisted notification row or a plain text
// message, never an untyped mix of both.
const (
	PayloadRequestNotification = "request-notification"
	PayloadPlainMessage        = "plain-message"
)

// NotificationEvent is the dispatcher's input: what to push on the
// real-time channel and, optionally, which email to queue. The primary
// entity and the notification rows are already committed by the time an
// event is built.
type NotificationEvent struct {
	Kind         string                  `json:"kind"`
	Type         domain.NotificationType `json:"type"`
	Notification *domain.Notification    `json:"notification,omitempty"`
	Message      string                  `json:"message,omitempty"`
	Request      *domain.DocumentRequest `json:"request,omitempty"`

	// TargetUserID routes the event to a per-user channel; empty means
	// the shared staff channel.
	TargetUserID string `json:"-"`

	EmailRecipients []string `json:"-"`
	EmailSubject    string   `json:"-"`
	EmailBody       string   `json:"-"`
}

// EmailQueuedEvent is the wire format of one queued email, written to
// the outbox table and relayed to the mail queue.
type EmailQueuedEvent struct {
	ID         string   `json:"id"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Kind       string   `json:"kind"`
}
