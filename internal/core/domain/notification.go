package domain

import "time"

type NotificationType string

const (
	NotifRegistration NotificationType = "registration"
	NotifNewRequest   NotificationType = "new-request"
	NotifValidation   NotificationType = "validation"
)

// Notification is an in-app notification row. Immutable after creation
// except for the Seen flag, which only the owning user may flip.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	RequestID *int64           `json:"request_id,omitempty"`
	Content   string           `json:"content"`
	Type      NotificationType `json:"type"`
	Seen      bool             `json:"seen"`
	CreatedAt time.Time        `json:"created_at"`
}
