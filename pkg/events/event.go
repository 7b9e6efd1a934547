package events

import "time"

// Lifecycle event types published to the user events queue.
const (
	UserCreated  = "user.created"
	UserUpdated  = "user.updated"
	UserDeleted  = "user.deleted"
	UserRestored = "user.restored"
)

// UserEvent is the JSON payload put on the RabbitMQ queue for each
// lifecycle transition. Consumers (cmd/notifier) use it to send
// notification emails.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     int       `json:"userId"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurredAt"`
}
