package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"

	"user-registry/pkg/events"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Send sends a plain-text email via Mailgun.
func (m *Mailgun) Send(ctx context.Context, to, subject, text string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// MessageFor maps a lifecycle event to the notification subject and body
// sent to the affected user. The bool reports whether the event type has
// a notification at all.
func MessageFor(ev events.UserEvent) (subject, text string, ok bool) {
	switch ev.Type {
	case events.UserCreated:
		return "Welcome!",
			fmt.Sprintf("Hi %s,\n\nYour account has been created.\n", ev.FullName),
			true
	case events.UserDeleted:
		return "Your account was deactivated",
			fmt.Sprintf("Hi %s,\n\nYour account has been deactivated. Contact support if this was a mistake.\n", ev.FullName),
			true
	case events.UserRestored:
		return "Your account is active again",
			fmt.Sprintf("Hi %s,\n\nYour account has been restored and is active again.\n", ev.FullName),
			true
	default:
		return "", "", false
	}
}
