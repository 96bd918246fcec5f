// Package email delivers course announcements.
package email

import "context"

// Message is a single outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string // plain-text alternative, optional
}

// Sender delivers messages through an external provider.
// Send returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
