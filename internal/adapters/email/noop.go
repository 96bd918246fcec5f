package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// NoopSender logs messages instead of delivering them. Used when no provider
// key is configured.
type NoopSender struct {
	sent atomic.Int64
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the message.
// PRE: none
// POST: Returns a synthetic message ID; nothing is delivered
func (s *NoopSender) Send(_ context.Context, msg Message) (string, error) {
	n := s.sent.Add(1)
	slog.Info("noop_email_send", "to", msg.To, "subject", msg.Subject)
	return fmt.Sprintf("noop-%d", n), nil
}

// Sent returns how many messages have been logged.
func (s *NoopSender) Sent() int64 {
	return s.sent.Load()
}
