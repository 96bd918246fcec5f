package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"coursecatalog/internal/adapters/email"
	"coursecatalog/internal/domain/course"
)

// announceTimeout bounds the provider call so a slow provider cannot stall an update.
const announceTimeout = 10 * time.Second

// Announcer emails a notice when a course is first published.
type Announcer struct {
	Sender     email.Sender
	Recipients []string
	// RenderHTML converts the course description to HTML. Nil escapes it as text.
	RenderHTML func(md string) string
}

// Announce sends the publish announcement. Failures are logged, never returned.
// PRE: c has been persisted as published
// POST: at most one message sent; no-op without recipients
func (a *Announcer) Announce(ctx context.Context, c course.Course) {
	if a == nil || a.Sender == nil || len(a.Recipients) == 0 {
		return
	}
	msg := ComposeAnnouncement(c, a.RenderHTML)
	msg.To = a.Recipients

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), announceTimeout)
	defer cancel()

	id, err := a.Sender.Send(ctx, msg)
	if err != nil {
		slog.Error("course_event", "event", "course_announce_failed", "course_id", c.ID, "error", err)
		return
	}
	slog.Info("course_event", "event", "course_announced", "course_id", c.ID, "message_id", id)
}

// ComposeAnnouncement builds the message body for a newly published course.
func ComposeAnnouncement(c course.Course, render func(string) string) email.Message {
	desc := html.EscapeString(c.Description)
	if render != nil {
		desc = render(c.Description)
	}
	title := html.EscapeString(c.Title)
	return email.Message{
		Subject: "New course: " + c.Title,
		HTML: fmt.Sprintf("<h1>%s</h1><p>%d minutes</p>%s",
			title, c.Duration, desc),
		Text: fmt.Sprintf("%s (%d minutes)\n\n%s", c.Title, c.Duration, c.Description),
	}
}
