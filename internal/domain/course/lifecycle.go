package course

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a course.
//
//	draft ──► published ──► archived
//	  └─────────────────────────┘
//
// archived is terminal.
type Status string

// Course statuses
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ValidStatuses contains all valid course statuses in lifecycle order.
var ValidStatuses = []Status{StatusDraft, StatusPublished, StatusArchived}

// validTransitions lists every allowed (from -> to) pair.
// archived has no outgoing transitions.
var validTransitions = map[Status][]Status{
	StatusDraft:     {StatusPublished, StatusArchived},
	StatusPublished: {StatusArchived},
}

// ParseStatus converts a raw string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("unknown course status %q", s)
	}
	return st, nil
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// IsTerminal returns true if no transition leaves the status.
func (s Status) IsTerminal() bool {
	return s == StatusArchived
}

// CanTransitionTo reports whether moving from s to target is permitted.
// Staying in the same non-terminal status is permitted and changes nothing.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() {
		return false
	}
	if s == target {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AvailableTransitions returns the statuses the course may move to next.
// Returns nil for archived courses.
func (c *Course) AvailableTransitions() []Status {
	next := validTransitions[c.Status]
	if len(next) == 0 {
		return nil
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Transition moves the course to status to.
// PRE: course is not archived
// POST: Status is to; PublishedAt is set if this is the first publish
// INVARIANT: an existing PublishedAt is never changed
func (c *Course) Transition(to Status, now time.Time) error {
	if c.IsArchived() {
		return ErrEditForbidden
	}
	if !to.IsValid() {
		return ValidationError{FieldStatus: MsgStatusInvalid}
	}
	if !c.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, c.Status, to)
	}
	if to == StatusPublished {
		if v := publishPrecondition(c); len(v) > 0 {
			return v
		}
		if c.PublishedAt == nil {
			at := now
			c.PublishedAt = &at
		}
	}
	c.Status = to
	return nil
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// IsEmpty returns true if the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Duration == nil && p.Status == nil
}

// ApplyPatch merges p into the course.
// Field changes are validated before the status change is applied, so a publish
// in the same patch sees the new title and duration.
// PRE: none
// POST: On success the course holds the merged fields, passes Validate and has
// UpdatedAt = now. On failure the course is unchanged.
func (c *Course) ApplyPatch(p Patch, now time.Time) error {
	if c.IsArchived() {
		return ErrEditForbidden
	}

	next := *c
	var v ValidationError
	set := func(field, msg string) {
		if msg == "" {
			return
		}
		if v == nil {
			v = ValidationError{}
		}
		v[field] = msg
	}
	if p.Title != nil {
		set(FieldTitle, checkTitle(*p.Title))
		next.Title = *p.Title
	}
	if p.Description != nil {
		set(FieldDescription, checkDescription(*p.Description))
		next.Description = *p.Description
	}
	if p.Duration != nil {
		set(FieldDuration, checkDuration(*p.Duration))
		next.Duration = *p.Duration
	}
	if len(v) > 0 {
		return v
	}

	if p.Status != nil {
		if err := next.Transition(*p.Status, now); err != nil {
			return err
		}
	}

	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = now
	*c = next
	return nil
}

func publishPrecondition(c *Course) ValidationError {
	var v ValidationError
	if msg := checkTitle(c.Title); msg == MsgTitleRequired {
		v = ValidationError{FieldTitle: msg}
	}
	if msg := checkDuration(c.Duration); msg != "" {
		if v == nil {
			v = ValidationError{}
		}
		v[FieldDuration] = msg
	}
	return v
}
