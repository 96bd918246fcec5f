package course

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MinDuration          = 1
)

// Field names used as ValidationError keys. They match the JSON field names.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDuration    = "duration"
	FieldStatus      = "status"
	FieldPublishedAt = "publishedAt"
)

// Per-field validation messages.
const (
	MsgTitleRequired      = "Title is required"
	MsgTitleTooLong       = "Title must be at most 100 characters"
	MsgDescriptionTooLong = "Description must be at most 500 characters"
	MsgDurationTooSmall   = "Must be greater than 0"
	MsgStatusInvalid      = "Status must be one of: draft, published, archived"
	MsgPublishedAtMissing = "Published courses must have a publish date"
	MsgPublishedAtOnDraft = "Draft courses cannot have a publish date"
)

// Course is a single catalog entry.
// Duration is in minutes. PublishedAt is nil until the course is first published
// and is never cleared afterwards.
type Course struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    int        `json:"duration"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt,omitzero"`
}

// NewCourse carries the fields a caller supplies when creating a course.
type NewCourse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

// New builds a draft course from input.
// PRE: id is non-empty
// POST: Returns a draft course with CreatedAt = now and no PublishedAt, or a ValidationError
func New(id string, in NewCourse, now time.Time) (Course, error) {
	if v := ValidateFields(in.Title, in.Description, in.Duration); len(v) > 0 {
		return Course{}, v
	}
	return Course{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
		Status:      StatusDraft,
		CreatedAt:   now,
	}, nil
}

// Validate checks a whole stored record.
// PRE: Course struct is populated
// POST: Returns a ValidationError naming each invalid field, nil otherwise
// INVARIANT: published implies PublishedAt is set; draft implies it is not.
// Archived courses may carry either.
func (c *Course) Validate() error {
	v := ValidateFields(c.Title, c.Description, c.Duration)
	add := func(field, msg string) {
		if v == nil {
			v = ValidationError{}
		}
		v[field] = msg
	}
	switch {
	case !c.Status.IsValid():
		add(FieldStatus, MsgStatusInvalid)
	case c.Status == StatusPublished && c.PublishedAt == nil:
		add(FieldPublishedAt, MsgPublishedAtMissing)
	case c.Status == StatusDraft && c.PublishedAt != nil:
		add(FieldPublishedAt, MsgPublishedAtOnDraft)
	}
	if len(v) > 0 {
		return v
	}
	return nil
}

// ValidateFields checks the user-editable fields and reports every violation.
// Returns nil when all fields are valid.
func ValidateFields(title, description string, duration int) ValidationError {
	var v ValidationError
	add := func(field, msg string) {
		if msg == "" {
			return
		}
		if v == nil {
			v = ValidationError{}
		}
		v[field] = msg
	}
	add(FieldTitle, checkTitle(title))
	add(FieldDescription, checkDescription(description))
	add(FieldDuration, checkDuration(duration))
	return v
}

// IsArchived returns true if the course is archived.
// INVARIANT: Status field is not mutated
func (c *Course) IsArchived() bool {
	return c.Status == StatusArchived
}

// CanEdit reports whether any update may be applied to the course.
func (c *Course) CanEdit() bool {
	return !c.IsArchived()
}

func checkTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return MsgTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return MsgTitleTooLong
	}
	return ""
}

func checkDescription(description string) string {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return MsgDescriptionTooLong
	}
	return ""
}

func checkDuration(duration int) string {
	if duration < MinDuration {
		return MsgDurationTooSmall
	}
	return ""
}
