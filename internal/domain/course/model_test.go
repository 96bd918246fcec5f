package course_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"coursecatalog/internal/domain/course"
)

// TestNew_Validation tests field validation on creation.
func TestNew_Validation(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		input      course.NewCourse
		wantFields map[string]string
	}{
		{
			name:  "valid course",
			input: course.NewCourse{Title: "Go Basics", Description: "Intro", Duration: 90},
		},
		{
			name:       "empty title",
			input:      course.NewCourse{Title: "", Duration: 60},
			wantFields: map[string]string{course.FieldTitle: "Title is required"},
		},
		{
			name:       "blank title",
			input:      course.NewCourse{Title: "   ", Duration: 60},
			wantFields: map[string]string{course.FieldTitle: "Title is required"},
		},
		{
			name:       "zero duration",
			input:      course.NewCourse{Title: "Go", Duration: 0},
			wantFields: map[string]string{course.FieldDuration: "Must be greater than 0"},
		},
		{
			name:  "both invalid reported separately",
			input: course.NewCourse{Title: "", Duration: -5},
			wantFields: map[string]string{
				course.FieldTitle:    "Title is required",
				course.FieldDuration: "Must be greater than 0",
			},
		},
		{
			name:       "title too long",
			input:      course.NewCourse{Title: strings.Repeat("a", 101), Duration: 1},
			wantFields: map[string]string{course.FieldTitle: course.MsgTitleTooLong},
		},
		{
			name:  "title at limit counts runes",
			input: course.NewCourse{Title: strings.Repeat("é", 100), Duration: 1},
		},
		{
			name:       "description too long",
			input:      course.NewCourse{Title: "Go", Description: strings.Repeat("x", 501), Duration: 1},
			wantFields: map[string]string{course.FieldDescription: course.MsgDescriptionTooLong},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := course.New("c1", tt.input, now)
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if c.Status != course.StatusDraft {
					t.Errorf("Status = %q, want draft", c.Status)
				}
				if !c.CreatedAt.Equal(now) {
					t.Errorf("CreatedAt = %v, want %v", c.CreatedAt, now)
				}
				if c.PublishedAt != nil {
					t.Error("PublishedAt should be unset on creation")
				}
				return
			}
			v, ok := course.AsValidation(err)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(v) != len(tt.wantFields) {
				t.Fatalf("got fields %v, want %v", v, tt.wantFields)
			}
			for f, msg := range tt.wantFields {
				if v[f] != msg {
					t.Errorf("field %s: got %q, want %q", f, v[f], msg)
				}
			}
		})
	}
}

// TestCourse_Validate tests validation of a stored Course.
func TestCourse_Validate(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		c     course.Course
		field string
	}{
		{"published with date", course.Course{ID: "1", Title: "T", Duration: 1, Status: course.StatusPublished, PublishedAt: &at}, ""},
		{"draft without date", course.Course{ID: "1", Title: "T", Duration: 1, Status: course.StatusDraft}, ""},
		{"archived draft", course.Course{ID: "1", Title: "T", Duration: 1, Status: course.StatusArchived}, ""},
		{"archived after publish", course.Course{ID: "1", Title: "T", Duration: 1, Status: course.StatusArchived, PublishedAt: &at}, ""},
		{"unknown status", course.Course{ID: "1", Title: "T", Duration: 1, Status: "bogus"}, course.FieldStatus},
		{"published without date", course.Course{ID: "1", Title: "T", Duration: 1, Status: course.StatusPublished}, course.FieldPublishedAt},
		{"draft with date", course.Course{ID: "1", Title: "T", Duration: 1, Status: course.StatusDraft, PublishedAt: &at}, course.FieldPublishedAt},
		{"bad fields", course.Course{ID: "1", Status: course.StatusDraft}, course.FieldTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			v, ok := course.AsValidation(err)
			if !ok || v[tt.field] == "" {
				t.Errorf("expected %s error, got %v", tt.field, err)
			}
		})
	}
}

// TestValidationError_Error verifies the message is stable across map iteration order.
func TestValidationError_Error(t *testing.T) {
	v := course.ValidationError{"title": "Title is required", "duration": "Must be greater than 0"}
	want := "invalid course: duration: Must be greater than 0; title: Title is required"
	for i := 0; i < 5; i++ {
		if got := v.Error(); got != want {
			t.Fatalf("Error() = %q, want %q", got, want)
		}
	}
}

// TestFetchError tests retryable classification.
func TestFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&course.FetchError{Err: cause})
	if !course.IsRetryable(err) {
		t.Error("FetchError should be retryable")
	}
	if !errors.Is(err, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
	if course.IsRetryable(course.ErrNotFound) {
		t.Error("ErrNotFound should not be retryable")
	}
}

// TestFormDraft_IsEmpty tests blank detection on form drafts.
func TestFormDraft_IsEmpty(t *testing.T) {
	if !(course.FormDraft{Title: " "}).IsEmpty() {
		t.Error("blank draft should be empty")
	}
	if (course.FormDraft{Duration: "12"}).IsEmpty() {
		t.Error("draft with duration text should not be empty")
	}
}
