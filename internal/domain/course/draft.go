package course

import "strings"

// FormDraft is an unsaved create-form snapshot.
// Duration holds the raw text typed into the form, which may not parse.
type FormDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// IsEmpty returns true if no field holds any non-blank text.
func (d FormDraft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == "" &&
		strings.TrimSpace(d.Description) == "" &&
		strings.TrimSpace(d.Duration) == ""
}
