package orchestrators

import (
	"context"
	"log/slog"

	"coursecatalog/internal/domain/course"
)

// FormDraftStore persists the single unsaved create-form snapshot.
type FormDraftStore interface {
	Load(ctx context.Context) (course.FormDraft, error)
	Save(ctx context.Context, d course.FormDraft) error
	Clear(ctx context.Context) error
}

// SaveFormDraftDeps holds dependencies for SaveFormDraft.
type SaveFormDraftDeps struct {
	Drafts FormDraftStore
}

// ExecuteSaveFormDraft stores the in-progress form. Drafts are not validated.
// PRE: none
// POST: a draft with no text clears the stored draft instead of saving it
func ExecuteSaveFormDraft(ctx context.Context, d course.FormDraft, deps SaveFormDraftDeps) error {
	if d.IsEmpty() {
		return deps.Drafts.Clear(ctx)
	}
	if err := deps.Drafts.Save(ctx, d); err != nil {
		return err
	}
	slog.Debug("course_event", "event", "form_draft_saved")
	return nil
}
