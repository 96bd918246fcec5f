package web

import (
	"net/http"

	"coursecatalog/internal/adapters/markdown"
	"coursecatalog/internal/application/listview"
	"coursecatalog/internal/application/orchestrators"
	"coursecatalog/internal/domain/course"
)

// listResponse is the body of GET /api/courses and POST /api/courses/reorder.
type listResponse struct {
	Courses []course.Course `json:"courses"`
	Total   int             `json:"total"` // size of the unfiltered collection
	Mode    listview.Mode   `json:"mode"`
	// Query is the normalized query string for the view, for reuse in the next request.
	Query string `json:"query"`
}

// courseActions tells a client which controls to offer for a course.
type courseActions struct {
	CanEdit     bool            `json:"canEdit"`
	CanDelete   bool            `json:"canDelete"`
	Transitions []course.Status `json:"transitions"`
}

// courseDetail is the body of GET /api/courses/{id}.
type courseDetail struct {
	course.Course
	DescriptionHTML string        `json:"descriptionHtml"`
	Actions         courseActions `json:"actions"`
}

func newCourseDetail(c course.Course) courseDetail {
	transitions := c.AvailableTransitions()
	if transitions == nil {
		transitions = []course.Status{}
	}
	return courseDetail{
		Course:          c,
		DescriptionHTML: markdown.Render(c.Description),
		Actions: courseActions{
			CanEdit:     c.CanEdit(),
			CanDelete:   true,
			Transitions: transitions,
		},
	}
}

// reorderRequest is the body of POST /api/courses/reorder.
// Indices refer to the list displayed for the request's query parameters.
type reorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

// handleListCourses serves the displayed list for the query parameters.
// The collection is fetched on first use; later calls reuse it until a write
// or an explicit refresh.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	p := listview.ParseParams(r.URL.Query())
	s.writeList(w, http.StatusOK, s.session.View(p), p)
}

func (s *Server) writeList(w http.ResponseWriter, status int, view []course.Course, p listview.Params) {
	if view == nil {
		view = []course.Course{}
	}
	p = p.Normalized()
	writeJSON(w, status, listResponse{
		Courses: view,
		Total:   len(s.session.Courses()),
		Mode:    p.Mode,
		Query:   p.Encode().Encode(),
	})
}

// handleRefreshCourses re-fetches the collection, typically after a 503.
func (s *Server) handleRefreshCourses(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	p := listview.ParseParams(r.URL.Query())
	s.writeList(w, http.StatusOK, s.session.View(p), p)
}

// handleReorderCourses moves one course within the manual view.
// Indices refer to the list GET /api/courses returns for the same query.
func (s *Server) handleReorderCourses(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.From == nil || req.To == nil {
		badRequest(w, "from and to are required")
		return
	}
	if err := s.session.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	p := listview.ParseParams(r.URL.Query())
	if p.Mode != listview.ModeManual {
		badRequest(w, "reorder requires mode=manual")
		return
	}
	view, ok := s.session.Reorder(p, *req.From, *req.To)
	if !ok {
		badRequest(w, "index out of range")
		return
	}
	s.writeList(w, http.StatusOK, view, p)
}

// handleGetCourse returns one course with rendered description and available actions.
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	id := r.PathValue("id")
	for _, c := range s.session.Courses() {
		if c.ID == id {
			writeJSON(w, http.StatusOK, newCourseDetail(c))
			return
		}
	}
	writeError(w, course.ErrNotFound)
}

// handleCreateCourse creates a draft course.
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var in course.NewCourse
	if err := strictDecode(w, r, &in); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	c, err := s.session.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/courses/"+c.ID)
	writeJSON(w, http.StatusCreated, c)
}

// handleUpdateCourse applies a partial update.
func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var p course.Patch
	if err := strictDecode(w, r, &p); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	c, err := s.session.Update(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleDeleteCourse removes a course.
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Form draft ---

func (s *Server) handleGetFormDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.drafts.Load(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSaveFormDraft(w http.ResponseWriter, r *http.Request) {
	var d course.FormDraft
	if err := strictDecode(w, r, &d); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if err := orchestrators.ExecuteSaveFormDraft(r.Context(), d, orchestrators.SaveFormDraftDeps{Drafts: s.drafts}); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearFormDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.drafts.Clear(r.Context()); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
