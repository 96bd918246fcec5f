package web

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"coursecatalog/internal/adapters/http/middleware"
	"coursecatalog/internal/application/catalog"
	"coursecatalog/internal/application/orchestrators"
)

// Options configures NewServer.
type Options struct {
	// CSRFKey is the 32-byte CSRF secret. Nil generates a random key, which
	// only suits development since tokens do not survive a restart.
	CSRFKey []byte
	// SecureCookies marks the CSRF cookie Secure (HTTPS only).
	SecureCookies bool
	// RateLimitPerSecond caps requests per client IP. Zero disables limiting.
	RateLimitPerSecond int
	// SlowRequest is the Timing middleware warning threshold.
	SlowRequest time.Duration
}

// Server serves the course catalog JSON API.
type Server struct {
	session *catalog.Session
	drafts  orchestrators.FormDraftStore
	opts    Options
}

// NewServer creates a server over an explicitly owned session.
// PRE: session and drafts are non-nil
func NewServer(session *catalog.Session, drafts orchestrators.FormDraftStore, opts Options) (*Server, error) {
	if opts.CSRFKey == nil {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate CSRF key: %w", err)
		}
		slog.Warn("csrf_key_random", "detail", "set COURSES_CSRF_KEY so tokens survive restarts")
		opts.CSRFKey = key
	}
	if len(opts.CSRFKey) != 32 {
		return nil, fmt.Errorf("CSRF key must be 32 bytes, got %d", len(opts.CSRFKey))
	}
	return &Server{session: session, drafts: drafts, opts: opts}, nil
}

// Handler wires routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	limiter := middleware.NewRateLimiter(s.opts.RateLimitPerSecond, time.Second)

	// Timing -> RateLimit -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(s.opts.CSRFKey, s.opts.SecureCookies),
		middleware.RateLimit(limiter),
		middleware.Timing(s.opts.SlowRequest),
	)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/courses", s.handleListCourses)
	mux.HandleFunc("POST /api/courses", s.handleCreateCourse)
	mux.HandleFunc("POST /api/courses/reorder", s.handleReorderCourses)
	mux.HandleFunc("POST /api/courses/refresh", s.handleRefreshCourses)
	mux.HandleFunc("GET /api/courses/{id}", s.handleGetCourse)
	mux.HandleFunc("PATCH /api/courses/{id}", s.handleUpdateCourse)
	mux.HandleFunc("DELETE /api/courses/{id}", s.handleDeleteCourse)

	mux.HandleFunc("GET /api/course-form-draft", s.handleGetFormDraft)
	mux.HandleFunc("PUT /api/course-form-draft", s.handleSaveFormDraft)
	mux.HandleFunc("DELETE /api/course-form-draft", s.handleClearFormDraft)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
