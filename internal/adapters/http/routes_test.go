package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestRoutes_Registered verifies every API route resolves to a handler.
func TestRoutes_Registered(t *testing.T) {
	env := newTestEnv(t)
	c := env.create(t, "Routed", 5)

	tests := []struct {
		method string
		path   string
		body   any
		want   int
	}{
		{"GET", "/healthz", nil, http.StatusOK},
		{"GET", "/api/courses", nil, http.StatusOK},
		{"POST", "/api/courses/refresh", nil, http.StatusOK},
		{"POST", "/api/courses/reorder?mode=manual", map[string]int{"from": 0, "to": 0}, http.StatusOK},
		{"GET", "/api/courses/" + c.ID, nil, http.StatusOK},
		{"PATCH", "/api/courses/" + c.ID, map[string]string{"description": "x"}, http.StatusOK},
		{"GET", "/api/course-form-draft", nil, http.StatusOK},
		{"PUT", "/api/course-form-draft", map[string]string{"title": "t"}, http.StatusNoContent},
		{"DELETE", "/api/course-form-draft", nil, http.StatusNoContent},
		{"DELETE", "/api/courses/" + c.ID, nil, http.StatusNoContent},
		{"PUT", "/api/courses", nil, http.StatusMethodNotAllowed},
		{"GET", "/api/unknown", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if rr := env.do(t, tt.method, tt.path, tt.body); rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

// TestCSRF_FormPostRejected verifies non-JSON writes need a CSRF token.
func TestCSRF_FormPostRejected(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/api/courses", strings.NewReader("title=x&duration=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("form POST status = %d, want 403", rr.Code)
	}

	req = httptest.NewRequest("POST", "/api/courses/refresh", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rr = httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("XHR POST status = %d, want 200", rr.Code)
	}
}

// TestNewServer_KeyLength verifies a malformed CSRF key is rejected.
func TestNewServer_KeyLength(t *testing.T) {
	if _, err := NewServer(nil, nil, Options{CSRFKey: []byte("short")}); err == nil {
		t.Error("expected error for short key")
	}
	srv, err := NewServer(nil, nil, Options{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if len(srv.opts.CSRFKey) != 32 {
		t.Errorf("generated key length = %d", len(srv.opts.CSRFKey))
	}
}
