package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// captureLogs routes slog output to a buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// TestTimingMiddleware_LogsRequest verifies a fast request logs at DEBUG with its status.
func TestTimingMiddleware_LogsRequest(t *testing.T) {
	logs := captureLogs(t)
	handler := Timing(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/courses/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	out := logs.String()
	if !strings.Contains(out, "msg=request") || !strings.Contains(out, "status=404") {
		t.Errorf("log = %q", out)
	}
}

// TestTimingMiddleware_SlowRequest verifies requests over the threshold log at WARN.
func TestTimingMiddleware_SlowRequest(t *testing.T) {
	logs := captureLogs(t)
	handler := Timing(time.Nanosecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/courses", nil))

	if out := logs.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "slow_request") {
		t.Errorf("log = %q", out)
	}
}
