package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// TestRateLimiter_RefillsPerInterval tests bucket exhaustion and refill.
func TestRateLimiter_RefillsPerInterval(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request within the interval should be limited")
	}
	if !rl.Allow("b") {
		t.Error("other clients have their own bucket")
	}
	now = now.Add(time.Second)
	if !rl.Allow("a") {
		t.Error("bucket should refill after the interval")
	}

	now = now.Add(visitorTTL + time.Second)
	rl.Allow("c")
	if _, ok := rl.visitors["b"]; ok {
		t.Error("idle visitor not swept")
	}
}

// TestRateLimiter_Disabled tests that a zero rate never limits.
func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Second)
	for range 100 {
		if !rl.Allow("a") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}

// TestRateLimit_Returns429 tests the middleware status code.
func TestRateLimit_Returns429(t *testing.T) {
	h := RateLimit(NewRateLimiter(1, time.Hour))(okHandler)
	codes := []int{}
	for range 2 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/courses", nil))
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

// TestSecurityHeaders tests the headers set on every response.
func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

// TestCSRF tests that JSON and XHR writes are exempt while form posts need a token.
func TestCSRF(t *testing.T) {
	h := CSRF(make([]byte, 32), false)(okHandler)
	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"json body", map[string]string{"Content-Type": "application/json; charset=utf-8"}, http.StatusOK},
		{"xhr", map[string]string{"X-Requested-With": "XMLHttpRequest"}, http.StatusOK},
		{"form post", map[string]string{"Content-Type": "application/x-www-form-urlencoded"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/courses", strings.NewReader("{}"))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
