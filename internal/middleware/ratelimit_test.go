package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewRateLimiter()
	for i := 0; i < 5; i++ {
		if !rl.Allow("key", 5, time.Minute) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("key", 5, time.Minute) {
		t.Error("request over the limit should be denied")
	}
}

func TestAllowSeparateKeys(t *testing.T) {
	rl := NewRateLimiter()
	for i := 0; i < 3; i++ {
		rl.Allow("a", 3, time.Minute)
	}
	if rl.Allow("a", 3, time.Minute) {
		t.Error("key a should be exhausted")
	}
	if !rl.Allow("b", 3, time.Minute) {
		t.Error("key b should be unaffected")
	}
}

func TestWindowReset(t *testing.T) {
	rl := NewRateLimiter()
	for i := 0; i < 2; i++ {
		rl.Allow("key", 2, 10*time.Millisecond)
	}
	if rl.Allow("key", 2, 10*time.Millisecond) {
		t.Fatal("should be denied inside the window")
	}
	time.Sleep(20 * time.Millisecond)
	if !rl.Allow("key", 2, 10*time.Millisecond) {
		t.Error("should be allowed after the window resets")
	}
}

func TestCleanup(t *testing.T) {
	rl := NewRateLimiter()
	rl.Allow("stale", 1, time.Millisecond)
	rl.Allow("fresh", 1, time.Minute)
	time.Sleep(5 * time.Millisecond)

	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.windows["stale"]; ok {
		t.Error("expired window not cleaned up")
	}
	if _, ok := rl.windows["fresh"]; !ok {
		t.Error("live window removed")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	handler := RateLimit(rl, 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.7:5555"
	if got := RealIP(req); got != "192.168.1.7" {
		t.Errorf("RealIP = %q, want 192.168.1.7", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := RealIP(req); got != "203.0.113.9" {
		t.Errorf("RealIP = %q, want first forwarded address", got)
	}
}
