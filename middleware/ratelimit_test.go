// ABOUTME: Unit tests for rate limiting middleware
// ABOUTME: Tests core limiter, key extraction, and middleware factory

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// --- RateLimiter core tests ---

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("test-key")
		if !allowed {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	rl.Allow("test-key")
	rl.Allow("test-key")

	allowed, retryAfter := rl.Allow("test-key")
	if allowed {
		t.Fatal("Third request should be rejected")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Errorf("Expected retryAfter between 0 and 60s, got %v", retryAfter)
	}
}

func TestRateLimiter_SeparateKeys(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	allowed, _ := rl.Allow("key-a")
	if !allowed {
		t.Fatal("First request for key-a should be allowed")
	}

	allowed, _ = rl.Allow("key-b")
	if !allowed {
		t.Fatal("First request for key-b should be allowed (separate quota)")
	}

	allowed, _ = rl.Allow("key-a")
	if allowed {
		t.Fatal("Second request for key-a should be rejected")
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)

	allowed, _ := rl.Allow("test-key")
	if !allowed {
		t.Fatal("First request should be allowed")
	}

	allowed, _ = rl.Allow("test-key")
	if allowed {
		t.Fatal("Second request should be rejected")
	}

	// Wait for window to expire
	time.Sleep(60 * time.Millisecond)

	allowed, _ = rl.Allow("test-key")
	if !allowed {
		t.Fatal("Request after window reset should be allowed")
	}
}

func TestRateLimiter_ConcurrentAccess(t *testing.T) {
	rl := NewRateLimiter(100, time.Minute)

	var wg sync.WaitGroup
	allowed := make([]bool, 200)

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			allowed[idx], _ = rl.Allow("concurrent-key")
		}(i)
	}

	wg.Wait()

	allowedCount := 0
	for _, a := range allowed {
		if a {
			allowedCount++
		}
	}

	if allowedCount != 100 {
		t.Errorf("Expected exactly 100 allowed requests, got %d", allowedCount)
	}
}

func TestRateLimiter_ExpiredEntriesCleanedUp(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)

	for i := 0; i < 5; i++ {
		rl.Allow(fmt.Sprintf("key-%d", i))
	}

	rl.mu.Lock()
	initialLen := len(rl.windows)
	rl.mu.Unlock()
	if initialLen != 5 {
		t.Fatalf("Expected 5 entries, got %d", initialLen)
	}

	time.Sleep(30 * time.Millisecond)

	// Access a key to trigger lazy deletion (old entry gets deleted + new one created)
	rl.Allow("key-0")

	rl.mu.Lock()
	afterLen := len(rl.windows)
	rl.mu.Unlock()

	if afterLen > 5 {
		t.Errorf("Expected at most 5 entries after lazy delete, got %d", afterLen)
	}
}

// --- Key extraction tests ---

func TestClientIP_XForwardedFor(t *testing.T) {
	tests := []struct {
		name     string
		xff      string
		remote   string
		expected string
	}{
		{
			name:     "single IP",
			xff:      "203.0.113.1",
			expected: "ip:203.0.113.1",
		},
		{
			name:     "multiple IPs takes leftmost",
			xff:      "203.0.113.1, 198.51.100.1, 10.0.0.1",
			expected: "ip:203.0.113.1",
		},
		{
			name:     "no XFF falls back to RemoteAddr",
			remote:   "192.168.1.1:12345",
			expected: "ip:192.168.1.1",
		},
		{
			name:     "garbage XFF falls back to RemoteAddr",
			xff:      "not-an-ip",
			remote:   "192.168.1.1:12345",
			expected: "ip:192.168.1.1",
		},
		{
			name:     "XFF with spaces",
			xff:      "  203.0.113.1 , 10.0.0.1 ",
			expected: "ip:203.0.113.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}

			key := ClientIP(r)
			if key != tt.expected {
				t.Errorf("ClientIP() = %q, want %q", key, tt.expected)
			}
		})
	}
}

func TestSessionKey(t *testing.T) {
	keyFunc := SessionKey("accessToken")

	t.Run("with session cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: "abc123"})

		key := keyFunc(r)
		if key != "session:abc123" {
			t.Errorf("SessionKey() = %q, want %q", key, "session:abc123")
		}
	})

	t.Run("without session cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:5555"

		key := keyFunc(r)
		if key != "ip:10.0.0.1" {
			t.Errorf("SessionKey() = %q, want %q (should fallback to IP)", key, "ip:10.0.0.1")
		}
	})
}

// --- Middleware factory tests ---

func TestRateLimitMiddleware_NilLimiter(t *testing.T) {
	called := false
	handler := func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}

	mw := RateLimit(nil, ClientIP)
	wrapped := mw(handler)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	wrapped(w, r)

	if !called {
		t.Fatal("Handler should be called when limiter is nil (disabled mode)")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_EmptyKey(t *testing.T) {
	called := false
	handler := func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}

	// Key function that always returns empty
	emptyKey := func(r *http.Request) string { return "" }
	rl := NewRateLimiter(1, time.Minute)
	mw := RateLimit(rl, emptyKey)
	wrapped := mw(handler)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	wrapped(w, r)

	if !called {
		t.Fatal("Handler should be called when key is empty (unidentifiable client)")
	}
}

func TestRateLimitMiddleware_Returns429(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	mw := RateLimit(rl, ClientIP)
	wrapped := mw(handler)

	// First request: OK
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	wrapped(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("First request should be 200, got %d", w.Code)
	}

	// Second request: 429
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w = httptest.NewRecorder()
	wrapped(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Second request should be 429, got %d", w.Code)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatal("Expected Retry-After header")
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	// Body is the canonical envelope
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Error.Message != "rate limit exceeded" {
		t.Errorf("error.message = %q, want %q", body.Error.Message, "rate limit exceeded")
	}
}
