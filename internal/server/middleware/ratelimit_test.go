package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestNewRateLimiter tests rate limiter creation.
func TestNewRateLimiter(t *testing.T) {
	logger := zerolog.Nop()

	rl := NewRateLimiter(120, &logger)
	defer rl.Stop()
	if rl.visitors == nil {
		t.Error("visitors map not initialized")
	}
	if rl.burst != 10 {
		t.Errorf("expected burst=10, got %d", rl.burst)
	}

	small := NewRateLimiter(3, &logger)
	defer small.Stop()
	if small.burst != 3 {
		t.Errorf("expected burst capped at limit, got %d", small.burst)
	}
}

// TestRateLimiter_Allow tests the burst allowance per IP.
func TestRateLimiter_Allow(t *testing.T) {
	logger := zerolog.Nop()
	rl := NewRateLimiter(5, &logger)
	defer rl.Stop()

	allowed := 0
	for i := 0; i < 8; i++ {
		if rl.allow("10.0.0.1") {
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("expected 5 allowed, got %d", allowed)
	}

	if !rl.allow("10.0.0.2") {
		t.Error("expected a different IP to have its own bucket")
	}
}

// TestRateLimiter_Prune tests removal of idle visitors.
func TestRateLimiter_Prune(t *testing.T) {
	logger := zerolog.Nop()
	rl := NewRateLimiter(5, &logger)
	defer rl.Stop()

	rl.allow("10.0.0.1")
	rl.prune(time.Now())
	if len(rl.visitors) != 1 {
		t.Fatalf("expected recent visitor to be kept")
	}

	rl.prune(time.Now().Add(time.Hour))
	if len(rl.visitors) != 0 {
		t.Errorf("expected idle visitor to be removed, %d left", len(rl.visitors))
	}

	rl.Stop()
	rl.Stop()
}

// TestRateLimit_Middleware tests the 429 response.
func TestRateLimit_Middleware(t *testing.T) {
	logger := zerolog.Nop()
	rl := NewRateLimiter(1, &logger)
	defer rl.Stop()

	handler := RateLimit(rl)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/reconcile/LoC", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

// TestClientIP tests client address extraction.
func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{"remote addr", "192.0.2.1:5555", "", "192.0.2.1"},
		{"forwarded single", "10.0.0.1:80", "203.0.113.9", "203.0.113.9"},
		{"forwarded chain", "10.0.0.1:80", "203.0.113.9, 10.0.0.2", "203.0.113.9"},
		{"no port", "192.0.2.7", "", "192.0.2.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
