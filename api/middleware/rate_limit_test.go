package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type memoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{counts: map[string]int64{}}
}

func (m *memoryLimiter) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitBlocksIPOverLimit(t *testing.T) {
	store := newMemoryLimiter()
	policy := NewRateLimitPolicy("checkout", time.Minute, 2, 0)
	handler := RateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
		req.RemoteAddr = "10.1.2.3:5000"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.RemoteAddr = "10.1.2.3:5000"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestRateLimitCountsPerUser(t *testing.T) {
	store := newMemoryLimiter()
	policy := NewRateLimitPolicy("checkout", time.Minute, 0, 1)
	handler := RateLimit(policy, store, nil)(okHandler())

	userA := uuid.NewString()
	userB := uuid.NewString()

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
		req = req.WithContext(WithUserID(req.Context(), userID))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := send(userA); code != http.StatusOK {
		t.Fatalf("first request for user A: expected 200 got %d", code)
	}
	if code := send(userA); code != http.StatusTooManyRequests {
		t.Fatalf("second request for user A: expected 429 got %d", code)
	}
	if code := send(userB); code != http.StatusOK {
		t.Fatalf("user B should have a separate counter, got %d", code)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := RateLimit(RateLimitPolicy{}, newMemoryLimiter(), nil)(okHandler())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected passthrough 200 got %d", resp.Code)
	}
}

func TestRateLimitAnonymousSkipsUserCounter(t *testing.T) {
	store := newMemoryLimiter()
	policy := NewRateLimitPolicy("checkout", time.Minute, 0, 1)
	handler := RateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("anonymous request %d: expected 200 got %d", i+1, resp.Code)
		}
	}
}
