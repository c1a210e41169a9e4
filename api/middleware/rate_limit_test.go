package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/umtlostfound/lostfound-backend/pkg/config"
)

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func rateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{WriteWindow: time.Minute, WriteUserLimit: 2, WriteIPLimit: 1}
}

func TestWriteRateLimitBlocksAfterUserLimit(t *testing.T) {
	limiter := &fakeLimiter{}
	handler := WriteRateLimit(limiter, rateLimitConfig(), nil)(okHandler(nil))

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)
		req = req.WithContext(WithUserID(req.Context(), "user-1"))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
	if limiter.counts["write:user:user-1"] != 3 {
		t.Fatalf("expected per-user scope, got %v", limiter.counts)
	}
}

func TestWriteRateLimitFallsBackToIP(t *testing.T) {
	limiter := &fakeLimiter{}
	handler := WriteRateLimit(limiter, rateLimitConfig(), nil)(okHandler(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if limiter.counts["write:ip:203.0.113.9"] != 1 {
		t.Fatalf("expected ip scope, got %v", limiter.counts)
	}
}

func TestWriteRateLimitIgnoresReads(t *testing.T) {
	limiter := &fakeLimiter{}
	handler := WriteRateLimit(limiter, rateLimitConfig(), nil)(okHandler(nil))

	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected reads to pass, got %d", resp.Code)
		}
	}
	if len(limiter.counts) != 0 {
		t.Fatalf("reads should not be counted")
	}
}

func TestWriteRateLimitSurfacesStoreFailure(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	handler := WriteRateLimit(limiter, rateLimitConfig(), nil)(okHandler(nil))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/api/v1/items/x", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestWriteRateLimitDisabledWithoutLimiter(t *testing.T) {
	handler := WriteRateLimit(nil, rateLimitConfig(), nil)(okHandler(nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/claims", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", resp.Code)
	}
}
