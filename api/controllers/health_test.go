package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/umtlostfound/lostfound-backend/pkg/config"
)

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := httptest.NewRecorder()
	HealthLive(cfg)(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-LostFound-Env") != "dev" {
		t.Fatalf("expected env header")
	}
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	checks := []ReadinessCheck{
		{Name: "db", Ping: func(context.Context) error { return nil }},
		{Name: "redis", Ping: func(context.Context) error { return errors.New("dial tcp: refused") }},
	}

	resp := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), checks...)(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"redis":"unavailable"`) {
		t.Fatalf("expected failing dependency named, got %s", resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "refused") {
		t.Fatalf("dependency error leaked: %s", resp.Body.String())
	}
}

func TestHealthReadyAllUp(t *testing.T) {
	cfg := &config.Config{}
	resp := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), ReadinessCheck{Name: "db", Ping: func(context.Context) error { return nil }})(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
