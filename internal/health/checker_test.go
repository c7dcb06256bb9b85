package health

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(lookPath func(string) (string, error)) *Config {
	cfg := DefaultConfig("test-service", slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg.LookPath = lookPath
	return cfg
}

func TestCheckHealthy(t *testing.T) {
	checker := NewChecker(testConfig(func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}))

	status := checker.Check()
	if status.Status != "healthy" {
		t.Errorf("Status = %s, want healthy", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Errorf("Checks = %d, want 2", len(status.Checks))
	}
	if status.Checks["ffmpeg"].Path != "/usr/bin/ffmpeg" {
		t.Errorf("ffmpeg path = %s", status.Checks["ffmpeg"].Path)
	}
}

func TestCheckMissingTool(t *testing.T) {
	checker := NewChecker(testConfig(func(name string) (string, error) {
		if name == "ffprobe" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}))

	status := checker.Check()
	if status.Status != "degraded" {
		t.Errorf("Status = %s, want degraded", status.Status)
	}
	if status.Checks["ffprobe"].Status != "unhealthy" {
		t.Errorf("ffprobe check = %+v, want unhealthy", status.Checks["ffprobe"])
	}
}

func TestCheckCachesResult(t *testing.T) {
	calls := 0
	cfg := testConfig(func(name string) (string, error) {
		calls++
		return "/usr/bin/" + name, nil
	})
	cfg.CacheTTL = time.Hour

	checker := NewChecker(cfg)
	checker.Check()
	checker.Check()

	if calls != 2 { // two tools, one real check
		t.Errorf("lookPath called %d times, want 2 (cached second check)", calls)
	}
}

func TestHandler(t *testing.T) {
	checker := NewChecker(testConfig(func(name string) (string, error) {
		return "", errors.New("not found")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	checker.Handler()(rec, req)

	if rec.Code != 503 {
		t.Errorf("status code = %d, want 503", rec.Code)
	}

	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if status.Status != "degraded" {
		t.Errorf("Status = %s, want degraded", status.Status)
	}
}
