package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.MaxRequestBody != 1024*1024 {
		t.Errorf("MaxRequestBody = %d, want %d", cfg.MaxRequestBody, 1024*1024)
	}
	if cfg.EstimatorBaseURL != "http://localhost:8080" {
		t.Errorf("EstimatorBaseURL = %q, want %q", cfg.EstimatorBaseURL, "http://localhost:8080")
	}
	if cfg.ResultCacheTTL != 10*time.Minute {
		t.Errorf("ResultCacheTTL = %v, want %v", cfg.ResultCacheTTL, 10*time.Minute)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_REQUEST_BODY_BYTES", "4096")
	t.Setenv("ESTIMATOR_BASE_URL", "https://vcz.example.com")
	t.Setenv("RESULT_CACHE_TTL", "1m")

	cfg := Load()

	if cfg.MaxRequestBody != 4096 {
		t.Errorf("MaxRequestBody = %d, want 4096", cfg.MaxRequestBody)
	}
	if cfg.EstimatorBaseURL != "https://vcz.example.com" {
		t.Errorf("EstimatorBaseURL = %q, want %q", cfg.EstimatorBaseURL, "https://vcz.example.com")
	}
	if cfg.ResultCacheTTL != time.Minute {
		t.Errorf("ResultCacheTTL = %v, want %v", cfg.ResultCacheTTL, time.Minute)
	}
}
