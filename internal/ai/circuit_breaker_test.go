package ai

import (
	"fmt"
	"testing"
	"time"

	"resumefit/internal/config"
	"resumefit/internal/errors"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("errors.New() error = %v", err)
	}
	return logger
}

func enabledBreakerConfig() *config.CircuitBreakerConfig {
	return &config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      2,
		FailureThreshold: 0.6,
	}
}

func TestNewGenerateBreakerDisabled(t *testing.T) {
	cfg := &config.CircuitBreakerConfig{Enabled: false}
	if breaker := NewGenerateBreaker("evaluate", cfg, testLogger(t)); breaker != nil {
		t.Error("NewGenerateBreaker() != nil for disabled config")
	}
}

func TestNilBreakerPassesThrough(t *testing.T) {
	var breaker *GenerateBreaker

	want := &genai.GenerateContentResponse{}
	got, err := breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != want {
		t.Error("Execute() did not pass result through")
	}
	if !breaker.IsHealthy() {
		t.Error("IsHealthy() = false for nil breaker")
	}
}

func TestGenerateBreakerTripsOnFailures(t *testing.T) {
	breaker := NewGenerateBreaker("evaluate", enabledBreakerConfig(), testLogger(t))
	if breaker == nil {
		t.Fatal("NewGenerateBreaker() = nil for enabled config")
	}

	fail := func() (*genai.GenerateContentResponse, error) {
		return nil, fmt.Errorf("backend failure")
	}
	for range 3 {
		breaker.Execute(fail) //nolint:errcheck
	}

	if breaker.IsHealthy() {
		t.Error("IsHealthy() = true after repeated failures, want tripped breaker")
	}

	stats := breaker.Stats()
	if state, _ := stats["state"].(string); state != "open" {
		t.Errorf("Stats() state = %v, want open", stats["state"])
	}
}

func TestEmbedBreakerTripsIndependently(t *testing.T) {
	embed := NewEmbedBreaker(enabledBreakerConfig(), testLogger(t))
	generate := NewGenerateBreaker("evaluate", enabledBreakerConfig(), testLogger(t))

	for range 3 {
		embed.Execute(func() ([]float32, error) { //nolint:errcheck
			return nil, fmt.Errorf("embed failure")
		})
	}

	if !generate.IsHealthy() {
		t.Error("generate breaker tripped by embed failures")
	}
	if _, err := embed.Execute(func() ([]float32, error) { return []float32{1}, nil }); err == nil {
		t.Error("embed breaker should be open after repeated failures")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", fmt.Errorf("bad request"), false},
		{"timeout", &timeoutError{}, true},
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 503}, true},
		{"bad request status", &googleapi.Error{Code: 400}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
