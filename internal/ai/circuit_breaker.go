package ai

import (
	"fmt"

	"resumefit/internal/config"
	"resumefit/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// GenerateBreaker wraps content-generation calls with a circuit breaker.
type GenerateBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

// EmbedBreaker wraps embedding calls with a circuit breaker.
type EmbedBreaker struct {
	cb *gobreaker.CircuitBreaker[[]float32]
}

// ModelBreaker wraps model-info lookups with a circuit breaker.
type ModelBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

func breakerSettings(name string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}
}

// NewGenerateBreaker returns a breaker for generation calls, or nil when the
// breaker is disabled. A nil breaker passes calls straight through.
func NewGenerateBreaker(operation string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) *GenerateBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &GenerateBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](
			breakerSettings(fmt.Sprintf("AI-%s", operation), cfg, logger)),
	}
}

// NewEmbedBreaker returns a breaker for embedding calls, or nil when
// disabled.
func NewEmbedBreaker(cfg *config.CircuitBreakerConfig, logger *errors.Logger) *EmbedBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &EmbedBreaker{
		cb: gobreaker.NewCircuitBreaker[[]float32](
			breakerSettings("AI-Embed", cfg, logger)),
	}
}

// NewModelBreaker returns a breaker for model-info lookups, or nil when
// disabled. Model info is less critical, so the trip settings are lenient.
func NewModelBreaker(operation string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) *ModelBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := breakerSettings(fmt.Sprintf("AI-Model-%s", operation), cfg, logger)
	settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 5 && failureRatio >= 0.8
	}
	return &ModelBreaker{cb: gobreaker.NewCircuitBreaker[*genai.Model](settings)}
}

// Execute runs fn through the breaker, or directly when the breaker is nil.
func (b *GenerateBreaker) Execute(fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if b == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

func (b *EmbedBreaker) Execute(fn func() ([]float32, error)) ([]float32, error) {
	if b == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

func (b *ModelBreaker) Execute(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if b == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// IsHealthy reports whether the breaker is closed (or absent).
func (b *GenerateBreaker) IsHealthy() bool {
	if b == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}

// Stats exposes breaker counters for the health endpoint.
func (b *GenerateBreaker) Stats() map[string]any {
	if b == nil {
		return map[string]any{"enabled": false}
	}
	counts := b.cb.Counts()
	return map[string]any{
		"enabled":              true,
		"state":                b.cb.State().String(),
		"requests":             counts.Requests,
		"total_successes":      counts.TotalSuccesses,
		"total_failures":       counts.TotalFailures,
		"consecutive_failures": counts.ConsecutiveFailures,
	}
}
