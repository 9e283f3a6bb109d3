package ai

import (
	"context"
	"fmt"

	"resumefit/internal/config"
	"resumefit/internal/errors"
	"resumefit/internal/types"
)

// Service is the qualitative evaluation boundary. Evaluate never returns an
// error: every failure of the model path resolves to the deterministic
// fallback, and Diagnostics records which path actually ran.
type Service struct {
	Provider Provider // nil when no model backend is configured
	fallback *FallbackEvaluator
	config   *config.AIConfig
	logger   *errors.Logger
}

// NewService creates the qualitative evaluator. A missing API key is not an
// error: the service starts in fallback-only mode.
func NewService(cfg *config.AIConfig, fallback *FallbackEvaluator, logger *errors.Logger) (*Service, error) {
	service := &Service{
		fallback: fallback,
		config:   cfg,
		logger:   logger,
	}

	if cfg.APIKey == "" {
		logger.Warn("No AI API key configured, qualitative evaluation runs in fallback mode")
		return service, nil
	}

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	switch cfg.Provider {
	case "gemini":
		provider, err := NewGeminiProvider(cfg, logger)
		if err != nil {
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
				"Failed to create AI provider", err)
		}
		service.Provider = provider
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	return service, nil
}

// Evaluate produces a fully populated QualitativeResult for the resume and
// job text. The model path is tried first when available; any failure falls
// back to the deterministic evaluator.
func (s *Service) Evaluate(ctx context.Context, resumeText, jobText string) (types.QualitativeResult, types.QualitativeDiagnostics) {
	if s.Provider == nil {
		return s.fallback.Evaluate(ctx, resumeText, jobText), types.QualitativeDiagnostics{
			Source: types.SourceFallback,
			Reason: "no model backend configured",
		}
	}

	result, usage, err := s.Provider.EvaluateFit(ctx, resumeText, jobText)
	if err != nil {
		s.logger.Warn("Model evaluation failed, using fallback",
			"error", err.Error())
		return s.fallback.Evaluate(ctx, resumeText, jobText), types.QualitativeDiagnostics{
			Source: types.SourceFallback,
			Reason: err.Error(),
		}
	}

	diagnostics := types.QualitativeDiagnostics{Source: types.SourceLLM}
	if usage != nil {
		diagnostics.InputTokens = usage.InputTokens
		diagnostics.OutputTokens = usage.OutputTokens
		s.logger.Debug("Model evaluation completed",
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens)
	}
	return clampQualitative(result), diagnostics
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	if s.Provider == nil {
		return &ModelInfo{Name: s.config.Model, Available: false, Error: "no model backend configured"}
	}
	return s.Provider.GetModelInfo(ctx)
}

// GetCircuitBreakerStats reports the backend's circuit breaker state for the
// health endpoint. Returns nil when the backend exposes no breaker.
func (s *Service) GetCircuitBreakerStats() map[string]any {
	type breakerStats interface {
		GetCircuitBreakerStats() map[string]any
	}
	if provider, ok := s.Provider.(breakerStats); ok {
		return provider.GetCircuitBreakerStats()
	}
	return nil
}

// clampQualitative bounds the model-reported scores to [0,1]. The response
// schema constrains types, not ranges.
func clampQualitative(result types.QualitativeResult) types.QualitativeResult {
	result.SemanticScore = clamp01(result.SemanticScore)
	result.ConfidenceScore = clamp01(result.ConfidenceScore)
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetFallback installs the deterministic evaluator used when the model path
// is unavailable or fails. Must be called before Evaluate.
func (s *Service) SetFallback(fallback *FallbackEvaluator) {
	s.fallback = fallback
}
