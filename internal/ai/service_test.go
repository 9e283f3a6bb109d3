package ai

import (
	"context"
	"fmt"
	"testing"

	"resumefit/internal/config"
	"resumefit/internal/extract"
	"resumefit/internal/semantic"
	"resumefit/internal/types"
)

func newTestFallback(t *testing.T) *FallbackEvaluator {
	t.Helper()
	scorer := semantic.NewScorer(nil, semantic.Options{}, testLogger(t))
	return NewFallbackEvaluator(scorer, nil)
}

func TestFallbackEvaluate(t *testing.T) {
	fallback := newTestFallback(t)

	result := fallback.Evaluate(context.Background(),
		"Python developer with Docker and AWS experience",
		"Looking for Python, Kubernetes, Terraform, Ansible, Jenkins and Redis skills")

	if result.ConfidenceScore != 0.7 {
		t.Errorf("Evaluate() confidence = %v, want exactly 0.7", result.ConfidenceScore)
	}
	if len(result.ImprovementSuggestions) != 3 {
		t.Errorf("Evaluate() suggestions = %d, want exactly 3", len(result.ImprovementSuggestions))
	}
	if len(result.SkillGaps) > 5 {
		t.Errorf("Evaluate() gaps = %d, want at most 5", len(result.SkillGaps))
	}
	if len(result.Strengths) > 5 {
		t.Errorf("Evaluate() strengths = %d, want at most 5", len(result.Strengths))
	}
	if result.DetailedFeedback == "" || result.RelevanceExplanation == "" {
		t.Error("Evaluate() left feedback fields empty")
	}
	if result.SemanticScore < 0 || result.SemanticScore > 1 {
		t.Errorf("Evaluate() semantic score = %v, want in [0,1]", result.SemanticScore)
	}
}

func TestFallbackGapsExcludeResumeSkills(t *testing.T) {
	fallback := newTestFallback(t)

	result := fallback.Evaluate(context.Background(),
		"I know python very well",
		"Requires python and rust")

	for _, gap := range result.SkillGaps {
		if gap == "python" {
			t.Errorf("Evaluate() gaps = %v, python is on the resume", result.SkillGaps)
		}
	}
	found := false
	for _, s := range result.Strengths {
		if s == "python" {
			found = true
		}
	}
	if !found {
		t.Errorf("Evaluate() strengths = %v, want python", result.Strengths)
	}
}

func TestFallbackDeterministic(t *testing.T) {
	fallback := newTestFallback(t)
	resume := "Go engineer with postgresql and docker"
	job := "Need go, kubernetes, postgresql, terraform"

	first := fallback.Evaluate(context.Background(), resume, job)
	second := fallback.Evaluate(context.Background(), resume, job)

	if first.SemanticScore != second.SemanticScore {
		t.Error("Evaluate() semantic score differs between identical calls")
	}
	if fmt.Sprint(first.SkillGaps) != fmt.Sprint(second.SkillGaps) {
		t.Errorf("Evaluate() gaps differ: %v vs %v", first.SkillGaps, second.SkillGaps)
	}
	if fmt.Sprint(first.Strengths) != fmt.Sprint(second.Strengths) {
		t.Errorf("Evaluate() strengths differ: %v vs %v", first.Strengths, second.Strengths)
	}
}

type stubProvider struct {
	result types.QualitativeResult
	usage  *TokenUsage
	err    error
}

func (p *stubProvider) EvaluateFit(_ context.Context, _, _ string) (types.QualitativeResult, *TokenUsage, error) {
	return p.result, p.usage, p.err
}

func (p *stubProvider) TagEntities(_ context.Context, _ string) ([]extract.EntitySpan, error) {
	return nil, nil
}

func (p *stubProvider) EmbedText(_ context.Context, _ string) ([]float32, error) {
	return nil, nil
}

func (p *stubProvider) GetModelInfo(_ context.Context) *ModelInfo {
	return &ModelInfo{Name: "stub", Available: true}
}

func (p *stubProvider) Close() error { return nil }

func newServiceWithProvider(t *testing.T, provider Provider) *Service {
	t.Helper()
	return &Service{
		Provider: provider,
		fallback: newTestFallback(t),
		config:   &config.AIConfig{Model: "gemini-2.0-flash"},
		logger:   testLogger(t),
	}
}

func TestServiceEvaluateWithoutProvider(t *testing.T) {
	service := newServiceWithProvider(t, nil)

	result, diagnostics := service.Evaluate(context.Background(), "python dev", "python job")

	if diagnostics.Source != types.SourceFallback {
		t.Errorf("Evaluate() source = %v, want fallback", diagnostics.Source)
	}
	if diagnostics.Reason == "" {
		t.Error("Evaluate() fallback reason is empty")
	}
	if result.ConfidenceScore != 0.7 {
		t.Errorf("Evaluate() confidence = %v, want fallback value 0.7", result.ConfidenceScore)
	}
}

func TestServiceEvaluateProviderFailure(t *testing.T) {
	service := newServiceWithProvider(t, &stubProvider{err: fmt.Errorf("model exploded")})

	result, diagnostics := service.Evaluate(context.Background(), "python dev", "python job")

	if diagnostics.Source != types.SourceFallback {
		t.Errorf("Evaluate() source = %v, want fallback after provider failure", diagnostics.Source)
	}
	if result.ConfidenceScore != 0.7 {
		t.Errorf("Evaluate() confidence = %v, want fallback result", result.ConfidenceScore)
	}
}

func TestServiceEvaluateProviderSuccess(t *testing.T) {
	want := types.QualitativeResult{
		SemanticScore:          0.82,
		DetailedFeedback:       "solid fit",
		SkillGaps:              []string{"terraform"},
		Strengths:              []string{"go"},
		ImprovementSuggestions: []string{"quantify impact"},
		RelevanceExplanation:   "strong overlap",
		ConfidenceScore:        0.9,
	}
	service := newServiceWithProvider(t, &stubProvider{
		result: want,
		usage:  &TokenUsage{InputTokens: 120, OutputTokens: 40, TotalTokens: 160},
	})

	result, diagnostics := service.Evaluate(context.Background(), "resume", "job")

	if diagnostics.Source != types.SourceLLM {
		t.Errorf("Evaluate() source = %v, want llm", diagnostics.Source)
	}
	if diagnostics.InputTokens != 120 || diagnostics.OutputTokens != 40 {
		t.Errorf("Evaluate() tokens = %d/%d, want 120/40", diagnostics.InputTokens, diagnostics.OutputTokens)
	}
	if result.SemanticScore != 0.82 {
		t.Errorf("Evaluate() semantic score = %v, want 0.82", result.SemanticScore)
	}
}

type breakerStubProvider struct {
	stubProvider
}

func (p *breakerStubProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{"overall_healthy": true}
}

func TestServiceCircuitBreakerStats(t *testing.T) {
	if stats := newServiceWithProvider(t, nil).GetCircuitBreakerStats(); stats != nil {
		t.Errorf("GetCircuitBreakerStats() = %v, want nil without backend", stats)
	}
	if stats := newServiceWithProvider(t, &stubProvider{}).GetCircuitBreakerStats(); stats != nil {
		t.Errorf("GetCircuitBreakerStats() = %v, want nil for backend without breaker", stats)
	}

	stats := newServiceWithProvider(t, &breakerStubProvider{}).GetCircuitBreakerStats()
	if stats == nil || stats["overall_healthy"] != true {
		t.Errorf("GetCircuitBreakerStats() = %v, want overall_healthy true", stats)
	}
}

func TestServiceClampsModelScores(t *testing.T) {
	service := newServiceWithProvider(t, &stubProvider{
		result: types.QualitativeResult{SemanticScore: 1.4, ConfidenceScore: -0.2},
	})

	result, _ := service.Evaluate(context.Background(), "resume", "job")

	if result.SemanticScore != 1.0 {
		t.Errorf("Evaluate() semantic score = %v, want clamped to 1.0", result.SemanticScore)
	}
	if result.ConfidenceScore != 0.0 {
		t.Errorf("Evaluate() confidence = %v, want clamped to 0.0", result.ConfidenceScore)
	}
}
