package engine

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"resumefit/internal/config"
	"resumefit/internal/errors"
	"resumefit/internal/extract"
	"resumefit/internal/semantic"
	"resumefit/internal/types"
)

type stubQualitative struct {
	result      types.QualitativeResult
	diagnostics types.QualitativeDiagnostics
}

func (s *stubQualitative) Evaluate(_ context.Context, _, _ string) (types.QualitativeResult, types.QualitativeDiagnostics) {
	return s.result, s.diagnostics
}

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("errors.New() error = %v", err)
	}
	return logger
}

func testScoringConfig() *config.ScoringConfig {
	return &config.ScoringConfig{
		HardMatchWeight:     0.6,
		SoftMatchWeight:     0.4,
		LLMBlendWeight:      0.7,
		FuzzyMatchThreshold: 85,
		VerdictThresholds:   config.VerdictThresholds{High: 75, Medium: 50},
	}
}

func newTestEngine(t *testing.T, qualitative Qualitative) *Engine {
	t.Helper()
	logger := testLogger(t)
	scorer := semantic.NewScorer(nil, semantic.Options{}, logger)
	extractor := extract.NewExtractor(extract.NewStaticInventory(nil), nil, logger)
	if qualitative == nil {
		qualitative = &stubQualitative{
			diagnostics: types.QualitativeDiagnostics{Source: types.SourceFallback},
		}
	}
	return New(testScoringConfig(), scorer, qualitative, extractor, logger)
}

func TestEvaluateFullMatch(t *testing.T) {
	engine := newTestEngine(t, nil)

	job := types.JobRequirement{
		ID:         1,
		Title:      "Backend Engineer",
		JDText:     "Experienced Python developer with strong SQL skills",
		MustSkills: []string{"python", "sql"},
	}
	resume := types.ResumeDocument{
		ID:   1,
		Text: "Experienced Python developer, 5 years, strong SQL skills",
	}

	artifacts, err := engine.Evaluate(context.Background(), job, resume)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	eval := artifacts.Evaluation
	if len(eval.MissingSkills) != 0 {
		t.Errorf("Evaluate() missing = %v, want none", eval.MissingSkills)
	}
	// hard = 0.8 alone contributes 48 points; the soft component from two
	// near-identical texts keeps the verdict out of the Low band.
	if eval.Verdict == types.VerdictLow {
		t.Errorf("Evaluate() verdict = %v (score %v), want Medium or High", eval.Verdict, eval.Score)
	}
	if eval.Score < 60 || eval.Score > 100 {
		t.Errorf("Evaluate() score = %v, want in [60,100]", eval.Score)
	}
}

func TestEvaluateNoMatches(t *testing.T) {
	engine := newTestEngine(t, nil)

	job := types.JobRequirement{
		ID:         1,
		Title:      "Platform Engineer",
		JDText:     "Kubernetes and Terraform platform role",
		MustSkills: []string{"kubernetes", "terraform"},
	}
	resume := types.ResumeDocument{
		ID:   1,
		Text: "Java developer with Spring Boot experience",
	}

	artifacts, err := engine.Evaluate(context.Background(), job, resume)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	eval := artifacts.Evaluation
	if len(eval.MissingSkills) != 2 {
		t.Errorf("Evaluate() missing = %v, want both must skills", eval.MissingSkills)
	}
	if !strings.Contains(eval.Suggestions, "kubernetes") || !strings.Contains(eval.Suggestions, "terraform") {
		t.Errorf("Evaluate() suggestions = %q, want both skill names", eval.Suggestions)
	}
	if eval.Verdict != types.VerdictLow {
		t.Errorf("Evaluate() verdict = %v (score %v), want Low", eval.Verdict, eval.Score)
	}
}

func TestEvaluateBlendsQualitativeScore(t *testing.T) {
	qualitative := &stubQualitative{
		result: types.QualitativeResult{
			SemanticScore:          0.9,
			ImprovementSuggestions: []string{"one", "two", "three", "four"},
			SkillGaps:              []string{"terraform"},
		},
		diagnostics: types.QualitativeDiagnostics{Source: types.SourceLLM},
	}
	engine := newTestEngine(t, qualitative)

	job := types.JobRequirement{
		ID:         1,
		Title:      "Go Engineer",
		JDText:     "Go services role",
		MustSkills: []string{"go"},
	}
	resume := types.ResumeDocument{ID: 1, Text: "Go services engineer building APIs in Go"}

	artifacts, err := engine.Evaluate(context.Background(), job, resume)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if artifacts.Evaluation.Suggestions != "one | two | three" {
		t.Errorf("Evaluate() suggestions = %q, want first three joined", artifacts.Evaluation.Suggestions)
	}
	if artifacts.Diagnostics.Source != types.SourceLLM {
		t.Errorf("Evaluate() diagnostics source = %v, want llm", artifacts.Diagnostics.Source)
	}
	// Gap "terraform" is not a confirmed entity skill on this resume, so it
	// survives refinement.
	found := false
	for _, skill := range artifacts.Evaluation.MissingSkills {
		if skill == "terraform" {
			found = true
		}
	}
	if !found {
		t.Errorf("Evaluate() missing = %v, want terraform from qualitative gaps", artifacts.Evaluation.MissingSkills)
	}
}

func TestEvaluateRefinesConfirmedSkills(t *testing.T) {
	// The fuzzy threshold misses "postgres" vs "postgresql", but the entity
	// extractor confirms postgresql on the resume, so it must not be
	// reported missing.
	qualitative := &stubQualitative{
		result: types.QualitativeResult{SkillGaps: []string{"postgresql"}},
	}
	engine := newTestEngine(t, qualitative)

	job := types.JobRequirement{
		ID:         1,
		Title:      "Data Engineer",
		JDText:     "Data role",
		MustSkills: []string{"python"},
	}
	resume := types.ResumeDocument{ID: 1, Text: "Python engineer, heavy postgresql tuning work"}

	artifacts, err := engine.Evaluate(context.Background(), job, resume)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	for _, skill := range artifacts.Evaluation.MissingSkills {
		if skill == "postgresql" {
			t.Errorf("Evaluate() missing = %v, extractor-confirmed skill must be dropped",
				artifacts.Evaluation.MissingSkills)
		}
	}
}

func TestEvaluateValidation(t *testing.T) {
	engine := newTestEngine(t, nil)
	validJob := types.JobRequirement{ID: 1, Title: "Engineer", MustSkills: []string{"go"}}

	tests := []struct {
		name     string
		job      types.JobRequirement
		resume   types.ResumeDocument
		wantCode string
	}{
		{
			name:     "empty resume text",
			job:      validJob,
			resume:   types.ResumeDocument{ID: 1, Text: "   "},
			wantCode: errors.ErrCodeEmptyResume,
		},
		{
			name:     "unsaved resume",
			job:      validJob,
			resume:   types.ResumeDocument{Text: "some text"},
			wantCode: errors.ErrCodeUnsavedResume,
		},
		{
			name:     "empty job title",
			job:      types.JobRequirement{ID: 1, MustSkills: []string{"go"}},
			resume:   types.ResumeDocument{ID: 1, Text: "some text"},
			wantCode: errors.ErrCodeEmptyJobTitle,
		},
		{
			name:     "blank-only skill list",
			job:      types.JobRequirement{ID: 1, Title: "Engineer", MustSkills: []string{" ", ""}},
			resume:   types.ResumeDocument{ID: 1, Text: "some text"},
			wantCode: errors.ErrCodeInvalidSkillList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Evaluate(context.Background(), tt.job, tt.resume)
			if err == nil {
				t.Fatal("Evaluate() error = nil, want validation failure")
			}
			var appErr *errors.AppError
			if !stderrors.As(err, &appErr) {
				t.Fatalf("Evaluate() error type = %T, want *AppError", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("Evaluate() error code = %q, want %q", appErr.Code, tt.wantCode)
			}
		})
	}
}
