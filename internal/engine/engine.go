// Package engine fuses keyword matching, semantic similarity and the
// qualitative evaluation into a single scored verdict.
package engine

import (
	"context"
	"strings"
	"time"

	"resumefit/internal/ai"
	"resumefit/internal/config"
	"resumefit/internal/errors"
	"resumefit/internal/extract"
	"resumefit/internal/match"
	"resumefit/internal/semantic"
	"resumefit/internal/types"
)

// Qualitative is the evaluation boundary the engine calls; ai.Service is
// the production implementation.
type Qualitative interface {
	Evaluate(ctx context.Context, resumeText, jobText string) (types.QualitativeResult, types.QualitativeDiagnostics)
}

var _ Qualitative = (*ai.Service)(nil)

// Engine scores resumes against job requirements.
type Engine struct {
	cfg         *config.ScoringConfig
	scorer      *semantic.Scorer
	qualitative Qualitative
	extractor   *extract.Extractor
	logger      *errors.Logger
}

// New assembles the engine from its collaborators.
func New(cfg *config.ScoringConfig, scorer *semantic.Scorer, qualitative Qualitative, extractor *extract.Extractor, logger *errors.Logger) *Engine {
	return &Engine{
		cfg:         cfg,
		scorer:      scorer,
		qualitative: qualitative,
		extractor:   extractor,
		logger:      logger,
	}
}

// Evaluate runs the full pipeline for one (job, resume) pair. It fails only
// on invalid input; every scoring-path degradation resolves internally and
// is reported through the artifacts.
func (e *Engine) Evaluate(ctx context.Context, job types.JobRequirement, resume types.ResumeDocument) (types.EvaluationArtifacts, error) {
	if err := validate(job, resume); err != nil {
		return types.EvaluationArtifacts{}, err
	}

	hard := match.HardMatch(resume.Text, job.MustSkills, job.NiceSkills, e.cfg.FuzzyMatchThreshold)
	similarity := e.scorer.Score(ctx, resume.Text, job.JDText)
	qualitative, diagnostics := e.qualitative.Evaluate(ctx, resume.Text, job.JDText)

	soft := blendSoft(qualitative.SemanticScore, similarity.Score, e.cfg.LLMBlendWeight)
	final := fuse(hard.Score, soft, e.cfg.HardMatchWeight, e.cfg.SoftMatchWeight)
	verdict := verdictFor(final, e.cfg.VerdictThresholds.High, e.cfg.VerdictThresholds.Medium)

	suggestions := suggestionText(qualitative.ImprovementSuggestions, hard.MissingMust)
	missing := consolidateMissing(hard.MissingMust, qualitative.SkillGaps)

	entities := e.extractor.Extract(ctx, resume.Text)
	missing = refineMissing(missing, entities.Skills)

	e.logger.Info("Evaluation completed",
		"job_id", job.ID,
		"resume_id", resume.ID,
		"score", final,
		"verdict", verdict,
		"hard_score", hard.Score,
		"soft_score", soft,
		"similarity_tier", similarity.Tier,
		"qualitative_source", diagnostics.Source,
		"missing_count", len(missing))

	return types.EvaluationArtifacts{
		Evaluation: types.Evaluation{
			JobID:         job.ID,
			ResumeID:      resume.ID,
			Score:         final,
			Verdict:       verdict,
			MissingSkills: missing,
			Suggestions:   suggestions,
			CreatedAt:     time.Now().UTC(),
		},
		Entities:    entities,
		Qualitative: qualitative,
		Diagnostics: diagnostics,
		Similarity:  similarity,
	}, nil
}

func validate(job types.JobRequirement, resume types.ResumeDocument) error {
	if strings.TrimSpace(resume.Text) == "" {
		return errors.NewValidationError(errors.ErrCodeEmptyResume,
			"Resume text must not be empty", nil)
	}
	if resume.ID == 0 {
		return errors.NewValidationError(errors.ErrCodeUnsavedResume,
			"Resume must be saved before evaluation", nil)
	}
	if strings.TrimSpace(job.Title) == "" {
		return errors.NewValidationError(errors.ErrCodeEmptyJobTitle,
			"Job title must not be empty", nil)
	}
	if len(job.MustSkills) > 0 && countNonBlank(job.MustSkills) == 0 {
		return errors.NewValidationError(errors.ErrCodeInvalidSkillList,
			"Must-skill list contains only blank entries", nil)
	}
	return nil
}

func countNonBlank(skills []string) int {
	n := 0
	for _, skill := range skills {
		if strings.TrimSpace(skill) != "" {
			n++
		}
	}
	return n
}
