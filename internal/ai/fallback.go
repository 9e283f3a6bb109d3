package ai

import (
	"context"
	"fmt"
	"strings"

	"resumefit/internal/extract"
	"resumefit/internal/semantic"
	"resumefit/internal/types"
)

const fallbackConfidence = 0.7

var fallbackSuggestions = []string{
	"Consider adding missing skills to your resume",
	"Highlight relevant experience more prominently",
	"Include specific project examples",
}

// FallbackEvaluator produces a deterministic qualitative result when the
// model path is unavailable. Its confidence is fixed below a genuine
// model-backed judgment so downstream consumers can see the quality drop.
type FallbackEvaluator struct {
	scorer *semantic.Scorer
	source extract.InventorySource
}

// NewFallbackEvaluator builds the fallback path. A nil source uses the
// built-in default inventory.
func NewFallbackEvaluator(scorer *semantic.Scorer, source extract.InventorySource) *FallbackEvaluator {
	if source == nil {
		source = extract.NewStaticInventory(nil)
	}
	return &FallbackEvaluator{scorer: scorer, source: source}
}

// Evaluate fills every QualitativeResult field from the semantic scorer and
// an inventory-based gap analysis. It cannot fail.
func (f *FallbackEvaluator) Evaluate(ctx context.Context, resumeText, jobText string) types.QualitativeResult {
	similarity := f.scorer.Score(ctx, resumeText, jobText)

	resumeSkills := f.inventorySkills(resumeText)

	var gaps, strengths []string
	for _, skill := range f.orderedInventorySkills(jobText) {
		if _, ok := resumeSkills[skill]; ok {
			strengths = append(strengths, skill)
		} else {
			gaps = append(gaps, skill)
		}
	}

	return types.QualitativeResult{
		SemanticScore: similarity.Score,
		DetailedFeedback: fmt.Sprintf("Semantic similarity score: %.2f. Basic skill analysis completed.",
			similarity.Score),
		SkillGaps:              capList(gaps, 5),
		Strengths:              capList(strengths, 5),
		ImprovementSuggestions: append([]string(nil), fallbackSuggestions...),
		RelevanceExplanation:   "Score based on semantic similarity and skill overlap",
		ConfidenceScore:        fallbackConfidence,
	}
}

// inventorySkills returns the set of inventory terms present in the text,
// keyed by lowercase term.
func (f *FallbackEvaluator) inventorySkills(text string) map[string]struct{} {
	found := make(map[string]struct{})
	for _, skill := range f.orderedInventorySkills(text) {
		found[skill] = struct{}{}
	}
	return found
}

// orderedInventorySkills lists matched terms in inventory order so gap and
// strength lists stay stable across runs.
func (f *FallbackEvaluator) orderedInventorySkills(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	seen := make(map[string]struct{})
	for _, skill := range f.source.Inventory().Skills {
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		if strings.Contains(lower, key) {
			seen[key] = struct{}{}
			found = append(found, key)
		}
	}
	return found
}

func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
