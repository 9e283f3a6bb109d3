package engine

import (
	"math"
	"strings"

	"resumefit/internal/types"
)

const (
	maxMissingSkills   = 10
	maxJoinSuggestions = 3
	suggestionJoiner   = " | "
)

// fuse combines the hard and soft components into the final 0-100 score,
// rounded to two decimals.
func fuse(hard, soft, hardWeight, softWeight float64) float64 {
	score := hardWeight*hard + softWeight*soft
	score = math.Max(0.0, math.Min(1.0, score))
	return math.Round(100.0*score*100) / 100
}

// blendSoft folds the qualitative semantic score into the base similarity.
// A non-positive qualitative score means the model judgment is absent and
// the base score is used alone.
func blendSoft(llmScore, baseScore, llmWeight float64) float64 {
	if llmScore > 0 {
		return llmWeight*llmScore + (1-llmWeight)*baseScore
	}
	return baseScore
}

// verdictFor maps a final score to its band. Band lower bounds are
// inclusive.
func verdictFor(score, high, medium float64) types.Verdict {
	switch {
	case score >= high:
		return types.VerdictHigh
	case score >= medium:
		return types.VerdictMedium
	default:
		return types.VerdictLow
	}
}

// suggestionText prefers the qualitative evaluator's suggestions, joining
// up to the first three. Without them it falls back to a call-to-action
// built from the missing must-have skills.
func suggestionText(improvements, missingMust []string) string {
	if len(improvements) > 0 {
		if len(improvements) > maxJoinSuggestions {
			improvements = improvements[:maxJoinSuggestions]
		}
		return strings.Join(improvements, suggestionJoiner)
	}
	if len(missingMust) == 0 {
		return "Good alignment. Consider highlighting quantifiable achievements and relevant projects."
	}
	return "Consider adding evidence of the following requirements: " +
		strings.Join(missingMust, ", ") +
		". Include projects, internships, or certifications that demonstrate these skills."
}

// consolidateMissing unions the hard-match missing list with the
// qualitative skill gaps, keeping hard-match entries first and capping the
// result.
func consolidateMissing(hardMissing, skillGaps []string) []string {
	missing := append([]string(nil), hardMissing...)
	seen := make(map[string]struct{}, len(missing))
	for _, skill := range missing {
		seen[skill] = struct{}{}
	}
	for _, gap := range skillGaps {
		if _, ok := seen[gap]; ok {
			continue
		}
		seen[gap] = struct{}{}
		missing = append(missing, gap)
	}
	if len(missing) > maxMissingSkills {
		missing = missing[:maxMissingSkills]
	}
	return missing
}

// refineMissing drops missing entries the entity extractor independently
// confirmed on the resume. The keyword matcher and the extractor use
// different vocabularies, so a fuzzy-threshold miss can still be a
// confirmed skill.
func refineMissing(missing, entitySkills []string) []string {
	confirmed := make(map[string]struct{}, len(entitySkills))
	for _, skill := range entitySkills {
		confirmed[strings.ToLower(skill)] = struct{}{}
	}

	var refined []string
	for _, skill := range missing {
		if _, ok := confirmed[strings.ToLower(skill)]; !ok {
			refined = append(refined, skill)
		}
	}
	return refined
}
