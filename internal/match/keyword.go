// Package match implements deterministic keyword presence detection and the
// hard-match component of the hybrid score.
package match

import (
	"strings"

	"resumefit/internal/types"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultFuzzyThreshold is the minimum partial-ratio (0-100) for a fuzzy hit.
const DefaultFuzzyThreshold = 85

// Weights for the must-have vs nice-to-have components of the hard score.
// Must-have coverage dominates on purpose.
const (
	mustWeight = 0.8
	niceWeight = 0.2
)

// KeywordPresence returns a presence map for each keyword against the text.
// A keyword is present when it occurs as a literal substring of the lowered
// text, or when its fuzzy partial-ratio against the text meets the threshold.
// The substring check runs first; it is only a shortcut around the fuzzy
// computation. Empty and whitespace-only keywords are skipped entirely.
func KeywordPresence(text string, keywords []string, threshold int) types.SkillPresenceMap {
	textLower := strings.ToLower(text)
	present := make(types.SkillPresenceMap, len(keywords))

	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if strings.Contains(textLower, k) {
			present[kw] = true
			continue
		}
		present[kw] = fuzzy.PartialRatio(k, textLower) >= threshold
	}

	return present
}

// HardMatch scores resume text against must-have and nice-to-have skills.
// The score is mustWeight*mustCoverage + niceWeight*niceCoverage, where the
// nice component is zero when no nice skills are given. MissingMust keeps
// the original input order of the must-have list.
func HardMatch(resumeText string, mustSkills, niceSkills []string, threshold int) types.HardMatchResult {
	mustPresence := KeywordPresence(resumeText, mustSkills, threshold)

	var nicePresence types.SkillPresenceMap
	if len(niceSkills) > 0 {
		nicePresence = KeywordPresence(resumeText, niceSkills, threshold)
	}

	mustTotal := max(1, countNonEmpty(mustSkills))
	niceTotal := max(1, countNonEmpty(niceSkills))

	mustComponent := float64(countHits(mustPresence)) / float64(mustTotal)
	niceComponent := 0.0
	if len(niceSkills) > 0 {
		niceComponent = float64(countHits(nicePresence)) / float64(niceTotal)
	}

	hard := mustWeight*mustComponent + niceWeight*niceComponent

	// Preserve input order for the missing list; the presence map itself
	// has no ordering.
	var missing []string
	for _, kw := range mustSkills {
		if present, tracked := mustPresence[kw]; tracked && !present {
			missing = append(missing, kw)
		}
	}

	presence := make(types.SkillPresenceMap, len(mustPresence)+len(nicePresence))
	for k, v := range mustPresence {
		presence[k] = v
	}
	for k, v := range nicePresence {
		presence[k] = v
	}

	return types.HardMatchResult{
		Score:       hard,
		MissingMust: missing,
		Presence:    presence,
	}
}

func countNonEmpty(skills []string) int {
	n := 0
	for _, s := range skills {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

func countHits(presence types.SkillPresenceMap) int {
	n := 0
	for _, present := range presence {
		if present {
			n++
		}
	}
	return n
}
