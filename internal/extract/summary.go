package extract

import (
	"regexp"
	"strings"

	"resumefit/internal/types"
)

// Summary holds basic statistics about a piece of text.
type Summary struct {
	CharacterCount    int     `json:"characterCount"`
	WordCount         int     `json:"wordCount"`
	SentenceCount     int     `json:"sentenceCount"`
	UniqueWords       int     `json:"uniqueWords"`
	AvgSentenceLength float64 `json:"avgSentenceLength"`
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// TextSummary computes character, word and sentence statistics for the
// text. Empty input yields a zero summary.
func TextSummary(text string) Summary {
	words := strings.Fields(text)

	sentences := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.Trim(w, `.,;:!?()"'`))
		if w != "" {
			unique[w] = struct{}{}
		}
	}

	summary := Summary{
		CharacterCount: len(text),
		WordCount:      len(words),
		SentenceCount:  sentences,
		UniqueWords:    len(unique),
	}
	if sentences > 0 {
		summary.AvgSentenceLength = float64(len(words)) / float64(sentences)
	}
	return summary
}

// Report bundles the entities and text statistics produced by one
// extraction run.
type Report struct {
	Entities types.ExtractedEntities `json:"entities"`
	Summary  Summary                 `json:"summary"`
}
