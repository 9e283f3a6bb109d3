package semantic

import (
	"math"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9+#.]+`)

// tokenize lowercases the text and splits it on non-word boundaries,
// keeping the characters that matter in technology names (+, #, .).
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// ngramTerms returns the unigrams and bigrams of the token stream.
func ngramTerms(tokens []string) []string {
	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// tfidfCosine vectorizes the two texts jointly with a TF-IDF weighting over
// unigrams and bigrams and returns the cosine similarity of the resulting
// vectors, clamped to [0,1]. The second return value is false when either
// text produces no terms at all, in which case no similarity is defined.
func tfidfCosine(a, b string) (float64, bool) {
	termsA := ngramTerms(tokenize(a))
	termsB := ngramTerms(tokenize(b))
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0, false
	}

	countsA := termCounts(termsA)
	countsB := termCounts(termsB)

	// Smoothed IDF over the two-document corpus, sklearn style:
	// idf(t) = ln((1+n)/(1+df)) + 1 with n = 2.
	idf := func(term string) float64 {
		df := 0
		if countsA[term] > 0 {
			df++
		}
		if countsB[term] > 0 {
			df++
		}
		return math.Log(3.0/float64(1+df)) + 1.0
	}

	var dot, normA, normB float64
	for term, tf := range countsA {
		w := float64(tf) * idf(term)
		normA += w * w
		if tfB, ok := countsB[term]; ok {
			dot += w * float64(tfB) * idf(term)
		}
	}
	for term, tf := range countsB {
		w := float64(tf) * idf(term)
		normB += w * w
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return clamp01(sim), true
}

func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
