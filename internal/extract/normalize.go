package extract

import (
	"regexp"
	"strings"
)

var (
	specialChars = regexp.MustCompile(`[^\w\s\-.]`)
	whitespace   = regexp.MustCompile(`\s+`)
	artifacts    = regexp.MustCompile(`(?i)\b(page \d+ of \d+|confidential|resume|cv)\b`)

	abbreviations = []struct {
		pattern     *regexp.Regexp
		replacement string
	}{
		{regexp.MustCompile(`(?i)\byrs?\b`), "years"},
		{regexp.MustCompile(`(?i)\bexp\b`), "experience"},
		{regexp.MustCompile(`(?i)\btech\b`), "technology"},
		{regexp.MustCompile(`(?i)\buniv\b`), "university"},
		{regexp.MustCompile(`(?i)\bcert\b`), "certification"},
	}
)

// Normalize prepares raw resume or job text for extraction: special
// characters become spaces, whitespace collapses, boilerplate artifacts
// are stripped and common abbreviations are expanded. Normalizing an
// already normalized string is a no-op.
func Normalize(text string) string {
	text = specialChars.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	text = artifacts.ReplaceAllString(text, "")
	for _, abbr := range abbreviations {
		text = abbr.pattern.ReplaceAllString(text, abbr.replacement)
	}
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
