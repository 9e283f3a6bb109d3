// Package jd parses free-form job-description text into structured
// requirements when the caller has no explicit skill lists.
package jd

import (
	"regexp"
	"sort"
	"strings"

	"resumefit/internal/extract"
)

// ParsedJD is the structured reading of a free-form job description.
type ParsedJD struct {
	MustSkills       []string `json:"mustSkills"`
	NiceSkills       []string `json:"niceSkills"`
	Qualifications   []string `json:"qualifications"`
	Certifications   []string `json:"certifications"`
	RequiresProjects bool     `json:"requiresProjects"`
}

var (
	mustHints = []string{"must have", "required", "requirements:", "mandatory"}
	niceHints = []string{"nice to have", "good to have", "preferred", "plus"}
	qualHints = []string{
		"qualification", "qualifications", "education", "degree",
		"bachelor", "master", "phd", "experience:", "required experience",
	}
	projectHints = []string{"project", "capstone", "portfolio"}

	certificationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)certified?\s+[\w\s]+(?:professional|specialist|expert|developer|administrator)`),
		regexp.MustCompile(`(?i)[\w\s]+\s+certification`),
		regexp.MustCompile(`(?i)aws\s+[\w\s]+(?:associate|professional)`),
		regexp.MustCompile(`(?i)microsoft\s+[\w\s]+(?:associate|expert)`),
		regexp.MustCompile(`(?i)google\s+[\w\s]+(?:associate|professional)`),
		regexp.MustCompile(`(?i)cisco\s+[\w\s]+(?:associate|professional)`),
	}
)

// Parser derives skill requirements from JD prose using line-level hints
// and the shared term inventory.
type Parser struct {
	source extract.InventorySource
}

// NewParser builds a parser over the given inventory source. A nil source
// uses the built-in default inventory.
func NewParser(source extract.InventorySource) *Parser {
	if source == nil {
		source = extract.NewStaticInventory(nil)
	}
	return &Parser{source: source}
}

// Parse reads must-have and nice-to-have skills out of the JD text. Lines
// carrying requirement hints scope the skill scan; without any hinted lines
// the whole text is scanned. A skill claimed as must-have never reappears
// as nice-to-have.
func (p *Parser) Parse(text string) ParsedJD {
	lower := strings.ToLower(text)
	lines := nonEmptyLines(lower)

	var mustLines, niceLines []string
	for _, line := range lines {
		if containsAny(line, mustHints) {
			mustLines = append(mustLines, line)
		}
		if containsAny(line, niceHints) {
			niceLines = append(niceLines, line)
		}
	}

	mustText := lower
	if len(mustLines) > 0 {
		mustText = strings.Join(mustLines, "\n")
	}
	niceText := lower
	if len(niceLines) > 0 {
		niceText = strings.Join(niceLines, "\n")
	}

	inv := p.source.Inventory()
	must := p.candidateSkills(mustText, inv)
	mustSet := make(map[string]struct{}, len(must))
	for _, s := range must {
		mustSet[s] = struct{}{}
	}

	var nice []string
	for _, s := range p.candidateSkills(niceText, inv) {
		if _, ok := mustSet[s]; !ok {
			nice = append(nice, s)
		}
	}

	return ParsedJD{
		MustSkills:       must,
		NiceSkills:       nice,
		Qualifications:   qualificationLines(lines),
		Certifications:   certificationMentions(lower),
		RequiresProjects: containsAny(lower, projectHints),
	}
}

// candidateSkills scans the text for inventory terms and returns them
// sorted, so parse output is stable across runs.
func (p *Parser) candidateSkills(text string, inv *extract.Inventory) []string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")

	var found []string
	seen := make(map[string]struct{})
	for _, skill := range inv.Skills {
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		if strings.Contains(normalized, key) {
			seen[key] = struct{}{}
			found = append(found, key)
		}
	}
	sort.Strings(found)
	return found
}

func qualificationLines(lines []string) []string {
	var quals []string
	for _, line := range lines {
		if containsAny(line, qualHints) {
			quals = append(quals, line)
		}
	}
	return quals
}

func certificationMentions(text string) []string {
	var found []string
	seen := make(map[string]struct{})
	for _, pattern := range certificationPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			match = strings.TrimSpace(match)
			key := strings.ToLower(match)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			found = append(found, match)
		}
	}
	return found
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func containsAny(s string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(s, hint) {
			return true
		}
	}
	return false
}
