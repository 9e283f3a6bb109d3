package extract

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"resumefit/internal/errors"
	"resumefit/internal/types"
)

// EntitySpan is a single tagged span from the named-entity capability.
type EntitySpan struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Tagger is the optional named-entity capability. The AI provider implements
// it; a nil Tagger disables company/location detection and NER skill
// augmentation without being an error.
type Tagger interface {
	TagEntities(ctx context.Context, text string) ([]EntitySpan, error)
}

// InventorySource supplies the currently active term inventory. Both a
// static inventory and the hot-reloading InventoryWatcher satisfy it.
type InventorySource interface {
	Inventory() *Inventory
}

// StaticInventory wraps a fixed inventory as an InventorySource.
type StaticInventory struct {
	inv *Inventory
}

func NewStaticInventory(inv *Inventory) *StaticInventory {
	if inv == nil {
		inv = DefaultInventory()
	}
	return &StaticInventory{inv: inv}
}

func (s *StaticInventory) Inventory() *Inventory {
	return s.inv
}

var (
	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`),
		regexp.MustCompile(`(?i)experience\s*[:\-]\s*(\d+)\s*(?:years?|yrs?)`),
		regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:years?|yrs?)\s*in`),
		regexp.MustCompile(`(?i)over\s*(\d+)\s*(?:years?|yrs?)`),
		regexp.MustCompile(`(?i)more\s*than\s*(\d+)\s*(?:years?|yrs?)`),
	}

	certificationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)certified?\s+[\w\s]+(?:professional|specialist|expert|developer|administrator)`),
		regexp.MustCompile(`(?i)[\w\s]+\s+certification`),
		regexp.MustCompile(`(?i)aws\s+[\w\s]+(?:associate|professional)`),
		regexp.MustCompile(`(?i)microsoft\s+[\w\s]+(?:associate|expert)`),
		regexp.MustCompile(`(?i)google\s+[\w\s]+(?:associate|professional)`),
		regexp.MustCompile(`(?i)cisco\s+[\w\s]+(?:associate|professional)`),
	}

	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?[1-9]?[\d\s\-()]{8,15}\d`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w\-]+`)
)

// Extractor pulls structured entities out of free resume text using the
// term inventory, a fixed regex set and the optional NER capability.
type Extractor struct {
	source InventorySource
	tagger Tagger
	logger *errors.Logger

	mu        sync.Mutex
	eduInv    *Inventory
	eduRegexp []*regexp.Regexp
}

// NewExtractor builds an extractor. tagger may be nil.
func NewExtractor(source InventorySource, tagger Tagger, logger *errors.Logger) *Extractor {
	return &Extractor{
		source: source,
		tagger: tagger,
		logger: logger,
	}
}

// Extract normalizes the text and collects every entity category. It never
// fails: a broken NER call only costs the categories that depend on it.
func (e *Extractor) Extract(ctx context.Context, text string) types.ExtractedEntities {
	inv := e.source.Inventory()
	normalized := Normalize(text)

	spans := e.tagSpans(ctx, normalized)

	return types.ExtractedEntities{
		Skills:          e.extractSkills(normalized, inv, spans),
		ExperienceYears: extractExperienceYears(normalized),
		Education:       e.extractEducation(normalized, inv),
		Certifications:  extractCertifications(normalized),
		Technologies:    extractTechnologies(normalized, inv),
		Companies:       spansWithLabel(spans, "ORG"),
		Locations:       append(spansWithLabel(spans, "GPE"), spansWithLabel(spans, "LOC")...),
		ContactInfo:     extractContactInfo(text),
	}
}

func (e *Extractor) tagSpans(ctx context.Context, text string) []EntitySpan {
	if e.tagger == nil {
		return nil
	}
	spans, err := e.tagger.TagEntities(ctx, text)
	if err != nil {
		e.logger.Warn("Entity tagging failed, continuing without NER augmentation", "error", err)
		return nil
	}
	return spans
}

func (e *Extractor) extractSkills(text string, inv *Inventory, spans []EntitySpan) []string {
	lower := strings.ToLower(text)

	var skills []string
	seen := make(map[string]struct{})
	add := func(skill string) {
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		skills = append(skills, skill)
	}

	for _, skill := range inv.Skills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			add(skill)
		}
	}
	for _, span := range spans {
		if (span.Label == "PRODUCT" || span.Label == "ORG") && len(span.Text) > 2 {
			add(span.Text)
		}
	}
	return skills
}

func extractExperienceYears(text string) []int {
	seen := make(map[int]struct{})
	for _, pattern := range experiencePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(match[1]); err == nil {
				seen[n] = struct{}{}
			}
		}
	}

	years := make([]int, 0, len(seen))
	for n := range seen {
		years = append(years, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// educationRegexps compiles one pattern per degree keyword and caches the
// result until the inventory is swapped.
func (e *Extractor) educationRegexps(inv *Inventory) []*regexp.Regexp {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.eduInv == inv {
		return e.eduRegexp
	}

	patterns := make([]*regexp.Regexp, 0, len(inv.Education))
	for _, degree := range inv.Education {
		expr := `(?i)\b` + regexp.QuoteMeta(strings.ToLower(degree)) +
			`[\w\s]*(?:in|of)\s+[\w\s]+(?:science|engineering|technology|business|arts|studies)?`
		re, err := regexp.Compile(expr)
		if err != nil {
			e.logger.Warn("Skipping unusable education term", "term", degree, "error", err)
			continue
		}
		patterns = append(patterns, re)
	}

	e.eduInv = inv
	e.eduRegexp = patterns
	return patterns
}

func (e *Extractor) extractEducation(text string, inv *Inventory) []string {
	var education []string
	seen := make(map[string]struct{})
	for _, pattern := range e.educationRegexps(inv) {
		for _, match := range pattern.FindAllString(text, -1) {
			key := strings.ToLower(strings.TrimSpace(match))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			education = append(education, strings.TrimSpace(match))
		}
	}
	return education
}

func extractCertifications(text string) []string {
	var certifications []string
	seen := make(map[string]struct{})
	for _, pattern := range certificationPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			key := strings.ToLower(strings.TrimSpace(match))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			certifications = append(certifications, strings.TrimSpace(match))
		}
	}
	return certifications
}

func extractTechnologies(text string, inv *Inventory) []string {
	lower := strings.ToLower(text)
	var technologies []string
	for _, tech := range inv.Technologies {
		if strings.Contains(lower, strings.ToLower(tech)) {
			technologies = append(technologies, tech)
		}
	}
	return technologies
}

func spansWithLabel(spans []EntitySpan, label string) []string {
	var out []string
	for _, span := range spans {
		if span.Label == label {
			out = append(out, span.Text)
		}
	}
	return out
}

// extractContactInfo runs on the raw text: normalization strips the
// characters emails and URLs are made of.
func extractContactInfo(text string) types.ContactInfo {
	var contact types.ContactInfo
	if match := emailPattern.FindString(text); match != "" {
		contact.Email = match
	}
	if match := phonePattern.FindString(text); match != "" {
		contact.Phone = strings.TrimSpace(match)
	}
	if match := linkedinPattern.FindString(text); match != "" {
		contact.LinkedIn = match
	}
	return contact
}
