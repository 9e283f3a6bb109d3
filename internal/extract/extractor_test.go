package extract

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"resumefit/internal/errors"
)

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("errors.New() error = %v", err)
	}
	return logger
}

func newTestExtractor(t *testing.T, tagger Tagger) *Extractor {
	t.Helper()
	return NewExtractor(NewStaticInventory(nil), tagger, testLogger(t))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "collapses whitespace and strips specials",
			text: "Go,   Python & Rust!",
			want: "Go Python Rust",
		},
		{
			name: "strips boilerplate",
			text: "John Doe Resume page 1 of 2 CONFIDENTIAL",
			want: "John Doe",
		},
		{
			name: "expands abbreviations",
			text: "8 yrs exp in cloud tech",
			want: "8 years experience in cloud technology",
		},
		{
			name: "keeps hyphens and periods",
			text: "node.js and objective-c",
			want: "node.js and objective-c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.text); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	texts := []string{
		"Senior engineer, 5+ yrs exp with Python & Go (remote)",
		"page 2 of 3 Confidential resume of Jane",
		"",
	}
	for _, text := range texts {
		once := Normalize(text)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize() not idempotent: %q -> %q -> %q", text, once, twice)
		}
	}
}

func TestExtractExperienceYears(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{
			name: "multiple phrasings union and sort descending",
			text: "5+ years of experience in backend work, over 10 years in software overall",
			want: []int{10, 5},
		},
		{
			name: "years in phrasing",
			text: "spent 7 years in fintech",
			want: []int{7},
		},
		{
			name: "duplicates collapse",
			text: "3 years of experience. Another role: 3 years in data.",
			want: []int{3},
		},
		{
			name: "no mentions",
			text: "Fresh graduate seeking first role",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractExperienceYears(Normalize(tt.text))
			if !slices.Equal(got, tt.want) {
				t.Errorf("extractExperienceYears() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractorSkills(t *testing.T) {
	extractor := newTestExtractor(t, nil)
	entities := extractor.Extract(context.Background(),
		"Built services in Python and Go, deployed with Docker to Kubernetes on AWS. Machine learning pipelines with PyTorch.")

	for _, want := range []string{"python", "go", "docker", "kubernetes", "aws", "pytorch"} {
		if !slices.Contains(entities.Skills, want) {
			t.Errorf("Extract() skills = %v, missing %q", entities.Skills, want)
		}
	}
	if !slices.Contains(entities.Technologies, "machine learning") {
		t.Errorf("Extract() technologies = %v, missing %q", entities.Technologies, "machine learning")
	}
}

func TestExtractorSkillsDeduplicated(t *testing.T) {
	extractor := newTestExtractor(t, nil)
	entities := extractor.Extract(context.Background(), "python Python PYTHON everywhere")

	count := 0
	for _, s := range entities.Skills {
		if strings.EqualFold(s, "python") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Extract() reported python %d times, want 1", count)
	}
}

func TestExtractorEducationAndCertifications(t *testing.T) {
	extractor := newTestExtractor(t, nil)
	entities := extractor.Extract(context.Background(),
		"Bachelor of Computer Science from State University. AWS Certified Solutions Architect Associate. Scrum master certification.")

	if len(entities.Education) == 0 {
		t.Error("Extract() education is empty, want at least one degree")
	}
	if len(entities.Certifications) == 0 {
		t.Error("Extract() certifications is empty, want at least one entry")
	}
}

func TestExtractorContactInfo(t *testing.T) {
	extractor := newTestExtractor(t, nil)
	entities := extractor.Extract(context.Background(),
		"Jane Doe | jane.doe@example.com | +1 415-555-0142 | linkedin.com/in/jane-doe")

	if entities.ContactInfo.Email != "jane.doe@example.com" {
		t.Errorf("Extract() email = %q, want %q", entities.ContactInfo.Email, "jane.doe@example.com")
	}
	if entities.ContactInfo.Phone == "" {
		t.Error("Extract() phone is empty, want a match")
	}
	if entities.ContactInfo.LinkedIn != "linkedin.com/in/jane-doe" {
		t.Errorf("Extract() linkedin = %q, want %q", entities.ContactInfo.LinkedIn, "linkedin.com/in/jane-doe")
	}
}

func TestExtractorContactInfoFirstMatchWins(t *testing.T) {
	extractor := newTestExtractor(t, nil)
	entities := extractor.Extract(context.Background(),
		"first@example.com and later second@example.com")

	if entities.ContactInfo.Email != "first@example.com" {
		t.Errorf("Extract() email = %q, want first match", entities.ContactInfo.Email)
	}
}

type stubTagger struct {
	spans []EntitySpan
	err   error
}

func (s *stubTagger) TagEntities(_ context.Context, _ string) ([]EntitySpan, error) {
	return s.spans, s.err
}

func TestExtractorWithTagger(t *testing.T) {
	tagger := &stubTagger{spans: []EntitySpan{
		{Text: "Acme Corp", Label: "ORG"},
		{Text: "Berlin", Label: "GPE"},
		{Text: "Bavaria", Label: "LOC"},
		{Text: "Snowflake", Label: "PRODUCT"},
		{Text: "io", Label: "PRODUCT"}, // too short to be a skill
	}}
	extractor := newTestExtractor(t, tagger)
	entities := extractor.Extract(context.Background(), "worked at Acme Corp in Berlin, Bavaria using Snowflake")

	if !slices.Contains(entities.Companies, "Acme Corp") {
		t.Errorf("Extract() companies = %v, want Acme Corp", entities.Companies)
	}
	if !slices.Contains(entities.Locations, "Berlin") || !slices.Contains(entities.Locations, "Bavaria") {
		t.Errorf("Extract() locations = %v, want Berlin and Bavaria", entities.Locations)
	}
	if !slices.Contains(entities.Skills, "Snowflake") {
		t.Errorf("Extract() skills = %v, want NER-augmented Snowflake", entities.Skills)
	}
	if slices.Contains(entities.Skills, "io") {
		t.Errorf("Extract() skills = %v, short span should be dropped", entities.Skills)
	}
}

func TestExtractorTaggerFailureDegrades(t *testing.T) {
	tagger := &stubTagger{err: fmt.Errorf("model unavailable")}
	extractor := newTestExtractor(t, tagger)
	entities := extractor.Extract(context.Background(), "python developer at some company")

	if len(entities.Companies) != 0 || len(entities.Locations) != 0 {
		t.Errorf("Extract() companies = %v locations = %v, want empty on tagger failure",
			entities.Companies, entities.Locations)
	}
	if !slices.Contains(entities.Skills, "python") {
		t.Errorf("Extract() skills = %v, inventory matching must survive tagger failure", entities.Skills)
	}
}

func TestTextSummary(t *testing.T) {
	summary := TextSummary("Go is fun. Go is fast! Is Go simple?")

	if summary.SentenceCount != 3 {
		t.Errorf("TextSummary() sentences = %d, want 3", summary.SentenceCount)
	}
	if summary.WordCount != 9 {
		t.Errorf("TextSummary() words = %d, want 9", summary.WordCount)
	}
	if summary.UniqueWords != 5 {
		t.Errorf("TextSummary() unique = %d, want 5", summary.UniqueWords)
	}
	if summary.AvgSentenceLength != 3 {
		t.Errorf("TextSummary() avg sentence length = %v, want 3", summary.AvgSentenceLength)
	}
}

func TestTextSummaryEmpty(t *testing.T) {
	summary := TextSummary("")
	if summary != (Summary{}) {
		t.Errorf("TextSummary(\"\") = %+v, want zero value", summary)
	}
}
