package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumefit/internal/extract"
	"resumefit/internal/jd"
	"resumefit/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "EvaluationArtifacts", &EvaluationTextFormatter{})
	registry.RegisterFormatter("markdown", "EvaluationArtifacts", &EvaluationMarkdownFormatter{})
	registry.RegisterFormatter("text", "ExtractReport", &ExtractTextFormatter{})
	registry.RegisterFormatter("markdown", "ExtractReport", &ExtractMarkdownFormatter{})
	registry.RegisterFormatter("text", "ParsedJD", &ParsedJDTextFormatter{})
	registry.RegisterFormatter("markdown", "ParsedJD", &ParsedJDMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.EvaluationArtifacts:
		return "EvaluationArtifacts"
	case extract.Report:
		return "ExtractReport"
	case jd.ParsedJD:
		return "ParsedJD"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func writeList(output *strings.Builder, items []string) {
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
}

// EvaluationTextFormatter handles text formatting for evaluation results
type EvaluationTextFormatter struct{}

func (etf *EvaluationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EvaluationArtifacts)
	if !ok {
		return "", fmt.Errorf("expected EvaluationArtifacts, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== FIT EVALUATION ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %.2f/100\n", result.Evaluation.Score))
	output.WriteString(fmt.Sprintf("Verdict: %s\n\n", result.Evaluation.Verdict))

	if len(result.Evaluation.MissingSkills) > 0 {
		output.WriteString("Missing Skills:\n")
		writeList(&output, result.Evaluation.MissingSkills)
		output.WriteString("\n")
	} else {
		output.WriteString("No missing skills detected.\n\n")
	}

	if result.Evaluation.Suggestions != "" {
		output.WriteString("Suggestions:\n")
		output.WriteString(result.Evaluation.Suggestions)
		output.WriteString("\n\n")
	}

	output.WriteString("=== QUALITATIVE ASSESSMENT ===\n")
	output.WriteString(fmt.Sprintf("Source: %s", result.Diagnostics.Source))
	if result.Diagnostics.Reason != "" {
		output.WriteString(fmt.Sprintf(" (%s)", result.Diagnostics.Reason))
	}
	output.WriteString("\n")
	output.WriteString(fmt.Sprintf("Confidence: %.2f\n\n", result.Qualitative.ConfidenceScore))
	if result.Qualitative.DetailedFeedback != "" {
		output.WriteString("Feedback:\n")
		output.WriteString(result.Qualitative.DetailedFeedback)
		output.WriteString("\n\n")
	}
	if len(result.Qualitative.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		writeList(&output, result.Qualitative.Strengths)
		output.WriteString("\n")
	}
	if len(result.Qualitative.SkillGaps) > 0 {
		output.WriteString("Skill Gaps:\n")
		writeList(&output, result.Qualitative.SkillGaps)
		output.WriteString("\n")
	}

	output.WriteString("=== SIMILARITY ===\n")
	output.WriteString(fmt.Sprintf("Tier: %s\n", result.Similarity.Tier))
	output.WriteString(fmt.Sprintf("Score: %.4f\n", result.Similarity.Score))
	if result.Similarity.Degraded != "" {
		output.WriteString(fmt.Sprintf("Degraded: %s\n", result.Similarity.Degraded))
	}

	return output.String(), nil
}

func (etf *EvaluationTextFormatter) SupportedType() string {
	return "EvaluationArtifacts"
}

// EvaluationMarkdownFormatter handles markdown formatting for evaluation results
type EvaluationMarkdownFormatter struct{}

func (emf *EvaluationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EvaluationArtifacts)
	if !ok {
		return "", fmt.Errorf("expected EvaluationArtifacts, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Fit Evaluation\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %.2f/100\n\n", result.Evaluation.Score))
	output.WriteString(fmt.Sprintf("**Verdict:** %s\n\n", result.Evaluation.Verdict))

	if len(result.Evaluation.MissingSkills) > 0 {
		output.WriteString("## Missing Skills\n\n")
		writeList(&output, result.Evaluation.MissingSkills)
		output.WriteString("\n")
	}

	if result.Evaluation.Suggestions != "" {
		output.WriteString("## Suggestions\n\n")
		output.WriteString(result.Evaluation.Suggestions)
		output.WriteString("\n\n")
	}

	output.WriteString("## Qualitative Assessment\n\n")
	output.WriteString(fmt.Sprintf("**Source:** %s", result.Diagnostics.Source))
	if result.Diagnostics.Reason != "" {
		output.WriteString(fmt.Sprintf(" (%s)", result.Diagnostics.Reason))
	}
	output.WriteString("\n\n")
	output.WriteString(fmt.Sprintf("**Confidence:** %.2f\n\n", result.Qualitative.ConfidenceScore))
	if result.Qualitative.DetailedFeedback != "" {
		output.WriteString(result.Qualitative.DetailedFeedback)
		output.WriteString("\n\n")
	}
	if len(result.Qualitative.Strengths) > 0 {
		output.WriteString("### Strengths\n\n")
		writeList(&output, result.Qualitative.Strengths)
		output.WriteString("\n")
	}
	if len(result.Qualitative.SkillGaps) > 0 {
		output.WriteString("### Skill Gaps\n\n")
		writeList(&output, result.Qualitative.SkillGaps)
		output.WriteString("\n")
	}

	output.WriteString("## Similarity\n\n")
	output.WriteString(fmt.Sprintf("**Tier:** %s\n\n", result.Similarity.Tier))
	output.WriteString(fmt.Sprintf("**Score:** %.4f\n", result.Similarity.Score))
	if result.Similarity.Degraded != "" {
		output.WriteString(fmt.Sprintf("\n**Degraded:** %s\n", result.Similarity.Degraded))
	}

	return output.String(), nil
}

func (emf *EvaluationMarkdownFormatter) SupportedType() string {
	return "EvaluationArtifacts"
}

// ExtractTextFormatter handles text formatting for extraction reports
type ExtractTextFormatter struct{}

func (etf *ExtractTextFormatter) Format(data any) (string, error) {
	result, ok := data.(extract.Report)
	if !ok {
		return "", fmt.Errorf("expected extract.Report, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== EXTRACTED ENTITIES ===\n\n")
	writeEntitySection(&output, "Skills", result.Entities.Skills)
	writeEntitySection(&output, "Technologies", result.Entities.Technologies)
	writeEntitySection(&output, "Education", result.Entities.Education)
	writeEntitySection(&output, "Certifications", result.Entities.Certifications)
	writeEntitySection(&output, "Companies", result.Entities.Companies)
	writeEntitySection(&output, "Locations", result.Entities.Locations)

	if len(result.Entities.ExperienceYears) > 0 {
		output.WriteString("Experience (years):")
		for _, y := range result.Entities.ExperienceYears {
			output.WriteString(fmt.Sprintf(" %d", y))
		}
		output.WriteString("\n\n")
	}

	contact := result.Entities.ContactInfo
	if contact.Email != "" || contact.Phone != "" || contact.LinkedIn != "" {
		output.WriteString("Contact:\n")
		if contact.Email != "" {
			output.WriteString(fmt.Sprintf("  Email: %s\n", contact.Email))
		}
		if contact.Phone != "" {
			output.WriteString(fmt.Sprintf("  Phone: %s\n", contact.Phone))
		}
		if contact.LinkedIn != "" {
			output.WriteString(fmt.Sprintf("  LinkedIn: %s\n", contact.LinkedIn))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== TEXT SUMMARY ===\n")
	output.WriteString(fmt.Sprintf("Characters: %d\n", result.Summary.CharacterCount))
	output.WriteString(fmt.Sprintf("Words: %d (unique: %d)\n", result.Summary.WordCount, result.Summary.UniqueWords))
	output.WriteString(fmt.Sprintf("Sentences: %d (avg length: %.1f words)\n", result.Summary.SentenceCount, result.Summary.AvgSentenceLength))

	return output.String(), nil
}

func writeEntitySection(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(title + ":\n")
	writeList(output, items)
	output.WriteString("\n")
}

func (etf *ExtractTextFormatter) SupportedType() string {
	return "ExtractReport"
}

// ExtractMarkdownFormatter handles markdown formatting for extraction reports
type ExtractMarkdownFormatter struct{}

func (emf *ExtractMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(extract.Report)
	if !ok {
		return "", fmt.Errorf("expected extract.Report, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Extracted Entities\n\n")
	writeEntityHeading(&output, "Skills", result.Entities.Skills)
	writeEntityHeading(&output, "Technologies", result.Entities.Technologies)
	writeEntityHeading(&output, "Education", result.Entities.Education)
	writeEntityHeading(&output, "Certifications", result.Entities.Certifications)
	writeEntityHeading(&output, "Companies", result.Entities.Companies)
	writeEntityHeading(&output, "Locations", result.Entities.Locations)

	if len(result.Entities.ExperienceYears) > 0 {
		output.WriteString("## Experience\n\n")
		for _, y := range result.Entities.ExperienceYears {
			output.WriteString(fmt.Sprintf("- %d years\n", y))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Text Summary\n\n")
	output.WriteString("| Characters | Words | Unique Words | Sentences | Avg Sentence Length |\n")
	output.WriteString("|---|---|---|---|---|\n")
	output.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %.1f |\n",
		result.Summary.CharacterCount,
		result.Summary.WordCount,
		result.Summary.UniqueWords,
		result.Summary.SentenceCount,
		result.Summary.AvgSentenceLength))

	return output.String(), nil
}

func writeEntityHeading(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString("## " + title + "\n\n")
	writeList(output, items)
	output.WriteString("\n")
}

func (emf *ExtractMarkdownFormatter) SupportedType() string {
	return "ExtractReport"
}

// ParsedJDTextFormatter handles text formatting for parsed job descriptions
type ParsedJDTextFormatter struct{}

func (ptf *ParsedJDTextFormatter) Format(data any) (string, error) {
	result, ok := data.(jd.ParsedJD)
	if !ok {
		return "", fmt.Errorf("expected jd.ParsedJD, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== PARSED JOB DESCRIPTION ===\n\n")
	writeEntitySection(&output, "Must-Have Skills", result.MustSkills)
	writeEntitySection(&output, "Nice-to-Have Skills", result.NiceSkills)
	writeEntitySection(&output, "Qualifications", result.Qualifications)
	writeEntitySection(&output, "Certifications", result.Certifications)
	output.WriteString(fmt.Sprintf("Requires Projects: %t\n", result.RequiresProjects))

	return output.String(), nil
}

func (ptf *ParsedJDTextFormatter) SupportedType() string {
	return "ParsedJD"
}

// ParsedJDMarkdownFormatter handles markdown formatting for parsed job descriptions
type ParsedJDMarkdownFormatter struct{}

func (pmf *ParsedJDMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(jd.ParsedJD)
	if !ok {
		return "", fmt.Errorf("expected jd.ParsedJD, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Parsed Job Description\n\n")
	writeEntityHeading(&output, "Must-Have Skills", result.MustSkills)
	writeEntityHeading(&output, "Nice-to-Have Skills", result.NiceSkills)
	writeEntityHeading(&output, "Qualifications", result.Qualifications)
	writeEntityHeading(&output, "Certifications", result.Certifications)
	output.WriteString(fmt.Sprintf("**Requires Projects:** %t\n", result.RequiresProjects))

	return output.String(), nil
}

func (pmf *ParsedJDMarkdownFormatter) SupportedType() string {
	return "ParsedJD"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
