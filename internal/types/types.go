package types

import "time"

// JobRequirement describes one job opening to score resumes against.
// MustSkills and NiceSkills are ordered, case-insensitively distinct, and
// never contain empty or whitespace-only entries once validated.
type JobRequirement struct {
	ID         int64    `json:"id,omitempty"`
	Title      string   `json:"title"`
	JDText     string   `json:"jdText"`
	MustSkills []string `json:"mustSkills"`
	NiceSkills []string `json:"niceSkills"`
	Location   string   `json:"location,omitempty"`
}

// ResumeDocument is one uploaded resume, immutable after creation.
// ID is assigned by the store; an evaluation is refused until it is set.
type ResumeDocument struct {
	ID        int64     `json:"id,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	Text      string    `json:"text"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// SkillPresenceMap records, per requirement skill, whether it was detected
// in the resume text. Intermediate result, never persisted.
type SkillPresenceMap map[string]bool

// HardMatchResult is the keyword matcher's output for one (resume, job) pair.
type HardMatchResult struct {
	Score       float64          `json:"score"` // in [0,1]
	MissingMust []string         `json:"missingMust"`
	Presence    SkillPresenceMap `json:"presence"`
}

// ContactInfo holds the first-found contact details from a resume.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// ExtractedEntities is the structured signal set pulled from resume text.
// Extraction is heuristic: the string lists may contain near-duplicates and
// are only deduplicated on exact (or, where noted, case-insensitive) match.
type ExtractedEntities struct {
	Skills          []string    `json:"skills"`
	ExperienceYears []int       `json:"experienceYears"` // descending, deduplicated
	Education       []string    `json:"education"`
	Certifications  []string    `json:"certifications"`
	Technologies    []string    `json:"technologies"`
	Companies       []string    `json:"companies"` // empty without a NER capability
	Locations       []string    `json:"locations"` // empty without a NER capability
	ContactInfo     ContactInfo `json:"contactInfo"`
}

// QualitativeResult is the qualitative evaluator's structured critique.
// Every field is always populated; the fallback path fills all of them.
type QualitativeResult struct {
	SemanticScore          float64  `json:"semanticScore"` // in [0,1]
	DetailedFeedback       string   `json:"detailedFeedback"`
	SkillGaps              []string `json:"skillGaps"`
	Strengths              []string `json:"strengths"`
	ImprovementSuggestions []string `json:"improvementSuggestions"`
	RelevanceExplanation   string   `json:"relevanceExplanation"`
	ConfidenceScore        float64  `json:"confidenceScore"` // in [0,1]
}

// Verdict is the three-tier categorical outcome of an evaluation.
type Verdict string

const (
	VerdictHigh   Verdict = "High"
	VerdictMedium Verdict = "Medium"
	VerdictLow    Verdict = "Low"
)

// Evaluation is the final scoring artifact for one (job, resume) pair.
// Evaluations are append-only: re-evaluating the same pair creates a new one.
type Evaluation struct {
	ID            int64     `json:"id,omitempty"`
	JobID         int64     `json:"jobId,omitempty"`
	ResumeID      int64     `json:"resumeId,omitempty"`
	Score         float64   `json:"score"` // in [0,100], two decimals
	Verdict       Verdict   `json:"verdict"`
	MissingSkills []string  `json:"missingSkills"`
	Suggestions   string    `json:"suggestions"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// SimilarityTier identifies which quality tier produced a semantic score.
type SimilarityTier string

const (
	TierEmbeddings SimilarityTier = "embeddings"
	TierTFIDF      SimilarityTier = "tfidf"
	TierNone       SimilarityTier = "none"
)

// SimilarityResult carries a semantic score plus how it was obtained, so
// callers can log degradation without the scorer ever raising for it.
type SimilarityResult struct {
	Score    float64        `json:"score"` // in [0,1]
	Tier     SimilarityTier `json:"tier"`
	Degraded string         `json:"degraded,omitempty"` // reason, empty when the preferred tier ran
}

// QualitativeSource identifies which path produced a QualitativeResult.
type QualitativeSource string

const (
	SourceLLM      QualitativeSource = "llm"
	SourceFallback QualitativeSource = "fallback"
)

// QualitativeDiagnostics reports how the qualitative pass resolved. It is
// observational only: the evaluator never surfaces its failures as errors.
type QualitativeDiagnostics struct {
	Source       QualitativeSource `json:"source"`
	Reason       string            `json:"reason,omitempty"` // why the fallback ran, if it did
	InputTokens  int64             `json:"inputTokens,omitempty"`
	OutputTokens int64             `json:"outputTokens,omitempty"`
}

// EvaluationArtifacts bundles the Evaluation with the side outputs the
// calling layer may persist or display alongside it.
type EvaluationArtifacts struct {
	Evaluation  Evaluation             `json:"evaluation"`
	Entities    ExtractedEntities      `json:"entities"`
	Qualitative QualitativeResult      `json:"qualitative"`
	Diagnostics QualitativeDiagnostics `json:"diagnostics"`
	Similarity  SimilarityResult       `json:"similarity"`
}
