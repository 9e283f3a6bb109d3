package ai

import (
	"context"

	"resumefit/internal/extract"
	"resumefit/internal/types"
)

// Provider is the model backend used for qualitative evaluation and the
// optional capabilities built on top of it. All evaluation methods return
// token usage information - callers can ignore it if not needed.
type Provider interface {
	// EvaluateFit runs the recruiter-style qualitative assessment of a
	// resume against a job description.
	EvaluateFit(ctx context.Context, resumeText, jobText string) (types.QualitativeResult, *TokenUsage, error)

	// TagEntities labels ORG/GPE/LOC/PRODUCT spans in the text. It backs
	// the extractor's NER capability.
	TagEntities(ctx context.Context, text string) ([]extract.EntitySpan, error)

	// EmbedText produces a dense vector for the semantic scorer's
	// embeddings tier.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
