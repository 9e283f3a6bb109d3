package semantic

import (
	"context"
	"math"
	"strings"
	"time"

	"resumefit/internal/errors"
	"resumefit/internal/types"

	"github.com/sony/gobreaker/v2"
)

// Embedder produces a dense vector for a piece of text. The AI provider
// implements it; the scorer only depends on this interface so the tier-1
// backend stays swappable.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Options controls scorer construction.
type Options struct {
	// UseEmbeddings enables the dense-embedding tier. When false the scorer
	// never touches the embedder, even if one is supplied.
	UseEmbeddings bool

	// Breaker settings for the embedding backend. Ignored when
	// BreakerEnabled is false.
	BreakerEnabled   bool
	BreakerMaxReqs   uint32
	BreakerInterval  time.Duration
	BreakerTimeout   time.Duration
	BreakerMinReqs   uint32
	BreakerThreshold float64
}

// Scorer computes a resume/job similarity in [0,1] using the best backend
// available at construction time. The tier never changes after New: either
// the embedder was usable when the scorer was built, or every call goes
// through the TF-IDF path. A transient embedding failure degrades the single
// affected call to TF-IDF and is reported through SimilarityResult.Degraded.
type Scorer struct {
	embedder Embedder
	breaker  *gobreaker.CircuitBreaker[[]float32]
	tier     types.SimilarityTier
	logger   *errors.Logger
}

// NewScorer fixes the similarity tier and returns a scorer. A nil embedder,
// or UseEmbeddings false, selects the TF-IDF tier for the lifetime of the
// process.
func NewScorer(embedder Embedder, opts Options, logger *errors.Logger) *Scorer {
	s := &Scorer{
		embedder: embedder,
		tier:     types.TierTFIDF,
		logger:   logger,
	}
	if !opts.UseEmbeddings || embedder == nil {
		logger.Info("Semantic scorer initialized", "tier", s.tier)
		return s
	}

	s.tier = types.TierEmbeddings
	if opts.BreakerEnabled {
		settings := gobreaker.Settings{
			Name:        "Embeddings",
			MaxRequests: opts.BreakerMaxReqs,
			Interval:    opts.BreakerInterval,
			Timeout:     opts.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= opts.BreakerMinReqs &&
					failureRatio >= opts.BreakerThreshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String())
			},
		}
		s.breaker = gobreaker.NewCircuitBreaker[[]float32](settings)
	}
	logger.Info("Semantic scorer initialized", "tier", s.tier)
	return s
}

// Tier reports the backend selected at construction.
func (s *Scorer) Tier() types.SimilarityTier {
	return s.tier
}

// Score computes the similarity between the resume text and the job
// description. It never returns an error: any backend failure degrades to
// the next tier, and blank input yields TierNone with a zero score.
func (s *Scorer) Score(ctx context.Context, resumeText, jobText string) types.SimilarityResult {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobText) == "" {
		return types.SimilarityResult{Score: 0.0, Tier: types.TierNone}
	}

	if s.tier == types.TierEmbeddings {
		score, err := s.embeddingScore(ctx, resumeText, jobText)
		if err == nil {
			return types.SimilarityResult{Score: score, Tier: types.TierEmbeddings}
		}
		s.logger.Warn("Embedding similarity failed, degrading to TF-IDF", "error", err)
		reason := "embedding backend error: " + err.Error()
		if score, ok := tfidfCosine(resumeText, jobText); ok {
			return types.SimilarityResult{Score: score, Tier: types.TierTFIDF, Degraded: reason}
		}
		return types.SimilarityResult{Score: 0.0, Tier: types.TierNone, Degraded: reason}
	}

	if score, ok := tfidfCosine(resumeText, jobText); ok {
		return types.SimilarityResult{Score: score, Tier: types.TierTFIDF}
	}
	return types.SimilarityResult{Score: 0.0, Tier: types.TierNone}
}

func (s *Scorer) embeddingScore(ctx context.Context, resumeText, jobText string) (float64, error) {
	resumeVec, err := s.embed(ctx, resumeText)
	if err != nil {
		return 0, err
	}
	jobVec, err := s.embed(ctx, jobText)
	if err != nil {
		return 0, err
	}
	return clamp01(cosine(resumeVec, jobVec)), nil
}

func (s *Scorer) embed(ctx context.Context, text string) ([]float32, error) {
	if s.breaker == nil {
		return s.embedder.EmbedText(ctx, text)
	}
	return s.breaker.Execute(func() ([]float32, error) {
		return s.embedder.EmbedText(ctx, text)
	})
}

// cosine computes the cosine similarity of two dense vectors. Mismatched or
// zero-norm vectors yield 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
