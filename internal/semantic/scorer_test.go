package semantic

import (
	"context"
	"fmt"
	"math"
	"testing"

	"resumefit/internal/errors"
	"resumefit/internal/types"
)

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("errors.New() error = %v", err)
	}
	return logger
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "mixed case and punctuation",
			text: "Senior Go Developer, remote!",
			want: []string{"senior", "go", "developer", "remote"},
		},
		{
			name: "technology names keep symbols",
			text: "C++ and C# and Node.js",
			want: []string{"c++", "and", "c#", "and", "node.js"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tokenize()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTfidfCosine(t *testing.T) {
	t.Run("identical texts score near one", func(t *testing.T) {
		text := "experienced python developer with kubernetes and terraform"
		score, ok := tfidfCosine(text, text)
		if !ok {
			t.Fatal("tfidfCosine() ok = false, want true")
		}
		if math.Abs(score-1.0) > 1e-9 {
			t.Errorf("tfidfCosine() = %v, want 1.0", score)
		}
	})

	t.Run("disjoint texts score zero", func(t *testing.T) {
		score, ok := tfidfCosine("haskell erlang prolog", "pastry baking croissants")
		if !ok {
			t.Fatal("tfidfCosine() ok = false, want true")
		}
		if score != 0 {
			t.Errorf("tfidfCosine() = %v, want 0", score)
		}
	})

	t.Run("partial overlap scores strictly between", func(t *testing.T) {
		score, ok := tfidfCosine(
			"python developer with docker experience",
			"python engineer with aws experience",
		)
		if !ok {
			t.Fatal("tfidfCosine() ok = false, want true")
		}
		if score <= 0 || score >= 1 {
			t.Errorf("tfidfCosine() = %v, want in (0,1)", score)
		}
	})

	t.Run("blank text has no similarity", func(t *testing.T) {
		if _, ok := tfidfCosine("", "python developer"); ok {
			t.Error("tfidfCosine() ok = true for blank text, want false")
		}
	})
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"mismatched length", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 2}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors[text], nil
}

func TestScorerTFIDFTier(t *testing.T) {
	scorer := NewScorer(nil, Options{}, testLogger(t))
	if scorer.Tier() != types.TierTFIDF {
		t.Fatalf("Tier() = %v, want %v", scorer.Tier(), types.TierTFIDF)
	}

	result := scorer.Score(context.Background(), "go developer", "go developer")
	if result.Tier != types.TierTFIDF {
		t.Errorf("Score() tier = %v, want %v", result.Tier, types.TierTFIDF)
	}
	if math.Abs(result.Score-1.0) > 1e-9 {
		t.Errorf("Score() = %v, want 1.0", result.Score)
	}
	if result.Degraded != "" {
		t.Errorf("Score() degraded = %q, want empty", result.Degraded)
	}
}

func TestScorerBlankInput(t *testing.T) {
	scorer := NewScorer(nil, Options{}, testLogger(t))

	tests := []struct {
		name   string
		resume string
		job    string
	}{
		{"blank resume", "   ", "go developer"},
		{"blank job", "go developer", ""},
		{"both blank", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Score(context.Background(), tt.resume, tt.job)
			if result.Tier != types.TierNone {
				t.Errorf("Score() tier = %v, want %v", result.Tier, types.TierNone)
			}
			if result.Score != 0 {
				t.Errorf("Score() = %v, want 0", result.Score)
			}
		})
	}
}

func TestScorerEmbeddingTier(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"resume text": {1, 0, 0},
		"job text":    {1, 0, 0},
	}}
	scorer := NewScorer(embedder, Options{UseEmbeddings: true}, testLogger(t))
	if scorer.Tier() != types.TierEmbeddings {
		t.Fatalf("Tier() = %v, want %v", scorer.Tier(), types.TierEmbeddings)
	}

	result := scorer.Score(context.Background(), "resume text", "job text")
	if result.Tier != types.TierEmbeddings {
		t.Errorf("Score() tier = %v, want %v", result.Tier, types.TierEmbeddings)
	}
	if math.Abs(result.Score-1.0) > 1e-9 {
		t.Errorf("Score() = %v, want 1.0", result.Score)
	}
	if embedder.calls != 2 {
		t.Errorf("embedder calls = %d, want 2", embedder.calls)
	}
}

func TestScorerDegradesOnEmbeddingFailure(t *testing.T) {
	embedder := &stubEmbedder{err: fmt.Errorf("backend down")}
	scorer := NewScorer(embedder, Options{UseEmbeddings: true}, testLogger(t))

	result := scorer.Score(context.Background(), "go developer", "go developer")
	if result.Tier != types.TierTFIDF {
		t.Errorf("Score() tier = %v, want %v", result.Tier, types.TierTFIDF)
	}
	if result.Degraded == "" {
		t.Error("Score() degraded reason is empty, want failure reason")
	}
	if math.Abs(result.Score-1.0) > 1e-9 {
		t.Errorf("Score() = %v, want 1.0 from TF-IDF fallback", result.Score)
	}
}

func TestScorerIgnoresEmbedderWhenDisabled(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	scorer := NewScorer(embedder, Options{UseEmbeddings: false}, testLogger(t))

	scorer.Score(context.Background(), "go developer", "go developer")
	if embedder.calls != 0 {
		t.Errorf("embedder calls = %d, want 0", embedder.calls)
	}
}

func BenchmarkTfidfCosine(b *testing.B) {
	resume := "Senior software engineer with eight years of experience building distributed systems in Go and Python, deploying to Kubernetes on AWS with Terraform"
	job := "Looking for a backend engineer with strong Go skills, Kubernetes operations experience and infrastructure as code with Terraform"
	for b.Loop() {
		tfidfCosine(resume, job)
	}
}
