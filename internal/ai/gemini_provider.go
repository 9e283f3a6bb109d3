package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"resumefit/internal/config"
	resumefitErrors "resumefit/internal/errors"
	"resumefit/internal/extract"
	"resumefit/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client          *genai.Client
	config          *config.AIConfig
	generateBreaker *GenerateBreaker
	embedBreaker    *EmbedBreaker
	modelBreaker    *ModelBreaker
	logger          *resumefitErrors.Logger
}

// Ensure GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.AIConfig, logger *resumefitErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, resumefitErrors.NewAIError(resumefitErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:          client,
		config:          cfg,
		generateBreaker: NewGenerateBreaker("evaluate", &cfg.CircuitBreaker, logger),
		embedBreaker:    NewEmbedBreaker(&cfg.CircuitBreaker, logger),
		modelBreaker:    NewModelBreaker("evaluate", &cfg.CircuitBreaker, logger),
		logger:          logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry runs an AI call with retry logic and exponential backoff
func executeWithRetry[T any](g *GeminiProvider, ctx context.Context, operation string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return zero, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Network errors (timeouts, connection refused) are worth retrying
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Google API errors with transient HTTP status codes
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// executeAIOperation is a generic helper to run generation calls with common
// tracing, circuit breaker, and parsing logic.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("resumefit.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.generateBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return executeWithRetry(g, ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, resumefitErrors.NewAIError(resumefitErrors.ErrCodeAIServiceFailed,
			"Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, resumefitErrors.NewAIError(resumefitErrors.ErrCodeAIResponseParse,
			"Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// EvaluateFit implements Provider for the qualitative resume assessment
func (g *GeminiProvider) EvaluateFit(ctx context.Context, resumeText, jobText string) (types.QualitativeResult, *TokenUsage, error) {
	systemPrompt := resolvePrompt(g.config.CustomPrompts.SystemPrompts.EvaluateFit, DefaultSystemPrompts.EvaluateFit)
	userPrompt := fmt.Sprintf(
		resolvePrompt(g.config.CustomPrompts.UserPrompts.EvaluateFit, DefaultUserPrompts.EvaluateFit),
		jobText, resumeText)

	output, tokenUsage, err := executeAIOperation[types.QualitativeResult](
		g,
		ctx,
		"evaluate_fit",
		userPrompt,
		systemPrompt,
		g.buildEvaluateFitSchema(),
		attribute.Int("input.resume_length", len(resumeText)),
		attribute.Int("input.job_length", len(jobText)),
	)
	if err != nil {
		return types.QualitativeResult{}, nil, err
	}

	return output, tokenUsage, nil
}

// TagEntities implements Provider for named-entity tagging
func (g *GeminiProvider) TagEntities(ctx context.Context, text string) ([]extract.EntitySpan, error) {
	systemPrompt := resolvePrompt(g.config.CustomPrompts.SystemPrompts.TagEntities, DefaultSystemPrompts.TagEntities)
	userPrompt := fmt.Sprintf(
		resolvePrompt(g.config.CustomPrompts.UserPrompts.TagEntities, DefaultUserPrompts.TagEntities),
		text)

	spans, _, err := executeAIOperation[[]extract.EntitySpan](
		g,
		ctx,
		"tag_entities",
		userPrompt,
		systemPrompt,
		g.buildTagEntitiesSchema(),
		attribute.Int("input.text_length", len(text)),
	)
	if err != nil {
		return nil, err
	}

	return spans, nil
}

// EmbedText implements Provider for the dense-embedding tier
func (g *GeminiProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vector, err := g.embedBreaker.Execute(func() ([]float32, error) {
		return executeWithRetry(g, ctx, "embed_text", func() ([]float32, error) {
			result, err := g.client.Models.EmbedContent(ctx, g.config.EmbedModel, genai.Text(text), nil)
			if err != nil {
				return nil, err
			}
			if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
				return nil, fmt.Errorf("embedding response for model %s is empty", g.config.EmbedModel)
			}
			return result.Embeddings[0].Values, nil
		})
	})
	if err != nil {
		return nil, resumefitErrors.NewAIError(resumefitErrors.ErrCodeAIServiceFailed,
			"Failed to embed text", err)
	}
	return vector, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":   g.generateBreaker.Stats(),
		"overall_healthy": g.generateBreaker.IsHealthy(),
	}
}

// Close implements Provider
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// buildEvaluateFitSchema creates the response schema for fit evaluation
func (g *GeminiProvider) buildEvaluateFitSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"semanticScore":    {Type: genai.TypeNumber},
				"detailedFeedback": {Type: genai.TypeString},
				"skillGaps": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"strengths": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"improvementSuggestions": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"relevanceExplanation": {Type: genai.TypeString},
				"confidenceScore":      {Type: genai.TypeNumber},
			},
			Required: []string{
				"semanticScore", "detailedFeedback", "skillGaps", "strengths",
				"improvementSuggestions", "relevanceExplanation", "confidenceScore",
			},
		},
	}

	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// buildTagEntitiesSchema creates the response schema for entity tagging
func (g *GeminiProvider) buildTagEntitiesSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"text":  {Type: genai.TypeString},
					"label": {Type: genai.TypeString, Enum: []string{"ORG", "GPE", "LOC", "PRODUCT"}},
				},
				Required: []string{"text", "label"},
			},
		},
	}

	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from the API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
