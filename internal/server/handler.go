package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumefit/internal/extract"
	"resumefit/internal/observability"
	"resumefit/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createEvaluateHandler wraps the evaluate handler with observability
func (s *Server) createEvaluateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumefit.api")
		ctx, span := tracer.Start(ctx, "api.evaluate")
		defer span.End()

		// Parse request
		var req EvaluateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobTitle) == "" {
			err := fmt.Errorf("missing job title")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job title", "jobTitle field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" && len(req.MustSkills) == 0 && len(req.NiceSkills) == 0 {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription or explicit skill lists are required", http.StatusBadRequest)
			return
		}

		// Size validation
		if s.MaxRequestSize > 0 && len(req.ResumeText) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("resume too large: %d chars", len(req.ResumeText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume too large", fmt.Sprintf("resumeText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}
		if s.MaxRequestSize > 0 && len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "evaluate"),
		)

		// Fill skill lists from the job description when the caller gave none
		mustSkills, niceSkills := req.MustSkills, req.NiceSkills
		if len(mustSkills) == 0 && len(niceSkills) == 0 {
			parsed := s.Pipeline.Parser.Parse(req.JobDescription)
			mustSkills, niceSkills = parsed.MustSkills, parsed.NiceSkills
		}

		resume := s.Pipeline.Store.SaveResume(types.ResumeDocument{
			FileName: "api-upload",
			Text:     req.ResumeText,
		})
		job := s.Pipeline.Store.SaveJob(types.JobRequirement{
			Title:      req.JobTitle,
			JDText:     req.JobDescription,
			MustSkills: mustSkills,
			NiceSkills: niceSkills,
			Location:   req.Location,
		})

		// Track the evaluation with observability and token usage
		metrics := om.GetMetrics()
		var artifacts types.EvaluationArtifacts
		err := metrics.TrackAIOperationWithTokens(ctx, "evaluate", func(ctx context.Context) *observability.AIOperationResult {
			result, evalErr := s.Pipeline.Engine.Evaluate(ctx, job, resume)
			artifacts = result
			return &observability.AIOperationResult{
				Error: evalErr,
				TokenUsage: &observability.TokenUsage{
					InputTokens:  result.Diagnostics.InputTokens,
					OutputTokens: result.Diagnostics.OutputTokens,
					TotalTokens:  result.Diagnostics.InputTokens + result.Diagnostics.OutputTokens,
				},
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "evaluation"))
			metrics.RecordBusinessMetric(ctx, "evaluation_scored", false, om,
				attribute.String("error", err.Error()))
			status := http.StatusInternalServerError
			if isValidationError(err) {
				status = http.StatusBadRequest
			}
			writeErrorResponse(w, "Failed to evaluate resume", err.Error(), status)
			return
		}

		if recorded, recErr := s.Pipeline.Store.RecordEvaluation(artifacts.Evaluation); recErr == nil {
			artifacts.Evaluation = recorded
		} else {
			s.Logger.LogError(recErr, "Failed to record evaluation")
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "evaluation_scored", true, om,
			attribute.Float64("score", artifacts.Evaluation.Score),
			attribute.String("verdict", string(artifacts.Evaluation.Verdict)))
		if artifacts.Similarity.Degraded != "" {
			metrics.RecordBusinessMetric(ctx, "scoring_degraded", true, om,
				attribute.String("reason", artifacts.Similarity.Degraded))
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.score", artifacts.Evaluation.Score),
			attribute.String("response.verdict", string(artifacts.Evaluation.Verdict)),
			attribute.String("similarity.tier", string(artifacts.Similarity.Tier)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(artifacts); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createExtractHandler wraps the extract handler with observability
func (s *Server) createExtractHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumefit.api")
		ctx, span := tracer.Start(ctx, "api.extract")
		defer span.End()

		var req ExtractRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "extract"),
		)

		report := extract.Report{
			Entities: s.Pipeline.Extractor.Extract(ctx, req.ResumeText),
			Summary:  extract.TextSummary(req.ResumeText),
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "entities_extracted", true, om,
			attribute.Int("skills_count", len(report.Entities.Skills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.skills_count", len(report.Entities.Skills)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createParseJDHandler wraps the parse-jd handler with observability
func (s *Server) createParseJDHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumefit.api")
		ctx, span := tracer.Start(ctx, "api.parse_jd")
		defer span.End()

		var req ParseJDRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "parse_jd"),
		)

		parsed := s.Pipeline.Parser.Parse(req.JobDescription)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "job_parsed", true, om,
			attribute.Int("must_skills_count", len(parsed.MustSkills)),
			attribute.Int("nice_skills_count", len(parsed.NiceSkills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.must_skills_count", len(parsed.MustSkills)),
			attribute.Int("response.nice_skills_count", len(parsed.NiceSkills)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(parsed); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
