package server

import (
	"time"

	"resumefit/internal/ai"
	"resumefit/internal/config"
	"resumefit/internal/engine"
	resumefitErrors "resumefit/internal/errors"
	"resumefit/internal/extract"
	"resumefit/internal/jd"
	"resumefit/internal/store"
)

// EvaluateRequest represents the request body for the evaluate endpoint.
// MustSkills and NiceSkills are optional; when both are empty the skill
// lists are parsed from the job description.
type EvaluateRequest struct {
	ResumeText     string   `json:"resumeText"`
	JobTitle       string   `json:"jobTitle"`
	JobDescription string   `json:"jobDescription"`
	MustSkills     []string `json:"mustSkills,omitempty"`
	NiceSkills     []string `json:"niceSkills,omitempty"`
	Location       string   `json:"location,omitempty"`
}

type ExtractRequest struct {
	ResumeText string `json:"resumeText"`
}

type ParseJDRequest struct {
	JobDescription string `json:"jobDescription"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Pipeline bundles the scoring components the server handlers depend on.
// Components are shared across requests; all of them are safe for
// concurrent use.
type Pipeline struct {
	Store     *store.Store
	Engine    *engine.Engine
	AIService *ai.Service
	Extractor *extract.Extractor
	Parser    *jd.Parser
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Scoring pipeline shared by all handlers
	Pipeline Pipeline

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *resumefitErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, pipe Pipeline, logger *resumefitErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		Pipeline:       pipe,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
