package cli

import (
	"fmt"

	"resumefit/internal/ai"
	"resumefit/internal/config"
	"resumefit/internal/engine"
	"resumefit/internal/errors"
	"resumefit/internal/extract"
	"resumefit/internal/jd"
	"resumefit/internal/semantic"
	"resumefit/internal/store"
)

// pipeline bundles the scoring components wired from configuration. The
// same wiring backs the one-shot commands and the HTTP server.
type pipeline struct {
	Store     *store.Store
	Engine    *engine.Engine
	AIService *ai.Service
	Scorer    *semantic.Scorer
	Extractor *extract.Extractor
	Parser    *jd.Parser
	Source    extract.InventorySource

	// watcher is non-nil only when inventory hot reload is active.
	watcher *extract.InventoryWatcher
}

// buildPipeline constructs the evaluation pipeline. When watch is true and
// an inventory file is configured, the skill inventory is hot-reloaded on
// file changes until Close is called.
func buildPipeline(cfg *config.Config, logger *errors.Logger, watch bool) (*pipeline, error) {
	p := &pipeline{Store: store.New()}

	source, err := p.buildInventorySource(cfg, logger, watch)
	if err != nil {
		return nil, err
	}
	p.Source = source

	aiService, err := ai.NewService(&cfg.AI, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI service: %w", err)
	}
	p.AIService = aiService

	var embedder semantic.Embedder
	if cfg.Scoring.UseSemanticEmbeddings && aiService.Provider != nil {
		embedder = aiService.Provider
	}
	p.Scorer = semantic.NewScorer(embedder, semantic.Options{
		UseEmbeddings:    cfg.Scoring.UseSemanticEmbeddings,
		BreakerEnabled:   cfg.AI.CircuitBreaker.Enabled,
		BreakerMaxReqs:   cfg.AI.CircuitBreaker.MaxRequests,
		BreakerInterval:  cfg.AI.CircuitBreaker.Interval,
		BreakerTimeout:   cfg.AI.CircuitBreaker.Timeout,
		BreakerMinReqs:   cfg.AI.CircuitBreaker.MinRequests,
		BreakerThreshold: cfg.AI.CircuitBreaker.FailureThreshold,
	}, logger)

	aiService.SetFallback(ai.NewFallbackEvaluator(p.Scorer, source))

	var tagger extract.Tagger
	if cfg.AI.NER.Enabled && aiService.Provider != nil {
		tagger = aiService.Provider
	}
	p.Extractor = extract.NewExtractor(source, tagger, logger)

	p.Parser = jd.NewParser(source)
	p.Engine = engine.New(&cfg.Scoring, p.Scorer, aiService, p.Extractor, logger)

	return p, nil
}

func (p *pipeline) buildInventorySource(cfg *config.Config, logger *errors.Logger, watch bool) (extract.InventorySource, error) {
	path := cfg.Extract.InventoryFile
	if path == "" {
		return extract.NewStaticInventory(nil), nil
	}

	if watch && cfg.Extract.WatchInventory {
		watcher, err := extract.NewInventoryWatcher(path, cfg.Extract.DebounceDelay, nil, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load skill inventory %s: %w", path, err)
		}
		if err := watcher.Start(); err != nil {
			return nil, fmt.Errorf("failed to watch skill inventory %s: %w", path, err)
		}
		p.watcher = watcher
		return watcher, nil
	}

	inv, err := extract.LoadInventory(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load skill inventory %s: %w", path, err)
	}
	return extract.NewStaticInventory(inv), nil
}

// Close releases pipeline resources.
func (p *pipeline) Close() error {
	var firstErr error
	if p.watcher != nil {
		if err := p.watcher.Stop(); err != nil {
			firstErr = err
		}
	}
	if p.AIService != nil && p.AIService.Provider != nil {
		if err := p.AIService.Provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
