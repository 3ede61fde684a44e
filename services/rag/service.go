package rag

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/direitofacil/legalrag/config"
	"github.com/direitofacil/legalrag/internal/observability"
	"github.com/direitofacil/legalrag/services"
	"github.com/direitofacil/legalrag/services/embedding"
	"github.com/direitofacil/legalrag/services/generation"
	"github.com/direitofacil/legalrag/services/prompt"
	"github.com/direitofacil/legalrag/services/retrieval"
	"github.com/direitofacil/legalrag/services/validation"
)

// AskRequest is one legal question with its presentation options.
type AskRequest struct {
	Question          string
	Tier              prompt.ComplexityTier
	Category          string
	UserContext       string
	ExtraInstructions string
}

// Source is the citation metadata for one document used in an answer.
type Source struct {
	Title     string  `json:"title"`
	Source    string  `json:"source"`
	Relevance float64 `json:"relevance_score"`
}

// LegalAnswer is the final pipeline output: the answer text, the
// sources that grounded it, the validated confidence and the category
// disclaimer.
type LegalAnswer struct {
	Answer     string
	Sources    []Source
	Confidence float64
	Disclaimer string
	Tier       prompt.ComplexityTier
	Validation validation.Result
}

// Service sequences the full pipeline: retrieve, build prompt,
// generate, validate. Stages fail the whole request; validation never
// does.
type Service struct {
	cache      *embedding.Cache
	retriever  *retrieval.Retriever
	builder    *prompt.Builder
	generator  *generation.Generator
	validator  *validation.Validator
	validation config.ValidationConfig
	metrics    observability.Metrics
	logger     *zap.Logger
}

func NewService(
	cache *embedding.Cache,
	retriever *retrieval.Retriever,
	builder *prompt.Builder,
	generator *generation.Generator,
	validator *validation.Validator,
	validationCfg config.ValidationConfig,
	metrics observability.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		cache:      cache,
		retriever:  retriever,
		builder:    builder,
		generator:  generator,
		validator:  validator,
		validation: validationCfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// Answer runs one question through the pipeline. The first failing
// stage aborts the request with no partial answer; zero retrieved
// documents is not a failure.
func (s *Service) Answer(ctx context.Context, req AskRequest) (*LegalAnswer, error) {
	requestID := uuid.New()
	start := time.Now()

	s.logger.Info("starting answer pipeline",
		zap.String("request_id", requestID.String()),
		zap.String("tier", req.Tier.String()),
		zap.String("category", req.Category))

	if _, err := prompt.ParseTier(req.Tier.String()); err != nil {
		return nil, err
	}

	s.logger.Debug("step 1: retrieving documents", zap.String("request_id", requestID.String()))
	docs, err := s.runRetrieval(ctx, req.Question)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("step 2: building prompt",
		zap.String("request_id", requestID.String()),
		zap.Int("documents", len(docs)))
	pair, err := s.builder.Build(req.Question, docs, req.Tier, prompt.Options{
		UserContext:       req.UserContext,
		ExtraInstructions: req.ExtraInstructions,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("step 3: generating answer", zap.String("request_id", requestID.String()))
	answer, err := s.runGeneration(ctx, pair, docs, req.Tier)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("step 4: validating answer", zap.String("request_id", requestID.String()))
	initial := initialConfidence(docs, s.validation.MaxConfidence)
	result := s.runValidation(answer.Text, docs, initial)

	s.logger.Info("answer pipeline completed",
		zap.String("request_id", requestID.String()),
		zap.String("verdict", string(result.Verdict)),
		zap.Float64("confidence", result.AdjustedConfidence),
		zap.Duration("elapsed", time.Since(start)))

	return &LegalAnswer{
		Answer:     answer.Text,
		Sources:    sourcesOf(docs),
		Confidence: result.AdjustedConfidence,
		Disclaimer: prompt.Disclaimer(req.Category),
		Tier:       req.Tier,
		Validation: result,
	}, nil
}

func (s *Service) runRetrieval(ctx context.Context, question string) ([]retrieval.Document, error) {
	start := time.Now()
	before := s.cache.Stats()
	docs, err := s.retriever.Retrieve(ctx, question)
	after := s.cache.Stats()
	if after.Hits > before.Hits {
		s.metrics.RecordCacheHit(true)
	} else if after.Misses > before.Misses {
		s.metrics.RecordCacheHit(false)
	}
	if err != nil {
		s.metrics.RecordStage(services.FailingStage(err), "error", time.Since(start))
		return nil, err
	}
	s.metrics.RecordStage("retrieval", "ok", time.Since(start))
	return docs, nil
}

func (s *Service) runGeneration(ctx context.Context, pair prompt.PromptPair, docs []retrieval.Document, tier prompt.ComplexityTier) (generation.GeneratedAnswer, error) {
	start := time.Now()
	answer, err := s.generator.Generate(ctx, pair, docs, tier)
	if err != nil {
		s.metrics.RecordStage("generation", "error", time.Since(start))
		return generation.GeneratedAnswer{}, err
	}
	s.metrics.RecordStage("generation", "ok", time.Since(start))
	return answer, nil
}

func (s *Service) runValidation(text string, docs []retrieval.Document, initial float64) validation.Result {
	if !s.validation.Enabled {
		return validation.Result{
			InitialConfidence:  initial,
			AdjustedConfidence: initial,
			Verdict:            validation.VerdictGroundedPartial,
			Message:            "validação desativada",
		}
	}
	result := s.validator.Validate(text, docs, initial, s.validation.StrictSourceCheck)
	s.metrics.RecordVerdict(string(result.Verdict))
	return result
}

// initialConfidence is the mean retrieval relevance scaled to a
// percentage, capped at the configured ceiling. Zero documents means
// zero grounding and therefore zero initial confidence.
func initialConfidence(docs []retrieval.Document, ceiling float64) float64 {
	if len(docs) == 0 {
		return 0
	}
	var sum float64
	for _, d := range docs {
		sum += d.Relevance
	}
	confidence := sum / float64(len(docs)) * 100
	if confidence > ceiling {
		return ceiling
	}
	return confidence
}

func sourcesOf(docs []retrieval.Document) []Source {
	sources := make([]Source, 0, len(docs))
	for _, d := range docs {
		sources = append(sources, Source{
			Title:     d.Title,
			Source:    d.Source,
			Relevance: d.Relevance,
		})
	}
	return sources
}

// CacheStats exposes the embedding cache counters.
func (s *Service) CacheStats() embedding.Stats {
	return s.cache.Stats()
}

// ClearCache drops every cached embedding.
func (s *Service) ClearCache() {
	s.cache.Clear()
}
