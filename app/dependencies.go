// Package app wires the application together: configuration, logging,
// external clients and every pipeline service.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	openai "github.com/sashabaranov/go-openai"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"go.uber.org/zap"

	"github.com/direitofacil/legalrag/config"
	"github.com/direitofacil/legalrag/internal/observability"
	"github.com/direitofacil/legalrag/services/embedding"
	"github.com/direitofacil/legalrag/services/generation"
	"github.com/direitofacil/legalrag/services/knowledge"
	"github.com/direitofacil/legalrag/services/prompt"
	"github.com/direitofacil/legalrag/services/rag"
	"github.com/direitofacil/legalrag/services/retrieval"
	"github.com/direitofacil/legalrag/services/scraper"
	"github.com/direitofacil/legalrag/services/validation"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  observability.Metrics
	Registry *prometheus.Registry

	// External clients
	OpenAI   *openai.Client
	Weaviate *weaviate.Client

	// Pipeline services
	EmbeddingCache *embedding.Cache
	Retriever      *retrieval.Retriever
	PromptBuilder  *prompt.Builder
	Generator      *generation.Generator
	Validator      *validation.Validator
	RAG            *rag.Service

	// Corpus management
	Scraper       *scraper.Scraper
	KnowledgeBase *knowledge.Service
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	deps := &Dependencies{Config: cfg, Logger: logger}

	deps.initMetrics(cfg)
	if err := deps.initClients(cfg); err != nil {
		return nil, err
	}
	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func (d *Dependencies) initMetrics(cfg *config.Config) {
	if cfg.Observability.MetricsEnabled {
		d.Registry = prometheus.NewRegistry()
		d.Metrics = observability.NewPrometheusMetrics(d.Registry)
		return
	}
	d.Metrics = observability.NopMetrics{}
}

func (d *Dependencies) initClients(cfg *config.Config) error {
	clientCfg := openai.DefaultConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		clientCfg.BaseURL = cfg.LLM.BaseURL
	}
	d.OpenAI = openai.NewClientWithConfig(clientCfg)

	weaviateClient, err := retrieval.NewWeaviateClient(cfg.Weaviate)
	if err != nil {
		return fmt.Errorf("failed to initialize weaviate client: %w", err)
	}
	d.Weaviate = weaviateClient
	return nil
}

func (d *Dependencies) initServices(cfg *config.Config) {
	embedder := embedding.NewOpenAIEmbedder(d.OpenAI, cfg.Embedding)
	d.EmbeddingCache = embedding.NewCache(embedder, cfg.Cache.Capacity, cfg.Cache.Enabled)

	searcher := retrieval.NewWeaviateSearcher(d.Weaviate, cfg.Weaviate)
	d.Retriever = retrieval.NewRetriever(d.EmbeddingCache, searcher, cfg.Retrieval, d.Logger)

	d.PromptBuilder = prompt.NewBuilder()
	d.Generator = generation.NewGenerator(generation.NewOpenAIClient(d.OpenAI, cfg.LLM), d.Logger)
	d.Validator = validation.NewValidator(cfg.Validation, d.Logger)

	d.RAG = rag.NewService(
		d.EmbeddingCache,
		d.Retriever,
		d.PromptBuilder,
		d.Generator,
		d.Validator,
		cfg.Validation,
		d.Metrics,
		d.Logger,
	)

	d.Scraper = scraper.NewScraper(cfg.Scraper, d.Logger)
	indexer := knowledge.NewWeaviateIndexer(d.Weaviate, cfg.Weaviate)
	d.KnowledgeBase = knowledge.NewService(d.EmbeddingCache, indexer, d.Scraper, d.Logger)
}

// Bootstrap prepares external state the services depend on, currently
// the vector index schema. Idempotent.
func (d *Dependencies) Bootstrap(ctx context.Context) error {
	return knowledge.EnsureSchema(ctx, d.Weaviate, d.Config.Weaviate.ClassName)
}

// Close flushes buffered log entries.
func (d *Dependencies) Close() {
	_ = d.Logger.Sync()
}
