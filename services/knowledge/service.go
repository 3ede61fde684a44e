package knowledge

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/direitofacil/legalrag/services"
	"github.com/direitofacil/legalrag/services/embedding"
)

// IndexedDocument is a knowledge base entry ready to be written to the
// vector index.
type IndexedDocument struct {
	ID        string
	Title     string
	Content   string
	Category  string
	Source    string
	Vector    []float32
	CreatedAt time.Time
}

// Indexer writes documents to and inspects the vector index.
type Indexer interface {
	Index(ctx context.Context, doc IndexedDocument) error
	Count(ctx context.Context) (int, error)
	Ready(ctx context.Context) (bool, error)
}

// Fetcher extracts readable text from a URL.
type Fetcher interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Service manages the legal document corpus: ingestion, counting and
// index health.
type Service struct {
	embedder embedding.Embedder
	indexer  Indexer
	fetcher  Fetcher
	logger   *zap.Logger
}

func NewService(embedder embedding.Embedder, indexer Indexer, fetcher Fetcher, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, indexer: indexer, fetcher: fetcher, logger: logger}
}

// AddDocument embeds the content once and stores it with its metadata.
// Returns the generated document ID.
func (s *Service) AddDocument(ctx context.Context, title, content, category, sourceURL string) (string, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return "", services.NewDomainError(services.ErrorTypeValidation, "title and content are required", nil)
	}

	vector, err := s.embedder.EmbedText(ctx, content)
	if err != nil {
		return "", err
	}

	source := sourceURL
	if source == "" {
		source = "Manual"
	}

	doc := IndexedDocument{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Category:  category,
		Source:    source,
		Vector:    vector,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.indexer.Index(ctx, doc); err != nil {
		return "", services.WrapRetrieval("index document", err)
	}

	s.logger.Info("document added to knowledge base",
		zap.String("doc_id", doc.ID),
		zap.String("category", category),
		zap.Int("content_chars", len(content)))

	return doc.ID, nil
}

// AddFromURL scrapes a page and ingests the extracted text as a
// document sourced from that URL.
func (s *Service) AddFromURL(ctx context.Context, url, title, category string) (string, error) {
	content, err := s.fetcher.Extract(ctx, url)
	if err != nil {
		return "", err
	}
	return s.AddDocument(ctx, title, content, category, url)
}

// Count returns the number of documents in the index.
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.indexer.Count(ctx)
	if err != nil {
		return 0, services.WrapRetrieval("count documents", err)
	}
	return count, nil
}

// Categories returns the legal areas the corpus is organized under.
func (s *Service) Categories() []string {
	return []string{
		"Direito do Consumidor",
		"Direito Civil - Contratos",
		"Direito Trabalhista",
		"Direito de Família",
		"Registros Civís",
		"Pequenas Causas",
		"Direito Previdenciário",
	}
}

// HealthCheck reports whether the vector index is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	ready, err := s.indexer.Ready(ctx)
	if err != nil {
		return services.WrapRetrieval("index readiness check", err)
	}
	if !ready {
		return services.ErrIndexUnhealthy
	}
	return nil
}
