package retrieval

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/direitofacil/legalrag/config"
	"github.com/direitofacil/legalrag/services"
	"github.com/direitofacil/legalrag/services/embedding"
)

// Document is a knowledge base entry returned by a vector search.
// Relevance is normalized to [0, 1], higher is better.
type Document struct {
	ID        string
	Title     string
	Source    string
	Category  string
	Content   string
	Relevance float64
}

// Searcher runs a nearest-neighbor search over the document store.
type Searcher interface {
	Search(ctx context.Context, vector []float32, topK int) ([]Document, error)
}

// Retriever embeds a question and fetches the documents most relevant
// to it, dropping anything below the configured relevance threshold.
type Retriever struct {
	embedder     embedding.Embedder
	searcher     Searcher
	topK         int
	minRelevance float64
	logger       *zap.Logger
}

func NewRetriever(embedder embedding.Embedder, searcher Searcher, cfg config.RetrievalConfig, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder:     embedder,
		searcher:     searcher,
		topK:         cfg.TopK,
		minRelevance: cfg.MinRelevance,
		logger:       logger,
	}
}

// Retrieve returns up to topK documents relevant to the question,
// ordered by descending relevance. Ties keep the store's order.
// An empty result is not an error: the caller decides what an
// unanswerable question looks like.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]Document, error) {
	if strings.TrimSpace(question) == "" {
		return nil, services.ErrEmptyQuestion
	}

	vector, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, err
	}

	candidates, err := r.searcher.Search(ctx, vector, r.topK)
	if err != nil {
		return nil, services.WrapRetrieval("vector search failed", err)
	}

	docs := make([]Document, 0, len(candidates))
	for _, d := range candidates {
		if d.Relevance >= r.minRelevance {
			docs = append(docs, d)
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Relevance > docs[j].Relevance
	})

	if len(docs) > r.topK {
		docs = docs[:r.topK]
	}

	r.logger.Debug("documents retrieved",
		zap.Int("candidates", len(candidates)),
		zap.Int("kept", len(docs)),
		zap.Float64("min_relevance", r.minRelevance))

	return docs, nil
}
