// Package embedding provides the text embedding contract, the OpenAI
// implementation, and a bounded FIFO cache that memoizes text→vector
// computations across requests.
package embedding

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/direitofacil/legalrag/config"
	"github.com/direitofacil/legalrag/services"
)

// Embedder turns text into a dense vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbedder implements Embedder against the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEmbedder creates an embedder for the configured model.
func NewOpenAIEmbedder(client *openai.Client, cfg config.EmbeddingConfig) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: client,
		model:  openai.EmbeddingModel(cfg.Model),
	}
}

// EmbedText performs a single embeddings call. Provider failures surface
// as embedding stage errors; nothing is retried here.
func (e *OpenAIEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, services.WrapEmbedding("embeddings call failed", err)
	}
	if len(resp.Data) == 0 {
		return nil, services.WrapEmbedding("embeddings call returned no data", nil)
	}
	return resp.Data[0].Embedding, nil
}
