package retrieval

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/direitofacil/legalrag/config"
	"github.com/direitofacil/legalrag/services"
)

// WeaviateSearcher runs nearVector queries against a Weaviate class
// holding the legal knowledge base.
type WeaviateSearcher struct {
	client    *weaviate.Client
	className string
}

// NewWeaviateClient builds a Weaviate client from configuration.
func NewWeaviateClient(cfg config.WeaviateConfig) (*weaviate.Client, error) {
	client, err := weaviate.NewClient(weaviate.Config{
		Scheme: cfg.Scheme,
		Host:   cfg.Host,
	})
	if err != nil {
		return nil, services.WrapRetrieval("create weaviate client", err)
	}
	return client, nil
}

func NewWeaviateSearcher(client *weaviate.Client, cfg config.WeaviateConfig) *WeaviateSearcher {
	return &WeaviateSearcher{client: client, className: cfg.ClassName}
}

// Search returns the topK nearest documents to the supplied vector.
// Relevance is Weaviate's certainty for the match.
func (s *WeaviateSearcher) Search(ctx context.Context, vector []float32, topK int) ([]Document, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	fields := []graphql.Field{
		{Name: "title"},
		{Name: "source"},
		{Name: "category"},
		{Name: "content"},
		{Name: "_additional { id certainty }"},
	}

	result, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate query: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("weaviate query: %s", result.Errors[0].Message)
	}

	return s.parseDocuments(result.Data["Get"])
}

func (s *WeaviateSearcher) parseDocuments(raw interface{}) ([]Document, error) {
	get, ok := raw.(map[string]interface{})
	if !ok {
		return []Document{}, nil
	}
	objects, ok := get[s.className].([]interface{})
	if !ok {
		return []Document{}, nil
	}

	docs := make([]Document, 0, len(objects))
	for _, obj := range objects {
		m, ok := obj.(map[string]interface{})
		if !ok {
			continue // skip malformed objects
		}

		doc := Document{
			Title:    getString(m, "title"),
			Source:   getString(m, "source"),
			Category: getString(m, "category"),
			Content:  getString(m, "content"),
		}
		if additional, ok := m["_additional"].(map[string]interface{}); ok {
			doc.ID = getString(additional, "id")
			if certainty, ok := additional["certainty"].(float64); ok {
				doc.Relevance = certainty
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
