package knowledge

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

// documentClass defines the vector index class for legal documents.
// Vectors are supplied by the embedding pipeline, so no vectorizer
// module is configured.
func documentClass(className string) *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	indexSearchable := new(bool)
	*indexSearchable = true

	return &models.Class{
		Class:       className,
		Description: "Brazilian legal documents with precomputed embeddings",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{
				Name:            "title",
				DataType:        []string{"text"},
				Description:     "Document title, e.g. the law and article number",
				IndexSearchable: indexSearchable,
				Tokenization:    "word",
			},
			{
				Name:            "content",
				DataType:        []string{"text"},
				Description:     "Full document text",
				IndexSearchable: indexSearchable,
				Tokenization:    "word",
			},
			{
				Name:            "category",
				DataType:        []string{"text"},
				Description:     "Legal area the document belongs to",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "source",
				DataType:        []string{"text"},
				Description:     "Publisher URL or 'Manual' for direct ingestion",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:        "createdAt",
				DataType:    []string{"text"},
				Description: "RFC 3339 ingestion timestamp",
			},
		},
	}
}

// EnsureSchema creates the document class if it does not exist yet.
// Idempotent.
func EnsureSchema(ctx context.Context, client *weaviate.Client, className string) error {
	_, err := client.Schema().ClassGetter().WithClassName(className).Do(ctx)
	if err == nil {
		return nil
	}

	if err := client.Schema().ClassCreator().WithClass(documentClass(className)).Do(ctx); err != nil {
		return fmt.Errorf("creating %s schema: %w", className, err)
	}
	return nil
}
