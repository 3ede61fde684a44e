package knowledge

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/direitofacil/legalrag/config"
)

// WeaviateIndexer stores documents as objects of the configured class,
// vectors supplied by us rather than a Weaviate vectorizer module.
type WeaviateIndexer struct {
	client    *weaviate.Client
	className string
}

func NewWeaviateIndexer(client *weaviate.Client, cfg config.WeaviateConfig) *WeaviateIndexer {
	return &WeaviateIndexer{client: client, className: cfg.ClassName}
}

func (w *WeaviateIndexer) Index(ctx context.Context, doc IndexedDocument) error {
	_, err := w.client.Data().Creator().
		WithClassName(w.className).
		WithID(doc.ID).
		WithVector(doc.Vector).
		WithProperties(map[string]interface{}{
			"title":     doc.Title,
			"content":   doc.Content,
			"category":  doc.Category,
			"source":    doc.Source,
			"createdAt": doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}
	return nil
}

func (w *WeaviateIndexer) Count(ctx context.Context) (int, error) {
	result, err := w.client.GraphQL().Aggregate().
		WithClassName(w.className).
		WithFields(graphql.Field{
			Name:   "meta",
			Fields: []graphql.Field{{Name: "count"}},
		}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("aggregate query: %w", err)
	}
	if len(result.Errors) > 0 {
		return 0, fmt.Errorf("aggregate query: %s", result.Errors[0].Message)
	}

	aggregate, ok := result.Data["Aggregate"].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	groups, ok := aggregate[w.className].([]interface{})
	if !ok || len(groups) == 0 {
		return 0, nil
	}
	group, ok := groups[0].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	meta, ok := group["meta"].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	count, ok := meta["count"].(float64)
	if !ok {
		return 0, nil
	}
	return int(count), nil
}

func (w *WeaviateIndexer) Ready(ctx context.Context) (bool, error) {
	return w.client.Misc().ReadyChecker().Do(ctx)
}
