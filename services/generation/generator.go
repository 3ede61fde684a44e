package generation

import (
	"context"

	"go.uber.org/zap"

	"github.com/direitofacil/legalrag/services/prompt"
	"github.com/direitofacil/legalrag/services/retrieval"
)

// GeneratedAnswer is the raw model output together with the documents
// it was grounded on.
type GeneratedAnswer struct {
	Text      string
	Documents []retrieval.Document
	Tier      prompt.ComplexityTier
}

// Generator turns a prompt pair into a model answer. The text is
// returned exactly as produced; validation happens downstream.
type Generator struct {
	client CompletionClient
	logger *zap.Logger
}

func NewGenerator(client CompletionClient, logger *zap.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

func (g *Generator) Generate(ctx context.Context, pair prompt.PromptPair, docs []retrieval.Document, tier prompt.ComplexityTier) (GeneratedAnswer, error) {
	text, err := g.client.Complete(ctx, pair.System, pair.User)
	if err != nil {
		return GeneratedAnswer{}, err
	}

	g.logger.Debug("completion received",
		zap.Int("answer_chars", len(text)),
		zap.String("tier", tier.String()))

	return GeneratedAnswer{Text: text, Documents: docs, Tier: tier}, nil
}
