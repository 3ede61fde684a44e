package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeSearcher struct {
	docs []retrieval.Document
	err  error
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, _ int) ([]retrieval.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeCompletion struct {
	text     string
	err      error
	lastUser string
}

func (f *fakeCompletion) Complete(_ context.Context, _ string, user string) (string, error) {
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type pipelineFixture struct {
	service    *Service
	completion *fakeCompletion
}

func newPipeline(t *testing.T, searcher *fakeSearcher, completion *fakeCompletion) *pipelineFixture {
	t.Helper()
	logger := zap.NewNop()
	cache := embedding.NewCache(&fakeEmbedder{vector: []float32{0.1, 0.2}}, 100, true)
	retriever := retrieval.NewRetriever(cache, searcher, config.RetrievalConfig{TopK: 5, MinRelevance: 0.7}, logger)
	validationCfg := config.ValidationConfig{Enabled: true, StrictSourceCheck: true, MaxConfidence: 95}
	svc := NewService(
		cache,
		retriever,
		prompt.NewBuilder(),
		generation.NewGenerator(completion, logger),
		validation.NewValidator(validationCfg, logger),
		validationCfg,
		observability.NopMetrics{},
		logger,
	)
	return &pipelineFixture{service: svc, completion: completion}
}

func groundedDocs() []retrieval.Document {
	return []retrieval.Document{
		{
			Title:     "CLT art. 477",
			Source:    "Consolidação das Leis do Trabalho",
			Category:  "trabalhista",
			Content:   "As verbas rescisórias devem ser pagas em até 10 dias após o término do contrato.",
			Relevance: 0.9,
		},
		{
			Title:     "CF art. 7",
			Source:    "Constituição Federal",
			Category:  "trabalhista",
			Content:   "São direitos dos trabalhadores o aviso prévio proporcional ao tempo de serviço.",
			Relevance: 0.8,
		},
	}
}

func TestAnswerHappyPath(t *testing.T) {
	completion := &fakeCompletion{
		text: "Segundo a fonte CLT art. 477, o prazo é de 10 dias.\n\n**Fontes Consultadas:**\n- CLT art. 477",
	}
	f := newPipeline(t, &fakeSearcher{docs: groundedDocs()}, completion)

	answer, err := f.service.Answer(context.Background(), AskRequest{
		Question: "Qual o prazo para pagamento das verbas rescisórias?",
		Tier:     prompt.TierSimple,
		Category: "trabalhista",
	})
	require.NoError(t, err)

	assert.Equal(t, completion.text, answer.Answer)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "CLT art. 477", answer.Sources[0].Title)
	assert.Equal(t, 0.9, answer.Sources[0].Relevance)
	assert.Equal(t, prompt.TierSimple, answer.Tier)
	assert.Contains(t, answer.Disclaimer, "advogado trabalhista")

	// mean relevance 0.85 → initial 85; grounded with section, no penalty
	assert.Equal(t, validation.VerdictGroundedHigh, answer.Validation.Verdict)
	assert.InDelta(t, 85, answer.Confidence, 0.001)
}

func TestAnswerUngroundedResponseIsPenalized(t *testing.T) {
	completion := &fakeCompletion{text: "Geralmente o prazo é de alguns dias, é comum variar."}
	f := newPipeline(t, &fakeSearcher{docs: groundedDocs()}, completion)

	answer, err := f.service.Answer(context.Background(), AskRequest{
		Question: "Qual o prazo?",
		Tier:     prompt.TierSimple,
	})
	require.NoError(t, err)

	assert.Equal(t, validation.VerdictUngrounded, answer.Validation.Verdict)
	// initial 85, ×0.5 no citation, ×0.9 strict generic phrasing
	assert.InDelta(t, 85*0.5*0.9, answer.Confidence, 0.001)
}

func TestAnswerEmptyRetrievalCompletesHonestly(t *testing.T) {
	completion := &fakeCompletion{text: "Não encontrei informações sobre isso nas fontes disponíveis."}
	f := newPipeline(t, &fakeSearcher{docs: nil}, completion)

	answer, err := f.service.Answer(context.Background(), AskRequest{
		Question: "Pergunta sem cobertura na base",
		Tier:     prompt.TierSimple,
	})
	require.NoError(t, err)

	assert.Empty(t, answer.Sources)
	assert.Equal(t, validation.VerdictHonestLimitation, answer.Validation.Verdict)
	assert.Contains(t, f.completion.lastUser, "Nenhuma fonte relevante foi encontrada")
}

func TestAnswerDefaultDisclaimerForUnknownCategory(t *testing.T) {
	completion := &fakeCompletion{text: "resposta"}
	f := newPipeline(t, &fakeSearcher{docs: groundedDocs()}, completion)

	answer, err := f.service.Answer(context.Background(), AskRequest{
		Question: "Pergunta",
		Tier:     prompt.TierSimple,
		Category: "tributario",
	})
	require.NoError(t, err)
	assert.Contains(t, answer.Disclaimer, "exclusivamente orientativo")
}

func TestAnswerRejectsUnknownTier(t *testing.T) {
	f := newPipeline(t, &fakeSearcher{docs: groundedDocs()}, &fakeCompletion{text: "resposta"})

	_, err := f.service.Answer(context.Background(), AskRequest{
		Question: "Pergunta",
		Tier:     prompt.ComplexityTier("expert"),
	})
	assert.ErrorIs(t, err, services.ErrUnknownTier)
}

func TestAnswerPropagatesStageFailures(t *testing.T) {
	t.Run("retrieval failure aborts with no partial answer", func(t *testing.T) {
		f := newPipeline(t, &fakeSearcher{err: errors.New("index down")}, &fakeCompletion{text: "resposta"})

		answer, err := f.service.Answer(context.Background(), AskRequest{
			Question: "Pergunta",
			Tier:     prompt.TierSimple,
		})
		require.Error(t, err)
		assert.Nil(t, answer)
		assert.True(t, services.IsRetrievalError(err))
		assert.Equal(t, "retrieval", services.FailingStage(err))
	})

	t.Run("generation failure aborts with no partial answer", func(t *testing.T) {
		completion := &fakeCompletion{err: services.WrapGeneration("chat completion call failed", errors.New("rate limited"))}
		f := newPipeline(t, &fakeSearcher{docs: groundedDocs()}, completion)

		answer, err := f.service.Answer(context.Background(), AskRequest{
			Question: "Pergunta",
			Tier:     prompt.TierSimple,
		})
		require.Error(t, err)
		assert.Nil(t, answer)
		assert.True(t, services.IsGenerationError(err))
	})
}

func TestAnswerUserContextReachesPrompt(t *testing.T) {
	completion := &fakeCompletion{text: "resposta"}
	f := newPipeline(t, &fakeSearcher{docs: groundedDocs()}, completion)

	_, err := f.service.Answer(context.Background(), AskRequest{
		Question:    "Pergunta",
		Tier:        prompt.TierSimple,
		UserContext: "Fui demitido sem justa causa.",
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(f.completion.lastUser, "Fui demitido sem justa causa."))
}

func TestCachePassThroughOperations(t *testing.T) {
	f := newPipeline(t, &fakeSearcher{docs: groundedDocs()}, &fakeCompletion{text: "resposta"})

	_, err := f.service.Answer(context.Background(), AskRequest{Question: "Pergunta", Tier: prompt.TierSimple})
	require.NoError(t, err)

	stats := f.service.CacheStats()
	assert.Equal(t, 1, stats.Size)

	f.service.ClearCache()
	assert.Equal(t, 0, f.service.CacheStats().Size)
}

func TestValidationDisabledKeepsInitialConfidence(t *testing.T) {
	logger := zap.NewNop()
	cache := embedding.NewCache(&fakeEmbedder{vector: []float32{0.1}}, 100, true)
	retriever := retrieval.NewRetriever(cache, &fakeSearcher{docs: groundedDocs()}, config.RetrievalConfig{TopK: 5, MinRelevance: 0.7}, logger)
	validationCfg := config.ValidationConfig{Enabled: false, MaxConfidence: 95}
	svc := NewService(
		cache,
		retriever,
		prompt.NewBuilder(),
		generation.NewGenerator(&fakeCompletion{text: "Geralmente é assim."}, logger),
		validation.NewValidator(validationCfg, logger),
		validationCfg,
		observability.NopMetrics{},
		logger,
	)

	answer, err := svc.Answer(context.Background(), AskRequest{Question: "Pergunta", Tier: prompt.TierSimple})
	require.NoError(t, err)
	assert.InDelta(t, 85, answer.Confidence, 0.001)
}
