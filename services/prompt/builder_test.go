package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/direitofacil/legalrag/services"
	"github.com/direitofacil/legalrag/services/retrieval"
)

func TestParseTier(t *testing.T) {
	t.Run("accepts known tiers", func(t *testing.T) {
		for _, s := range []string{"simple", "intermediate", "detailed", "technical"} {
			tier, err := ParseTier(s)
			require.NoError(t, err)
			assert.Equal(t, s, tier.String())
		}
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		tier, err := ParseTier("  Technical ")
		require.NoError(t, err)
		assert.Equal(t, TierTechnical, tier)
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := ParseTier("expert")
		assert.ErrorIs(t, err, services.ErrUnknownTier)
	})

	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseTier("")
		assert.ErrorIs(t, err, services.ErrUnknownTier)
	})
}

func TestBuilderSystemPrompt(t *testing.T) {
	b := NewBuilder()

	pair, err := b.Build("pergunta", nil, TierSimple, Options{})
	require.NoError(t, err)

	t.Run("carries the grounding constraints", func(t *testing.T) {
		assert.Contains(t, pair.System, "EXCLUSIVAMENTE com base nos documentos fornecidos")
		assert.Contains(t, pair.System, "NUNCA use seu conhecimento geral ou pré-treinado")
		assert.Contains(t, pair.System, "SEMPRE cite de qual fonte específica")
	})

	t.Run("carries general guidelines", func(t *testing.T) {
		assert.Contains(t, pair.System, "DIRETRIZES GERAIS OBRIGATÓRIAS")
		assert.Contains(t, pair.System, "ESTRUTURA OBRIGATÓRIA DA RESPOSTA")
	})

	t.Run("tier selects register instructions", func(t *testing.T) {
		assert.Contains(t, pair.System, "Extremamente Simples")

		technical, err := b.Build("pergunta", nil, TierTechnical, Options{})
		require.NoError(t, err)
		assert.Contains(t, technical.System, "Técnico-Jurídico")
		assert.NotContains(t, technical.System, "Extremamente Simples")
	})
}

func TestBuilderUserPrompt(t *testing.T) {
	b := NewBuilder()
	docs := []retrieval.Document{
		{Title: "CLT art. 477", Content: "As verbas rescisórias devem ser pagas em até 10 dias."},
		{Title: "CDC art. 49", Content: "O consumidor pode desistir do contrato no prazo de 7 dias."},
	}

	pair, err := b.Build("Qual o prazo para pagamento da rescisão?", docs, TierIntermediate, Options{})
	require.NoError(t, err)

	t.Run("serializes documents in order", func(t *testing.T) {
		first := strings.Index(pair.User, "FONTE: CLT art. 477")
		second := strings.Index(pair.User, "FONTE: CDC art. 49")
		require.GreaterOrEqual(t, first, 0)
		require.Greater(t, second, first)
		assert.Contains(t, pair.User, "CONTEÚDO: As verbas rescisórias")
	})

	t.Run("serializes the source label", func(t *testing.T) {
		labeled := []retrieval.Document{{
			Title:   "CDC - Artigo 18",
			Source:  "Código de Defesa do Consumidor",
			Content: "O fornecedor responde pelos vícios de qualidade.",
		}}
		pair, err := b.Build("pergunta", labeled, TierIntermediate, Options{})
		require.NoError(t, err)
		assert.Contains(t, pair.User, "FONTE: CDC - Artigo 18")
		assert.Contains(t, pair.User, "ORIGEM: Código de Defesa do Consumidor")
	})

	t.Run("omits the source line when the label is empty", func(t *testing.T) {
		unlabeled := []retrieval.Document{{Title: "Fonte", Content: "Texto."}}
		pair, err := b.Build("pergunta", unlabeled, TierIntermediate, Options{})
		require.NoError(t, err)
		assert.NotContains(t, pair.User, "ORIGEM:")
	})

	t.Run("mandates the sources section", func(t *testing.T) {
		assert.Contains(t, pair.User, "**Fontes Consultadas:**")
	})

	t.Run("includes the question", func(t *testing.T) {
		assert.Contains(t, pair.User, "PERGUNTA DO USUÁRIO:\nQual o prazo para pagamento da rescisão?")
	})
}

func TestBuilderOptionalSections(t *testing.T) {
	b := NewBuilder()
	docs := []retrieval.Document{{Title: "Fonte", Content: "Texto."}}

	t.Run("omitted by default", func(t *testing.T) {
		pair, err := b.Build("pergunta", docs, TierSimple, Options{})
		require.NoError(t, err)
		assert.NotContains(t, pair.User, "CONTEXTO DO USUÁRIO")
		assert.NotContains(t, pair.User, "INSTRUÇÕES ADICIONAIS")
	})

	t.Run("included when provided", func(t *testing.T) {
		pair, err := b.Build("pergunta", docs, TierSimple, Options{
			UserContext:       "Trabalho com carteira assinada há 3 anos.",
			ExtraInstructions: "Responda em tópicos.",
		})
		require.NoError(t, err)
		assert.Contains(t, pair.User, "CONTEXTO DO USUÁRIO:\nTrabalho com carteira assinada há 3 anos.")
		assert.Contains(t, pair.User, "INSTRUÇÕES ADICIONAIS:\nResponda em tópicos.")
	})
}

func TestBuilderEmptyDocuments(t *testing.T) {
	b := NewBuilder()

	pair, err := b.Build("pergunta sem cobertura", nil, TierSimple, Options{})
	require.NoError(t, err)

	assert.Contains(t, pair.User, "Nenhuma fonte relevante foi encontrada")
	assert.Contains(t, pair.User, "não há dados suficientes")
	assert.Contains(t, pair.System, "REGRA FUNDAMENTAL")
}

func TestBuilderRejectsUnknownTier(t *testing.T) {
	b := NewBuilder()

	_, err := b.Build("pergunta", nil, ComplexityTier("expert"), Options{})
	assert.ErrorIs(t, err, services.ErrUnknownTier)
}

func TestBuilderIsDeterministic(t *testing.T) {
	b := NewBuilder()
	docs := []retrieval.Document{{Title: "Fonte", Content: "Texto."}}

	a, err := b.Build("pergunta", docs, TierDetailed, Options{})
	require.NoError(t, err)
	c, err := b.Build("pergunta", docs, TierDetailed, Options{})
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestDisclaimer(t *testing.T) {
	t.Run("known categories", func(t *testing.T) {
		assert.Contains(t, Disclaimer("trabalhista"), "advogado trabalhista")
		assert.Contains(t, Disclaimer("consumidor"), "Procon")
		assert.Contains(t, Disclaimer("familia"), "advogado de família")
		assert.Contains(t, Disclaimer("previdenciario"), "Defensoria Pública")
	})

	t.Run("unknown category falls back to general", func(t *testing.T) {
		assert.Equal(t, Disclaimer("geral"), Disclaimer("tributario"))
	})
}
