package prompt

import (
	"fmt"
	"strings"

	"github.com/direitofacil/legalrag/services/retrieval"
)

// PromptPair is the system/user message pair handed to the completion
// provider.
type PromptPair struct {
	System string
	User   string
}

// Options carries the optional parts of a prompt.
type Options struct {
	UserContext       string
	ExtraInstructions string
}

const basePrompt = `Você é um assistente jurídico especializado em direito brasileiro.
Sua função é fornecer informações claras e acessíveis sobre questões legais básicas.

⚠️ REGRA FUNDAMENTAL - LEIA COM ATENÇÃO:
Você DEVE responder EXCLUSIVAMENTE com base nos documentos fornecidos nas FONTES JURÍDICAS.
- Se a informação NÃO estiver nas fontes, diga: "Não encontrei informações sobre isso nas fontes disponíveis."
- NUNCA use seu conhecimento geral ou pré-treinado
- NUNCA invente ou assuma informações que não estejam explicitamente nas fontes
- SEMPRE cite de qual fonte específica você extraiu cada informação
- Se as fontes forem insuficientes para responder completamente, seja honesto sobre isso`

var tierInstructions = map[ComplexityTier]string{
	TierSimple: `

NÍVEL DE LINGUAGEM: Extremamente Simples
- Use vocabulário do dia a dia, evite termos técnicos
- Explique como se estivesse falando com alguém sem conhecimento jurídico
- Use exemplos práticos e situações cotidianas
- Frases curtas e diretas`,

	TierIntermediate: `

NÍVEL DE LINGUAGEM: Intermediário
- Use termos jurídicos básicos, mas sempre explique o significado
- Balance linguagem técnica com explicações acessíveis
- Forneça contexto quando usar termos legais
- Use analogias quando apropriado`,

	TierDetailed: `

NÍVEL DE LINGUAGEM: Detalhado
- Forneça explicações completas e aprofundadas
- Cite artigos de lei, códigos e legislações específicas
- Apresente exemplos práticos e casos de referência
- Explique nuances e exceções relevantes
- Organize a resposta em seções claras`,

	TierTechnical: `

NÍVEL DE LINGUAGEM: Técnico-Jurídico
- Use terminologia jurídica precisa
- Cite dispositivos legais completos (Lei nº, Art., §, inciso)
- Mencione jurisprudências relevantes quando aplicável
- Detalhe procedimentos e prazos legais
- Aborde aspectos procedimentais e processuais`,
}

const generalGuidelines = `

DIRETRIZES GERAIS OBRIGATÓRIAS:
1. ✅ APENAS use informações das FONTES fornecidas - NUNCA use conhecimento externo
2. ✅ SEMPRE cite a fonte específica ao fornecer informações: "Segundo [nome da fonte]..."
3. ✅ Se a pergunta não puder ser respondida com as fontes, diga claramente
4. ✅ Organize a resposta de forma lógica e didática
5. ✅ Use formatação Markdown para melhor legibilidade
6. ✅ Sempre inclua o disclaimer sobre buscar orientação profissional
7. ✅ Seja preciso e objetivo, evite generalizações
8. ✅ Se houver múltiplas interpretações nas fontes, mencione as principais
9. ❌ NUNCA adicione informações que não estejam explicitamente nas fontes
10. ❌ NUNCA assuma ou complete informações por conta própria

ESTRUTURA OBRIGATÓRIA DA RESPOSTA:
1. Resposta direta citando a fonte
2. Explicação baseada EXCLUSIVAMENTE nas fontes fornecidas
3. Base legal (cite exatamente como aparece nas fontes)
4. Se houver exemplos nas fontes, use-os; caso contrário, não invente
5. Próximos passos APENAS se mencionados nas fontes

IMPORTANTE: Ao final, liste quais fontes você efetivamente utilizou na resposta.`

const noSourcesNote = "Nenhuma fonte relevante foi encontrada para esta pergunta. " +
	"Informe honestamente que não há dados suficientes para responder."

const taskBlock = `TAREFA:
Forneça uma resposta clara, objetiva e precisa baseada EXCLUSIVAMENTE nas fontes acima. Estruture sua resposta de forma didática e cite as fontes quando relevante.

⚠️ ATENÇÃO: Use APENAS as informações contidas nas FONTES JURÍDICAS DISPONÍVEIS acima. Se a informação não estiver nas fontes, informe que não há dados suficientes. NUNCA use conhecimento externo ou faça suposições.

Ao final da resposta, liste em uma seção '**Fontes Consultadas:**' quais documentos você efetivamente utilizou para construir esta resposta.`

// Builder assembles deterministic prompt pairs. It holds no state and
// is safe for concurrent use.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles the system and user prompts for a question and its
// supporting documents. Documents are serialized in the order given.
// An empty document set still yields the full constraint block plus an
// explicit no-sources note.
func (b *Builder) Build(question string, docs []retrieval.Document, tier ComplexityTier, opts Options) (PromptPair, error) {
	instructions, ok := tierInstructions[tier]
	if !ok {
		var err error
		if tier, err = ParseTier(string(tier)); err != nil {
			return PromptPair{}, err
		}
		instructions = tierInstructions[tier]
	}

	var user strings.Builder
	fmt.Fprintf(&user, "PERGUNTA DO USUÁRIO:\n%s\n", question)

	if opts.UserContext != "" {
		fmt.Fprintf(&user, "\nCONTEXTO DO USUÁRIO:\n%s\n", opts.UserContext)
	}

	fmt.Fprintf(&user, "\nFONTES JURÍDICAS DISPONÍVEIS:\n%s\n", serializeDocuments(docs))
	user.WriteString("\n" + taskBlock)

	if opts.ExtraInstructions != "" {
		fmt.Fprintf(&user, "\n\nINSTRUÇÕES ADICIONAIS:\n%s", opts.ExtraInstructions)
	}

	return PromptPair{
		System: basePrompt + instructions + generalGuidelines,
		User:   user.String(),
	}, nil
}

func serializeDocuments(docs []retrieval.Document) string {
	if len(docs) == 0 {
		return noSourcesNote
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		var block strings.Builder
		fmt.Fprintf(&block, "FONTE: %s\n", d.Title)
		if d.Source != "" {
			fmt.Fprintf(&block, "ORIGEM: %s\n", d.Source)
		}
		fmt.Fprintf(&block, "CONTEÚDO: %s\n", d.Content)
		parts = append(parts, block.String())
	}
	return strings.Join(parts, "\n---\n")
}
