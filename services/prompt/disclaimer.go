package prompt

// Disclaimer returns the legal-orientation notice for a document
// category. Unknown categories fall back to the general notice.
func Disclaimer(category string) string {
	if d, ok := disclaimers[category]; ok {
		return d
	}
	return disclaimers["geral"]
}

var disclaimers = map[string]string{
	"geral": "⚠️ **IMPORTANTE**: Esta informação tem caráter **exclusivamente orientativo** " +
		"e não substitui a consulta a um advogado. Para questões específicas do seu caso, " +
		"busque orientação jurídica profissional.",

	"trabalhista": "⚠️ **IMPORTANTE**: Questões trabalhistas podem ter particularidades dependendo " +
		"do seu contrato, convenção coletiva e situação específica. Esta resposta é orientativa. " +
		"Para uma análise precisa do seu caso, consulte um advogado trabalhista.",

	"consumidor": "⚠️ **IMPORTANTE**: Seus direitos como consumidor podem variar conforme as circunstâncias " +
		"específicas. Esta informação é orientativa. Para reclamações formais, procure o Procon " +
		"ou um advogado especializado em direito do consumidor.",

	"familia": "⚠️ **IMPORTANTE**: Questões de direito de família envolvem aspectos pessoais e legais " +
		"complexos. Esta resposta é apenas orientativa. Consulte um advogado de família para " +
		"orientação específica sobre seu caso.",

	"previdenciario": "⚠️ **IMPORTANTE**: Questões previdenciárias dependem de análise detalhada do histórico " +
		"contributivo e situação individual. Esta informação é orientativa. Procure um advogado " +
		"previdenciário ou a Defensoria Pública para análise do seu caso.",
}
