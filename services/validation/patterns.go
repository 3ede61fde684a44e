package validation

import "regexp"

// Honest-limitation phrasings. A response matching any of these admits
// the sources were insufficient instead of guessing.
var noInfoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`não encontrei`),
	regexp.MustCompile(`não há informações`),
	regexp.MustCompile(`não tenho informações`),
	regexp.MustCompile(`informações insuficientes`),
	regexp.MustCompile(`não constam? nas fontes`),
	regexp.MustCompile(`fontes não contêm`),
	regexp.MustCompile(`não há dados suficientes`),
}

// Inline citation phrasings that attribute a claim to a source.
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`segundo\s+(?:a|o)\s+(?:fonte|documento|lei|artigo)`),
	regexp.MustCompile(`conforme\s+(?:a|o)`),
	regexp.MustCompile(`de acordo com\s+(?:a|o)`),
	regexp.MustCompile(`baseado em`),
	regexp.MustCompile(`consta (?:na|no)`),
	regexp.MustCompile(`previsto (?:na|no)`),
}

// Marker for the mandatory closing section listing the sources used.
var sourcesSectionPattern = regexp.MustCompile(`\*\*fontes consultadas:?\*\*`)

// Generic-hedge phrasings that suggest the model reasoned from general
// knowledge instead of the supplied sources.
var genericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`de modo geral`),
	regexp.MustCompile(`geralmente`),
	regexp.MustCompile(`normalmente`),
	regexp.MustCompile(`em geral`),
	regexp.MustCompile(`costuma-se`),
	regexp.MustCompile(`é comum`),
	regexp.MustCompile(`usualmente`),
}

// Over-specific textual shapes associated with fabricated detail. A
// match only counts against the response when the matched text does
// not appear verbatim in any supplied document.
var hallucinationPatterns = []struct {
	Name    string
	Pattern *regexp.Regexp
}{
	{Name: "datas_especificas", Pattern: regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)},
	{Name: "valores_monetarios", Pattern: regexp.MustCompile(`\d+,\d{2}`)},
	{Name: "percentuais_especificos", Pattern: regexp.MustCompile(`\d+[,.]\d+%`)},
	{Name: "citacoes_aninhadas", Pattern: regexp.MustCompile(`(?i)art(?:igo)?\.?\s*\d+[º°]?,?\s*§\s*\d+[º°]?,?\s*inciso\s+[IVXLCDM]+`)},
}
