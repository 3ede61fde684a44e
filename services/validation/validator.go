package validation

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/direitofacil/legalrag/config"
	"github.com/direitofacil/legalrag/services/retrieval"
)

// Verdict classifies how well a response is grounded in its sources.
type Verdict string

const (
	VerdictGroundedHigh     Verdict = "grounded/high-confidence"
	VerdictGroundedPartial  Verdict = "grounded/partial"
	VerdictHonestLimitation Verdict = "honest-limitation"
	VerdictUngrounded       Verdict = "ungrounded/suspect"
)

// honestBaseline is the confidence assigned to an honest admission of
// insufficient sources. Honesty is scored lower than a well-grounded
// answer but never punished like an ungrounded guess.
const honestBaseline = 70.0

// Result is the outcome of validating one response. It is an
// observability signal, not an error: every validated response gets
// one.
type Result struct {
	HonestLimitation   bool
	CitesSources       bool
	HasSourcesSection  bool
	SourcesMentioned   int
	GenericMatches     []string
	PatternMatches     map[string]int
	InitialConfidence  float64
	AdjustedConfidence float64
	Verdict            Verdict
	Message            string
}

// Validator scores a generated answer against the documents that were
// supposed to ground it. Pure pattern matching, no model calls:
// identical inputs always yield identical results.
type Validator struct {
	ceiling float64
	logger  *zap.Logger
}

func NewValidator(cfg config.ValidationConfig, logger *zap.Logger) *Validator {
	return &Validator{ceiling: cfg.MaxConfidence, logger: logger}
}

// Validate inspects the response text and adjusts the initial
// confidence. In strict mode generic hedge phrasing alone is penalized;
// otherwise only missing citations and hallucination patterns are.
func (v *Validator) Validate(text string, docs []retrieval.Document, initialConfidence float64, strict bool) Result {
	lower := strings.ToLower(text)

	result := Result{
		InitialConfidence: initialConfidence,
		HasSourcesSection: sourcesSectionPattern.MatchString(lower),
		SourcesMentioned:  countSourceMentions(lower, docs),
		GenericMatches:    matchGeneric(lower),
		PatternMatches:    matchHallucinations(text, docs),
	}

	for _, p := range noInfoPatterns {
		if p.MatchString(lower) {
			result.HonestLimitation = true
			break
		}
	}
	for _, p := range citationPatterns {
		if p.MatchString(lower) {
			result.CitesSources = true
			break
		}
	}

	if result.HonestLimitation {
		result.AdjustedConfidence = v.clamp(min(initialConfidence, honestBaseline))
		result.Verdict = VerdictHonestLimitation
		result.Message = "resposta honesta sobre limitação das fontes"
		return result
	}

	anyCitation := result.CitesSources || result.HasSourcesSection || result.SourcesMentioned > 0

	adjusted := initialConfidence
	switch {
	case !anyCitation:
		adjusted *= 0.5
	case !result.HasSourcesSection:
		adjusted *= 0.8
	}
	for range result.PatternMatches {
		adjusted *= 0.9
	}
	if strict && len(result.GenericMatches) > 0 && len(result.PatternMatches) == 0 {
		adjusted *= 0.9
	}
	result.AdjustedConfidence = v.clamp(adjusted)

	switch {
	case !anyCitation:
		result.Verdict = VerdictUngrounded
		result.Message = "resposta não demonstra uso claro das fontes"
	case result.HasSourcesSection && result.SourcesMentioned > 0 && len(result.PatternMatches) == 0:
		result.Verdict = VerdictGroundedHigh
		result.Message = fmt.Sprintf("resposta fundamentada: %d fonte(s) citada(s) com seção de fontes", result.SourcesMentioned)
	default:
		result.Verdict = VerdictGroundedPartial
		result.Message = "resposta parcialmente fundamentada nas fontes"
	}

	if len(result.PatternMatches) > 0 {
		v.logger.Warn("hallucination indicators detected",
			zap.Int("categories", len(result.PatternMatches)),
			zap.Any("matches", result.PatternMatches))
	}

	return result
}

// countSourceMentions counts distinct supplied documents whose title
// or source label appears anywhere in the response.
func countSourceMentions(lower string, docs []retrieval.Document) int {
	mentioned := 0
	for _, d := range docs {
		title := strings.ToLower(d.Title)
		source := strings.ToLower(d.Source)
		if (title != "" && strings.Contains(lower, title)) ||
			(source != "" && strings.Contains(lower, source)) {
			mentioned++
		}
	}
	return mentioned
}

func matchGeneric(lower string) []string {
	var matches []string
	for _, p := range genericPatterns {
		if m := p.FindString(lower); m != "" {
			matches = append(matches, m)
		}
	}
	return matches
}

// matchHallucinations finds over-specific claims that do not appear
// verbatim in any supplied document. Only untraceable occurrences are
// counted.
func matchHallucinations(text string, docs []retrieval.Document) map[string]int {
	matches := make(map[string]int)
	for _, hp := range hallucinationPatterns {
		count := 0
		for _, m := range hp.Pattern.FindAllString(text, -1) {
			if !traceable(m, docs) {
				count++
			}
		}
		if count > 0 {
			matches[hp.Name] = count
		}
	}
	return matches
}

func traceable(match string, docs []retrieval.Document) bool {
	needle := strings.ToLower(match)
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Content), needle) {
			return true
		}
	}
	return false
}

func (v *Validator) clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > v.ceiling {
		return v.ceiling
	}
	return score
}
