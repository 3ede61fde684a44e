package prompt

import (
	"strings"

	"github.com/direitofacil/legalrag/services"
)

// ComplexityTier selects the language register of the answer.
type ComplexityTier string

const (
	TierSimple       ComplexityTier = "simple"
	TierIntermediate ComplexityTier = "intermediate"
	TierDetailed     ComplexityTier = "detailed"
	TierTechnical    ComplexityTier = "technical"
)

// ParseTier maps a user-supplied string onto a known tier. Unknown
// values are rejected rather than silently defaulted.
func ParseTier(s string) (ComplexityTier, error) {
	switch ComplexityTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierSimple:
		return TierSimple, nil
	case TierIntermediate:
		return TierIntermediate, nil
	case TierDetailed:
		return TierDetailed, nil
	case TierTechnical:
		return TierTechnical, nil
	default:
		return "", services.ErrUnknownTier
	}
}

func (t ComplexityTier) String() string {
	return string(t)
}
