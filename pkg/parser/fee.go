package parser

import (
	"fmt"
	"strconv"
	"strings"

	"jup-ag/pkg/types"
)

// ParsePriorityFee reads a prioritization fee flag value:
//   - "auto"
//   - "<lamports>" for an exact fee
//   - "x<n>" for the auto fee times n
//   - "jito:<lamports>" for a Jito tip
//   - "<medium|high|veryHigh>:<maxLamports>" for a capped priority level
func ParsePriorityFee(s string) (*types.PrioritizationFee, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return types.AutoPrioritizationFee(), nil
	}

	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return types.ExactPrioritizationFee(n), nil
	}

	if rest, ok := cutPrefixFold(s, "x"); ok {
		n, err := strconv.ParseUint(rest, 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid priority fee multiplier %q", rest)
		}
		return types.AutoMultiplierPrioritizationFee(n), nil
	}

	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("invalid priority fee %q", s)
	}
	lamports, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid priority fee lamports %q", value)
	}

	switch strings.ToLower(name) {
	case "jito":
		return types.JitoTipPrioritizationFee(lamports), nil
	case "medium":
		return types.PriorityLevelPrioritizationFee(types.PriorityMedium, lamports), nil
	case "high":
		return types.PriorityLevelPrioritizationFee(types.PriorityHigh, lamports), nil
	case "veryhigh":
		return types.PriorityLevelPrioritizationFee(types.PriorityVeryHigh, lamports), nil
	default:
		return nil, fmt.Errorf("unknown priority fee kind %q", name)
	}
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
