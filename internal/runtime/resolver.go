package runtime

import (
	"github.com/aretw0/quiztree/pkg/domain"
)

// Resolve returns the result bound to trail.
func Resolve(trail domain.Trail, patterns *domain.PatternTable) domain.Result {
	return Match(trail, patterns).Result
}

// Match resolves trail in priority order:
//  1. the full trail key, e.g. "x|y|"
//  2. the last answer-value alone, e.g. "y"
//  3. the fixed fallback result
//
// Entries with empty content never match. An unmatched trail is a normal
// outcome, not an error.
func Match(trail domain.Trail, patterns *domain.PatternTable) domain.Resolution {
	if len(trail) == 0 {
		return fallback()
	}

	key := trail.Key()
	if entry, ok := patterns.Pattern(key); ok && entry.Content != "" {
		return domain.Resolution{Result: entry.Result(), Tier: domain.TierExact, Key: key}
	}

	last, ok := domain.LastAnswer(trail)
	if ok {
		if entry, found := patterns.Pattern(last); found && entry.Content != "" {
			return domain.Resolution{Result: entry.Result(), Tier: domain.TierLastAnswer, Key: last}
		}
	}

	return fallback()
}

func fallback() domain.Resolution {
	return domain.Resolution{Result: domain.FallbackResult(), Tier: domain.TierFallback}
}
