package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// NotFoundError reports an unknown vehicle ID, with the closest known IDs
// as suggestions.
type NotFoundError struct {
	Kind        Kind
	ID          string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Kind, e.ID)
	if len(e.Suggestions) > 0 {
		msg += ". Did you mean: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}

// InvalidFilterError reports a filter value outside the catalog's known
// values, with fuzzy-matched suggestions.
type InvalidFilterError struct {
	Field       string
	Value       string
	Suggestions []string
}

func (e *InvalidFilterError) Error() string {
	msg := fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
	if len(e.Suggestions) > 0 {
		msg += ". Did you mean: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}

// closest ranks candidates by Levenshtein similarity to value and returns
// up to limit of the best ones. Candidates below a sanity floor are only
// used when nothing better exists, in which case the lexicographically
// first candidates are returned instead.
func closest(value string, candidates []string, limit int) []string {
	type scored struct {
		s     string
		score float64
	}
	params := levenshtein.NewParams()
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{
			s:     c,
			score: levenshtein.Similarity(strings.ToLower(value), strings.ToLower(c), params),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var out []string
	for _, r := range ranked {
		if r.score < 0.4 {
			break
		}
		out = append(out, r.s)
		if len(out) == limit {
			return out
		}
	}
	if len(out) > 0 {
		return out
	}

	fallback := append([]string{}, candidates...)
	sort.Strings(fallback)
	if len(fallback) > limit {
		fallback = fallback[:limit]
	}
	return fallback
}
