package catalog

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// fuzzyThreshold is the minimum similarity for a fuzzy search hit.
const fuzzyThreshold = 0.7

// Search finds vehicles whose name, brand or model matches the query,
// subject to the same filters and sorting as List. Substring matches are
// tried first; only when none exist does it fall back to fuzzy matching
// against the vehicle names.
func (s *Service) Search(query string, f Filters, limit int, spec SortSpec) ([]Vehicle, error) {
	if err := s.validate(f, spec); err != nil {
		return nil, err
	}

	type hit struct {
		v     Vehicle
		score float64
	}
	q := strings.ToLower(strings.TrimSpace(query))

	var hits []hit
	for _, v := range s.all() {
		if !f.matches(v) {
			continue
		}
		if strings.Contains(strings.ToLower(v.Name), q) ||
			strings.Contains(strings.ToLower(v.Brand), q) ||
			strings.Contains(strings.ToLower(v.Model), q) {
			hits = append(hits, hit{v: v, score: 1})
		}
	}

	if len(hits) == 0 {
		params := levenshtein.NewParams()
		for _, v := range s.all() {
			if !f.matches(v) {
				continue
			}
			score := fuzzyScore(q, strings.ToLower(v.Name), params)
			if score >= fuzzyThreshold {
				hits = append(hits, hit{v: v, score: score})
			}
		}
	}

	vehicles := make([]Vehicle, len(hits))
	for i, h := range hits {
		vehicles[i] = h.v
	}
	if spec.By != "" {
		sortVehicles(vehicles, spec)
	} else {
		// Best match first, price as the tiebreaker.
		sort.SliceStable(hits, func(i, j int) bool {
			if hits[i].score != hits[j].score {
				return hits[i].score > hits[j].score
			}
			return hits[i].v.PriceINR < hits[j].v.PriceINR
		})
		for i, h := range hits {
			vehicles[i] = h.v
		}
	}

	if limit > 0 && limit < len(vehicles) {
		vehicles = vehicles[:limit]
	}
	out := make([]Vehicle, len(vehicles))
	for i, v := range vehicles {
		out[i] = v.Basic()
	}
	return out, nil
}

// fuzzyScore approximates a partial match: the best similarity between the
// query and either the whole name or any single word of it.
func fuzzyScore(query, name string, params *levenshtein.Params) float64 {
	best := levenshtein.Similarity(query, name, params)
	for _, word := range strings.Fields(name) {
		if s := levenshtein.Similarity(query, word, params); s > best {
			best = s
		}
	}
	return best
}
