package match

import (
	"sort"
)

// SuggestThreshold is the minimum similarity for a candidate to be suggested.
const SuggestThreshold = 0.5

// Suggestion is a ranked candidate name.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every distinct candidate against name and returns those at or
// above SuggestThreshold, best first. Qualified candidates are compared by
// their last segment. Ties are broken by name for determinism.
func Rank(name string, candidates []string) []Suggestion {
	target := NormalizeIdent(LastSegment(name))
	seen := make(map[string]bool, len(candidates))

	var out []Suggestion

	for _, c := range candidates {
		if c == "" || c == name || seen[c] {
			continue
		}

		seen[c] = true

		score := Similarity(target, NormalizeIdent(LastSegment(c)))
		if score < SuggestThreshold {
			continue
		}

		out = append(out, Suggestion{Name: c, Score: score})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	return out
}

// Suggest returns at most limit candidate names close to name, best first.
// A limit <= 0 returns every match.
func Suggest(name string, candidates []string, limit int) []string {
	ranked := Rank(name, candidates)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.Name)
	}

	return out
}
