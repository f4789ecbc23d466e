package diag

import (
	"sort"

	"github.com/agext/levenshtein"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// suggestionThreshold and topN fix the edit-distance suggestion
// rule: candidates within distance 2, top 3, ties broken shorter-then-
// lexicographic for determinism across locales.
const (
	suggestionThreshold = 2
	topN                = 3
)

var collator = collate.New(language.Und)

// Suggest returns up to topN candidates from pool within Levenshtein
// distance suggestionThreshold of name.
func Suggest(name string, pool []string) []string {
	type scored struct {
		name string
		dist int
	}
	var candidates []scored
	for _, c := range pool {
		d := levenshtein.Distance(name, c, nil)
		if d <= suggestionThreshold {
			candidates = append(candidates, scored{name: c, dist: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		if len(candidates[i].name) != len(candidates[j].name) {
			return len(candidates[i].name) < len(candidates[j].name)
		}
		return collator.CompareString(candidates[i].name, candidates[j].name) < 0
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

// SortStable sorts names with the same locale-stable collator used for
// suggestion ranking, so any list surfaced in a diagnostic (attribute
// candidates, symbol names) renders identically regardless of process
// locale.
func SortStable(names []string) []string {
	out := append([]string(nil), names...)
	sort.Slice(out, func(i, j int) bool { return collator.CompareString(out[i], out[j]) < 0 })
	return out
}
