package ranking

import (
	"math/rand"
	"sort"

	"github.com/avichal16/moodmatch-api/internal/domain"
)

const (
	// topBand is the score-ordered band final picks are drawn from.
	topBand = 12
	// finalCount is the maximum number of items returned per category.
	finalCount = 6
)

// Finalize picks the final set for one category: stable sort by score
// descending, restrict to the top band, shuffle uniformly within it, and
// return up to finalCount items. A strict top-N would return the same
// items on every identical query; shuffling inside a generous band keeps
// relevance while adding variety across calls.
//
// The input is never mutated. Empty input yields an empty slice.
func Finalize(items []domain.ScoredItem) []domain.ScoredItem {
	out := make([]domain.ScoredItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	band := topBand
	if len(out) < band {
		band = len(out)
	}
	rand.Shuffle(band, func(i, j int) { out[i], out[j] = out[j], out[i] })

	n := finalCount
	if band < n {
		n = band
	}
	return out[:n:n]
}
