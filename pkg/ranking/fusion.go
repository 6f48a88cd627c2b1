package ranking

import (
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// DefaultRRFK is the standard Reciprocal Rank Fusion smoothing constant.
const DefaultRRFK = 60

// ReciprocalRankFusion merges a keyword ranking and a vector ranking.
//
// An entry at zero-based rank r in either list contributes 1/(k+r+1), and
// contributions are summed by entry ID. The entry instance seen first is
// carried forward (the keyword list is scanned first) with its Score replaced
// by the fused score. Results are sorted by fused score descending, ties
// keeping first-seen order, and truncated to limit. No minimum-score filter
// is applied.
//
// A negative k is treated as 0. A limit <= 0 means storage.DefaultLimit.
//
// Example:
//
//	fused := ranking.ReciprocalRankFusion(kw, vec, ranking.DefaultRRFK, 10)
func ReciprocalRankFusion(keyword, vector []*storage.Entry, k, limit int) []*storage.Entry {
	if k < 0 {
		k = 0
	}
	if limit <= 0 {
		limit = storage.DefaultLimit
	}

	var order []*storage.Entry
	byID := make(map[string]*storage.Entry)

	accumulate := func(list []*storage.Entry) {
		for rank, e := range list {
			contribution := 1.0 / float64(k+rank+1)
			if fused, ok := byID[e.ID]; ok {
				fused.Score += contribution
				continue
			}
			fused := e.Clone()
			fused.Score = contribution
			byID[e.ID] = fused
			order = append(order, fused)
		}
	}

	accumulate(keyword)
	accumulate(vector)

	return sortAndTruncate(order, limit)
}
