package ranking

import (
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// Search ranks entries for a query according to its mode.
//
//   - keyword: KeywordSearch.
//   - vector: tag-eligible entries ranked by VectorSearch against
//     query.Embedding. A query without an embedding falls back to keyword.
//   - hybrid: without a query embedding this is KeywordSearch; otherwise the
//     keyword and vector rankings (each capped at the query limit) are fused
//     with ReciprocalRankFusion using constant k.
//
// A nil query is treated as storage.NewQuery(""). The returned entries are
// clones; callers that own the entries are responsible for refreshing
// LastAccessed.
func Search(entries []*storage.Entry, query *storage.Query, k int) []*storage.Entry {
	if query == nil {
		query = storage.NewQuery("")
	}
	limit := query.EffectiveLimit()

	switch query.Mode.Resolve() {
	case storage.ModeKeyword:
		return KeywordSearch(entries, query)

	case storage.ModeVector:
		if len(query.Embedding) == 0 {
			return KeywordSearch(entries, query)
		}
		return VectorSearch(eligible(entries, query.Tags), query.Embedding, limit, query.MinScore)

	default:
		keyword := KeywordSearch(entries, query)
		if len(query.Embedding) == 0 {
			return keyword
		}
		vector := VectorSearch(eligible(entries, query.Tags), query.Embedding, limit, query.MinScore)
		return ReciprocalRankFusion(keyword, vector, k, limit)
	}
}

func eligible(entries []*storage.Entry, tags []string) []*storage.Entry {
	if len(tags) == 0 {
		return entries
	}
	out := make([]*storage.Entry, 0, len(entries))
	for _, e := range entries {
		if e.HasAnyTag(tags) {
			out = append(out, e)
		}
	}
	return out
}
