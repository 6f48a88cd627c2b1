// Package ranking implements the scoring and fusion functions shared by all
// memory backends: keyword scoring, cosine similarity, vector search and
// Reciprocal Rank Fusion.
//
// Every function here is pure. Inputs are never mutated; results are clones
// carrying their score in Entry.Score.
package ranking

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// KeywordScore scores content against query text.
//
// The score is the number of non-overlapping, case-insensitive occurrences of
// text in content divided by max(1, L/100), where L is the content length in
// characters. Long documents are therefore not favoured merely for length.
//
// Parameters:
//   - content: The entry text
//   - text: The query text; an empty text scores 0
//
// Returns the keyword relevance score.
func KeywordScore(content, text string) float64 {
	if text == "" {
		return 0
	}
	occurrences := strings.Count(strings.ToLower(content), strings.ToLower(text))
	return float64(occurrences) / lengthFactor(content)
}

func lengthFactor(content string) float64 {
	f := float64(utf8.RuneCountInString(content)) / 100
	if f < 1 {
		return 1
	}
	return f
}

// KeywordSearch ranks entries by keyword score.
//
// An entry is a candidate when its lowercased content contains the lowercased
// query text and it shares at least one tag with the query (if the query has
// tags). Candidates scoring below query.MinScore are dropped, the rest are
// sorted by score descending with insertion order kept on ties, and the
// result is truncated to the query limit.
//
// An empty query text matches every tag-eligible entry with score 0, and a
// nil query behaves like storage.NewQuery("").
func KeywordSearch(entries []*storage.Entry, query *storage.Query) []*storage.Entry {
	if query == nil {
		query = storage.NewQuery("")
	}
	needle := strings.ToLower(query.Text)

	var results []*storage.Entry
	for _, e := range entries {
		if !e.HasAnyTag(query.Tags) {
			continue
		}
		if !strings.Contains(strings.ToLower(e.Content), needle) {
			continue
		}
		score := KeywordScore(e.Content, query.Text)
		if score < query.MinScore {
			continue
		}
		c := e.Clone()
		c.Score = score
		results = append(results, c)
	}

	return sortAndTruncate(results, query.EffectiveLimit())
}

// sortAndTruncate sorts by score descending, keeping the relative order of
// equal scores, and caps the result at limit.
func sortAndTruncate(results []*storage.Entry, limit int) []*storage.Entry {
	slices.SortStableFunc(results, func(a, b *storage.Entry) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
