package ranking_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/ranking"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

func entry(id, content string, tags ...string) *storage.Entry {
	return &storage.Entry{ID: id, Content: content, Tags: tags}
}

func ids(entries []*storage.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestKeywordScore(t *testing.T) {
	assert.Equal(t, 1.0, ranking.KeywordScore("User prefers Rust", "rust"))
	assert.Equal(t, 2.0, ranking.KeywordScore("go go", "GO"))
	assert.Equal(t, 0.0, ranking.KeywordScore("anything", ""))
	assert.Equal(t, 0.0, ranking.KeywordScore("anything", "missing"))

	// 200 characters halves the score of a single occurrence.
	long := "rust" + strings.Repeat("x", 196)
	assert.InDelta(t, 0.5, ranking.KeywordScore(long, "rust"), 1e-9)

	// "aaaa" holds two non-overlapping "aa".
	assert.Equal(t, 2.0, ranking.KeywordScore("aaaa", "aa"))
}

func TestKeywordSearch(t *testing.T) {
	entries := []*storage.Entry{
		entry("1", "User prefers Rust"),
		entry("2", "User likes Python"),
		entry("3", "Rust is fast"),
	}

	results := ranking.KeywordSearch(entries, storage.NewQuery("rust"))
	require.Len(t, results, 2)
	assert.Equal(t, []string{"1", "3"}, ids(results))
	for _, r := range results {
		assert.Contains(t, strings.ToLower(r.Content), "rust")
		assert.Greater(t, r.Score, 0.0)
	}

	// Inputs are not mutated.
	assert.Zero(t, entries[0].Score)
}

func TestKeywordSearchRanksByScore(t *testing.T) {
	entries := []*storage.Entry{
		entry("once", "go is nice"),
		entry("twice", "go go"),
	}

	results := ranking.KeywordSearch(entries, storage.NewQuery("go"))
	assert.Equal(t, []string{"twice", "once"}, ids(results))
}

func TestKeywordSearchTagsAndMinScore(t *testing.T) {
	entries := []*storage.Entry{
		entry("a", "rust tips", "work"),
		entry("b", "rust recipes", "home"),
		entry("c", "rust rust", "work"),
	}

	q := storage.NewQuery("rust")
	q.Tags = []string{"work"}
	assert.Equal(t, []string{"c", "a"}, ids(ranking.KeywordSearch(entries, q)))

	q.Tags = []string{"nothing"}
	assert.Empty(t, ranking.KeywordSearch(entries, q))

	q = storage.NewQuery("rust")
	q.MinScore = 2
	assert.Equal(t, []string{"c"}, ids(ranking.KeywordSearch(entries, q)))
}

func TestKeywordSearchLimit(t *testing.T) {
	var entries []*storage.Entry
	for i := 0; i < 20; i++ {
		entries = append(entries, entry(fmt.Sprintf("m%d", i), "memory about go"))
	}

	q := storage.NewQuery("go")
	q.Limit = 5
	results := ranking.KeywordSearch(entries, q)
	require.Len(t, results, 5)
	// Equal scores keep insertion order.
	assert.Equal(t, []string{"m0", "m1", "m2", "m3", "m4"}, ids(results))

	q.Limit = 0
	assert.Len(t, ranking.KeywordSearch(entries, q), storage.DefaultLimit)
}

func TestKeywordSearchEmptyText(t *testing.T) {
	entries := []*storage.Entry{
		entry("a", "first", "x"),
		entry("b", "second", "y"),
	}

	results := ranking.KeywordSearch(entries, storage.NewQuery(""))
	assert.Equal(t, []string{"a", "b"}, ids(results))
	for _, r := range results {
		assert.Zero(t, r.Score)
	}

	q := storage.NewQuery("")
	q.Tags = []string{"y"}
	assert.Equal(t, []string{"b"}, ids(ranking.KeywordSearch(entries, q)))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, ranking.CosineSimilarity([]float32{1, 0, 0}, []float32{1, 0, 0}), 1e-9)
	assert.InDelta(t, 0.0, ranking.CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, ranking.CosineSimilarity([]float32{1, 2}, []float32{-1, -2}), 1e-9)

	assert.Equal(t, 0.0, ranking.CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Equal(t, 0.0, ranking.CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, ranking.CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestCosineSimilarityBounds(t *testing.T) {
	vectors := [][]float32{
		{0.3, -0.7, 0.2},
		{1e6, 2e6, -3e6},
		{-0.001, 0.002, 0.0},
		{5, 5, 5},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			s := ranking.CosineSimilarity(a, b)
			assert.GreaterOrEqual(t, s, -1.0-1e-9)
			assert.LessOrEqual(t, s, 1.0+1e-9)
		}
	}
}

func TestVectorSearch(t *testing.T) {
	entries := []*storage.Entry{
		{ID: "x", Content: "x axis", Embedding: []float32{1, 0, 0}},
		{ID: "y", Content: "y axis", Embedding: []float32{0, 1, 0}},
		{ID: "xy", Content: "diagonal", Embedding: []float32{0.5, 0.5, 0}},
		{ID: "none", Content: "no embedding"},
	}

	results := ranking.VectorSearch(entries, []float32{1, 0, 0}, 10, -1)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"x", "xy", "y"}, ids(results))
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)

	results = ranking.VectorSearch(entries, []float32{1, 0, 0}, 10, 0.5)
	assert.Equal(t, []string{"x", "xy"}, ids(results))

	results = ranking.VectorSearch(entries, []float32{1, 0, 0}, 1, 0)
	assert.Equal(t, []string{"x"}, ids(results))
}

func TestReciprocalRankFusion(t *testing.T) {
	kw := []*storage.Entry{entry("1", "a"), entry("2", "b")}
	vec := []*storage.Entry{entry("2", "b"), entry("3", "c")}

	fused := ranking.ReciprocalRankFusion(kw, vec, ranking.DefaultRRFK, 10)
	require.Len(t, fused, 3)
	assert.Equal(t, "2", fused[0].ID)
	assert.InDelta(t, 1.0/62+1.0/61, fused[0].Score, 1e-12)

	// Remaining ties keep first-seen order: "1" (keyword rank 0) then "3" (vector rank 1).
	assert.Equal(t, []string{"2", "1", "3"}, ids(fused))
}

func TestReciprocalRankFusionDedupAndLimit(t *testing.T) {
	kw := []*storage.Entry{entry("1", "a"), entry("2", "b"), entry("3", "c")}
	vec := []*storage.Entry{entry("3", "c"), entry("1", "a"), entry("4", "d")}

	fused := ranking.ReciprocalRankFusion(kw, vec, 60, 10)
	seen := map[string]bool{}
	for _, e := range fused {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
	assert.Len(t, fused, 4)

	assert.Len(t, ranking.ReciprocalRankFusion(kw, vec, 60, 2), 2)
	assert.Empty(t, ranking.ReciprocalRankFusion(nil, nil, 60, 10))
}

func TestReciprocalRankFusionCarriesFirstSeen(t *testing.T) {
	kw := []*storage.Entry{{ID: "1", Content: "keyword copy"}}
	vec := []*storage.Entry{{ID: "1", Content: "vector copy", Embedding: []float32{1}}}

	fused := ranking.ReciprocalRankFusion(kw, vec, 60, 10)
	require.Len(t, fused, 1)
	assert.Equal(t, "keyword copy", fused[0].Content)
	assert.Zero(t, kw[0].Score)
}

func TestReciprocalRankFusionMonotonic(t *testing.T) {
	// An entry present in both lists outranks one present in a single list
	// at the same rank.
	kw := []*storage.Entry{entry("only", "a"), entry("both", "b")}
	vec := []*storage.Entry{entry("both", "b")}

	fused := ranking.ReciprocalRankFusion(kw, vec, 60, 10)
	assert.Equal(t, "both", fused[0].ID)

	for i := 1; i < len(fused); i++ {
		assert.GreaterOrEqual(t, fused[i-1].Score, fused[i].Score)
	}
}

func TestReciprocalRankFusionNegativeK(t *testing.T) {
	fused := ranking.ReciprocalRankFusion([]*storage.Entry{entry("1", "a")}, nil, -5, 10)
	require.Len(t, fused, 1)
	assert.Equal(t, 1.0, fused[0].Score)
}

func TestSearchModes(t *testing.T) {
	entries := []*storage.Entry{
		{ID: "kw", Content: "rust borrow checker", Embedding: []float32{0, 1}},
		{ID: "vec", Content: "ownership semantics", Embedding: []float32{1, 0}},
		{ID: "plain", Content: "rust without vectors"},
	}

	t.Run("keyword", func(t *testing.T) {
		q := storage.NewQuery("rust")
		q.Mode = storage.ModeKeyword
		q.Embedding = []float32{1, 0}
		assert.ElementsMatch(t, []string{"kw", "plain"}, ids(ranking.Search(entries, q, 60)))
	})

	t.Run("vector", func(t *testing.T) {
		q := storage.NewQuery("rust")
		q.Mode = storage.ModeVector
		q.Embedding = []float32{1, 0}
		assert.Equal(t, []string{"vec", "kw"}, ids(ranking.Search(entries, q, 60)))
	})

	t.Run("vector without embedding falls back to keyword", func(t *testing.T) {
		q := storage.NewQuery("rust")
		q.Mode = storage.ModeVector
		assert.Equal(t, []string{"kw", "plain"}, ids(ranking.Search(entries, q, 60)))
	})

	t.Run("hybrid without embedding is keyword", func(t *testing.T) {
		q := storage.NewQuery("rust")
		kw := ranking.KeywordSearch(entries, q)
		assert.Equal(t, ids(kw), ids(ranking.Search(entries, q, 60)))
	})

	t.Run("hybrid fuses", func(t *testing.T) {
		q := storage.NewQuery("rust")
		q.Embedding = []float32{1, 0}
		results := ranking.Search(entries, q, 60)
		assert.ElementsMatch(t, []string{"kw", "vec", "plain"}, ids(results))
		// "kw" appears in both lists, so it wins.
		assert.Equal(t, "kw", results[0].ID)
	})

	t.Run("zero mode resolves to hybrid", func(t *testing.T) {
		q := &storage.Query{Text: "rust", Embedding: []float32{1, 0}}
		assert.Len(t, ranking.Search(entries, q, 60), 3)
	})
}

func TestReciprocalRankFusionMonotonicInRank(t *testing.T) {
	// Moving an entry to a later rank in one list, with the other list held
	// fixed, must strictly lower its fused score.
	fixed := []*storage.Entry{entry("f0", "a"), entry("target", "t"), entry("f1", "b")}

	withTargetAt := func(pos int) []*storage.Entry {
		list := make([]*storage.Entry, 0, 5)
		for i := 0; i < 5; i++ {
			if i == pos {
				list = append(list, entry("target", "t"))
			}
			list = append(list, entry(fmt.Sprintf("m%d", i), "m"))
		}
		return list
	}

	tests := []struct {
		name string
		fuse func(moving []*storage.Entry) []*storage.Entry
	}{
		{
			name: "keyword list moves",
			fuse: func(moving []*storage.Entry) []*storage.Entry {
				return ranking.ReciprocalRankFusion(moving, fixed, 60, 20)
			},
		},
		{
			name: "vector list moves",
			fuse: func(moving []*storage.Entry) []*storage.Entry {
				return ranking.ReciprocalRankFusion(fixed, moving, 60, 20)
			},
		},
		{
			name: "k of zero",
			fuse: func(moving []*storage.Entry) []*storage.Entry {
				return ranking.ReciprocalRankFusion(moving, fixed, 0, 20)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := -1.0
			for pos := 0; pos <= 5; pos++ {
				var score float64
				found := false
				for _, e := range tt.fuse(withTargetAt(pos)) {
					if e.ID == "target" {
						score, found = e.Score, true
					}
				}
				require.True(t, found, "target missing at position %d", pos)
				if pos > 0 {
					assert.Less(t, score, prev, "position %d", pos)
				}
				prev = score
			}
		})
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	entries := []*storage.Entry{
		{ID: "a", Content: "rust rust rust", Tags: []string{"lang"}, Embedding: []float32{1, 0}},
		{ID: "b", Content: "Rust and Go", Embedding: []float32{0.7, 0.7}},
		{ID: "c", Content: "go only", Embedding: []float32{0, 1}},
		{ID: "d", Content: "rust " + strings.Repeat("x", 300)},
		{ID: "e", Content: "another rust note", Tags: []string{"lang"}},
	}

	tests := []struct {
		name  string
		query *storage.Query
	}{
		{name: "keyword", query: &storage.Query{Text: "rust", Mode: storage.ModeKeyword}},
		{name: "keyword with tags", query: &storage.Query{Text: "rust", Mode: storage.ModeKeyword, Tags: []string{"lang"}}},
		{name: "keyword tied scores", query: &storage.Query{Text: "o", Mode: storage.ModeKeyword, Limit: 3}},
		{name: "vector", query: &storage.Query{Text: "rust", Mode: storage.ModeVector, Embedding: []float32{1, 0.1}}},
		{name: "hybrid", query: &storage.Query{Text: "rust", Mode: storage.ModeHybrid, Embedding: []float32{0.5, 0.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := ranking.Search(entries, tt.query, ranking.DefaultRRFK)
			second := ranking.Search(entries, tt.query, ranking.DefaultRRFK)

			require.NotEmpty(t, first)
			assert.Equal(t, ids(first), ids(second))
			for i := range first {
				assert.Equal(t, first[i].Score, second[i].Score, "score of %s", first[i].ID)
			}
		})
	}
}

func TestSearchNilQuery(t *testing.T) {
	entries := make([]*storage.Entry, 0, 12)
	for i := 0; i < 12; i++ {
		entries = append(entries, entry(fmt.Sprintf("e%d", i), "content"))
	}

	results := ranking.Search(entries, nil, ranking.DefaultRRFK)
	assert.Len(t, results, storage.DefaultLimit)
	assert.Equal(t, "e0", results[0].ID)
	assert.Zero(t, results[0].Score)

	assert.Len(t, ranking.KeywordSearch(entries, nil), storage.DefaultLimit)
}
