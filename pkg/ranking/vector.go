package ranking

import (
	"math"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// zeroNorm is the denominator below which two vectors are treated as orthogonal.
const zeroNorm = 1e-10

// CosineSimilarity calculates the cosine similarity between two vectors.
//
// Accumulation is done in float64. Returns 0 when the lengths differ, when
// either vector is empty, or when either vector has (near) zero magnitude.
// The result lies in [-1, 1].
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotProduct += x * y
		normA += x * x
		normB += y * y
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom < zeroNorm {
		return 0
	}

	return dotProduct / denom
}

// VectorSearch ranks entries by cosine similarity to queryEmbedding.
//
// Entries without an embedding are skipped. Results scoring below minScore
// are dropped; the rest are sorted by similarity descending and truncated to
// limit. A limit <= 0 means storage.DefaultLimit.
//
// Parameters:
//   - entries: The candidate entries
//   - queryEmbedding: The query vector
//   - limit: Maximum number of results
//   - minScore: Inclusive lower bound on similarity
//
// Returns clones of the matching entries with Score set to the similarity.
func VectorSearch(entries []*storage.Entry, queryEmbedding []float32, limit int, minScore float64) []*storage.Entry {
	if limit <= 0 {
		limit = storage.DefaultLimit
	}

	var results []*storage.Entry
	for _, e := range entries {
		if len(e.Embedding) == 0 {
			continue
		}
		score := CosineSimilarity(queryEmbedding, e.Embedding)
		if score < minScore {
			continue
		}
		c := e.Clone()
		c.Score = score
		results = append(results, c)
	}

	return sortAndTruncate(results, limit)
}
