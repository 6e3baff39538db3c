package vectorindex

import (
	"context"
	"math"
)

// Hit is one nearest-neighbor result.
type Hit struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// Index is a read-only nearest-neighbor search over chunk vectors.
//
// Similarity is cosine, in [-1,1]. Results are sorted descending by
// similarity; ties are broken by stable original corpus order, never
// arbitrarily. Search never mutates the index.
type Index interface {
	Search(ctx context.Context, queryVector []float32, k int) ([]Hit, error)
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched dimensions or zero vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
