package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/pkg/types"
)

func TestCosineSimilarityBounds(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-3, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 5}), 1e-9)

	vectors := [][]float32{{0.3, -0.7, 0.2}, {1, 1, 1}, {-0.5, 0.5, 0.9}}
	for _, a := range vectors {
		for _, b := range vectors {
			sim := CosineSimilarity(a, b)
			assert.GreaterOrEqual(t, sim, -1.0-1e-9)
			assert.LessOrEqual(t, sim, 1.0+1e-9)
		}
	}
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	assert.Zero(t, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, CosineSimilarity(nil, nil))
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestMemoryIndexSearchOrdersDescending(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Add(
		&types.Chunk{ID: "far", Vector: []float32{0, 1, 0}},
		&types.Chunk{ID: "near", Vector: []float32{1, 0.1, 0}},
		&types.Chunk{ID: "exact", Vector: []float32{1, 0, 0}},
	)

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "exact", hits[0].ID)
	assert.Equal(t, "near", hits[1].ID)
	assert.Equal(t, "far", hits[2].ID)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Similarity, hits[i-1].Similarity)
	}
}

func TestMemoryIndexTieBreakIsCorpusOrder(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Add(
		&types.Chunk{ID: "second", Vector: []float32{0, 1}},
		&types.Chunk{ID: "first", Vector: []float32{2, 0}},
	)
	idx.Add(&types.Chunk{ID: "first-twin", Vector: []float32{4, 0}})

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	// "first" and "first-twin" both score 1.0; insertion order decides.
	assert.Equal(t, "first", hits[0].ID)
	assert.Equal(t, "first-twin", hits[1].ID)
	assert.Equal(t, hits[0].Similarity, hits[1].Similarity)
}

func TestMemoryIndexSearchClampsK(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Add(&types.Chunk{ID: "only", Vector: []float32{1}})

	hits, err := idx.Search(context.Background(), []float32{1}, 50)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = idx.Search(context.Background(), []float32{1}, -3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryIndexChunkLookup(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Add(&types.Chunk{ID: "c1", Content: "go engineer", Vector: []float32{1}})

	chunk, err := idx.Chunk(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "go engineer", chunk.Content)

	_, err = idx.Chunk(context.Background(), "missing")
	assert.Error(t, err)
}

func TestMemoryIndexAddIgnoresDuplicateIDs(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Add(&types.Chunk{ID: "c1", Content: "original", Vector: []float32{1}})
	idx.Add(&types.Chunk{ID: "c1", Content: "replacement", Vector: []float32{1}})

	chunk, ok := idx.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "original", chunk.Content)
}
