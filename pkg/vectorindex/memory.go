package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/talentsift/talentsift/pkg/types"
)

// MemoryIndex is an exact in-memory cosine index over chunks. Suitable for
// tests and small corpora; larger deployments use the Postgres index.
type MemoryIndex struct {
	mu     sync.RWMutex
	chunks []*types.Chunk
	byID   map[string]*types.Chunk
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{byID: make(map[string]*types.Chunk)}
}

// Add appends chunks to the index. Insertion order is the corpus order used
// for tie-breaking.
func (m *MemoryIndex) Add(chunks ...*types.Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, chunk := range chunks {
		if _, ok := m.byID[chunk.ID]; ok {
			continue
		}
		m.chunks = append(m.chunks, chunk)
		m.byID[chunk.ID] = chunk
	}
}

// Get returns a chunk by id.
func (m *MemoryIndex) Get(id string) (*types.Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chunk, ok := m.byID[id]
	return chunk, ok
}

// Chunk loads a chunk by id, satisfying the retrieval chunk source contract.
func (m *MemoryIndex) Chunk(ctx context.Context, id string) (*types.Chunk, error) {
	if chunk, ok := m.Get(id); ok {
		return chunk, nil
	}
	return nil, fmt.Errorf("chunk %s not found", id)
}

// Search returns the k nearest chunks by cosine similarity, descending,
// ties broken by corpus order.
func (m *MemoryIndex) Search(ctx context.Context, queryVector []float32, k int) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		hit   Hit
		order int
	}
	results := make([]scored, 0, len(m.chunks))
	for order, chunk := range m.chunks {
		results = append(results, scored{
			hit:   Hit{ID: chunk.ID, Similarity: CosineSimilarity(queryVector, chunk.Vector)},
			order: order,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].hit.Similarity != results[j].hit.Similarity {
			return results[i].hit.Similarity > results[j].hit.Similarity
		}
		return results[i].order < results[j].order
	})

	if k > len(results) {
		k = len(results)
	}
	if k < 0 {
		k = 0
	}
	hits := make([]Hit, k)
	for i := 0; i < k; i++ {
		hits[i] = results[i].hit
	}
	return hits, nil
}
