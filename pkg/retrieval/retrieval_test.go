package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/pkg/graph"
	"github.com/talentsift/talentsift/pkg/types"
	"github.com/talentsift/talentsift/pkg/vectorindex"
)

func chunkSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func buildTestEngine(t *testing.T) (*Engine, *vectorindex.MemoryIndex, *graph.MemoryStore) {
	t.Helper()

	index := vectorindex.NewMemoryIndex()
	index.Add(
		&types.Chunk{ID: "c1", DocumentID: "resume-1", Content: "Go and Kubernetes at Acme", Vector: []float32{1, 0, 0}},
		&types.Chunk{ID: "c2", DocumentID: "resume-2", Content: "Python data pipelines", Vector: []float32{0, 1, 0}},
		&types.Chunk{ID: "c3", DocumentID: "resume-1", Content: "Platform team lead", Vector: []float32{0.9, 0.1, 0}},
	)

	store := graph.NewMemoryStore()
	alice := &types.Entity{ID: "e-alice", CanonicalName: "Alice Ng", Type: types.EntityPerson, SourceChunkIDs: chunkSet("c1")}
	golang := &types.Entity{
		ID:            "e-go",
		CanonicalName: "Go",
		Type:          types.EntitySkill,
		Aliases:       map[string]struct{}{"golang": {}},
		SourceChunkIDs: chunkSet("c1"),
	}
	acme := &types.Entity{ID: "e-acme", CanonicalName: "Acme", Type: types.EntityCompany, SourceChunkIDs: chunkSet("c3")}
	store.AddEntity(alice)
	store.AddEntity(golang)
	store.AddEntity(acme)
	store.AddRelation(&types.Relation{
		ID: "r1", SourceEntityID: "e-alice", TargetEntityID: "e-go",
		Type: types.RelationHasSkill, SourceChunkIDs: chunkSet("c1"),
	})
	store.AddRelation(&types.Relation{
		ID: "r2", SourceEntityID: "e-alice", TargetEntityID: "e-acme",
		Type: types.RelationWorkedAt, SourceChunkIDs: chunkSet("c3"),
	})

	return NewEngine(index, index, store, nil, nil), index, store
}

func TestNaiveStrategyOrdersByVectorSimilarity(t *testing.T) {
	engine, _, _ := buildTestEngine(t)
	naive := engine.Strategies()[types.ModeNaive]

	result, err := naive.Retrieve(context.Background(), &Query{Vector: []float32{1, 0, 0}, TopK: 2})
	require.NoError(t, err)

	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "c1", result.Chunks[0].Chunk.ID)
	assert.Equal(t, "c3", result.Chunks[1].Chunk.ID)
	assert.True(t, result.Chunks[0].FromVector)
	assert.Greater(t, result.Chunks[0].Similarity, result.Chunks[1].Similarity)
	assert.Empty(t, result.Entities)
}

func TestLocalStrategyResolvesAliasesAndExpandsSourceChunks(t *testing.T) {
	engine, _, _ := buildTestEngine(t)
	local := engine.Strategies()[types.ModeLocal]

	result, err := local.Retrieve(context.Background(), &Query{Terms: []string{"golang"}})
	require.NoError(t, err)

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "e-go", result.Entities[0].ID)

	relationIDs := make([]string, 0, len(result.Relations))
	for _, relation := range result.Relations {
		relationIDs = append(relationIDs, relation.ID)
	}
	assert.Contains(t, relationIDs, "r1")
	assert.NotContains(t, relationIDs, "r2", "depth-1 traversal must not cross to second-hop relations")

	require.NotEmpty(t, result.Chunks)
	assert.Equal(t, "c1", result.Chunks[0].Chunk.ID)
	assert.False(t, result.Chunks[0].FromVector, "graph-sourced chunks carry no vector signal")
}

func TestLocalStrategySkipsUnknownTerms(t *testing.T) {
	engine, _, _ := buildTestEngine(t)
	local := engine.Strategies()[types.ModeLocal]

	result, err := local.Retrieve(context.Background(), &Query{Terms: []string{"cobol", "fortran"}})
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestGlobalStrategyAggregatesByRelationType(t *testing.T) {
	engine, _, _ := buildTestEngine(t)
	global := engine.Strategies()[types.ModeGlobal]

	result, err := global.Retrieve(context.Background(), &Query{Text: "which companies have candidates worked at"})
	require.NoError(t, err)

	require.Len(t, result.Relations, 1)
	assert.Equal(t, types.RelationWorkedAt, result.Relations[0].Type)
	assert.Empty(t, result.Entities, "global mode ignores entity identity")
}

func TestHybridStrategyDeduplicatesAcrossLegs(t *testing.T) {
	engine, _, _ := buildTestEngine(t)
	hybrid := engine.Strategies()[types.ModeHybrid]

	result, err := hybrid.Retrieve(context.Background(), &Query{
		Text:  "skill coverage for Go",
		Terms: []string{"go"},
	})
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, relation := range result.Relations {
		seen[relation.ID]++
	}
	assert.Equal(t, 1, seen["r1"], "relation surfaced by both legs must appear once")
	require.Len(t, result.Entities, 1)
}

func TestMixStrategyMergesVectorAndGraphLegs(t *testing.T) {
	engine, _, _ := buildTestEngine(t)
	mix := engine.Strategies()[types.ModeMix]

	result, err := mix.Retrieve(context.Background(), &Query{
		Text:   "Go engineers",
		Vector: []float32{1, 0, 0},
		Terms:  []string{"go"},
		TopK:   2,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Entities)
	assert.NotEmpty(t, result.Relations)

	var c1 *ScoredChunk
	for i := range result.Chunks {
		if result.Chunks[i].Chunk.ID == "c1" {
			c1 = &result.Chunks[i]
		}
	}
	require.NotNil(t, c1)
	assert.True(t, c1.FromVector, "vector signal survives the merge when both legs return the chunk")
	assert.InDelta(t, 1.0, c1.Similarity, 1e-9)
}
