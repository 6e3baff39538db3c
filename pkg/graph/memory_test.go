package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/pkg/types"
)

func seededStore() *MemoryStore {
	store := NewMemoryStore()
	store.AddEntity(&types.Entity{
		ID:            "e-alice",
		CanonicalName: "Alice Ng",
		Type:          types.EntityPerson,
	})
	store.AddEntity(&types.Entity{
		ID:            "e-go",
		CanonicalName: "Go",
		Type:          types.EntitySkill,
		Aliases:       map[string]struct{}{"golang": {}},
	})
	store.AddEntity(&types.Entity{
		ID:            "e-acme",
		CanonicalName: "Acme",
		Type:          types.EntityCompany,
	})
	store.AddRelation(&types.Relation{
		ID:             "r-skill",
		SourceEntityID: "e-alice",
		TargetEntityID: "e-go",
		Type:           types.RelationHasSkill,
		SourceChunkIDs: map[string]struct{}{"c1": {}},
	})
	store.AddRelation(&types.Relation{
		ID:             "r-work",
		SourceEntityID: "e-alice",
		TargetEntityID: "e-acme",
		Type:           types.RelationWorkedAt,
		SourceChunkIDs: map[string]struct{}{"c2": {}},
	})
	store.LinkCandidate("resume-1", "e-alice")
	store.LinkCandidate("resume-1", "e-go")
	return store
}

func TestGetEntityByNameAndAlias(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	byName, err := store.GetEntity(ctx, "Go")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "e-go", byName.ID)

	byAlias, err := store.GetEntity(ctx, "GOLANG")
	require.NoError(t, err)
	require.NotNil(t, byAlias)
	assert.Equal(t, "e-go", byAlias.ID)

	missing, err := store.GetEntity(ctx, "rust")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetRelationsExpandsByDepth(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	// Depth 1 from the skill reaches only its own edge.
	rels, err := store.GetRelations(ctx, "e-go", 1)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "r-skill", rels[0].ID)

	// Depth 2 crosses through the person to the company edge.
	rels, err = store.GetRelations(ctx, "e-go", 2)
	require.NoError(t, err)
	assert.Len(t, rels, 2)
}

func TestQueryByType(t *testing.T) {
	store := seededStore()

	rels, err := store.QueryByType(context.Background(), types.RelationWorkedAt)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "r-work", rels[0].ID)

	none, err := store.QueryByType(context.Background(), types.RelationHasEducation)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEntitiesForCandidate(t *testing.T) {
	store := seededStore()

	entities, err := store.EntitiesForCandidate(context.Background(), "resume-1")
	require.NoError(t, err)
	require.Len(t, entities, 2)

	ids := []string{entities[0].ID, entities[1].ID}
	assert.Contains(t, ids, "e-alice")
	assert.Contains(t, ids, "e-go")

	empty, err := store.EntitiesForCandidate(context.Background(), "resume-2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
