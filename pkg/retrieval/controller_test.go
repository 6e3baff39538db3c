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

// downIndex simulates an unreachable vector backend.
type downIndex struct{}

func (downIndex) Search(ctx context.Context, vector []float32, k int) ([]vectorindex.Hit, error) {
	return nil, types.ErrBackendUnavailable
}

func (downIndex) Chunk(ctx context.Context, id string) (*types.Chunk, error) {
	return nil, types.ErrBackendUnavailable
}

// patternDownStore serves entity lookups but fails pattern aggregation,
// knocking out the global leg while local stays healthy.
type patternDownStore struct {
	*graph.MemoryStore
}

func (s patternDownStore) QueryByType(ctx context.Context, relationType types.RelationType) ([]*types.Relation, error) {
	return nil, types.ErrBackendUnavailable
}

// downStore fails every graph operation.
type downStore struct{}

func (downStore) GetEntity(ctx context.Context, nameOrAlias string) (*types.Entity, error) {
	return nil, types.ErrBackendUnavailable
}

func (downStore) GetRelations(ctx context.Context, entityID string, depth int) ([]*types.Relation, error) {
	return nil, types.ErrBackendUnavailable
}

func (downStore) QueryByType(ctx context.Context, relationType types.RelationType) ([]*types.Relation, error) {
	return nil, types.ErrBackendUnavailable
}

func (downStore) EntitiesForCandidate(ctx context.Context, candidateID string) ([]*types.Entity, error) {
	return nil, types.ErrBackendUnavailable
}

func TestControllerFallsBackToFirstHealthyMode(t *testing.T) {
	store := graph.NewMemoryStore()
	store.AddEntity(&types.Entity{ID: "e-go", CanonicalName: "Go", Type: types.EntitySkill})

	engine := NewEngine(downIndex{}, downIndex{}, patternDownStore{store}, nil, nil)
	controller := NewController(engine)

	outcome, err := controller.Retrieve(context.Background(), types.ModeMix, &Query{
		Text:  "Go engineers",
		Terms: []string{"go"},
	})
	require.NoError(t, err)

	assert.Equal(t, types.ModeLocal, outcome.ModeUsed)
	assert.True(t, outcome.FallbackUsed)

	require.Len(t, outcome.Attempts, 3)
	assert.Equal(t, types.ModeMix, outcome.Attempts[0].Mode)
	assert.Equal(t, types.ModeHybrid, outcome.Attempts[1].Mode)
	assert.Equal(t, types.ModeLocal, outcome.Attempts[2].Mode)
	assert.NotEmpty(t, outcome.Attempts[0].Err)
	assert.Empty(t, outcome.Attempts[2].Err)

	require.Len(t, outcome.Result.Entities, 1)
	assert.Equal(t, "e-go", outcome.Result.Entities[0].ID)
}

func TestControllerExhaustsChainWhenEverythingIsDown(t *testing.T) {
	engine := NewEngine(downIndex{}, downIndex{}, downStore{}, nil, nil)
	controller := NewController(engine)

	outcome, err := controller.Retrieve(context.Background(), types.ModeMix, &Query{Terms: []string{"go"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrChainExhausted)
	assert.Len(t, outcome.Attempts, len(DefaultChain))
	for _, attempt := range outcome.Attempts {
		assert.NotEmpty(t, attempt.Err)
	}
}

func TestControllerEmptyResultStopsChain(t *testing.T) {
	engine := NewEngine(vectorindex.NewMemoryIndex(), vectorindex.NewMemoryIndex(), graph.NewMemoryStore(), nil, nil)
	controller := NewController(engine)

	outcome, err := controller.Retrieve(context.Background(), types.ModeMix, &Query{
		Text:   "nobody matches this",
		Vector: []float32{1, 0, 0},
		Terms:  []string{"cobol"},
		TopK:   5,
	})
	require.NoError(t, err)

	assert.True(t, outcome.Result.Empty())
	assert.Equal(t, types.ModeMix, outcome.ModeUsed)
	assert.False(t, outcome.FallbackUsed)
	assert.Len(t, outcome.Attempts, 1, "an empty result is success, not a reason to degrade")
}

func TestControllerMidChainRequestStartsAtItsPosition(t *testing.T) {
	engine := NewEngine(downIndex{}, downIndex{}, downStore{}, nil, nil)
	controller := NewController(engine)

	outcome, err := controller.Retrieve(context.Background(), types.ModeLocal, &Query{Terms: []string{"go"}})
	require.Error(t, err)

	require.Len(t, outcome.Attempts, 2)
	assert.Equal(t, types.ModeLocal, outcome.Attempts[0].Mode)
	assert.Equal(t, types.ModeNaive, outcome.Attempts[1].Mode)
}

func TestControllerGlobalIsNeverAnAutomaticTarget(t *testing.T) {
	engine := NewEngine(downIndex{}, downIndex{}, downStore{}, nil, nil)
	controller := NewController(engine)

	outcome, err := controller.Retrieve(context.Background(), types.ModeMix, &Query{Terms: []string{"go"}})
	require.Error(t, err)
	for _, attempt := range outcome.Attempts {
		assert.NotEqual(t, types.ModeGlobal, attempt.Mode)
	}
}

func TestControllerExplicitGlobalPrependsFullChain(t *testing.T) {
	engine := NewEngine(downIndex{}, downIndex{}, downStore{}, nil, nil)
	controller := NewController(engine)

	outcome, err := controller.Retrieve(context.Background(), types.ModeGlobal, &Query{Text: "skill landscape"})
	require.Error(t, err)

	require.Len(t, outcome.Attempts, len(DefaultChain)+1)
	assert.Equal(t, types.ModeGlobal, outcome.Attempts[0].Mode)
	assert.Equal(t, types.ModeMix, outcome.Attempts[1].Mode)
}
