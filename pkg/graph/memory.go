package graph

import (
	"context"
	"sync"

	"github.com/talentsift/talentsift/pkg/resolver"
	"github.com/talentsift/talentsift/pkg/types"
)

// MemoryStore is an in-memory graph store for tests and small corpora.
// All methods are safe for concurrent readers.
type MemoryStore struct {
	mu           sync.RWMutex
	entities     map[string]*types.Entity
	bySurface    map[string]string
	relations    map[string]*types.Relation
	outgoing     map[string][]string
	incoming     map[string][]string
	byType       map[types.RelationType][]string
	candidateIDs map[string][]string
}

// NewMemoryStore creates an empty in-memory graph store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities:     make(map[string]*types.Entity),
		bySurface:    make(map[string]string),
		relations:    make(map[string]*types.Relation),
		outgoing:     make(map[string][]string),
		incoming:     make(map[string][]string),
		byType:       make(map[types.RelationType][]string),
		candidateIDs: make(map[string][]string),
	}
}

// AddEntity registers an entity and its aliases for surface lookup.
func (m *MemoryStore) AddEntity(entity *types.Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[entity.ID] = entity
	m.bySurface[resolver.Normalize(entity.CanonicalName)] = entity.ID
	for alias := range entity.Aliases {
		m.bySurface[resolver.Normalize(alias)] = entity.ID
	}
}

// AddRelation registers a relation between two existing entities.
func (m *MemoryStore) AddRelation(relation *types.Relation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relations[relation.ID] = relation
	m.outgoing[relation.SourceEntityID] = append(m.outgoing[relation.SourceEntityID], relation.ID)
	m.incoming[relation.TargetEntityID] = append(m.incoming[relation.TargetEntityID], relation.ID)
	m.byType[relation.Type] = append(m.byType[relation.Type], relation.ID)
}

// LinkCandidate associates a candidate document with one of its entities,
// typically the PERSON entity and the entities it relates to.
func (m *MemoryStore) LinkCandidate(candidateID, entityID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidateIDs[candidateID] = append(m.candidateIDs[candidateID], entityID)
}

func (m *MemoryStore) GetEntity(ctx context.Context, nameOrAlias string) (*types.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.bySurface[resolver.Normalize(nameOrAlias)]
	if !ok {
		return nil, nil
	}
	return m.entities[id], nil
}

func (m *MemoryStore) GetRelations(ctx context.Context, entityID string, depth int) ([]*types.Relation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if depth < 1 {
		depth = 1
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var result []*types.Relation
	frontier := []string{entityID}

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, relID := range append(append([]string{}, m.outgoing[id]...), m.incoming[id]...) {
				if _, ok := seen[relID]; ok {
					continue
				}
				seen[relID] = struct{}{}
				rel := m.relations[relID]
				result = append(result, rel)
				next = append(next, rel.SourceEntityID, rel.TargetEntityID)
			}
		}
		frontier = next
	}
	return result, nil
}

func (m *MemoryStore) QueryByType(ctx context.Context, relationType types.RelationType) ([]*types.Relation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.byType[relationType]
	result := make([]*types.Relation, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.relations[id])
	}
	return result, nil
}

func (m *MemoryStore) EntitiesForCandidate(ctx context.Context, candidateID string) ([]*types.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.candidateIDs[candidateID]
	result := make([]*types.Entity, 0, len(ids))
	for _, id := range ids {
		if entity, ok := m.entities[id]; ok {
			result = append(result, entity)
		}
	}
	return result, nil
}
