package graph

import (
	"context"

	"github.com/talentsift/talentsift/pkg/types"
)

// Store is the read-time contract the pipeline consumes from the knowledge
// graph. How the graph is populated during ingestion is out of scope here.
type Store interface {
	// GetEntity resolves a canonical name or recorded alias to its entity.
	// Returns (nil, nil) when no entity matches.
	GetEntity(ctx context.Context, nameOrAlias string) (*types.Entity, error)

	// GetRelations returns relations reachable from the entity within the
	// given traversal depth.
	GetRelations(ctx context.Context, entityID string, depth int) ([]*types.Relation, error)

	// QueryByType returns all relations of one type across the graph,
	// ignoring specific entity identity.
	QueryByType(ctx context.Context, relationType types.RelationType) ([]*types.Relation, error)

	// EntitiesForCandidate returns the canonical entities linked to a
	// candidate document, used for required-skill coverage.
	EntitiesForCandidate(ctx context.Context, candidateID string) ([]*types.Entity, error)
}
