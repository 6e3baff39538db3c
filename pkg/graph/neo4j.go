package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/talentsift/talentsift/pkg/types"
)

// Neo4jStore implements Store against a Neo4j database.
//
// Schema: (:Entity {uuid, name, type, aliases, document_id}) nodes connected
// by [:RELATES {uuid, type, content, chunk_ids}] relationships. Candidate
// documents hang off their PERSON entity via document_id.
type Neo4jStore struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore connects to Neo4j with basic auth.
func NewNeo4jStore(uri, username, password, database string) (*Neo4jStore, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jStore{client: client, database: database}, nil
}

// CreateIndices creates the lookup indices the read path depends on.
func (s *Neo4jStore) CreateIndices(ctx context.Context) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	stmts := []string{
		`CREATE INDEX entity_name IF NOT EXISTS FOR (e:Entity) ON (e.name)`,
		`CREATE INDEX entity_document IF NOT EXISTS FOR (e:Entity) ON (e.document_id)`,
		`CREATE CONSTRAINT entity_uuid IF NOT EXISTS FOR (e:Entity) REQUIRE e.uuid IS UNIQUE`,
	}
	for _, stmt := range stmts {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func (s *Neo4jStore) GetEntity(ctx context.Context, nameOrAlias string) (*types.Entity, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (e:Entity)
			WHERE toLower(e.name) = toLower($surface)
			   OR any(a IN e.aliases WHERE toLower(a) = toLower($surface))
			RETURN e LIMIT 1
		`, map[string]any{"surface": nameOrAlias})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get entity: %v", types.ErrBackendUnavailable, err)
	}

	records := result.([]*db.Record)
	if len(records) == 0 {
		return nil, nil
	}
	nodeValue, _ := records[0].Get("e")
	node, ok := nodeValue.(dbtype.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected type for entity: %T", nodeValue)
	}
	return entityFromNode(node), nil
}

func (s *Neo4jStore) GetRelations(ctx context.Context, entityID string, depth int) ([]*types.Relation, error) {
	if depth < 1 {
		depth = 1
	}
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Variable-length patterns cannot be parameterized, so the depth is
		// interpolated; it is an integer bounded by configuration.
		query := fmt.Sprintf(`
			MATCH (e:Entity {uuid: $uuid})-[rels:RELATES*1..%d]-(other:Entity)
			UNWIND rels AS r
			WITH DISTINCT r
			MATCH (src:Entity)-[r]->(dst:Entity)
			RETURN r, src.uuid AS source_id, dst.uuid AS target_id
		`, depth)
		res, err := tx.Run(ctx, query, map[string]any{"uuid": entityID})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get relations: %v", types.ErrBackendUnavailable, err)
	}

	return relationsFromRecords(result.([]*db.Record))
}

func (s *Neo4jStore) QueryByType(ctx context.Context, relationType types.RelationType) ([]*types.Relation, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (src:Entity)-[r:RELATES {type: $type}]->(dst:Entity)
			RETURN r, src.uuid AS source_id, dst.uuid AS target_id
		`, map[string]any{"type": string(relationType)})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query by type: %v", types.ErrBackendUnavailable, err)
	}

	return relationsFromRecords(result.([]*db.Record))
}

func (s *Neo4jStore) EntitiesForCandidate(ctx context.Context, candidateID string) ([]*types.Entity, error) {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (p:Entity {document_id: $candidate})-[:RELATES]->(e:Entity)
			RETURN DISTINCT e
		`, map[string]any{"candidate": candidateID})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: entities for candidate: %v", types.ErrBackendUnavailable, err)
	}

	records := result.([]*db.Record)
	entities := make([]*types.Entity, 0, len(records))
	for _, record := range records {
		nodeValue, _ := record.Get("e")
		node, ok := nodeValue.(dbtype.Node)
		if !ok {
			continue
		}
		entities = append(entities, entityFromNode(node))
	}
	return entities, nil
}

// Close releases the underlying driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func entityFromNode(node dbtype.Node) *types.Entity {
	entity := &types.Entity{Aliases: make(map[string]struct{})}
	if v, ok := node.Props["uuid"].(string); ok {
		entity.ID = v
	}
	if v, ok := node.Props["name"].(string); ok {
		entity.CanonicalName = v
	}
	if v, ok := node.Props["type"].(string); ok {
		entity.Type = types.EntityType(v)
	}
	if aliases, ok := node.Props["aliases"].([]any); ok {
		for _, a := range aliases {
			if s, ok := a.(string); ok {
				entity.Aliases[s] = struct{}{}
			}
		}
	}
	if chunkIDs, ok := node.Props["chunk_ids"].([]any); ok {
		entity.SourceChunkIDs = make(map[string]struct{}, len(chunkIDs))
		for _, c := range chunkIDs {
			if s, ok := c.(string); ok {
				entity.SourceChunkIDs[s] = struct{}{}
			}
		}
	}
	return entity
}

func relationsFromRecords(records []*db.Record) ([]*types.Relation, error) {
	relations := make([]*types.Relation, 0, len(records))
	for _, record := range records {
		relValue, _ := record.Get("r")
		rel, ok := relValue.(dbtype.Relationship)
		if !ok {
			continue
		}
		relation := &types.Relation{}
		if v, ok := rel.Props["uuid"].(string); ok {
			relation.ID = v
		}
		if v, ok := rel.Props["type"].(string); ok {
			relation.Type = types.RelationType(v)
		}
		if v, ok := rel.Props["content"].(string); ok {
			relation.Content = v
		}
		if chunkIDs, ok := rel.Props["chunk_ids"].([]any); ok {
			relation.SourceChunkIDs = make(map[string]struct{}, len(chunkIDs))
			for _, c := range chunkIDs {
				if s, ok := c.(string); ok {
					relation.SourceChunkIDs[s] = struct{}{}
				}
			}
		}
		if v, ok := record.Get("source_id"); ok {
			if s, ok := v.(string); ok {
				relation.SourceEntityID = s
			}
		}
		if v, ok := record.Get("target_id"); ok {
			if s, ok := v.(string); ok {
				relation.TargetEntityID = s
			}
		}
		relations = append(relations, relation)
	}
	return relations, nil
}
