package retrieval

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/talentsift/talentsift/pkg/types"
)

// NaiveStrategy is pure vector search over resume chunks.
type NaiveStrategy struct {
	engine *Engine
}

func (s *NaiveStrategy) Mode() types.RetrievalMode { return types.ModeNaive }

func (s *NaiveStrategy) Retrieve(ctx context.Context, q *Query) (*Result, error) {
	hits, err := s.engine.index.Search(ctx, q.Vector, q.TopK)
	if err != nil {
		return nil, fmt.Errorf("naive retrieval: %w", err)
	}

	result := &Result{Mode: types.ModeNaive}
	for _, hit := range hits {
		chunk, err := s.engine.chunks.Chunk(ctx, hit.ID)
		if err != nil {
			s.engine.logger.Warn("hit references missing chunk", "chunk", hit.ID, "err", err)
			continue
		}
		result.Chunks = append(result.Chunks, ScoredChunk{
			Chunk:      chunk,
			Similarity: hit.Similarity,
			FromVector: true,
		})
	}
	return result, nil
}

// LocalStrategy resolves query terms to canonical entities and returns those
// entities, their depth-1 relations, and the chunks they were extracted
// from.
type LocalStrategy struct {
	engine *Engine
}

func (s *LocalStrategy) Mode() types.RetrievalMode { return types.ModeLocal }

func (s *LocalStrategy) Retrieve(ctx context.Context, q *Query) (*Result, error) {
	result := &Result{Mode: types.ModeLocal}
	seenEntities := make(map[string]struct{})
	seenRelations := make(map[string]struct{})
	seenChunks := make(map[string]struct{})

	surfaces := make([]string, 0, len(q.Skills)+len(q.Terms))
	for _, skill := range q.Skills {
		surfaces = append(surfaces, skill.CanonicalName)
	}
	surfaces = append(surfaces, q.Terms...)

	for _, surface := range surfaces {
		entity, err := s.engine.store.GetEntity(ctx, surface)
		if err != nil {
			return nil, fmt.Errorf("local retrieval: %w", err)
		}
		if entity == nil {
			continue
		}
		if _, ok := seenEntities[entity.ID]; ok {
			continue
		}
		seenEntities[entity.ID] = struct{}{}
		result.Entities = append(result.Entities, entity)

		relations, err := s.engine.store.GetRelations(ctx, entity.ID, 1)
		if err != nil {
			return nil, fmt.Errorf("local retrieval: %w", err)
		}
		for _, relation := range relations {
			if _, ok := seenRelations[relation.ID]; ok {
				continue
			}
			seenRelations[relation.ID] = struct{}{}
			result.Relations = append(result.Relations, relation)
			s.collectChunks(ctx, relation.SourceChunkIDs, seenChunks, result)
		}
		s.collectChunks(ctx, entity.SourceChunkIDs, seenChunks, result)
	}
	return result, nil
}

func (s *LocalStrategy) collectChunks(ctx context.Context, ids map[string]struct{}, seen map[string]struct{}, result *Result) {
	for id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		chunk, err := s.engine.chunks.Chunk(ctx, id)
		if err != nil {
			s.engine.logger.Warn("graph references missing chunk", "chunk", id, "err", err)
			continue
		}
		result.Chunks = append(result.Chunks, ScoredChunk{Chunk: chunk})
	}
}

// relationTypeHints maps query vocabulary to the relation types worth
// aggregating for pattern-level questions.
var relationTypeHints = map[types.RelationType][]string{
	types.RelationHasSkill:         {"skill", "skills", "experience", "know", "knows", "proficient", "stack"},
	types.RelationWorkedAt:         {"company", "companies", "employer", "worked", "work", "job", "jobs"},
	types.RelationHasRole:          {"role", "roles", "title", "titles", "position", "positions", "senior", "lead"},
	types.RelationLocatedIn:        {"location", "located", "city", "country", "remote", "relocate"},
	types.RelationHasCertification: {"certification", "certifications", "certified", "certificate"},
	types.RelationHasEducation:     {"education", "degree", "university", "college", "graduated"},
	types.RelationWorkedWith:       {"team", "colleague", "colleagues", "together", "collaborated"},
}

// GlobalStrategy aggregates relations by type across the whole graph,
// ignoring specific entity identity. It answers pattern-level questions like
// "what companies work with X".
type GlobalStrategy struct {
	engine *Engine
}

func (s *GlobalStrategy) Mode() types.RetrievalMode { return types.ModeGlobal }

func (s *GlobalStrategy) Retrieve(ctx context.Context, q *Query) (*Result, error) {
	result := &Result{Mode: types.ModeGlobal}
	seenRelations := make(map[string]struct{})

	for _, relationType := range s.matchTypes(q) {
		relations, err := s.engine.store.QueryByType(ctx, relationType)
		if err != nil {
			return nil, fmt.Errorf("global retrieval: %w", err)
		}
		for _, relation := range relations {
			if _, ok := seenRelations[relation.ID]; ok {
				continue
			}
			seenRelations[relation.ID] = struct{}{}
			result.Relations = append(result.Relations, relation)
		}
	}
	return result, nil
}

// matchTypes selects relation types hinted at by the query vocabulary,
// defaulting to skill and employment patterns when nothing matches.
func (s *GlobalStrategy) matchTypes(q *Query) []types.RelationType {
	queryText := strings.ToLower(q.Text)
	var matched []types.RelationType
	for relationType, hints := range relationTypeHints {
		for _, hint := range hints {
			if strings.Contains(queryText, hint) {
				matched = append(matched, relationType)
				break
			}
		}
	}
	if len(matched) == 0 {
		matched = []types.RelationType{types.RelationHasSkill, types.RelationWorkedAt}
	}
	return matched
}

// HybridStrategy unions local and global retrieval. The two legs run
// concurrently; results are de-duplicated by id with local taking precedence
// on conflict.
type HybridStrategy struct {
	local  *LocalStrategy
	global *GlobalStrategy
}

func (s *HybridStrategy) Mode() types.RetrievalMode { return types.ModeHybrid }

func (s *HybridStrategy) Retrieve(ctx context.Context, q *Query) (*Result, error) {
	var localResult, globalResult *Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		localResult, err = s.local.Retrieve(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		globalResult, err = s.global.Retrieve(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("hybrid retrieval: %w", err)
	}

	return mergeResults(types.ModeHybrid, localResult, globalResult), nil
}

// MixStrategy is full dual-level retrieval: the vector leg and the hybrid
// graph leg run concurrently and both contribute to the result.
type MixStrategy struct {
	naive  *NaiveStrategy
	hybrid *HybridStrategy
}

func (s *MixStrategy) Mode() types.RetrievalMode { return types.ModeMix }

func (s *MixStrategy) Retrieve(ctx context.Context, q *Query) (*Result, error) {
	var vectorResult, graphResult *Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vectorResult, err = s.naive.Retrieve(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		graphResult, err = s.hybrid.Retrieve(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("mix retrieval: %w", err)
	}

	return mergeResults(types.ModeMix, vectorResult, graphResult), nil
}

// mergeResults unions results in argument order: earlier results win on id
// conflicts, and chunks keep the strongest available vector signal.
func mergeResults(mode types.RetrievalMode, results ...*Result) *Result {
	merged := &Result{Mode: mode}
	seenEntities := make(map[string]struct{})
	seenRelations := make(map[string]struct{})
	chunkAt := make(map[string]int)

	for _, result := range results {
		for _, entity := range result.Entities {
			if _, ok := seenEntities[entity.ID]; ok {
				continue
			}
			seenEntities[entity.ID] = struct{}{}
			merged.Entities = append(merged.Entities, entity)
		}
		for _, relation := range result.Relations {
			if _, ok := seenRelations[relation.ID]; ok {
				continue
			}
			seenRelations[relation.ID] = struct{}{}
			merged.Relations = append(merged.Relations, relation)
		}
		for _, scored := range result.Chunks {
			if at, ok := chunkAt[scored.Chunk.ID]; ok {
				existing := &merged.Chunks[at]
				if scored.FromVector && (!existing.FromVector || scored.Similarity > existing.Similarity) {
					existing.Similarity = scored.Similarity
					existing.FromVector = true
				}
				continue
			}
			chunkAt[scored.Chunk.ID] = len(merged.Chunks)
			merged.Chunks = append(merged.Chunks, scored)
		}
	}
	return merged
}
