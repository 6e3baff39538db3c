package retrieval

import (
	"context"
	"log/slog"

	"github.com/talentsift/talentsift/pkg/graph"
	"github.com/talentsift/talentsift/pkg/resolver"
	"github.com/talentsift/talentsift/pkg/types"
	"github.com/talentsift/talentsift/pkg/vectorindex"
)

// Query is the fully prepared retrieval input: the raw text, its embedding,
// tokenized terms, and the canonical skills resolved from those terms.
type Query struct {
	Text   string
	Vector []float32
	Terms  []string
	Skills []*types.Entity
	TopK   int
}

// ScoredChunk pairs a chunk with its raw cosine similarity to the query.
// Chunks that entered the result through the graph carry no similarity.
type ScoredChunk struct {
	Chunk      *types.Chunk
	Similarity float64
	FromVector bool
}

// Result is the raw output of one retrieval strategy, before fusion.
type Result struct {
	Mode      types.RetrievalMode
	Chunks    []ScoredChunk
	Entities  []*types.Entity
	Relations []*types.Relation
}

// Empty reports whether the strategy produced nothing. An empty result is a
// successful response, not a failure: it does not advance the fallback
// chain.
func (r *Result) Empty() bool {
	return len(r.Chunks) == 0 && len(r.Entities) == 0 && len(r.Relations) == 0
}

// ChunkSource loads chunk content by id, backing the graph strategies'
// source-chunk expansion.
type ChunkSource interface {
	Chunk(ctx context.Context, id string) (*types.Chunk, error)
}

// Strategy is one retrieval mode. The set of strategies is closed: the
// fallback chain iterates typed strategies, never mode strings.
type Strategy interface {
	Mode() types.RetrievalMode
	Retrieve(ctx context.Context, q *Query) (*Result, error)
}

// Engine bundles the shared read backends the strategies draw on.
type Engine struct {
	index    vectorindex.Index
	chunks   ChunkSource
	store    graph.Store
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// NewEngine creates a retrieval engine over the given backends.
func NewEngine(index vectorindex.Index, chunks ChunkSource, store graph.Store, res *resolver.Resolver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{index: index, chunks: chunks, store: store, resolver: res, logger: logger}
}

// Strategies constructs the full closed strategy table.
func (e *Engine) Strategies() map[types.RetrievalMode]Strategy {
	naive := &NaiveStrategy{engine: e}
	local := &LocalStrategy{engine: e}
	global := &GlobalStrategy{engine: e}
	hybrid := &HybridStrategy{local: local, global: global}
	mix := &MixStrategy{naive: naive, hybrid: hybrid}
	return map[types.RetrievalMode]Strategy{
		types.ModeNaive:  naive,
		types.ModeLocal:  local,
		types.ModeGlobal: global,
		types.ModeHybrid: hybrid,
		types.ModeMix:    mix,
	}
}
