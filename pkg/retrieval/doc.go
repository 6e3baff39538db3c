// Package retrieval implements the dual-level retrieval strategies over the
// vector index and the candidate knowledge graph, and the fallback
// controller that degrades between them.
//
// Five modes exist: naive (vector only), local (entity-centric graph),
// global (pattern-level graph), hybrid (local + global), and mix (vector +
// hybrid). The controller walks them strongest-first; an empty result is a
// valid answer and never triggers fallback.
package retrieval
