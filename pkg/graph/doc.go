// Package graph exposes the read-time contract over the candidate knowledge
// graph: entity lookup by surface form, relation traversal, and pattern-level
// aggregation by relation type. A Neo4j adapter and an in-memory adapter
// implement the same Store interface.
package graph
