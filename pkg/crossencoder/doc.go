// Package crossencoder provides pairwise (query, passage) relevance scoring
// for second-stage reranking.
//
// Implementations include a Jina-compatible remote client (works with vLLM,
// LocalAI, and text-embeddings-inference rerank endpoints), an
// embedding-based approximation, and a mock for testing. The Reranker
// enforces the mandatory shortlist cap before any passage is scored.
package crossencoder
