// Package embedder provides text embedding clients for vector
// representations of queries and resume chunks.
//
// The Client interface supports batch embedding for throughput; the OpenAI
// implementation works against any service exposing the OpenAI embeddings
// API, including self-hosted inference servers.
package embedder
