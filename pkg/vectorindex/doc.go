// Package vectorindex provides nearest-neighbor similarity search over chunk
// vectors, with an exact in-memory implementation and a Postgres pgvector
// implementation behind one Index interface.
package vectorindex
