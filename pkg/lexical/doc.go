// Package lexical provides keyword scoring of candidate documents, with an
// in-memory BM25 index whose tokenizer is aware of common skill spelling
// variations. It complements vector search with exact term matching.
package lexical
