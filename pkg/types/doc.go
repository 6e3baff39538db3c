// Package types defines the shared data model for the candidate retrieval
// pipeline: chunks, canonical entities, typed relations, retrieval modes,
// candidate scores, job contexts, and the error taxonomy.
package types
