// Package resolver canonicalizes raw entity surface forms (skills,
// companies, titles) to stable canonical identities.
//
// The registry is seeded from a YAML ontology of known skills and companies
// with their common variations, then grows append-only as unknown forms are
// observed. Matching is exact first, then fuzzy via Jaro-Winkler similarity;
// matches inside a configurable band below the threshold are logged and left
// unresolved to avoid silent identity corruption.
package resolver
