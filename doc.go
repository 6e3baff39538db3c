// Package talentsift ranks resume candidates against job queries with
// dual-level retrieval: a vector index over resume chunks and a knowledge
// graph of canonical skills, companies, and people. Retrieval degrades
// through a fallback chain of modes, signals fuse through weighted hybrid
// scoring, a capped cross-encoder pass refines the shortlist, and chat
// answers are grounded strictly in the retrieved context.
package talentsift
