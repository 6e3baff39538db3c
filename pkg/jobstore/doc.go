// Package jobstore keeps the ephemeral per-job analysis context consumed by
// chat turns. Contexts are committed atomically and replaced wholesale on
// re-analysis; concurrent analyzes for the same job are rejected, not
// queued.
package jobstore
