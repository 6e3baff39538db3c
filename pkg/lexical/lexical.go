package lexical

import "context"

// Scorer scores a document against query terms, normalized to [0,1].
//
// Available reports whether the scorer is backed by a usable index; when it
// is not, the hybrid scorer redistributes the lexical weight across the
// remaining signals.
type Scorer interface {
	Score(ctx context.Context, queryTerms []string, docID string) (float64, error)
	Available() bool
}
