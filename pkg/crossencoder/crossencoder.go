package crossencoder

import "context"

// RankedPassage is a passage with its relevance score to the query.
type RankedPassage struct {
	Passage string  `json:"passage"`
	Score   float64 `json:"score"`
	// Index is the passage's position in the input slice.
	Index int `json:"index"`
}

// Client scores (query, passage) pairs jointly for fine-grained relevance.
// More accurate but costlier than independent vector comparison, which is
// why callers bound the number of passages before ranking.
type Client interface {
	Rank(ctx context.Context, query string, passages []string) ([]RankedPassage, error)
}

// Config holds common cross-encoder configuration.
type Config struct {
	Model          string `json:"model,omitempty"`
	BaseURL        string `json:"base_url,omitempty"`
	APIKey         string `json:"-"`
	MaxConcurrency int    `json:"max_concurrency,omitempty"`
}
