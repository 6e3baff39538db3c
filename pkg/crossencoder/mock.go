package crossencoder

import (
	"context"
	"sort"
)

// MockClient is a deterministic reranker for tests. Scores come from the
// Scores map keyed by passage text; unknown passages score 0.5. Calls counts
// Rank invocations.
type MockClient struct {
	Scores map[string]float64
	Err    error
	Calls  int
	// LastPassages records the passages of the most recent Rank call.
	LastPassages []string
}

// NewMockClient creates a mock reranker.
func NewMockClient() *MockClient {
	return &MockClient{Scores: make(map[string]float64)}
}

func (m *MockClient) Rank(ctx context.Context, query string, passages []string) ([]RankedPassage, error) {
	m.Calls++
	m.LastPassages = append([]string(nil), passages...)
	if m.Err != nil {
		return nil, m.Err
	}

	ranked := make([]RankedPassage, len(passages))
	for i, passage := range passages {
		score, ok := m.Scores[passage]
		if !ok {
			score = 0.5
		}
		ranked[i] = RankedPassage{Passage: passage, Score: score, Index: i}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
