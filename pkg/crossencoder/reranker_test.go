package crossencoder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/pkg/types"
)

func TestRerankCapsPairwiseScoring(t *testing.T) {
	mock := NewMockClient()
	reranker := NewReranker(mock, 50, 0, nil)

	candidates := make([]types.Candidate, 1000)
	for i := range candidates {
		candidates[i] = types.Candidate{
			Content: fmt.Sprintf("passage %d", i),
			Score: types.CandidateScore{
				CandidateID: fmt.Sprintf("c%d", i),
				FinalScore:  float64(i) / 1000,
			},
		}
	}

	result, err := reranker.Rerank(context.Background(), "query", candidates)
	require.NoError(t, err)

	assert.Len(t, mock.LastPassages, 50, "only the cap's worth of passages is scored")
	assert.Len(t, result, 1000)

	var scored int
	for _, candidate := range result {
		if candidate.Score.RerankScore != nil {
			scored++
		}
	}
	assert.Equal(t, 50, scored)

	// The shortlist is the top of the hybrid ranking, not the input head.
	assert.Contains(t, mock.LastPassages, "passage 999")
	assert.NotContains(t, mock.LastPassages, "passage 0")
}

func TestRerankReordersByPairwiseScore(t *testing.T) {
	mock := NewMockClient()
	mock.Scores["underdog"] = 0.99
	mock.Scores["favorite"] = 0.40
	reranker := NewReranker(mock, 50, 0, nil)

	candidates := []types.Candidate{
		{Content: "favorite", Score: types.CandidateScore{CandidateID: "a", FinalScore: 0.9}},
		{Content: "underdog", Score: types.CandidateScore{CandidateID: "b", FinalScore: 0.3}},
	}

	result, err := reranker.Rerank(context.Background(), "query", candidates)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "b", result[0].Score.CandidateID)
	assert.Equal(t, 0.99, *result[0].Score.RerankScore)
}

func TestRerankFailureKeepsHybridOrder(t *testing.T) {
	mock := NewMockClient()
	mock.Err = errors.New("backend down")
	reranker := NewReranker(mock, 50, 0, nil)

	candidates := []types.Candidate{
		{Content: "first", Score: types.CandidateScore{CandidateID: "a", FinalScore: 0.9}},
		{Content: "second", Score: types.CandidateScore{CandidateID: "b", FinalScore: 0.3}},
	}

	result, err := reranker.Rerank(context.Background(), "query", candidates)
	require.NoError(t, err, "a rerank failure degrades, it does not fail the request")
	require.Len(t, result, 2)
	assert.Equal(t, "a", result[0].Score.CandidateID)
	assert.Nil(t, result[0].Score.RerankScore)
}

func TestRerankThresholdDropsLowScores(t *testing.T) {
	mock := NewMockClient()
	mock.Scores["strong"] = 0.9
	mock.Scores["weak"] = 0.2
	reranker := NewReranker(mock, 50, 0.6, nil)

	candidates := []types.Candidate{
		{Content: "strong", Score: types.CandidateScore{CandidateID: "a", FinalScore: 0.8}},
		{Content: "weak", Score: types.CandidateScore{CandidateID: "b", FinalScore: 0.7}},
	}

	result, err := reranker.Rerank(context.Background(), "query", candidates)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "a", result[0].Score.CandidateID)
}

func TestRerankBeyondCapKeepsTailOrder(t *testing.T) {
	mock := NewMockClient()
	reranker := NewReranker(mock, 2, 0, nil)

	candidates := []types.Candidate{
		{Content: "top", Score: types.CandidateScore{CandidateID: "a", FinalScore: 0.9}},
		{Content: "mid", Score: types.CandidateScore{CandidateID: "b", FinalScore: 0.8}},
		{Content: "tail-1", Score: types.CandidateScore{CandidateID: "c", FinalScore: 0.7}},
		{Content: "tail-2", Score: types.CandidateScore{CandidateID: "d", FinalScore: 0.6}},
	}

	result, err := reranker.Rerank(context.Background(), "query", candidates)
	require.NoError(t, err)
	require.Len(t, result, 4)
	assert.Equal(t, "c", result[2].Score.CandidateID)
	assert.Equal(t, "d", result[3].Score.CandidateID)
	assert.Nil(t, result[2].Score.RerankScore)
}

func TestRerankNilClientPassesThrough(t *testing.T) {
	reranker := NewReranker(nil, 50, 0, nil)
	candidates := []types.Candidate{
		{Score: types.CandidateScore{CandidateID: "a", FinalScore: 0.5}},
	}

	result, err := reranker.Rerank(context.Background(), "query", candidates)
	require.NoError(t, err)
	assert.Equal(t, candidates, result)
}
