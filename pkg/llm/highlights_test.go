package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/pkg/types"
)

func TestExtractHighlightsParsesCleanJSON(t *testing.T) {
	mock := &MockClient{Response: `{"highlights": ["8 years of Go", "Led a platform team"]}`}

	highlights, err := ExtractHighlights(context.Background(), mock, "senior go engineer", "resume text", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"8 years of Go", "Led a platform team"}, highlights)
	assert.Equal(t, 1, mock.Calls)
	assert.Equal(t, "resume text", mock.LastContext)
}

func TestExtractHighlightsRepairsSloppyOutput(t *testing.T) {
	// Trailing comma, single quotes, and a markdown fence.
	mock := &MockClient{Response: "```json\n{'highlights': ['Kubernetes at scale', 'AWS certified',]}\n```"}

	highlights, err := ExtractHighlights(context.Background(), mock, "devops", "resume", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes at scale", "AWS certified"}, highlights)
}

func TestExtractHighlightsEnforcesLimit(t *testing.T) {
	mock := &MockClient{Response: `{"highlights": ["a", "b", "c", "d", "e"]}`}

	highlights, err := ExtractHighlights(context.Background(), mock, "q", "content", 2)
	require.NoError(t, err)
	assert.Len(t, highlights, 2)
}

func TestExtractHighlightsPropagatesGenerationFailure(t *testing.T) {
	mock := &MockClient{Err: types.ErrGenerationFailed}

	_, err := ExtractHighlights(context.Background(), mock, "q", "content", 3)
	assert.ErrorIs(t, err, types.ErrGenerationFailed)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	mock := &MockClient{Err: errors.New("connection refused")}
	breaker := NewBreakerClient(mock)

	for i := 0; i < 5; i++ {
		_, err := breaker.Generate(context.Background(), "i", "c", "q")
		require.Error(t, err)
	}
	callsBefore := mock.Calls

	_, err := breaker.Generate(context.Background(), "i", "c", "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrGenerationFailed, "open breaker maps to a generation failure")
	assert.Equal(t, callsBefore, mock.Calls, "open breaker must not reach the endpoint")
}
