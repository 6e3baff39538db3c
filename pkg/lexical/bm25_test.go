package lexical

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeFoldsSkillVariations(t *testing.T) {
	assert.Equal(t, []string{"nodejs", "typescript"}, Tokenize("Node.js and TypeScript"))
	assert.Equal(t, []string{"cplusplus", "csharp"}, Tokenize("C++ or C#"))
	assert.Equal(t, []string{"reactjs"}, Tokenize("ReactJS"))
}

func TestTokenizeDropsStopwordsAndShortTokens(t *testing.T) {
	tokens := Tokenize("a senior engineer with the go language")
	assert.Equal(t, []string{"senior", "engineer", "go", "language"}, tokens)
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("The"))
	assert.True(t, IsStopword("with"))
	assert.False(t, IsStopword("go"))
	assert.False(t, IsStopword("c"))
}

func TestBM25AvailableOnlyWithDocuments(t *testing.T) {
	idx := NewBM25Index()
	assert.False(t, idx.Available())

	idx.Index("doc1", "kubernetes operator in go")
	assert.True(t, idx.Available())
}

func TestBM25RanksMatchingDocumentHigher(t *testing.T) {
	idx := NewBM25Index()
	idx.Index("go-dev", "go kubernetes microservices go")
	idx.Index("java-dev", "java spring hibernate")

	ctx := context.Background()
	goScore, err := idx.Score(ctx, []string{"go", "kubernetes"}, "go-dev")
	require.NoError(t, err)
	javaScore, err := idx.Score(ctx, []string{"go", "kubernetes"}, "java-dev")
	require.NoError(t, err)

	assert.Equal(t, 1.0, goScore, "best document normalizes to 1")
	assert.Zero(t, javaScore)
}

func TestBM25ScoreStaysNormalized(t *testing.T) {
	idx := NewBM25Index()
	idx.Index("a", "go go go go go")
	idx.Index("b", "go engineer")
	idx.Index("c", "python engineer")

	for _, docID := range []string{"a", "b", "c"} {
		score, err := idx.Score(context.Background(), []string{"go", "engineer"}, docID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestBM25UnknownDocumentScoresZero(t *testing.T) {
	idx := NewBM25Index()
	idx.Index("doc1", "go engineer")

	score, err := idx.Score(context.Background(), []string{"go"}, "missing")
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestBM25ReindexReplacesDocument(t *testing.T) {
	idx := NewBM25Index()
	idx.Index("doc1", "python data science")
	idx.Index("doc1", "go systems programming")

	score, err := idx.Score(context.Background(), []string{"python"}, "doc1")
	require.NoError(t, err)
	assert.Zero(t, score)

	score, err = idx.Score(context.Background(), []string{"go"}, "doc1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestBM25ScoreHonorsContextCancellation(t *testing.T) {
	idx := NewBM25Index()
	idx.Index("doc1", "go engineer")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := idx.Score(ctx, []string{"go"}, "doc1")
	assert.ErrorIs(t, err, context.Canceled)
}
