package crossencoder

import (
	"context"
	"fmt"
	"sort"

	"github.com/talentsift/talentsift/pkg/embedder"
	"github.com/talentsift/talentsift/pkg/vectorindex"
)

// EmbeddingClient approximates a cross-encoder with bi-encoder cosine
// similarity between the query and each passage. Less accurate than a true
// pairwise scorer, but needs no dedicated rerank service.
type EmbeddingClient struct {
	embedder embedder.Client
}

// NewEmbeddingClient creates an embedding-based reranker.
func NewEmbeddingClient(embedderClient embedder.Client) *EmbeddingClient {
	return &EmbeddingClient{embedder: embedderClient}
}

// Rank embeds the query and passages and scores each pair by cosine
// similarity, rescaled from [-1,1] to [0,1].
func (c *EmbeddingClient) Rank(ctx context.Context, query string, passages []string) ([]RankedPassage, error) {
	if len(passages) == 0 {
		return []RankedPassage{}, nil
	}

	queryVector, err := c.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed rerank query: %w", err)
	}
	passageVectors, err := c.embedder.Embed(ctx, passages)
	if err != nil {
		return nil, fmt.Errorf("embed rerank passages: %w", err)
	}

	ranked := make([]RankedPassage, len(passages))
	for i, vector := range passageVectors {
		similarity := vectorindex.CosineSimilarity(queryVector, vector)
		ranked[i] = RankedPassage{
			Passage: passages[i],
			Score:   (similarity + 1) / 2,
			Index:   i,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
