package embedder

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/talentsift/talentsift/pkg/types"
)

// OpenAIClient implements Client against an OpenAI-compatible embeddings API.
// A custom BaseURL points it at self-hosted servers exposing the same API.
type OpenAIClient struct {
	client *openai.Client
	config Config
}

// NewOpenAIClient creates an OpenAI-compatible embedding client.
func NewOpenAIClient(config Config) *OpenAIClient {
	if config.Model == "" {
		config.Model = string(openai.SmallEmbedding3)
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}

	cfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		config: config,
	}
}

// Embed generates embeddings for the given texts, batching requests to the
// configured batch size. Newlines are flattened before embedding.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.config.BatchSize {
		end := min(start+c.config.BatchSize, len(texts))

		batch := make([]string, 0, end-start)
		for _, text := range texts[start:end] {
			batch = append(batch, strings.ReplaceAll(text, "\n", " "))
		}

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(c.config.Model),
			Input: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingUnavailable, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
				types.ErrEmbeddingUnavailable, len(batch), len(resp.Data))
		}

		for _, datum := range resp.Data {
			vectors = append(vectors, datum.Embedding)
		}
	}

	return vectors, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *OpenAIClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimensions returns the configured embedding dimensionality.
func (c *OpenAIClient) Dimensions() int {
	return c.config.Dimensions
}
