package embedder

import "context"

// Client turns free text into fixed-dimension dense vectors.
//
// Implementations are deterministic for a fixed model version and accept
// batched input. A transport failure is fatal for the whole pipeline and is
// reported as types.ErrEmbeddingUnavailable; no retrieval fallback
// compensates for an unembeddable query.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding dimensionality, fixed per deployment.
	Dimensions() int
}

// Config holds common embedder configuration.
type Config struct {
	Model      string `json:"model"`
	BaseURL    string `json:"base_url,omitempty"`
	APIKey     string `json:"-"`
	Dimensions int    `json:"dimensions"`
	BatchSize  int    `json:"batch_size,omitempty"`
}
