package embedder

import (
	"context"
	"hash/fnv"
	"math"
)

// MockClient is a deterministic embedder for tests. Vectors are derived from
// a hash of the input text, so equal texts always embed identically.
type MockClient struct {
	Dim int
	Err error
	// Fixed maps exact texts to preset vectors, overriding the hash.
	Fixed map[string][]float32
}

// NewMockClient creates a mock embedder with the given dimensionality.
func NewMockClient(dim int) *MockClient {
	return &MockClient{Dim: dim, Fixed: make(map[string][]float32)}
}

func (m *MockClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := m.Fixed[text]; ok {
			vectors[i] = v
			continue
		}
		vectors[i] = m.hashVector(text)
	}
	return vectors, nil
}

func (m *MockClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *MockClient) Dimensions() int {
	return m.Dim
}

func (m *MockClient) hashVector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vector := make([]float32, m.Dim)
	var norm float64
	for i := range vector {
		seed = seed*6364136223846793005 + 1442695040888963407
		vector[i] = float32(int64(seed>>33))/float32(math.MaxInt32) - 0.5
		norm += float64(vector[i]) * float64(vector[i])
	}
	norm = math.Sqrt(norm)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
	return vector
}
