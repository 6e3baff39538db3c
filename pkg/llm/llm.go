package llm

import "context"

// Client is the generation collaborator. The pipeline supplies the grounding
// instruction and the composed context; the client only turns them into
// text.
type Client interface {
	// Generate answers the query using only the supplied context, under
	// the given grounding instruction.
	Generate(ctx context.Context, instruction, contextBlock, query string) (string, error)
}

// Config holds the connection settings for an OpenAI-compatible endpoint.
// BaseURL may point at any compatible server, including local Ollama.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// DefaultConfig returns settings for a local OpenAI-compatible endpoint.
func DefaultConfig() Config {
	return Config{
		Model:       "gpt-4o-mini",
		Temperature: 0.1,
		MaxTokens:   1024,
	}
}
