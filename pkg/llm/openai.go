package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/talentsift/talentsift/pkg/types"
)

// OpenAIClient generates answers through any OpenAI-compatible chat
// completion endpoint.
type OpenAIClient struct {
	api    *openai.Client
	config Config
	logger *slog.Logger
}

// NewOpenAIClient creates a generation client for the configured endpoint.
func NewOpenAIClient(config Config, logger *slog.Logger) *OpenAIClient {
	if config.Model == "" {
		config.Model = DefaultConfig().Model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultConfig().MaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIClient{
		api:    openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, instruction, contextBlock, query string) (string, error) {
	userContent := fmt.Sprintf("## RESUME DATA:\n%s\n\n## USER QUESTION:\n%s", contextBlock, query)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %w", types.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", types.ErrGenerationFailed)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", types.ErrGenerationFailed)
	}
	c.logger.Debug("generation complete", "model", c.config.Model, "chars", len(content))
	return content, nil
}
