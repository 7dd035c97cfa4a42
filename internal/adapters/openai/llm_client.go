package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the TextGenerator interface using OpenAI chat completions
type OpenAIClient struct {
	client      *openai.Client
	apiKey      string
	modelName   string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client.
// An empty baseURL uses the public OpenAI endpoint.
func NewOpenAIClient(
	apiKey string,
	baseURL string,
	modelName string,
	maxTokens int,
	temperature float32,
	logger *zap.Logger,
) *OpenAIClient {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientConfig),
		apiKey:      apiKey,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// HasCredential reports whether an API key is configured
func (c *OpenAIClient) HasCredential() bool {
	return c.apiKey != ""
}

// ModelName returns the configured model
func (c *OpenAIClient) ModelName() string {
	return c.modelName
}

// Generate sends prompt as a single user message and returns the first choice's content
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", core.NewParseError(errors.New("empty response from OpenAI"))
	}

	c.logger.Debug("Received completion from OpenAI",
		zap.String("model", c.modelName),
		zap.String("response_id", resp.ID),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

// mapError sorts a go-openai error into a status or transport failure
func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return core.NewStatusError(apiErr.HTTPStatusCode, fmt.Errorf("openai: %w", err))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return core.NewStatusError(reqErr.HTTPStatusCode, fmt.Errorf("openai: %w", err))
	}
	return core.NewTransportError(fmt.Errorf("failed to create chat completion with OpenAI: %w", err))
}
