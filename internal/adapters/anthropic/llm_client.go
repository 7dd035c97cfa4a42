package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

// AnthropicClient is an implementation of the TextGenerator interface using the Anthropic Messages API
type AnthropicClient struct {
	client    anthropic.Client
	apiKey    string
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewAnthropicClient creates a new Anthropic client.
// httpClient may be nil to use the SDK default. Retries are disabled so each
// Generate call makes exactly one request.
func NewAnthropicClient(
	httpClient *http.Client,
	apiKey string,
	baseURL string,
	version string,
	model string,
	maxTokens int,
	logger *zap.Logger,
) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if version != "" {
		opts = append(opts, option.WithHeader("anthropic-version", version))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(opts...),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// HasCredential reports whether an API key is configured
func (c *AnthropicClient) HasCredential() bool {
	return c.apiKey != ""
}

// ModelName returns the configured model
func (c *AnthropicClient) ModelName() string {
	return c.model
}

// Generate sends prompt as a single user message and returns the text of the first content block
func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", mapError(err)
	}
	if len(msg.Content) == 0 {
		return "", core.NewParseError(errors.New("anthropic response has no content"))
	}

	c.logger.Debug("Received message from Anthropic",
		zap.String("model", c.model),
		zap.String("response_id", msg.ID),
		zap.String("stop_reason", string(msg.StopReason)),
		zap.Int64("output_tokens", msg.Usage.OutputTokens))

	return msg.Content[0].Text, nil
}

// mapError converts SDK errors into classification errors
func mapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return core.NewStatusError(apiErr.StatusCode, err)
	}
	return core.NewTransportError(fmt.Errorf("failed to call Anthropic: %w", err))
}
