package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the TextGenerator interface using Google Gemini
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewGeminiClient creates a new Gemini client.
// Without an API key no connection is made and HasCredential reports false.
func NewGeminiClient(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	logger *zap.Logger,
	opts ...option.ClientOption,
) (*GeminiClient, error) {
	c := &GeminiClient{
		modelName: modelName,
		logger:    logger,
	}
	if apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SetCandidateCount(1)

	c.client = client
	c.model = model
	return c, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// HasCredential reports whether the client was built with an API key
func (c *GeminiClient) HasCredential() bool {
	return c.model != nil
}

// ModelName returns the configured model
func (c *GeminiClient) ModelName() string {
	return c.modelName
}

// Generate sends prompt as a single user turn and returns the text of the first candidate
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.model == nil {
		return "", core.NewTransportError(errors.New("gemini client has no API key"))
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", mapError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", core.NewParseError(errors.New("empty response from Gemini"))
	}

	text, ok := firstText(resp)
	if !ok {
		return "", core.NewParseError(errors.New("gemini response has no text part"))
	}

	c.logger.Debug("Received content from Gemini",
		zap.String("model", c.modelName),
		zap.String("finish_reason", resp.Candidates[0].FinishReason.String()))

	return text, nil
}

// firstText returns the first text part of the first candidate
func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), true
		}
	}
	return "", false
}

// mapError sorts a Gemini error into a status, parse or transport failure
func mapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return core.NewStatusError(apiErr.Code, fmt.Errorf("gemini: %w", err))
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return core.NewParseError(fmt.Errorf("gemini blocked the request: %w", err))
	}
	return core.NewTransportError(fmt.Errorf("failed to generate content with Gemini: %w", err))
}
