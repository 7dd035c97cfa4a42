package anthropic

import (
	"net/http"

	"github.com/mikey/llm-scam-shield/internal/config"
	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of AnthropicClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for AnthropicClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextGenerator creates a new AnthropicClient.
// The HTTP client carries no timeout; the caller bounds each call with a context deadline.
func (f *Factory) CreateTextGenerator() (core.TextGenerator, error) {
	anthropicCfg := f.cfg.GetAnthropic()

	if anthropicCfg.APIKey == "" {
		f.logger.Warn("No Anthropic API key configured, classification will use rules only")
	}

	return NewAnthropicClient(
		&http.Client{},
		anthropicCfg.APIKey,
		anthropicCfg.BaseURL,
		anthropicCfg.Version,
		anthropicCfg.Model,
		anthropicCfg.MaxTokens,
		f.logger,
	), nil
}
