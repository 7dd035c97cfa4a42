package factory

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/llm-scam-shield/internal/adapters/anthropic"
	"github.com/mikey/llm-scam-shield/internal/adapters/bedrock"
	"github.com/mikey/llm-scam-shield/internal/adapters/gemini"
	"github.com/mikey/llm-scam-shield/internal/adapters/openai"
	"github.com/mikey/llm-scam-shield/internal/config"
	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/mikey/llm-scam-shield/internal/utils"
	"go.uber.org/zap"
)

// LLMFactory creates text generators and the LLM classifier built on them
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateTextGenerator creates a text generator for the configured provider
func (f *LLMFactory) CreateTextGenerator() (core.TextGenerator, error) {
	llmConfig, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(llmConfig.Provider) {
	case "anthropic":
		return anthropic.NewFactory(f.cfg, f.logger).CreateTextGenerator()
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateTextGenerator()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateTextGenerator()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateTextGenerator()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}

// CreateLLMClassifier wraps generator in an LLM classifier.
// A nil generator yields a nil classifier, which leaves the service on rules only.
func (f *LLMFactory) CreateLLMClassifier(generator core.TextGenerator) (*core.LLMClassifier, error) {
	if generator == nil {
		return nil, nil
	}

	llmConfig, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	f.logger.Info("LLM classifier configured",
		zap.String("provider", llmConfig.Provider),
		zap.String("model", generator.ModelName()),
		zap.Bool("has_credential", generator.HasCredential()))

	return core.NewLLMClassifier(generator, f.textProcessor, llmConfig.MaxInputSize, f.logger), nil
}

// LLMTimeout returns the deadline applied to each LLM attempt
func (f *LLMFactory) LLMTimeout() (time.Duration, error) {
	llmConfig, err := f.cfg.GetLLM()
	if err != nil {
		return 0, err
	}
	return llmConfig.Timeout, nil
}
