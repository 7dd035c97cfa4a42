package factory

import (
	"github.com/mikey/llm-scam-shield/internal/config"
	"github.com/mikey/llm-scam-shield/internal/utils"
	"go.uber.org/zap"
)

// TextProcessorFactory creates the processor that prepares message text for the prompt
type TextProcessorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(cfg *config.Config, logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a TextProcessor; the byte budget itself is applied by the LLM classifier
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	if size := f.cfg.GetInt("llm.max_input_size"); size > 0 {
		f.logger.Debug("Message text will be truncated for the LLM", zap.Int("max_input_size", size))
	} else {
		f.logger.Debug("Message text truncation disabled")
	}
	return utils.NewTextProcessor(f.logger.Named("text"))
}
