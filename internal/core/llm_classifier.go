package core

import (
	"context"
	"errors"

	"github.com/mikey/llm-scam-shield/internal/utils"
	"go.uber.org/zap"
)

// LLMClassifier classifies text by prompting a text-generation service
type LLMClassifier struct {
	generator     TextGenerator
	textProcessor *utils.TextProcessor
	maxInputSize  int
	logger        *zap.Logger
}

// NewLLMClassifier creates a new LLM classifier.
// textProcessor may be nil, in which case the text is embedded unchanged.
func NewLLMClassifier(
	generator TextGenerator,
	textProcessor *utils.TextProcessor,
	maxInputSize int,
	logger *zap.Logger,
) *LLMClassifier {
	return &LLMClassifier{
		generator:     generator,
		textProcessor: textProcessor,
		maxInputSize:  maxInputSize,
		logger:        logger,
	}
}

// Available reports whether a generator with a configured credential is present
func (c *LLMClassifier) Available() bool {
	return c != nil && c.generator != nil && c.generator.HasCredential()
}

// Classify sends text to the generator and validates the reply.
// Every failure is returned as a *ClassificationError.
func (c *LLMClassifier) Classify(ctx context.Context, text string) (*AnalysisResult, error) {
	prepared := text
	if c.textProcessor != nil {
		prepared = c.textProcessor.ProcessText(text, c.maxInputSize)
	}

	reply, err := c.generator.Generate(ctx, BuildPrompt(prepared))
	if err != nil {
		var classErr *ClassificationError
		if errors.As(err, &classErr) {
			return nil, classErr
		}
		return nil, NewTransportError(err)
	}

	parsed, err := ParseReply(reply)
	if err != nil {
		return nil, err
	}

	if parsed.Normalized {
		c.logger.Debug("Normalized out-of-range risk level to YELLOW",
			zap.String("model", c.generator.ModelName()))
	}

	return NewAnalysisResult(text, parsed.Verdict(), c.generator.ModelName()), nil
}
