package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScamDetectionService is the entry point of the classification engine.
// It tries the LLM classifier once and falls back to the rule classifier on any failure.
type ScamDetectionService struct {
	llm        *LLMClassifier
	rules      *RuleClassifier
	logger     *zap.Logger
	llmTimeout time.Duration
}

// NewScamDetectionService creates a new scam detection service.
// llm may be nil, in which case every call uses the rule classifier.
func NewScamDetectionService(
	llm *LLMClassifier,
	rules *RuleClassifier,
	logger *zap.Logger,
	llmTimeout time.Duration,
) *ScamDetectionService {
	return &ScamDetectionService{
		llm:        llm,
		rules:      rules,
		logger:     logger,
		llmTimeout: llmTimeout,
	}
}

// Analyze classifies text and always returns a well-formed result
func (s *ScamDetectionService) Analyze(ctx context.Context, text string) *AnalysisResult {
	if !s.llm.Available() {
		s.logger.Debug("No LLM credential configured, using rule-based classifier",
			zap.Int("text_length", len(text)))
		return s.classifyWithRules(text)
	}

	result, err := s.classifyWithLLM(ctx, text)
	if err != nil {
		kind := "unknown"
		var classErr *ClassificationError
		if errors.As(err, &classErr) {
			kind = classErr.Kind.String()
		}
		s.logger.Warn("LLM classification failed, falling back to rule-based classifier",
			zap.Error(err),
			zap.String("error_kind", kind),
			zap.Int("text_length", len(text)))
		return s.classifyWithRules(text)
	}

	s.logger.Debug("Classified message with LLM",
		zap.String("risk_tier", string(result.RiskTier)),
		zap.String("category", result.Category),
		zap.String("model", result.ModelUsed))

	return stamp(result)
}

// classifyWithLLM makes the single LLM attempt under the configured deadline
func (s *ScamDetectionService) classifyWithLLM(ctx context.Context, text string) (*AnalysisResult, error) {
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}

	result, err := s.llm.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, NewParseError(errors.New("classifier returned no result"))
	}
	return result, nil
}

func (s *ScamDetectionService) classifyWithRules(text string) *AnalysisResult {
	verdict := s.rules.Classify(text)
	result := NewAnalysisResult(text, verdict, ModelRules)

	s.logger.Debug("Classified message with rules",
		zap.String("risk_tier", string(result.RiskTier)),
		zap.String("category", result.Category))

	return result
}

// stamp fills in identity fields a classifier left empty
func stamp(result *AnalysisResult) *AnalysisResult {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now().UTC()
	}
	if !result.RiskTier.IsValid() {
		result.RiskTier = RiskYellow
	}
	if result.MessageExcerpt == "" && result.MessageFull != "" {
		result.MessageExcerpt = Excerpt(result.MessageFull)
	}
	return result
}
