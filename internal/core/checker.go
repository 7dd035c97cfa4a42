package core

import (
	"context"

	"go.uber.org/zap"
)

// Analyzer classifies a message; implemented by ScamDetectionService
type Analyzer interface {
	Analyze(ctx context.Context, text string) *AnalysisResult
}

// MessageChecker runs a classification and hands the result to history and alerting
type MessageChecker struct {
	analyzer Analyzer
	history  HistoryRepository
	notifier AlertNotifier
	logger   *zap.Logger
}

// NewMessageChecker creates a new message checker.
// history and notifier may be nil to disable them.
func NewMessageChecker(
	analyzer Analyzer,
	history HistoryRepository,
	notifier AlertNotifier,
	logger *zap.Logger,
) *MessageChecker {
	return &MessageChecker{
		analyzer: analyzer,
		history:  history,
		notifier: notifier,
		logger:   logger,
	}
}

// Check classifies text, records the result and raises an alert for RED results.
// Failures to record or alert are logged and do not change the result.
func (c *MessageChecker) Check(ctx context.Context, text string) *AnalysisResult {
	result := c.analyzer.Analyze(ctx, text)

	if c.history != nil {
		if err := c.history.Save(ctx, result); err != nil {
			c.logger.Error("Failed to save analysis to history",
				zap.Error(err),
				zap.String("id", result.ID))
		}
	}

	if c.notifier != nil && result.RiskTier == RiskRed {
		if err := c.notifier.NotifyHighRisk(ctx, result); err != nil {
			c.logger.Error("Failed to publish high-risk alert",
				zap.Error(err),
				zap.String("id", result.ID))
		}
	}

	c.logger.Info("Checked message",
		zap.String("id", result.ID),
		zap.String("risk_tier", string(result.RiskTier)),
		zap.String("category", result.Category),
		zap.String("model", result.ModelUsed))

	return result
}

// History returns the configured history repository, or nil when history is disabled
func (c *MessageChecker) History() HistoryRepository {
	return c.history
}
