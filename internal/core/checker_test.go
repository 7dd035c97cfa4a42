package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/mikey/llm-scam-shield/internal/mocks"
)

type fixedAnalyzer struct {
	tier core.RiskTier
}

func (a fixedAnalyzer) Analyze(ctx context.Context, text string) *core.AnalysisResult {
	return core.NewAnalysisResult(text, core.Verdict{Tier: a.tier, Category: "Test"}, core.ModelRules)
}

func TestMessageChecker_RedIsSavedAndAlerted(t *testing.T) {
	repo := &mocks.HistoryRepository{}
	repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	notifier := &mocks.AlertNotifier{}
	notifier.On("NotifyHighRisk", mock.Anything, mock.MatchedBy(func(r *core.AnalysisResult) bool {
		return r.RiskTier == core.RiskRed
	})).Return(nil).Once()

	checker := core.NewMessageChecker(fixedAnalyzer{tier: core.RiskRed}, repo, notifier, zap.NewNop())
	result := checker.Check(context.Background(), "text")

	assert.Equal(t, core.RiskRed, result.RiskTier)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestMessageChecker_GreenIsNotAlerted(t *testing.T) {
	repo := &mocks.HistoryRepository{}
	repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	notifier := &mocks.AlertNotifier{}

	checker := core.NewMessageChecker(fixedAnalyzer{tier: core.RiskGreen}, repo, notifier, zap.NewNop())
	checker.Check(context.Background(), "text")

	repo.AssertExpectations(t)
	notifier.AssertNotCalled(t, "NotifyHighRisk", mock.Anything, mock.Anything)
}

func TestMessageChecker_FailuresDoNotChangeResult(t *testing.T) {
	repo := &mocks.HistoryRepository{}
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	notifier := &mocks.AlertNotifier{}
	notifier.On("NotifyHighRisk", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	checker := core.NewMessageChecker(fixedAnalyzer{tier: core.RiskRed}, repo, notifier, zap.NewNop())
	result := checker.Check(context.Background(), "text")

	assert.Equal(t, core.RiskRed, result.RiskTier)
	assert.Equal(t, "Test", result.Category)
}

func TestMessageChecker_NoHistoryOrNotifier(t *testing.T) {
	checker := core.NewMessageChecker(fixedAnalyzer{tier: core.RiskRed}, nil, nil, zap.NewNop())

	result := checker.Check(context.Background(), "text")
	assert.Equal(t, core.RiskRed, result.RiskTier)
	assert.Nil(t, checker.History())
}
