package frontend

import (
	"time"

	"github.com/mikey/llm-scam-shield/internal/adapters/history"
	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

const (
	grandparentText = "Grandma, it's your grandson. I was arrested and need bail money. Please don't tell mom."
	amazonText      = "Your Amazon order has shipped and will arrive Tuesday."
)

// newRulesChecker builds a checker that classifies with rules only
func newRulesChecker(repo core.HistoryRepository) *core.MessageChecker {
	logger := zap.NewNop()
	rules := core.NewRuleClassifier(core.DefaultPatternTable())
	service := core.NewScamDetectionService(nil, rules, logger, time.Second)
	return core.NewMessageChecker(service, repo, nil, logger)
}

func newMemoryHistory() *history.MemoryHistory {
	return history.NewMemoryHistory(zap.NewNop(), time.Hour, 0)
}
