package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/mikey/llm-scam-shield/internal/mocks"
)

type ScamDetectionServiceSuite struct {
	suite.Suite
	rules *core.RuleClassifier
}

func (s *ScamDetectionServiceSuite) SetupTest() {
	s.rules = core.NewRuleClassifier(core.DefaultPatternTable())
}

func (s *ScamDetectionServiceSuite) newService(generator core.TextGenerator, timeout time.Duration) *core.ScamDetectionService {
	llm := core.NewLLMClassifier(generator, nil, 0, zap.NewNop())
	return core.NewScamDetectionService(llm, s.rules, zap.NewNop(), timeout)
}

func (s *ScamDetectionServiceSuite) TestNoCredentialUsesRules() {
	generator := &mocks.TextGenerator{}
	generator.On("HasCredential").Return(false)

	result := s.newService(generator, time.Second).Analyze(context.Background(), scamText)

	s.Equal(core.RiskRed, result.RiskTier)
	s.Equal("Grandparent Scam", result.Category)
	s.Equal(core.ModelRules, result.ModelUsed)
	generator.AssertNotCalled(s.T(), "Generate", mock.Anything, mock.Anything)
}

func (s *ScamDetectionServiceSuite) TestNilClassifierUsesRules() {
	service := core.NewScamDetectionService(nil, s.rules, zap.NewNop(), time.Second)

	result := service.Analyze(context.Background(), "Your Amazon order has shipped.")
	s.Equal(core.RiskGreen, result.RiskTier)
	s.Equal(core.CategoryGeneral, result.Category)
	s.Equal(core.ModelRules, result.ModelUsed)
}

func (s *ScamDetectionServiceSuite) TestLLMSuccess() {
	generator := newGenerator()
	generator.On("Generate", mock.Anything, mock.Anything).Return(redReply, nil).Once()

	result := s.newService(generator, time.Second).Analyze(context.Background(), scamText)

	s.Equal(core.RiskRed, result.RiskTier)
	s.Equal(testModel, result.ModelUsed)
	s.NotEmpty(result.ID)
	s.False(result.Timestamp.IsZero())
	generator.AssertExpectations(s.T())
}

func (s *ScamDetectionServiceSuite) TestLLMFailureFallsBackOnce() {
	generator := newGenerator()
	generator.On("Generate", mock.Anything, mock.Anything).Return("", core.NewStatusError(500, nil)).Once()

	result := s.newService(generator, time.Second).Analyze(context.Background(), scamText)

	s.Equal(core.RiskRed, result.RiskTier)
	s.Equal(core.ModelRules, result.ModelUsed)
	generator.AssertNumberOfCalls(s.T(), "Generate", 1)
}

func (s *ScamDetectionServiceSuite) TestMalformedReplyFallsBack() {
	generator := newGenerator()
	generator.On("Generate", mock.Anything, mock.Anything).Return("```json\nnot json\n```", nil)

	result := s.newService(generator, time.Second).Analyze(context.Background(), "Please call me back about the lottery")

	s.Equal(core.RiskYellow, result.RiskTier)
	s.Equal(core.CategorySuspicious, result.Category)
	s.Equal(core.ModelRules, result.ModelUsed)
}

func (s *ScamDetectionServiceSuite) TestMissingDetailedExplanationFallsBack() {
	generator := newGenerator()
	generator.On("Generate", mock.Anything, mock.Anything).
		Return(`{"riskLevel":"RED","scamType":"Grandparent Scam","explanation":"Classic bail request."}`, nil).Once()

	result := s.newService(generator, time.Second).Analyze(context.Background(), scamText)

	s.Equal(core.RiskRed, result.RiskTier)
	s.Equal("Grandparent Scam", result.Category)
	s.Equal(core.ModelRules, result.ModelUsed)
	generator.AssertNumberOfCalls(s.T(), "Generate", 1)
}

func (s *ScamDetectionServiceSuite) TestOutOfRangeTierBecomesYellow() {
	generator := newGenerator()
	generator.On("Generate", mock.Anything, mock.Anything).
		Return(`{"riskLevel":"ORANGE","scamType":"Unclear","explanation":"Hard to say.","detailedExplanation":"Check with family."}`, nil)

	result := s.newService(generator, time.Second).Analyze(context.Background(), "hello")

	s.Equal(core.RiskYellow, result.RiskTier)
	s.Equal("Unclear", result.Category)
	s.Equal(testModel, result.ModelUsed)
}

func (s *ScamDetectionServiceSuite) TestDeadlineFallsBack() {
	generator := &blockingGenerator{}
	start := time.Now()

	result := s.newService(generator, 50*time.Millisecond).Analyze(context.Background(), scamText)

	s.Less(time.Since(start), 5*time.Second)
	s.Equal(core.ModelRules, result.ModelUsed)
	s.Equal(core.RiskRed, result.RiskTier)
	s.True(generator.deadlineSet)
}

func TestScamDetectionServiceSuite(t *testing.T) {
	suite.Run(t, new(ScamDetectionServiceSuite))
}

func TestAnalyze_IDsAreUnique(t *testing.T) {
	service := core.NewScamDetectionService(nil, core.NewRuleClassifier(core.DefaultPatternTable()), zap.NewNop(), 0)

	first := service.Analyze(context.Background(), "same text")
	second := service.Analyze(context.Background(), "same text")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.RiskTier, second.RiskTier)
}

// blockingGenerator waits for the context to end, like a stalled endpoint
type blockingGenerator struct {
	deadlineSet bool
}

func (g *blockingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	_, g.deadlineSet = ctx.Deadline()
	<-ctx.Done()
	return "", core.NewTransportError(errors.Join(errors.New("request aborted"), ctx.Err()))
}

func (g *blockingGenerator) HasCredential() bool { return true }

func (g *blockingGenerator) ModelName() string { return "blocking" }
