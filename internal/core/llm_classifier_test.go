package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/mikey/llm-scam-shield/internal/mocks"
	"github.com/mikey/llm-scam-shield/internal/utils"
)

const (
	redReply  = `{"riskLevel":"RED","scamType":"Grandparent Scam","explanation":"Someone claims to be your grandchild.","detailedExplanation":"Hang up and call your grandchild directly."}`
	scamText  = "Grandma, it's me. I'm in jail and need bail money. Don't tell mom."
	testModel = "test-model"
)

func newGenerator() *mocks.TextGenerator {
	generator := &mocks.TextGenerator{}
	generator.On("HasCredential").Return(true).Maybe()
	generator.On("ModelName").Return(testModel).Maybe()
	return generator
}

func TestLLMClassifier_Classify(t *testing.T) {
	generator := newGenerator()
	generator.On("Generate", mock.Anything, core.BuildPrompt(scamText)).Return(redReply, nil).Once()

	classifier := core.NewLLMClassifier(generator, nil, 0, zap.NewNop())
	require.True(t, classifier.Available())

	result, err := classifier.Classify(context.Background(), scamText)
	require.NoError(t, err)
	assert.Equal(t, core.RiskRed, result.RiskTier)
	assert.Equal(t, "Grandparent Scam", result.Category)
	assert.Equal(t, testModel, result.ModelUsed)
	assert.Equal(t, scamText, result.MessageFull)
	assert.NotEmpty(t, result.ID)
	generator.AssertExpectations(t)
}

func TestLLMClassifier_TruncatesPromptOnly(t *testing.T) {
	text := strings.Repeat("a", 100)
	generator := newGenerator()
	generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, strings.Repeat("a", 10)+utils.TruncationMarker) &&
			!strings.Contains(prompt, strings.Repeat("a", 11))
	})).Return(redReply, nil).Once()

	classifier := core.NewLLMClassifier(generator, utils.NewTextProcessor(zap.NewNop()), 10, zap.NewNop())

	result, err := classifier.Classify(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, text, result.MessageFull)
	generator.AssertExpectations(t)
}

func TestLLMClassifier_Errors(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		err      error
		wantKind core.ErrorKind
	}{
		{name: "plain error becomes transport", err: errors.New("connection reset"), wantKind: core.KindTransport},
		{name: "status error kept", err: core.NewStatusError(529, nil), wantKind: core.KindStatus},
		{name: "prose reply", reply: "This looks like a scam to me.", wantKind: core.KindParse},
		{name: "incomplete reply", reply: `{"riskLevel":"RED"}`, wantKind: core.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := newGenerator()
			generator.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, tt.err)

			classifier := core.NewLLMClassifier(generator, nil, 0, zap.NewNop())
			result, err := classifier.Classify(context.Background(), scamText)
			assert.Nil(t, result)

			var classErr *core.ClassificationError
			require.True(t, errors.As(err, &classErr))
			assert.Equal(t, tt.wantKind, classErr.Kind)
		})
	}
}

func TestLLMClassifier_Available(t *testing.T) {
	var nilClassifier *core.LLMClassifier
	assert.False(t, nilClassifier.Available())

	generator := &mocks.TextGenerator{}
	generator.On("HasCredential").Return(false)
	assert.False(t, core.NewLLMClassifier(generator, nil, 0, zap.NewNop()).Available())
}
