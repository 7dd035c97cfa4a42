package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{"riskLevel":"RED","scamType":"Grandparent Scam","explanation":"Someone claims to be your grandchild.","detailedExplanation":"Call your grandchild directly."}`

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no fence", input: "  {\"a\":1}  ", want: `{"a":1}`},
		{name: "plain fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "single line fence", input: "```json{\"a\":1}```", want: `{"a":1}`},
		{name: "opening fence only", input: "```json\n{\"a\":1}", want: "```json\n{\"a\":1}"},
		{name: "bare fences", input: "``````", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}

func TestParseReply(t *testing.T) {
	reply, err := ParseReply(validReply)
	require.NoError(t, err)
	assert.Equal(t, RiskRed, reply.RiskLevel)
	assert.Equal(t, "Grandparent Scam", reply.ScamType)
	assert.False(t, reply.Normalized)

	fenced, err := ParseReply("```json\n" + validReply + "\n```")
	require.NoError(t, err)
	assert.Equal(t, reply, fenced)
}

func TestParseReply_NormalizesRiskLevel(t *testing.T) {
	reply, err := ParseReply(`{"riskLevel":"ORANGE","scamType":"x","explanation":"y","detailedExplanation":"z"}`)
	require.NoError(t, err)
	assert.Equal(t, RiskYellow, reply.RiskLevel)
	assert.True(t, reply.Normalized)

	lower, err := ParseReply(`{"riskLevel":"green","scamType":"x","explanation":"y","detailedExplanation":"z"}`)
	require.NoError(t, err)
	assert.Equal(t, RiskGreen, lower.RiskLevel)
	assert.False(t, lower.Normalized)
}

func TestParseReply_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  ErrorKind
		wantField string
	}{
		{name: "not json", input: "I think this is a scam.", wantKind: KindParse},
		{name: "json array", input: `["RED"]`, wantKind: KindParse},
		{name: "json null", input: "null", wantKind: KindParse},
		{
			name:      "missing field",
			input:     `{"riskLevel":"RED","scamType":"x","explanation":"y"}`,
			wantKind:  KindValidation,
			wantField: FieldDetailedExplanation,
		},
		{
			name:      "empty field",
			input:     `{"riskLevel":"RED","scamType":"  ","explanation":"y","detailedExplanation":"z"}`,
			wantKind:  KindValidation,
			wantField: FieldScamType,
		},
		{
			name:      "non-string field",
			input:     `{"riskLevel":3,"scamType":"x","explanation":"y","detailedExplanation":"z"}`,
			wantKind:  KindValidation,
			wantField: FieldRiskLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReply(tt.input)
			require.Error(t, err)

			var classErr *ClassificationError
			require.True(t, errors.As(err, &classErr))
			assert.Equal(t, tt.wantKind, classErr.Kind)
			assert.Equal(t, tt.wantField, classErr.Field)
		})
	}
}
