package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RiskTier is the risk classification assigned to a message
type RiskTier string

const (
	// RiskRed means definite fraud indicators were found
	RiskRed RiskTier = "RED"
	// RiskYellow means the message is suspicious and needs verification
	RiskYellow RiskTier = "YELLOW"
	// RiskGreen means no indicators were detected
	RiskGreen RiskTier = "GREEN"
)

// ExcerptLength is the maximum number of characters kept in MessageExcerpt
const ExcerptLength = 200

// ModelRules is recorded in AnalysisResult.ModelUsed for rule-based results
const ModelRules = "rules"

// ParseRiskTier converts a string to a RiskTier, ignoring case and surrounding whitespace
func ParseRiskTier(s string) (RiskTier, bool) {
	switch RiskTier(strings.ToUpper(strings.TrimSpace(s))) {
	case RiskRed:
		return RiskRed, true
	case RiskYellow:
		return RiskYellow, true
	case RiskGreen:
		return RiskGreen, true
	default:
		return "", false
	}
}

// IsValid reports whether t is one of the three tiers
func (t RiskTier) IsValid() bool {
	return t == RiskRed || t == RiskYellow || t == RiskGreen
}

// Verdict is the classifier-level outcome before it is wrapped into an AnalysisResult
type Verdict struct {
	Tier                RiskTier
	Category            string
	Explanation         string
	DetailedExplanation string
}

// AnalysisResult is the canonical output of the classification engine
type AnalysisResult struct {
	ID                  string    `json:"id"`
	RiskTier            RiskTier  `json:"riskTier"`
	MessageExcerpt      string    `json:"messageExcerpt"`
	MessageFull         string    `json:"messageFull"`
	Explanation         string    `json:"explanation"`
	DetailedExplanation string    `json:"detailedExplanation"`
	Category            string    `json:"category"`
	Timestamp           time.Time `json:"timestamp"`
	ModelUsed           string    `json:"modelUsed"`
}

// NewAnalysisResult builds a result for text from a verdict, with a fresh ID and timestamp
func NewAnalysisResult(text string, verdict Verdict, modelUsed string) *AnalysisResult {
	tier := verdict.Tier
	if !tier.IsValid() {
		tier = RiskYellow
	}

	return &AnalysisResult{
		ID:                  uuid.NewString(),
		RiskTier:            tier,
		MessageExcerpt:      Excerpt(text),
		MessageFull:         text,
		Explanation:         verdict.Explanation,
		DetailedExplanation: verdict.DetailedExplanation,
		Category:            verdict.Category,
		Timestamp:           time.Now().UTC(),
		ModelUsed:           modelUsed,
	}
}

// Excerpt returns the first ExcerptLength characters of text.
// Counting runes keeps the excerpt valid UTF-8 and a byte prefix of text.
func Excerpt(text string) string {
	count := 0
	for i := range text {
		if count == ExcerptLength {
			return text[:i]
		}
		count++
	}
	return text
}
