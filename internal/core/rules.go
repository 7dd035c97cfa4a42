package core

import (
	"strings"
)

const (
	// CategoryGeneral is used for GREEN results with no matched pattern
	CategoryGeneral = "General Message"
	// CategorySuspicious is used for YELLOW results without an attributed pattern
	CategorySuspicious = "Suspicious Activity"
)

const (
	greenExplanation = "No common scam warning signs were found in this message."
	greenDetail      = "We did not find words or phrases that are common in scams. " +
		"Even so, never share passwords, bank details or gift card codes with someone you have not verified, " +
		"and if anything feels wrong, call the person or company back on a number you already trust."

	yellowExplanation = "This message contains a phrase that often appears in scams."
	yellowDetail      = "Some words in this message are commonly used by scammers. " +
		"That does not mean it is a scam, but take a moment before you respond. " +
		"Do not click links or send money, and check with a trusted friend or family member first."
)

// RuleClassifier classifies text by counting keyword matches against a pattern table
type RuleClassifier struct {
	table PatternTable
}

// NewRuleClassifier creates a rule classifier over the given table
func NewRuleClassifier(table PatternTable) *RuleClassifier {
	return &RuleClassifier{table: table}
}

// Classify returns a verdict for text. It never fails.
//
// Patterns are scanned in table order. The first RED pattern with two or more
// keyword matches wins immediately. A YELLOW pattern with two or more matches
// is recorded unless RED was already reached, and scanning continues. A single
// keyword match raises GREEN to YELLOW without attributing a pattern.
func (c *RuleClassifier) Classify(text string) Verdict {
	lowered := strings.ToLower(text)

	highest := RiskGreen
	var matched *ScamPattern

	for i := range c.table.patterns {
		pattern := &c.table.patterns[i]
		count := countKeywords(lowered, pattern.Keywords)

		switch {
		case count >= 2 && pattern.Tier == RiskRed:
			highest = RiskRed
			matched = pattern
		case count >= 2 && pattern.Tier == RiskYellow && highest != RiskRed:
			highest = RiskYellow
			matched = pattern
		case count == 1 && highest == RiskGreen:
			highest = RiskYellow
		}

		if highest == RiskRed {
			break
		}
	}

	if matched != nil {
		return Verdict{
			Tier:                highest,
			Category:            matched.Category,
			Explanation:         matched.Explanation,
			DetailedExplanation: matched.Advice,
		}
	}

	if highest == RiskYellow {
		return Verdict{
			Tier:                RiskYellow,
			Category:            CategorySuspicious,
			Explanation:         yellowExplanation,
			DetailedExplanation: yellowDetail,
		}
	}

	return Verdict{
		Tier:                RiskGreen,
		Category:            CategoryGeneral,
		Explanation:         greenExplanation,
		DetailedExplanation: greenDetail,
	}
}

// countKeywords counts how many keywords appear in text
func countKeywords(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}
