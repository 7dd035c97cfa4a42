package core

import (
	"strings"
)

const promptInstructions = `You are a fraud-detection expert helping elderly people decide whether a message they received is a scam.

Analyze the message below. Look for:
- urgency or pressure tactics ("act now", threats, deadlines)
- impersonation of family members, banks, companies or government agencies
- requests for money, gift cards, wire transfers, cryptocurrency, passwords or personal information
- social-engineering framing such as secrecy, emotional appeals or offers that are too good to be true

Classify the message with one risk level:
- RED: clear signs of fraud
- YELLOW: suspicious, the person should verify before acting
- GREEN: no signs of fraud

When in doubt, choose the more cautious level.

Message:
"""
`

const promptResponseFormat = `
"""

Respond with exactly one raw JSON object and nothing else. Do not wrap it in markdown or code fences.
The object must have these four string keys:
- "riskLevel": one of "RED", "YELLOW", "GREEN"
- "scamType": a short label for the kind of scam, for example "Grandparent Scam", or "General Message" if it is safe
- "explanation": one short sentence summarizing the assessment in plain language
- "detailedExplanation": two to four sentences of clear, kind guidance on what the person should do next`

// BuildPrompt returns the full instruction text with the literal message embedded
func BuildPrompt(text string) string {
	var sb strings.Builder
	sb.Grow(len(promptInstructions) + len(text) + len(promptResponseFormat))
	sb.WriteString(promptInstructions)
	sb.WriteString(text)
	sb.WriteString(promptResponseFormat)
	return sb.String()
}
