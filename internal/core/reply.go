package core

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

const codeFence = "```"

// Reply field names required in every LLM reply
const (
	FieldRiskLevel           = "riskLevel"
	FieldScamType            = "scamType"
	FieldExplanation         = "explanation"
	FieldDetailedExplanation = "detailedExplanation"
)

var requiredFields = []string{FieldRiskLevel, FieldScamType, FieldExplanation, FieldDetailedExplanation}

// LLMReply is a validated reply from the text-generation service
type LLMReply struct {
	RiskLevel           RiskTier
	ScamType            string
	Explanation         string
	DetailedExplanation string

	// Normalized is set when riskLevel was outside the enum and coerced to YELLOW
	Normalized bool
}

// Verdict converts the reply into a classifier verdict
func (r LLMReply) Verdict() Verdict {
	return Verdict{
		Tier:                r.RiskLevel,
		Category:            r.ScamType,
		Explanation:         r.Explanation,
		DetailedExplanation: r.DetailedExplanation,
	}
}

// StripCodeFence removes a surrounding markdown code fence and its optional language tag.
// Text that does not both start and end with a fence is returned trimmed but otherwise unchanged.
func StripCodeFence(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if len(trimmed) < 2*len(codeFence) ||
		!strings.HasPrefix(trimmed, codeFence) ||
		!strings.HasSuffix(trimmed, codeFence) {
		return trimmed
	}

	inner := trimmed[len(codeFence) : len(trimmed)-len(codeFence)]
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		if isLanguageTag(strings.TrimSpace(inner[:nl])) {
			inner = inner[nl+1:]
		}
	} else {
		inner = strings.TrimLeftFunc(inner, isLanguageTagRune)
	}

	return strings.TrimSpace(inner)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if !isLanguageTagRune(r) {
			return false
		}
	}
	return true
}

func isLanguageTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '+' || r == '.'
}

// ParseReply decodes and validates the raw reply text.
// A reply that is not a JSON object yields KindParse; a missing, empty or
// non-string required field yields KindValidation. A riskLevel outside the
// enum is normalized to YELLOW.
func ParseReply(reply string) (LLMReply, error) {
	body := StripCodeFence(reply)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return LLMReply{}, NewParseError(err)
	}
	if fields == nil {
		return LLMReply{}, NewParseError(errors.New("reply is not a JSON object"))
	}

	values := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		raw, ok := fields[name]
		if !ok {
			return LLMReply{}, NewValidationError(name)
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return LLMReply{}, NewValidationError(name)
		}

		value = strings.TrimSpace(value)
		if value == "" {
			return LLMReply{}, NewValidationError(name)
		}
		values[name] = value
	}

	result := LLMReply{
		ScamType:            values[FieldScamType],
		Explanation:         values[FieldExplanation],
		DetailedExplanation: values[FieldDetailedExplanation],
	}

	tier, ok := ParseRiskTier(values[FieldRiskLevel])
	if !ok {
		tier = RiskYellow
		result.Normalized = true
	}
	result.RiskLevel = tier

	return result, nil
}
