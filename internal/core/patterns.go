package core

import (
	"fmt"
	"strings"
)

// ScamPattern is a named keyword set associated with a risk tier
type ScamPattern struct {
	Keywords    []string
	Tier        RiskTier
	Category    string
	Explanation string
	Advice      string
}

// PatternTable is an immutable, ordered list of scam patterns.
// Order matters: the rule classifier stops at the first RED pattern with two matches.
type PatternTable struct {
	patterns []ScamPattern
}

// NewPatternTable validates and copies patterns into a table.
// Keywords are lower-cased; a pattern must have at least one keyword and a RED or YELLOW tier.
func NewPatternTable(patterns []ScamPattern) (PatternTable, error) {
	copied := make([]ScamPattern, 0, len(patterns))
	for i, p := range patterns {
		if p.Tier != RiskRed && p.Tier != RiskYellow {
			return PatternTable{}, fmt.Errorf("pattern %d (%s): unsupported tier %q", i, p.Category, p.Tier)
		}

		keywords := make([]string, 0, len(p.Keywords))
		for _, kw := range p.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			return PatternTable{}, fmt.Errorf("pattern %d (%s): no keywords", i, p.Category)
		}

		p.Keywords = keywords
		copied = append(copied, p)
	}
	return PatternTable{patterns: copied}, nil
}

// Len returns the number of patterns
func (t PatternTable) Len() int {
	return len(t.patterns)
}

// Patterns returns a copy of the patterns in declaration order
func (t PatternTable) Patterns() []ScamPattern {
	out := make([]ScamPattern, len(t.patterns))
	for i, p := range t.patterns {
		p.Keywords = append([]string(nil), p.Keywords...)
		out[i] = p
	}
	return out
}

// DefaultPatternTable returns the built-in English pattern table
func DefaultPatternTable() PatternTable {
	table, err := NewPatternTable(defaultPatterns)
	if err != nil {
		panic(fmt.Sprintf("invalid default pattern table: %v", err))
	}
	return table
}

var defaultPatterns = []ScamPattern{
	{
		Keywords: []string{
			"grandson", "granddaughter", "grandchild", "grandma", "grandpa",
			"jail", "bail", "arrested", "don't tell", "lawyer", "accident",
		},
		Tier:        RiskRed,
		Category:    "Grandparent Scam",
		Explanation: "Someone may be pretending to be a grandchild or relative in trouble.",
		Advice: "Scammers often pretend to be a grandchild who is in jail, in an accident, or needs bail money, " +
			"and ask you to keep it secret. Hang up and call your grandchild or another family member on a number you already know. " +
			"Never send money, gift cards or cash by courier based on a call or message like this.",
	},
	{
		Keywords: []string{
			"irs agent", "internal revenue", "social security number", "social security administration",
			"arrest warrant", "back taxes", "tax debt", "legal action", "federal agent",
		},
		Tier:        RiskRed,
		Category:    "Government Impersonation",
		Explanation: "This message may be from someone pretending to be a government agency.",
		Advice: "Government agencies do not threaten arrest or demand immediate payment by phone, text or email. " +
			"Do not give out your Social Security number or pay anything. " +
			"Contact the agency yourself using the phone number on its official website or on a letter you already have.",
	},
	{
		Keywords: []string{
			"virus", "infected", "tech support", "technical support", "microsoft support",
			"apple support", "remote access", "computer is locked", "refund department",
		},
		Tier:        RiskRed,
		Category:    "Tech Support Scam",
		Explanation: "This message may be a fake computer support warning.",
		Advice: "Real technology companies do not contact you out of the blue about viruses or ask for remote access to your computer. " +
			"Do not call the number shown, install anything, or let anyone control your computer. " +
			"If you are worried, ask a trusted family member or a local repair shop to take a look.",
	},
	{
		Keywords: []string{
			"gift card", "itunes", "google play", "wire transfer", "western union",
			"moneygram", "bitcoin", "cryptocurrency", "prepaid card",
		},
		Tier:        RiskRed,
		Category:    "Payment Demand Scam",
		Explanation: "This message asks for payment in a way scammers prefer.",
		Advice: "Requests to pay with gift cards, wire transfers or cryptocurrency are a strong sign of a scam, because that money is almost impossible to get back. " +
			"Do not buy cards or send codes to anyone. " +
			"Talk to someone you trust before sending any money.",
	},
	{
		Keywords: []string{
			"you've won", "you have won", "lottery", "sweepstakes", "claim your prize",
			"processing fee", "winner", "jackpot",
		},
		Tier:        RiskRed,
		Category:    "Prize Scam",
		Explanation: "This message claims you won a prize, which is a common scam.",
		Advice: "You cannot win a lottery or sweepstakes you did not enter, and real prizes never require a fee to collect. " +
			"Do not pay any fee or share bank details. " +
			"Delete the message or ask a trusted person to look at it with you.",
	},
	{
		Keywords: []string{
			"my love", "my darling", "soulmate", "plane ticket", "visa fee",
			"stuck overseas", "military deployment", "can't video call",
		},
		Tier:        RiskYellow,
		Category:    "Romance Scam",
		Explanation: "This message has signs of an online romance scam.",
		Advice: "Scammers build an online relationship and then ask for money for travel, visas or emergencies. " +
			"Be careful if someone you have never met in person asks for money or avoids video calls. " +
			"Talk to a friend or family member about the relationship before sending anything.",
	},
	{
		Keywords: []string{
			"verify your account", "account suspended", "unusual activity", "click here",
			"confirm your identity", "password", "security alert", "log in to", "locked out",
		},
		Tier:        RiskYellow,
		Category:    "Phishing Attempt",
		Explanation: "This message may be trying to get your login or account details.",
		Advice: "Messages that warn about your account and ask you to click a link are often phishing. " +
			"Do not click the link or enter your password. " +
			"Open the company's app or website yourself, or call the number on the back of your card.",
	},
	{
		Keywords: []string{
			"urgent", "immediately", "act now", "limited time", "expires today",
			"final notice", "right away", "don't delay",
		},
		Tier:        RiskYellow,
		Category:    "Pressure Tactics",
		Explanation: "This message is pushing you to act quickly.",
		Advice: "Scammers create a sense of urgency so you do not have time to think or ask for help. " +
			"Take your time. A real company or person will still be there tomorrow. " +
			"Check with someone you trust before you do anything.",
	},
	{
		Keywords: []string{
			"delivery attempt", "missed delivery", "redelivery", "customs fee",
			"shipping fee", "reschedule delivery", "package is on hold",
		},
		Tier:        RiskYellow,
		Category:    "Delivery Scam",
		Explanation: "This message may be a fake delivery notice.",
		Advice: "Fake delivery messages ask you to pay a small fee or enter card details to receive a package. " +
			"Do not click the link. " +
			"Check your order on the store's official website or app, or call the delivery company directly.",
	},
	{
		Keywords: []string{
			"donate now", "disaster relief", "charity", "donation", "victims fund",
		},
		Tier:        RiskYellow,
		Category:    "Charity Scam",
		Explanation: "This message asks for a donation and may not be a real charity.",
		Advice: "Scammers set up fake charities, especially after disasters. " +
			"Give only to charities you know, through their official website. " +
			"Never donate with gift cards, cash or wire transfers.",
	},
	{
		Keywords: []string{
			"guaranteed return", "risk-free", "double your money", "investment opportunity",
			"forex", "trading platform",
		},
		Tier:        RiskYellow,
		Category:    "Investment Scam",
		Explanation: "This message promises investment returns that may be too good to be true.",
		Advice: "No real investment is guaranteed or risk-free. " +
			"Do not move your savings based on a message from someone you do not know. " +
			"Talk to your bank or a licensed financial adviser first.",
	},
}
