package models

// BusinessCategory is the closed set of business-risk rule categories.
type BusinessCategory string

const (
	BusinessMargin      BusinessCategory = "margin"
	BusinessDelivery    BusinessCategory = "delivery"
	BusinessNegotiation BusinessCategory = "negotiation"
	BusinessCompliance  BusinessCategory = "compliance"
	BusinessCredibility BusinessCategory = "credibility"
)

// BusinessLevel is the deterministic-rule classification level.
type BusinessLevel string

const (
	BusinessLevelNone     BusinessLevel = "None"
	BusinessLevelLow      BusinessLevel = "Low"
	BusinessLevelMedium   BusinessLevel = "Medium"
	BusinessLevelHigh     BusinessLevel = "High"
	BusinessLevelCritical BusinessLevel = "Critical"
)

// businessLevelScore maps a level to its numeric contribution to
// businessRiskScore (spec.md §4.8).
var businessLevelScore = map[BusinessLevel]int{
	BusinessLevelNone:     100,
	BusinessLevelLow:      85,
	BusinessLevelMedium:   60,
	BusinessLevelHigh:     25,
	BusinessLevelCritical: 0,
}

// Score returns the numeric contribution of a business level.
func (l BusinessLevel) Score() int { return businessLevelScore[l] }

// BusinessFlag is a deterministic-rule classification in one of the five
// business-risk categories. Purely derived from detector output and text
// rules — never from an LLM.
type BusinessFlag struct {
	ID       string           `json:"id"`
	Category BusinessCategory `json:"category"`
	Level    BusinessLevel    `json:"level"`
	RuleID   string           `json:"ruleId"`
	Reason   string           `json:"reason"`
	Location string           `json:"location"`
	Evidence string           `json:"evidence,omitempty"`
}

// BusinessRisk is the part2 business-risk section of the report.
type BusinessRisk struct {
	Flags             []BusinessFlag           `json:"flags"`
	CategoryLevels    map[BusinessCategory]BusinessLevel `json:"categoryLevels"`
	BusinessRiskScore int                      `json:"businessRiskScore"`
	ClientReady       bool                     `json:"clientReady"`
}
