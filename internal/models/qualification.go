// internal/models/qualification.go
package models

// EligibilityStatus is the coarse classification derived from a match score.
type EligibilityStatus string

const (
	EligibilityQualified       EligibilityStatus = "qualified"
	EligibilityLikelyQualified EligibilityStatus = "likely_qualified"
	EligibilityNeedsReview     EligibilityStatus = "needs_review"
	EligibilityNotQualified    EligibilityStatus = "not_qualified"
)

// MatchBreakdown exposes the per-factor sub-scores behind a match score.
type MatchBreakdown struct {
	Geography    int `json:"geography"`
	Budget       int `json:"budget"`
	Timeline     int `json:"timeline"`
	Goals        int `json:"goals"`
	Professional int `json:"professional"`
	Funds        int `json:"funds"`
}

// ProgramMatch is the computed compatibility of one client against one
// program. It is never persisted.
type ProgramMatch struct {
	Program           ProgramSummary     `json:"program"`
	MatchScore        int                `json:"matchScore"`
	MatchBreakdown    MatchBreakdown     `json:"matchBreakdown"`
	MatchReasons      []string           `json:"matchReasons"`
	Considerations    []string           `json:"considerations"`
	Requirements      []string           `json:"requirements"`
	InvestmentOptions []InvestmentOption `json:"investmentOptions"`
	EstimatedTimeline string             `json:"estimatedTimeline"`
	EligibilityStatus EligibilityStatus  `json:"eligibilityStatus"`
}

// ClientQualification is the full result of one scoring pass: the client's
// program-independent readiness score plus the ranked program matches.
type ClientQualification struct {
	ClientID        string         `json:"clientId"`
	OverallScore    int            `json:"overallScore"`
	ProgramMatches  []ProgramMatch `json:"programMatches"`
	Recommendations []string       `json:"recommendations"`
	NextSteps       []string       `json:"nextSteps"`
	RiskFactors     []string       `json:"riskFactors"`
}
