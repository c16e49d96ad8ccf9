// internal/matching/score.go
package matching

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"crbi-workers/internal/models"
)

// Factor weights. They sum to 100; each sub-score is independently capped.
const (
	maxGeographyScore    = 25
	maxBudgetScore       = 25
	maxTimelineScore     = 20
	maxGoalsScore        = 15
	maxProfessionalScore = 10
	maxFundsScore        = 5
)

// Classification cutoffs. Tunable business constants, kept at the values
// the advisory team calibrated; not structural invariants.
const (
	scoreQualified       = 80
	scoreLikelyQualified = 60
	scoreNeedsReview     = 40

	// Matches at or below this score are dropped from results entirely.
	minIncludeScore = 20
)

var (
	budgetStretchLow  = decimal.NewFromFloat(0.8)
	budgetStretchMid  = decimal.NewFromFloat(1.2)
	budgetStretchHigh = decimal.NewFromFloat(1.5)
)

// ScoreProgram computes the per-factor breakdown and clamped total for one
// client against one program. Pure: no lookups, no side effects.
func ScoreProgram(profile *models.ClientProfile, program *models.Program) (models.MatchBreakdown, int) {
	breakdown := models.MatchBreakdown{
		Geography:    scoreGeography(profile.GeographicPreferences, program.CountryName),
		Budget:       scoreBudget(profile.BudgetRange, program.MinInvestment),
		Timeline:     scoreTimeline(profile.DesiredTimeline, program.ProcessingTimeMonths),
		Goals:        scoreGoals(profile.PrimaryGoals, program.ProgramType),
		Professional: scoreProfessional(profile),
		Funds:        scoreFunds(profile.SourceOfFundsReadiness),
	}

	total := breakdown.Geography + breakdown.Budget + breakdown.Timeline +
		breakdown.Goals + breakdown.Professional + breakdown.Funds

	return breakdown, clamp(total, 0, 100)
}

// scoreGeography awards full points when any preferred region covers the
// program country. No partial credit: geography is a yes/no fit.
func scoreGeography(preferences []string, country string) int {
	for _, region := range preferences {
		if regionCoversCountry(region, country) {
			return maxGeographyScore
		}
	}
	return 0
}

// scoreBudget grades the program's minimum investment against the client's
// budget band. Full points inside [band.min*0.8, band.max]; programs cheaper
// than the stretched floor or up to 1.2x over the ceiling score partial
// credit; up to 1.5x over scores low credit; beyond that, zero.
func scoreBudget(budgetRange *models.BudgetRange, minInvestment decimal.Decimal) int {
	if budgetRange == nil {
		return 0
	}
	band, ok := budgetBands[*budgetRange]
	if !ok {
		return 0
	}

	stretchedMin := band.Min.Mul(budgetStretchLow)

	if band.Unbounded {
		if minInvestment.GreaterThanOrEqual(stretchedMin) {
			return maxBudgetScore
		}
		// Cheaper than the stated appetite still qualifies, just weaker.
		return 15
	}

	switch {
	case minInvestment.GreaterThanOrEqual(stretchedMin) && minInvestment.LessThanOrEqual(band.Max):
		return maxBudgetScore
	case minInvestment.LessThan(stretchedMin):
		return 15
	case minInvestment.LessThanOrEqual(band.Max.Mul(budgetStretchMid)):
		return 15
	case minInvestment.LessThanOrEqual(band.Max.Mul(budgetStretchHigh)):
		return 8
	default:
		return 0
	}
}

// scoreTimeline compares program processing time against the client's
// expected horizon (24 months when unspecified).
func scoreTimeline(timeline *models.Timeline, processingMonths int) int {
	expected := defaultExpectedMonths
	if timeline != nil {
		if months, ok := timelineMonths[*timeline]; ok {
			expected = months
		}
	}

	processing := float64(processingMonths)
	switch {
	case processing <= float64(expected):
		return maxTimelineScore
	case processing <= 1.5*float64(expected):
		return 12
	case processing <= 2.0*float64(expected):
		return 6
	default:
		return 0
	}
}

// scoreGoals splits the goal budget evenly across the client's goals and
// awards each share when the program type serves that goal.
func scoreGoals(goals []models.GoalType, programType models.ProgramType) int {
	if len(goals) == 0 {
		return 0
	}

	share := float64(maxGoalsScore) / float64(len(goals))
	total := 0.0
	for _, goal := range goals {
		for _, pt := range goalProgramTypes[goal] {
			if pt == programType {
				total += share
				break
			}
		}
	}

	return clamp(int(math.Round(total)), 0, maxGoalsScore)
}

func scoreProfessional(profile *models.ClientProfile) int {
	score := 0
	if profile.EmploymentStatus != nil {
		switch *profile.EmploymentStatus {
		case models.EmploymentEmployed, models.EmploymentBusinessOwner:
			score += 5
		}
	}
	if present(profile.CurrentProfession) && present(profile.Industry) {
		score += 5
	}
	return score
}

func scoreFunds(readiness *models.FundsReadiness) int {
	if readiness == nil {
		return 0
	}
	switch *readiness {
	case models.FundsReady, models.FundsOneMonth:
		return maxFundsScore
	}
	return 0
}

// ClassifyEligibility maps a match score to the coarse status advisors see.
func ClassifyEligibility(score int) models.EligibilityStatus {
	switch {
	case score >= scoreQualified:
		return models.EligibilityQualified
	case score >= scoreLikelyQualified:
		return models.EligibilityLikelyQualified
	case score >= scoreNeedsReview:
		return models.EligibilityNeedsReview
	default:
		return models.EligibilityNotQualified
	}
}

// EstimateTimeline renders a display estimate from the program's base
// processing time, nudged by the client's funds readiness.
func EstimateTimeline(program *models.Program, readiness *models.FundsReadiness) string {
	months := program.ProcessingTimeMonths
	if readiness != nil {
		switch *readiness {
		case models.FundsReady:
			months--
		case models.FundsNotReady:
			months += 3
		}
	}
	if months < 1 {
		months = 1
	}
	return fmt.Sprintf("%d months (estimated)", months)
}

// overallChecklist returns presence flags for the ten profile fields that
// count toward completeness.
func overallChecklist(p *models.ClientProfile) []bool {
	return []bool{
		len(p.GeographicPreferences) > 0,
		p.BudgetRange != nil,
		p.DesiredTimeline != nil,
		p.UrgencyLevel != nil,
		len(p.PrimaryGoals) > 0,
		p.EmploymentStatus != nil,
		present(p.CurrentProfession),
		present(p.Industry),
		p.YearsOfExperience != nil,
		p.SourceOfFundsReadiness != nil,
	}
}

// OverallScore rates the client alone, independent of any program:
// completeness, funds readiness, timeline readiness, professional standing
// and compliance posture, clamped to 100.
func OverallScore(profile *models.ClientProfile) int {
	score := 0

	// Profile completeness: 3 points per populated field, capped at 30.
	completeness := 0
	for _, populated := range overallChecklist(profile) {
		if populated {
			completeness += 3
		}
	}
	score += clamp(completeness, 0, 30)

	// Funds readiness tiers.
	if profile.SourceOfFundsReadiness != nil {
		switch *profile.SourceOfFundsReadiness {
		case models.FundsReady:
			score += 15
		case models.FundsOneMonth:
			score += 12
		case models.FundsThreeMo:
			score += 8
		case models.FundsSixMo:
			score += 5
		}
	}
	if profile.BudgetRange != nil {
		score += 10
	}

	// Timeline readiness.
	if profile.DesiredTimeline != nil {
		score += 10
	}
	if profile.UrgencyLevel != nil {
		switch *profile.UrgencyLevel {
		case models.UrgencyHigh, models.UrgencyUrgent:
			score += 10
		}
	}

	// Professional standing.
	if profile.EmploymentStatus != nil {
		score += 5
	}
	if present(profile.CurrentProfession) {
		score += 5
	}
	if profile.YearsOfExperience != nil && *profile.YearsOfExperience > 5 {
		score += 5
	}

	// Compliance posture.
	if profile.SanctionsScreening == models.SanctionsCleared {
		score += 5
	}
	if !profile.CriminalBackground {
		score += 3
	}
	if !profile.VisaDenials {
		score += 2
	}

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func present(s *string) bool {
	return s != nil && *s != ""
}
