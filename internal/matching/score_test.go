// internal/matching/score_test.go
package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"crbi-workers/internal/models"
)

func strPtr(s string) *string                            { return &s }
func intPtr(i int) *int                                  { return &i }
func budgetPtr(b models.BudgetRange) *models.BudgetRange { return &b }
func timelinePtr(t models.Timeline) *models.Timeline     { return &t }
func urgencyPtr(u models.UrgencyLevel) *models.UrgencyLevel {
	return &u
}
func employmentPtr(e models.EmploymentStatus) *models.EmploymentStatus {
	return &e
}
func fundsPtr(f models.FundsReadiness) *models.FundsReadiness {
	return &f
}

func completeProfile() *models.ClientProfile {
	return &models.ClientProfile{
		ID:                     "client-1",
		FirstName:              "Maria",
		LastName:               "Santos",
		Email:                  "maria.santos@example.com",
		GeographicPreferences:  []string{"Caribbean"},
		BudgetRange:            budgetPtr(models.Budget500K1M),
		DesiredTimeline:        timelinePtr(models.TimelineOneYear),
		UrgencyLevel:           urgencyPtr(models.UrgencyHigh),
		PrimaryGoals:           []models.GoalType{models.GoalGlobalMobility},
		EmploymentStatus:       employmentPtr(models.EmploymentEmployed),
		CurrentProfession:      strPtr("Engineer"),
		Industry:               strPtr("Technology"),
		YearsOfExperience:      intPtr(10),
		SourceOfFundsReadiness: fundsPtr(models.FundsReady),
		SanctionsScreening:     models.SanctionsCleared,
	}
}

func stKittsProgram() *models.Program {
	return &models.Program{
		ID:                   "prog-kn",
		CountryName:          "St. Kitts and Nevis",
		CountryCode:          "KN",
		ProgramName:          "Citizenship by Investment",
		ProgramType:          models.ProgramCitizenship,
		MinInvestment:        decimal.NewFromInt(250_000),
		ProcessingTimeMonths: 6,
		IsActive:             true,
	}
}

func TestScoreProgram_StKittsScenario(t *testing.T) {
	breakdown, score := ScoreProgram(completeProfile(), stKittsProgram())

	assert.Equal(t, 25, breakdown.Geography)
	assert.Equal(t, 15, breakdown.Budget, "250k is below the 400k stretch floor of the 500k-1m band")
	assert.Equal(t, 20, breakdown.Timeline)
	assert.Equal(t, 15, breakdown.Goals)
	assert.Equal(t, 10, breakdown.Professional)
	assert.Equal(t, 5, breakdown.Funds)
	assert.Equal(t, 90, score)
}

func TestScoreProgram_EmptyProfile(t *testing.T) {
	breakdown, score := ScoreProgram(&models.ClientProfile{}, stKittsProgram())

	assert.Equal(t, 0, breakdown.Geography)
	assert.Equal(t, 0, breakdown.Budget)
	assert.Equal(t, 20, breakdown.Timeline, "6 months against the 24 month default horizon")
	assert.Equal(t, 0, breakdown.Goals)
	assert.Equal(t, 0, breakdown.Professional)
	assert.Equal(t, 0, breakdown.Funds)
	assert.Equal(t, 20, score)
}

func TestScoreProgram_MissingGeographyAndBudgetCapsAtFifty(t *testing.T) {
	profile := completeProfile()
	profile.GeographicPreferences = nil
	profile.BudgetRange = nil

	_, score := ScoreProgram(profile, stKittsProgram())
	assert.LessOrEqual(t, score, 50)
}

func TestScoreGeography(t *testing.T) {
	tests := []struct {
		name        string
		preferences []string
		country     string
		want        int
	}{
		{"region covers country", []string{"Caribbean"}, "St. Kitts and Nevis", 25},
		{"case insensitive", []string{"caribbean"}, "DOMINICA", 25},
		{"second preference matches", []string{"Europe", "Pacific"}, "Vanuatu", 25},
		{"no preference covers country", []string{"Europe"}, "Grenada", 0},
		{"empty preferences", nil, "Portugal", 0},
		{"unknown region label", []string{"Antarctica"}, "Portugal", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreGeography(tt.preferences, tt.country))
		})
	}
}

func TestScoreBudget(t *testing.T) {
	tests := []struct {
		name          string
		budgetRange   *models.BudgetRange
		minInvestment int64
		want          int
	}{
		{"nil budget range", nil, 250_000, 0},
		{"at stretch floor", budgetPtr(models.Budget500K1M), 400_000, 25},
		{"just below stretch floor", budgetPtr(models.Budget500K1M), 399_999, 15},
		{"at band ceiling", budgetPtr(models.Budget500K1M), 1_000_000, 25},
		{"within 1.2x ceiling", budgetPtr(models.Budget500K1M), 1_200_000, 15},
		{"within 1.5x ceiling", budgetPtr(models.Budget500K1M), 1_500_000, 8},
		{"beyond 1.5x ceiling", budgetPtr(models.Budget500K1M), 1_500_001, 0},
		{"under_500k full credit from zero floor", budgetPtr(models.BudgetUnder500K), 150_000, 25},
		{"under_500k stretched ceiling", budgetPtr(models.BudgetUnder500K), 600_000, 15},
		{"unbounded band above stretch floor", budgetPtr(models.Budget2MPlus), 2_500_000, 25},
		{"unbounded band at stretch floor", budgetPtr(models.Budget2MPlus), 1_600_000, 25},
		{"unbounded band below stretch floor", budgetPtr(models.Budget2MPlus), 1_000_000, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreBudget(tt.budgetRange, decimal.NewFromInt(tt.minInvestment))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreTimeline(t *testing.T) {
	tests := []struct {
		name             string
		timeline         *models.Timeline
		processingMonths int
		want             int
	}{
		{"within horizon", timelinePtr(models.TimelineOneYear), 12, 20},
		{"within 1.5x horizon", timelinePtr(models.TimelineOneYear), 18, 12},
		{"within 2x horizon", timelinePtr(models.TimelineOneYear), 24, 6},
		{"beyond 2x horizon", timelinePtr(models.TimelineOneYear), 25, 0},
		{"immediate maps to six months", timelinePtr(models.TimelineImmediate), 6, 20},
		{"exploring allows three years", timelinePtr(models.TimelineExploring), 36, 20},
		{"nil timeline uses 24 month default", nil, 24, 20},
		{"nil timeline stretched", nil, 36, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreTimeline(tt.timeline, tt.processingMonths))
		})
	}
}

func TestScoreGoals(t *testing.T) {
	tests := []struct {
		name        string
		goals       []models.GoalType
		programType models.ProgramType
		want        int
	}{
		{"no goals", nil, models.ProgramCitizenship, 0},
		{"single served goal", []models.GoalType{models.GoalGlobalMobility}, models.ProgramCitizenship, 15},
		{"education not served by citizenship", []models.GoalType{models.GoalEducation}, models.ProgramCitizenship, 0},
		{"half served rounds up", []models.GoalType{models.GoalEducation, models.GoalGlobalMobility}, models.ProgramCitizenship, 8},
		{"both served by residency", []models.GoalType{models.GoalEducation, models.GoalGlobalMobility}, models.ProgramResidency, 15},
		{"one of three served", []models.GoalType{models.GoalEducation, models.GoalBusinessExpansion, models.GoalFamilySecurity}, models.ProgramCitizenship, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreGoals(tt.goals, tt.programType))
		})
	}
}

func TestScoreProfessional(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.ClientProfile
		want    int
	}{
		{"empty profile", &models.ClientProfile{}, 0},
		{"employed only", &models.ClientProfile{
			EmploymentStatus: employmentPtr(models.EmploymentEmployed),
		}, 5},
		{"business owner with profession", &models.ClientProfile{
			EmploymentStatus:  employmentPtr(models.EmploymentBusinessOwner),
			CurrentProfession: strPtr("Founder"),
			Industry:          strPtr("Retail"),
		}, 10},
		{"retired with profession", &models.ClientProfile{
			EmploymentStatus:  employmentPtr(models.EmploymentRetired),
			CurrentProfession: strPtr("Surgeon"),
			Industry:          strPtr("Healthcare"),
		}, 5},
		{"profession without industry", &models.ClientProfile{
			CurrentProfession: strPtr("Engineer"),
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreProfessional(tt.profile))
		})
	}
}

func TestScoreFunds(t *testing.T) {
	assert.Equal(t, 0, scoreFunds(nil))
	assert.Equal(t, 5, scoreFunds(fundsPtr(models.FundsReady)))
	assert.Equal(t, 5, scoreFunds(fundsPtr(models.FundsOneMonth)))
	assert.Equal(t, 0, scoreFunds(fundsPtr(models.FundsThreeMo)))
	assert.Equal(t, 0, scoreFunds(fundsPtr(models.FundsNotReady)))
}

func TestClassifyEligibility(t *testing.T) {
	tests := []struct {
		score int
		want  models.EligibilityStatus
	}{
		{100, models.EligibilityQualified},
		{80, models.EligibilityQualified},
		{79, models.EligibilityLikelyQualified},
		{60, models.EligibilityLikelyQualified},
		{59, models.EligibilityNeedsReview},
		{40, models.EligibilityNeedsReview},
		{39, models.EligibilityNotQualified},
		{0, models.EligibilityNotQualified},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyEligibility(tt.score), "score %d", tt.score)
	}
}

func TestEstimateTimeline(t *testing.T) {
	program := stKittsProgram()

	assert.Equal(t, "5 months (estimated)", EstimateTimeline(program, fundsPtr(models.FundsReady)))
	assert.Equal(t, "9 months (estimated)", EstimateTimeline(program, fundsPtr(models.FundsNotReady)))
	assert.Equal(t, "6 months (estimated)", EstimateTimeline(program, nil))
	assert.Equal(t, "6 months (estimated)", EstimateTimeline(program, fundsPtr(models.FundsThreeMo)))

	fast := &models.Program{ProcessingTimeMonths: 1}
	assert.Equal(t, "1 months (estimated)", EstimateTimeline(fast, fundsPtr(models.FundsReady)),
		"estimate never drops below one month")
}

func TestOverallScore(t *testing.T) {
	t.Run("complete profile reaches ceiling", func(t *testing.T) {
		assert.Equal(t, 100, OverallScore(completeProfile()))
	})

	t.Run("empty profile keeps compliance credit only", func(t *testing.T) {
		assert.Equal(t, 5, OverallScore(&models.ClientProfile{}))
	})

	t.Run("compliance flags remove credit", func(t *testing.T) {
		profile := &models.ClientProfile{
			CriminalBackground: true,
			VisaDenials:        true,
		}
		assert.Equal(t, 0, OverallScore(profile))
	})

	t.Run("funds readiness tiers", func(t *testing.T) {
		base := OverallScore(&models.ClientProfile{})
		for readiness, bonus := range map[models.FundsReadiness]int{
			models.FundsReady:    15,
			models.FundsOneMonth: 12,
			models.FundsThreeMo:  8,
			models.FundsSixMo:    5,
			models.FundsNotReady: 0,
		} {
			profile := &models.ClientProfile{SourceOfFundsReadiness: fundsPtr(readiness)}
			// Setting the field also counts 3 points of completeness.
			assert.Equal(t, base+3+bonus, OverallScore(profile), "readiness %s", readiness)
		}
	})

	t.Run("always within bounds", func(t *testing.T) {
		for _, profile := range []*models.ClientProfile{
			{},
			completeProfile(),
			{CriminalBackground: true, VisaDenials: true, IsPEP: true},
		} {
			score := OverallScore(profile)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	})
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-5, 0, 100))
	assert.Equal(t, 100, clamp(150, 0, 100))
	assert.Equal(t, 42, clamp(42, 0, 100))
}
