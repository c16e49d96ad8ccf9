// internal/models/client.go
package models

// BudgetRange is the client's self-reported investment budget band.
type BudgetRange string

const (
	BudgetUnder500K BudgetRange = "under_500k"
	Budget500K1M    BudgetRange = "500k_1m"
	Budget1M2M      BudgetRange = "1m_2m"
	Budget2MPlus    BudgetRange = "2m_plus"
)

func (b BudgetRange) Valid() bool {
	switch b {
	case BudgetUnder500K, Budget500K1M, Budget1M2M, Budget2MPlus:
		return true
	}
	return false
}

// Timeline is the client's desired time-to-status.
type Timeline string

const (
	TimelineImmediate Timeline = "immediate"
	TimelineSixMonths Timeline = "6_months"
	TimelineOneYear   Timeline = "1_year"
	TimelineTwoYears  Timeline = "2_years"
	TimelineExploring Timeline = "exploring"
)

func (t Timeline) Valid() bool {
	switch t {
	case TimelineImmediate, TimelineSixMonths, TimelineOneYear, TimelineTwoYears, TimelineExploring:
		return true
	}
	return false
}

// UrgencyLevel qualifies how pressed the client is.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
	UrgencyUrgent UrgencyLevel = "urgent"
)

func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// GoalType labels what the client wants out of a second status.
type GoalType string

const (
	GoalGlobalMobility    GoalType = "global_mobility"
	GoalTaxOptimization   GoalType = "tax_optimization"
	GoalEducation         GoalType = "education"
	GoalLifestyle         GoalType = "lifestyle"
	GoalBusinessExpansion GoalType = "business_expansion"
	GoalFamilySecurity    GoalType = "family_security"
)

func (g GoalType) Valid() bool {
	switch g {
	case GoalGlobalMobility, GoalTaxOptimization, GoalEducation,
		GoalLifestyle, GoalBusinessExpansion, GoalFamilySecurity:
		return true
	}
	return false
}

// FundsReadiness is the client's self-reported preparedness to document
// the legal origin of investment capital.
type FundsReadiness string

const (
	FundsReady    FundsReadiness = "ready"
	FundsOneMonth FundsReadiness = "1_month"
	FundsThreeMo  FundsReadiness = "3_months"
	FundsSixMo    FundsReadiness = "6_months"
	FundsNotReady FundsReadiness = "not_ready"
)

func (f FundsReadiness) Valid() bool {
	switch f {
	case FundsReady, FundsOneMonth, FundsThreeMo, FundsSixMo, FundsNotReady:
		return true
	}
	return false
}

// EmploymentStatus covers the professional profile.
type EmploymentStatus string

const (
	EmploymentEmployed      EmploymentStatus = "employed"
	EmploymentBusinessOwner EmploymentStatus = "business_owner"
	EmploymentSelfEmployed  EmploymentStatus = "self_employed"
	EmploymentRetired       EmploymentStatus = "retired"
	EmploymentUnemployed    EmploymentStatus = "unemployed"
)

func (e EmploymentStatus) Valid() bool {
	switch e {
	case EmploymentEmployed, EmploymentBusinessOwner, EmploymentSelfEmployed,
		EmploymentRetired, EmploymentUnemployed:
		return true
	}
	return false
}

// SanctionsStatus is the screening result for the client.
type SanctionsStatus string

const (
	SanctionsCleared SanctionsStatus = "cleared"
	SanctionsPending SanctionsStatus = "pending"
	SanctionsFlagged SanctionsStatus = "flagged"
)

func (s SanctionsStatus) Valid() bool {
	switch s {
	case SanctionsCleared, SanctionsPending, SanctionsFlagged:
		return true
	}
	return false
}

// ClientProfile is the scoring-relevant view of a client record.
// Optional attributes are pointers or empty slices; a missing value
// contributes zero to every score and never produces an error.
type ClientProfile struct {
	ID                     string            `json:"id"`
	FirstName              string            `json:"firstName"`
	LastName               string            `json:"lastName"`
	Email                  string            `json:"email"`
	GeographicPreferences  []string          `json:"geographicPreferences"`
	BudgetRange            *BudgetRange      `json:"budgetRange,omitempty"`
	DesiredTimeline        *Timeline         `json:"desiredTimeline,omitempty"`
	UrgencyLevel           *UrgencyLevel     `json:"urgencyLevel,omitempty"`
	PrimaryGoals           []GoalType        `json:"primaryGoals"`
	EmploymentStatus       *EmploymentStatus `json:"employmentStatus,omitempty"`
	CurrentProfession      *string           `json:"currentProfession,omitempty"`
	Industry               *string           `json:"industry,omitempty"`
	YearsOfExperience      *int              `json:"yearsOfExperience,omitempty"`
	SourceOfFundsReadiness *FundsReadiness   `json:"sourceOfFundsReadiness,omitempty"`
	SanctionsScreening     SanctionsStatus   `json:"sanctionsScreening"`
	CriminalBackground     bool              `json:"criminalBackground"`
	VisaDenials            bool              `json:"visaDenials"`
	IsPEP                  bool              `json:"isPep"`
}
