// internal/models/program.go
package models

import "github.com/shopspring/decimal"

// ProgramType distinguishes citizenship grants from residency permits.
type ProgramType string

const (
	ProgramCitizenship ProgramType = "citizenship"
	ProgramResidency   ProgramType = "residency"
)

func (p ProgramType) Valid() bool {
	return p == ProgramCitizenship || p == ProgramResidency
}

// Program is one row of the CRBI program catalog.
type Program struct {
	ID                   string                 `json:"id"`
	CountryName          string                 `json:"countryName"`
	CountryCode          string                 `json:"countryCode"`
	ProgramName          string                 `json:"programName"`
	ProgramType          ProgramType            `json:"programType"`
	MinInvestment        decimal.Decimal        `json:"minInvestment"`
	ProcessingTimeMonths int                    `json:"processingTimeMonths"`
	ProgramDetails       map[string]interface{} `json:"programDetails,omitempty"`
	IsActive             bool                   `json:"isActive"`
}

// ProgramSummary is the projection of a Program embedded in match results.
type ProgramSummary struct {
	ID                   string          `json:"id"`
	CountryName          string          `json:"countryName"`
	ProgramName          string          `json:"programName"`
	ProgramType          ProgramType     `json:"programType"`
	MinInvestment        decimal.Decimal `json:"minInvestment"`
	ProcessingTimeMonths int             `json:"processingTimeMonths"`
}

// Summary trims a Program to the fields returned to callers.
func (p Program) Summary() ProgramSummary {
	return ProgramSummary{
		ID:                   p.ID,
		CountryName:          p.CountryName,
		ProgramName:          p.ProgramName,
		ProgramType:          p.ProgramType,
		MinInvestment:        p.MinInvestment,
		ProcessingTimeMonths: p.ProcessingTimeMonths,
	}
}

// InvestmentOption is a qualifying investment route under one program,
// e.g. a donation track versus a real-estate track.
type InvestmentOption struct {
	ID          string          `json:"id"`
	ProgramID   string          `json:"programId"`
	OptionName  string          `json:"optionName"`
	OptionType  string          `json:"optionType"`
	BaseAmount  decimal.Decimal `json:"baseAmount"`
	Description string          `json:"description,omitempty"`
	SortOrder   int             `json:"sortOrder"`
	IsActive    bool            `json:"isActive"`
}
