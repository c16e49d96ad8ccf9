// internal/matching/tables.go
package matching

import (
	"strings"

	"github.com/shopspring/decimal"

	"crbi-workers/internal/models"
)

// The maps below are business configuration, not derived data. The advisory
// team owns the region assignments and goal compatibility rules; changing
// them changes which programs surface, so they stay as explicit literals.

// regionCountries maps a client-facing region label to the catalog countries
// it covers. Lookup is case-insensitive on both sides.
var regionCountries = map[string][]string{
	"Caribbean":   {"St. Kitts and Nevis", "Dominica", "Grenada", "Antigua and Barbuda", "St. Lucia"},
	"Europe":      {"Portugal", "Spain", "Greece", "Malta", "Cyprus", "Austria", "Italy", "Latvia", "Hungary"},
	"Pacific":     {"Vanuatu", "Nauru"},
	"Americas":    {"United States", "Canada", "Panama", "Paraguay", "Mexico"},
	"Asia":        {"Singapore", "Thailand", "Malaysia"},
	"Middle East": {"Turkey", "United Arab Emirates", "Jordan", "Egypt"},
}

// goalProgramTypes maps a client goal to the program types that serve it.
var goalProgramTypes = map[models.GoalType][]models.ProgramType{
	models.GoalGlobalMobility:    {models.ProgramCitizenship, models.ProgramResidency},
	models.GoalTaxOptimization:   {models.ProgramCitizenship, models.ProgramResidency},
	models.GoalEducation:         {models.ProgramResidency},
	models.GoalLifestyle:         {models.ProgramResidency, models.ProgramCitizenship},
	models.GoalBusinessExpansion: {models.ProgramResidency},
	models.GoalFamilySecurity:    {models.ProgramCitizenship, models.ProgramResidency},
}

// budgetBand is a numeric [Min, Max] range for one BudgetRange value.
// Unbounded marks the open-ended top band.
type budgetBand struct {
	Min       decimal.Decimal
	Max       decimal.Decimal
	Unbounded bool
}

var budgetBands = map[models.BudgetRange]budgetBand{
	models.BudgetUnder500K: {Min: decimal.Zero, Max: decimal.NewFromInt(500_000)},
	models.Budget500K1M:    {Min: decimal.NewFromInt(500_000), Max: decimal.NewFromInt(1_000_000)},
	models.Budget1M2M:      {Min: decimal.NewFromInt(1_000_000), Max: decimal.NewFromInt(2_000_000)},
	models.Budget2MPlus:    {Min: decimal.NewFromInt(2_000_000), Max: decimal.Decimal{}, Unbounded: true},
}

// timelineMonths maps the desired timeline to an expected month count.
// A missing timeline falls back to 24 months.
var timelineMonths = map[models.Timeline]int{
	models.TimelineImmediate: 6,
	models.TimelineSixMonths: 6,
	models.TimelineOneYear:   12,
	models.TimelineTwoYears:  24,
	models.TimelineExploring: 36,
}

const defaultExpectedMonths = 24

// regionCoversCountry reports whether the given region label includes the
// program country.
func regionCoversCountry(region, country string) bool {
	for label, countries := range regionCountries {
		if !strings.EqualFold(label, region) {
			continue
		}
		for _, c := range countries {
			if strings.EqualFold(c, country) {
				return true
			}
		}
	}
	return false
}
