// internal/matching/narrative.go
package matching

import (
	"fmt"

	"crbi-workers/internal/models"
)

// buildNarrative turns a factor breakdown into the advisor-facing reasons
// and considerations. A factor lands in reasons when it scores strong,
// in considerations when it contributes weakly, and is silent at zero.
func buildNarrative(profile *models.ClientProfile, program *models.Program, b models.MatchBreakdown) (reasons, considerations []string) {
	if b.Geography == maxGeographyScore {
		reasons = append(reasons, fmt.Sprintf("%s matches your geographic preferences", program.CountryName))
	} else if len(profile.GeographicPreferences) > 0 {
		considerations = append(considerations, fmt.Sprintf("%s is outside your preferred regions", program.CountryName))
	}

	if b.Budget > 15 {
		reasons = append(reasons, "Investment requirement fits your budget range")
	} else if b.Budget > 0 {
		considerations = append(considerations, "Investment requirement is outside your stated budget range")
	}

	if b.Timeline == maxTimelineScore {
		reasons = append(reasons, fmt.Sprintf("Processing time of %d months fits your timeline", program.ProcessingTimeMonths))
	} else if b.Timeline > 0 {
		considerations = append(considerations, fmt.Sprintf("Processing time of %d months is longer than your preferred timeline", program.ProcessingTimeMonths))
	}

	if b.Goals >= 10 {
		reasons = append(reasons, fmt.Sprintf("A %s program aligns with your primary goals", program.ProgramType))
	} else if b.Goals > 0 {
		considerations = append(considerations, fmt.Sprintf("A %s program only partially covers your stated goals", program.ProgramType))
	}

	if b.Funds == maxFundsScore {
		reasons = append(reasons, "Source of funds documentation is ready to proceed")
	} else if profile.SourceOfFundsReadiness != nil {
		considerations = append(considerations, "Source of funds documentation needs preparation before filing")
	}

	return reasons, considerations
}

// buildRequirements lists what the client must produce for this program.
// Presentation strings only; nothing branches on them downstream.
func buildRequirements(program *models.Program) []string {
	requirements := []string{
		fmt.Sprintf("Minimum investment of $%s", program.MinInvestment.StringFixed(0)),
		"Clean criminal background check",
		"Valid passport for all applicants",
		"Source of funds documentation",
	}
	if program.ProgramType == models.ProgramResidency {
		requirements = append(requirements, "Proof of accommodation or address in the destination country")
	}
	return requirements
}

// buildRecommendations derives profile-level advice shown once per
// qualification, not per program.
func buildRecommendations(profile *models.ClientProfile, matches []models.ProgramMatch) []string {
	var recs []string

	if profile.SourceOfFundsReadiness == nil || *profile.SourceOfFundsReadiness == models.FundsNotReady {
		recs = append(recs, "Begin compiling source of funds documentation; it is the longest-lead item in any application")
	}
	if profile.BudgetRange == nil {
		recs = append(recs, "Confirm your investment budget to unlock more precise program matching")
	}
	if len(profile.GeographicPreferences) == 0 {
		recs = append(recs, "Share your preferred regions so matching can prioritize destinations")
	}
	if len(matches) > 0 && matches[0].EligibilityStatus == models.EligibilityQualified {
		recs = append(recs, fmt.Sprintf("You are a strong candidate for the %s %s program", matches[0].Program.CountryName, matches[0].Program.ProgramName))
	}
	if len(recs) == 0 {
		recs = append(recs, "Review the matched programs with your advisor to select a primary and a backup option")
	}

	return recs
}

func buildNextSteps(profile *models.ClientProfile, matches []models.ProgramMatch) []string {
	steps := []string{
		"Schedule a consultation to review your program matches",
	}
	if profile.SanctionsScreening != models.SanctionsCleared {
		steps = append(steps, "Complete sanctions screening before any government filing")
	}
	if len(matches) > 0 {
		steps = append(steps, "Select an investment option for your preferred program")
	}
	steps = append(steps, "Gather identity and civil status documents for the family members included")
	return steps
}

func buildRiskFactors(profile *models.ClientProfile) []string {
	var risks []string
	if profile.CriminalBackground {
		risks = append(risks, "Criminal background reported; most programs will refuse or require legal review")
	}
	if profile.VisaDenials {
		risks = append(risks, "Prior visa denials must be disclosed and may extend due diligence")
	}
	if profile.IsPEP {
		risks = append(risks, "Politically exposed person status triggers enhanced due diligence")
	}
	if profile.SanctionsScreening == models.SanctionsFlagged {
		risks = append(risks, "Sanctions screening flag must be resolved before proceeding")
	}
	return risks
}
