// internal/matching/service.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/models"
)

// ErrClientNotFound is the only caller-distinguishable failure: the
// referenced client does not exist. Everything else surfaces opaquely.
var ErrClientNotFound = errors.New("client not found")

const topMatches = 5

// ClientStore resolves a client id to its scoring profile.
type ClientStore interface {
	GetClientProfile(ctx context.Context, clientID string) (*models.ClientProfile, error)
}

// ProgramStore reads the active program catalog.
type ProgramStore interface {
	ListActivePrograms(ctx context.Context) ([]models.Program, error)
}

// InvestmentOptionStore reads active options for one program, ordered by
// sort key.
type InvestmentOptionStore interface {
	ListActiveOptions(ctx context.Context, programID string) ([]models.InvestmentOption, error)
}

// Service is the program match scorer. It is a stateless read-only
// transform over the three stores; every invocation with identical inputs
// yields identical output.
type Service struct {
	clients  ClientStore
	programs ProgramStore
	options  InvestmentOptionStore
	logger   logger.Logger
}

func NewService(clients ClientStore, programs ProgramStore, options InvestmentOptionStore, log logger.Logger) *Service {
	return &Service{
		clients:  clients,
		programs: programs,
		options:  options,
		logger:   log.WithFields(map[string]interface{}{"component": "matching"}),
	}
}

// MatchProgramsForClient scores the client against every active program,
// drops weak matches, and returns the ranked qualification.
func (s *Service) MatchProgramsForClient(ctx context.Context, clientID string) (*models.ClientQualification, error) {
	profile, err := s.clients.GetClientProfile(ctx, clientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
		}
		return nil, fmt.Errorf("load client profile: %w", err)
	}

	programs, err := s.programs.ListActivePrograms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load program catalog: %w", err)
	}

	matches := make([]models.ProgramMatch, 0, len(programs))
	for i := range programs {
		program := &programs[i]

		breakdown, score := ScoreProgram(profile, program)
		if score <= minIncludeScore {
			continue
		}

		reasons, considerations := buildNarrative(profile, program, breakdown)
		matches = append(matches, models.ProgramMatch{
			Program:           program.Summary(),
			MatchScore:        score,
			MatchBreakdown:    breakdown,
			MatchReasons:      reasons,
			Considerations:    considerations,
			Requirements:      buildRequirements(program),
			EstimatedTimeline: EstimateTimeline(program, profile.SourceOfFundsReadiness),
			EligibilityStatus: ClassifyEligibility(score),
		})
	}

	// Rank by score descending. Ties break on country then program name so
	// results do not depend on catalog iteration order.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		if matches[i].Program.CountryName != matches[j].Program.CountryName {
			return matches[i].Program.CountryName < matches[j].Program.CountryName
		}
		return matches[i].Program.ProgramName < matches[j].Program.ProgramName
	})

	if len(matches) > topMatches {
		matches = matches[:topMatches]
	}

	for i := range matches {
		options, err := s.options.ListActiveOptions(ctx, matches[i].Program.ID)
		if err != nil {
			return nil, fmt.Errorf("load investment options for %s: %w", matches[i].Program.ID, err)
		}
		matches[i].InvestmentOptions = options
	}

	qualification := &models.ClientQualification{
		ClientID:        clientID,
		OverallScore:    OverallScore(profile),
		ProgramMatches:  matches,
		Recommendations: buildRecommendations(profile, matches),
		NextSteps:       buildNextSteps(profile, matches),
		RiskFactors:     buildRiskFactors(profile),
	}

	s.logger.Info("qualification computed", map[string]interface{}{
		"clientId":     clientID,
		"overallScore": qualification.OverallScore,
		"matches":      len(matches),
	})

	return qualification, nil
}
