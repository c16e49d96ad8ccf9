// internal/matching/service_test.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/models"
)

type fakeClientStore struct {
	profile *models.ClientProfile
	err     error
}

func (f *fakeClientStore) GetClientProfile(ctx context.Context, clientID string) (*models.ClientProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeProgramStore struct {
	programs []models.Program
	err      error
}

func (f *fakeProgramStore) ListActivePrograms(ctx context.Context) ([]models.Program, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.programs, nil
}

type fakeOptionStore struct {
	options map[string][]models.InvestmentOption
}

func (f *fakeOptionStore) ListActiveOptions(ctx context.Context, programID string) ([]models.InvestmentOption, error) {
	return f.options[programID], nil
}

func newTestService(t *testing.T, clients *fakeClientStore, programs *fakeProgramStore, options *fakeOptionStore) *Service {
	if options == nil {
		options = &fakeOptionStore{}
	}
	return NewService(clients, programs, options, logger.NewTestLogger(t))
}

func caribbeanProgram(id, country, name string, minInvestment int64, months int) models.Program {
	return models.Program{
		ID:                   id,
		CountryName:          country,
		CountryCode:          "XX",
		ProgramName:          name,
		ProgramType:          models.ProgramCitizenship,
		MinInvestment:        decimal.NewFromInt(minInvestment),
		ProcessingTimeMonths: months,
		IsActive:             true,
	}
}

func TestMatchProgramsForClient_ClientNotFound(t *testing.T) {
	clients := &fakeClientStore{err: fmt.Errorf("%w: client-404", ErrClientNotFound)}
	service := newTestService(t, clients, &fakeProgramStore{}, nil)

	qualification, err := service.MatchProgramsForClient(context.Background(), "client-404")

	assert.Nil(t, qualification)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestMatchProgramsForClient_CatalogError(t *testing.T) {
	clients := &fakeClientStore{profile: completeProfile()}
	programs := &fakeProgramStore{err: errors.New("pq: connection refused")}
	service := newTestService(t, clients, programs, nil)

	qualification, err := service.MatchProgramsForClient(context.Background(), "client-1")

	assert.Nil(t, qualification)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrClientNotFound)
}

func TestMatchProgramsForClient_SortedDescending(t *testing.T) {
	clients := &fakeClientStore{profile: completeProfile()}
	programs := &fakeProgramStore{programs: []models.Program{
		// Slow program scores lower on timeline than the fast one.
		caribbeanProgram("prog-slow", "Grenada", "Citizenship by Investment", 250_000, 18),
		caribbeanProgram("prog-fast", "Dominica", "Citizenship by Investment", 250_000, 6),
	}}
	service := newTestService(t, clients, programs, nil)

	qualification, err := service.MatchProgramsForClient(context.Background(), "client-1")
	require.NoError(t, err)

	require.Len(t, qualification.ProgramMatches, 2)
	assert.Equal(t, "prog-fast", qualification.ProgramMatches[0].Program.ID)
	assert.Greater(t, qualification.ProgramMatches[0].MatchScore, qualification.ProgramMatches[1].MatchScore)
}

func TestMatchProgramsForClient_TieBreakOnCountryThenName(t *testing.T) {
	clients := &fakeClientStore{profile: completeProfile()}
	programs := &fakeProgramStore{programs: []models.Program{
		caribbeanProgram("prog-b", "Grenada", "Citizenship by Investment", 250_000, 6),
		caribbeanProgram("prog-a", "Dominica", "Citizenship by Investment", 250_000, 6),
		caribbeanProgram("prog-c", "Dominica", "Economic Citizenship", 250_000, 6),
	}}
	service := newTestService(t, clients, programs, nil)

	qualification, err := service.MatchProgramsForClient(context.Background(), "client-1")
	require.NoError(t, err)

	require.Len(t, qualification.ProgramMatches, 3)
	assert.Equal(t, "prog-a", qualification.ProgramMatches[0].Program.ID)
	assert.Equal(t, "prog-c", qualification.ProgramMatches[1].Program.ID)
	assert.Equal(t, "prog-b", qualification.ProgramMatches[2].Program.ID)
}

func TestMatchProgramsForClient_TopFiveCap(t *testing.T) {
	clients := &fakeClientStore{profile: completeProfile()}

	var catalog []models.Program
	for i := 0; i < 8; i++ {
		catalog = append(catalog, caribbeanProgram(
			fmt.Sprintf("prog-%d", i), "Dominica",
			fmt.Sprintf("Program %d", i), 250_000, 6,
		))
	}
	service := newTestService(t, clients, &fakeProgramStore{programs: catalog}, nil)

	qualification, err := service.MatchProgramsForClient(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Len(t, qualification.ProgramMatches, 5)
}

func TestMatchProgramsForClient_WeakMatchesDropped(t *testing.T) {
	// Geography is the only scoring factor this profile carries, so a
	// preferred-region program scores 25 and everything else at most 20.
	profile := &models.ClientProfile{
		ID:                    "client-1",
		GeographicPreferences: []string{"Caribbean"},
	}
	clients := &fakeClientStore{profile: profile}
	programs := &fakeProgramStore{programs: []models.Program{
		caribbeanProgram("prog-match", "Dominica", "Citizenship by Investment", 250_000, 6),
		{
			ID: "prog-weak", CountryName: "Portugal", ProgramName: "Golden Visa",
			ProgramType:   models.ProgramResidency,
			MinInvestment: decimal.NewFromInt(500_000), ProcessingTimeMonths: 12,
			IsActive: true,
		},
	}}
	service := newTestService(t, clients, programs, nil)

	qualification, err := service.MatchProgramsForClient(context.Background(), "client-1")
	require.NoError(t, err)

	require.Len(t, qualification.ProgramMatches, 1)
	assert.Equal(t, "prog-match", qualification.ProgramMatches[0].Program.ID)
}

func TestMatchProgramsForClient_EmptyCatalog(t *testing.T) {
	clients := &fakeClientStore{profile: completeProfile()}
	service := newTestService(t, clients, &fakeProgramStore{}, nil)

	qualification, err := service.MatchProgramsForClient(context.Background(), "client-1")
	require.NoError(t, err)

	assert.Empty(t, qualification.ProgramMatches)
	assert.Equal(t, 100, qualification.OverallScore, "overall score is program independent")
}

func TestMatchProgramsForClient_AttachesInvestmentOptions(t *testing.T) {
	clients := &fakeClientStore{profile: completeProfile()}
	programs := &fakeProgramStore{programs: []models.Program{
		caribbeanProgram("prog-kn", "St. Kitts and Nevis", "Citizenship by Investment", 250_000, 6),
	}}
	options := &fakeOptionStore{options: map[string][]models.InvestmentOption{
		"prog-kn": {
			{ID: "opt-1", ProgramID: "prog-kn", OptionName: "SISC Contribution"},
			{ID: "opt-2", ProgramID: "prog-kn", OptionName: "Real Estate"},
		},
	}}
	service := newTestService(t, clients, programs, options)

	qualification, err := service.MatchProgramsForClient(context.Background(), "client-1")
	require.NoError(t, err)

	require.Len(t, qualification.ProgramMatches, 1)
	opts := qualification.ProgramMatches[0].InvestmentOptions
	require.Len(t, opts, 2)
	assert.Equal(t, "SISC Contribution", opts[0].OptionName)
}

func TestMatchProgramsForClient_Idempotent(t *testing.T) {
	clients := &fakeClientStore{profile: completeProfile()}
	programs := &fakeProgramStore{programs: []models.Program{
		caribbeanProgram("prog-kn", "St. Kitts and Nevis", "Citizenship by Investment", 250_000, 6),
		caribbeanProgram("prog-dm", "Dominica", "Citizenship by Investment", 200_000, 9),
	}}
	service := newTestService(t, clients, programs, nil)

	first, err := service.MatchProgramsForClient(context.Background(), "client-1")
	require.NoError(t, err)
	second, err := service.MatchProgramsForClient(context.Background(), "client-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
