// internal/workers/matching/match-programs/handler_test.go
package matchprograms

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	crbierrors "crbi-workers/internal/common/errors"
	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/matching"
	"crbi-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  5 * time.Second,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func profileColumns() []string {
	return []string{
		"id", "first_name", "last_name", "email",
		"geographic_preferences", "budget_range", "desired_timeline",
		"urgency_level", "primary_goals", "employment_status",
		"current_profession", "industry", "years_of_experience",
		"source_of_funds_readiness", "sanctions_screening",
		"criminal_background", "visa_denials", "is_pep",
	}
}

func programColumns() []string {
	return []string{
		"id", "country_name", "country_code", "program_name", "program_type",
		"min_investment", "processing_time_months", "program_details",
	}
}

func optionColumns() []string {
	return []string{
		"id", "program_id", "option_name", "option_type", "base_amount",
		"description", "sort_order",
	}
}

func completeProfileRow() *sqlmock.Rows {
	geoPrefs, _ := json.Marshal([]string{"Caribbean"})
	goals, _ := json.Marshal([]string{"global_mobility"})
	return sqlmock.NewRows(profileColumns()).AddRow(
		"client-1", "Maria", "Santos", "maria@example.com",
		geoPrefs, "500k_1m", "1_year",
		"high", goals, "employed",
		"Engineer", "Technology", 10,
		"ready", "cleared",
		false, false, false,
	)
}

func TestHandler_Execute_ClientNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, first_name").
		WithArgs("missing-client").
		WillReturnError(sql.ErrNoRows)

	handler := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ClientID: "missing-client"})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, matching.ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_QualifiedMatch(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, first_name").
		WithArgs("client-1").
		WillReturnRows(completeProfileRow())

	mock.ExpectQuery("SELECT id, country_name").
		WillReturnRows(sqlmock.NewRows(programColumns()).AddRow(
			"prog-kn", "St. Kitts and Nevis", "KN", "Citizenship by Investment",
			"citizenship", "250000", 6, []byte(`{}`),
		))

	mock.ExpectQuery("SELECT id, program_id").
		WithArgs("prog-kn").
		WillReturnRows(sqlmock.NewRows(optionColumns()).AddRow(
			"opt-1", "prog-kn", "SISC Contribution", "donation", "250000",
			"Single applicant contribution", 1,
		))

	handler := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ClientID: "client-1"})

	require.NoError(t, err)
	require.NotNil(t, output)
	require.Len(t, output.Qualification.ProgramMatches, 1)
	assert.Equal(t, 1, output.MatchCount)

	match := output.Qualification.ProgramMatches[0]
	// 25 geography + 15 budget (below stretched floor) + 20 timeline +
	// 15 goals + 10 professional + 5 funds = 90
	assert.Equal(t, 90, match.MatchScore)
	assert.Equal(t, models.EligibilityQualified, match.EligibilityStatus)
	assert.Equal(t, 25, match.MatchBreakdown.Geography)
	assert.Equal(t, 15, match.MatchBreakdown.Budget)
	assert.Equal(t, 20, match.MatchBreakdown.Timeline)
	assert.Equal(t, 15, match.MatchBreakdown.Goals)
	assert.Equal(t, 10, match.MatchBreakdown.Professional)
	assert.Equal(t, 5, match.MatchBreakdown.Funds)
	assert.Equal(t, "5 months (estimated)", match.EstimatedTimeline)
	require.Len(t, match.InvestmentOptions, 1)
	assert.Equal(t, "SISC Contribution", match.InvestmentOptions[0].OptionName)

	// Fully populated, funds-ready, compliant profile maxes out.
	assert.Equal(t, 100, output.OverallScore)
	assert.Equal(t, 100, output.Qualification.OverallScore)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NoMatchesAboveCutoff(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	geoPrefs, _ := json.Marshal([]string{"Europe"})
	goals, _ := json.Marshal([]string{"education"})
	mock.ExpectQuery("SELECT id, first_name").
		WithArgs("client-2").
		WillReturnRows(sqlmock.NewRows(profileColumns()).AddRow(
			"client-2", "Lee", "Chen", "lee@example.com",
			geoPrefs, "under_500k", "immediate",
			nil, goals, nil,
			nil, nil, nil,
			nil, "pending",
			false, false, false,
		))

	// Citizenship program in the wrong region, far over budget, slow.
	// education only maps to residency, so goals score zero too.
	mock.ExpectQuery("SELECT id, country_name").
		WillReturnRows(sqlmock.NewRows(programColumns()).AddRow(
			"prog-x", "Vanuatu", "VU", "Development Support Program",
			"citizenship", "5000000", 36, []byte(`{}`),
		))

	handler := NewHandler(createTestConfig(), db, setupTestRedis(t), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ClientID: "client-2"})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, 0, output.MatchCount)
	assert.Empty(t, output.Qualification.ProgramMatches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ProfileServedFromCache(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	readiness := models.FundsReady
	budget := models.Budget500K1M
	cached, _ := json.Marshal(&models.ClientProfile{
		ID:                     "client-3",
		GeographicPreferences:  []string{"Caribbean"},
		BudgetRange:            &budget,
		PrimaryGoals:           []models.GoalType{models.GoalGlobalMobility},
		SourceOfFundsReadiness: &readiness,
	})
	require.NoError(t, mr.Set("client:profile:client-3", string(cached)))

	// No profile query expected; only catalog and options.
	mock.ExpectQuery("SELECT id, country_name").
		WillReturnRows(sqlmock.NewRows(programColumns()).AddRow(
			"prog-kn", "St. Kitts and Nevis", "KN", "Citizenship by Investment",
			"citizenship", "250000", 6, []byte(`{}`),
		))
	mock.ExpectQuery("SELECT id, program_id").
		WithArgs("prog-kn").
		WillReturnRows(sqlmock.NewRows(optionColumns()))

	handler := NewHandler(createTestConfig(), db, rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ClientID: "client-3"})

	require.NoError(t, err)
	assert.Equal(t, 1, output.MatchCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_ConvertToStandardError(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, logger.NewTestLogger(t))

	notFound := handler.convertToStandardError(
		fmt.Errorf("load profile: %w", matching.ErrClientNotFound), "client-1")
	assert.Equal(t, crbierrors.ErrCodeClientNotFound, notFound.Code)
	assert.False(t, notFound.Retryable)
	assert.Contains(t, notFound.Details, "client-1")

	opaque := handler.convertToStandardError(errors.New("scoring blew up"), "client-1")
	assert.Equal(t, crbierrors.ErrCodeQualificationFailed, opaque.Code)
	assert.False(t, opaque.Retryable)
}
