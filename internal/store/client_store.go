// internal/store/client_store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/matching"
	"crbi-workers/internal/models"
)

// ClientStore reads client profiles from postgres with a redis cache in
// front. Cache misses and cache errors both fall through to the database;
// the cache is an optimization, never a source of truth.
type ClientStore struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewClientStore(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, log logger.Logger) *ClientStore {
	return &ClientStore{
		db:       db,
		redis:    rdb,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"store": "client"}),
	}
}

func clientCacheKey(clientID string) string {
	return "client:profile:" + clientID
}

func (s *ClientStore) GetClientProfile(ctx context.Context, clientID string) (*models.ClientProfile, error) {
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, clientCacheKey(clientID)).Result(); err == nil {
			var profile models.ClientProfile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	profile, err := s.queryProfile(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(profile); err == nil {
			if err := s.redis.Set(ctx, clientCacheKey(clientID), data, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("profile cache write failed", map[string]interface{}{
					"clientId": clientID,
					"error":    err,
				})
			}
		}
	}

	return profile, nil
}

func (s *ClientStore) queryProfile(ctx context.Context, clientID string) (*models.ClientProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email,
		       geographic_preferences, budget_range, desired_timeline,
		       urgency_level, primary_goals, employment_status,
		       current_profession, industry, years_of_experience,
		       source_of_funds_readiness, sanctions_screening,
		       criminal_background, visa_denials, is_pep
		FROM clients WHERE id = $1`, clientID)

	var (
		profile        models.ClientProfile
		geoPrefs       []byte
		goals          []byte
		budgetRange    sql.NullString
		timeline       sql.NullString
		urgency        sql.NullString
		employment     sql.NullString
		profession     sql.NullString
		industry       sql.NullString
		years          sql.NullInt64
		fundsReadiness sql.NullString
		sanctions      sql.NullString
	)

	err := row.Scan(
		&profile.ID, &profile.FirstName, &profile.LastName, &profile.Email,
		&geoPrefs, &budgetRange, &timeline,
		&urgency, &goals, &employment,
		&profession, &industry, &years,
		&fundsReadiness, &sanctions,
		&profile.CriminalBackground, &profile.VisaDenials, &profile.IsPEP,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, matching.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query client %s: %w", clientID, err)
	}

	if err := json.Unmarshal(geoPrefs, &profile.GeographicPreferences); err != nil {
		profile.GeographicPreferences = []string{}
	}
	var rawGoals []string
	if err := json.Unmarshal(goals, &rawGoals); err == nil {
		for _, g := range rawGoals {
			goal := models.GoalType(g)
			if goal.Valid() {
				profile.PrimaryGoals = append(profile.PrimaryGoals, goal)
			} else {
				s.warnDroppedEnum(clientID, "primary_goals", g)
			}
		}
	}

	// Malformed enum values in optional columns are dropped rather than
	// carried forward; absent values score zero downstream either way.
	if budgetRange.Valid {
		if v := models.BudgetRange(budgetRange.String); v.Valid() {
			profile.BudgetRange = &v
		} else {
			s.warnDroppedEnum(clientID, "budget_range", budgetRange.String)
		}
	}
	if timeline.Valid {
		if v := models.Timeline(timeline.String); v.Valid() {
			profile.DesiredTimeline = &v
		} else {
			s.warnDroppedEnum(clientID, "desired_timeline", timeline.String)
		}
	}
	if urgency.Valid {
		if v := models.UrgencyLevel(urgency.String); v.Valid() {
			profile.UrgencyLevel = &v
		} else {
			s.warnDroppedEnum(clientID, "urgency_level", urgency.String)
		}
	}
	if employment.Valid {
		if v := models.EmploymentStatus(employment.String); v.Valid() {
			profile.EmploymentStatus = &v
		} else {
			s.warnDroppedEnum(clientID, "employment_status", employment.String)
		}
	}
	if profession.Valid && profession.String != "" {
		v := profession.String
		profile.CurrentProfession = &v
	}
	if industry.Valid && industry.String != "" {
		v := industry.String
		profile.Industry = &v
	}
	if years.Valid {
		v := int(years.Int64)
		profile.YearsOfExperience = &v
	}
	if fundsReadiness.Valid {
		if v := models.FundsReadiness(fundsReadiness.String); v.Valid() {
			profile.SourceOfFundsReadiness = &v
		} else {
			s.warnDroppedEnum(clientID, "source_of_funds_readiness", fundsReadiness.String)
		}
	}
	if sanctions.Valid {
		if v := models.SanctionsStatus(sanctions.String); v.Valid() {
			profile.SanctionsScreening = v
		} else {
			s.warnDroppedEnum(clientID, "sanctions_screening", sanctions.String)
		}
	}

	return &profile, nil
}

func (s *ClientStore) warnDroppedEnum(clientID, column, value string) {
	s.logger.Warn("dropped malformed enum value", map[string]interface{}{
		"clientId": clientID,
		"column":   column,
		"value":    value,
	})
}

// InvalidateProfile drops the cached profile after an intake update.
func (s *ClientStore) InvalidateProfile(ctx context.Context, clientID string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, clientCacheKey(clientID)).Err()
}
