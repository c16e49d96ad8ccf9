// internal/workers/data-access/query-postgresql/queries/client.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

func ClientProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	clientID, ok := params["clientId"].(string)
	if !ok || clientID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var (
		id, firstName, lastName, email string
		geoPrefs, goals                []byte
		budgetRange, timeline          sql.NullString
		urgency, employment            sql.NullString
		profession, industry           sql.NullString
		years                          sql.NullInt64
		fundsReadiness, sanctions      sql.NullString
		criminal, visaDenials, isPep   bool
	)

	err := db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email,
		       geographic_preferences, budget_range, desired_timeline,
		       urgency_level, primary_goals, employment_status,
		       current_profession, industry, years_of_experience,
		       source_of_funds_readiness, sanctions_screening,
		       criminal_background, visa_denials, is_pep
		FROM clients WHERE id = $1`, clientID).Scan(
		&id, &firstName, &lastName, &email,
		&geoPrefs, &budgetRange, &timeline,
		&urgency, &goals, &employment,
		&profession, &industry, &years,
		&fundsReadiness, &sanctions,
		&criminal, &visaDenials, &isPep,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	var prefs, goalList []string
	_ = json.Unmarshal(geoPrefs, &prefs)
	_ = json.Unmarshal(goals, &goalList)

	result := map[string]interface{}{
		"id":                     id,
		"firstName":              firstName,
		"lastName":               lastName,
		"email":                  email,
		"geographicPreferences":  prefs,
		"budgetRange":            nullString(budgetRange),
		"desiredTimeline":        nullString(timeline),
		"urgencyLevel":           nullString(urgency),
		"primaryGoals":           goalList,
		"employmentStatus":       nullString(employment),
		"currentProfession":      nullString(profession),
		"industry":               nullString(industry),
		"yearsOfExperience":      nullInt(years),
		"sourceOfFundsReadiness": nullString(fundsReadiness),
		"sanctionsScreening":     nullString(sanctions),
		"criminalBackground":     criminal,
		"visaDenials":            visaDenials,
		"isPep":                  isPep,
	}

	return result, 1, time.Since(start).Milliseconds(), nil
}

func ClientDocuments(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	clientID, ok := params["clientId"].(string)
	if !ok || clientID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, status, courier, tracking_number, document_types, notes,
		       created_at, updated_at
		FROM document_shipments
		WHERE client_id = $1
		ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var (
			id, status           string
			courier, tracking    sql.NullString
			docTypes             []byte
			notes                sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(&id, &status, &courier, &tracking, &docTypes,
			&notes, &createdAt, &updatedAt); err != nil {
			return nil, 0, 0, err
		}

		var types []string
		_ = json.Unmarshal(docTypes, &types)

		results = append(results, map[string]interface{}{
			"id":             id,
			"status":         status,
			"courier":        nullString(courier),
			"trackingNumber": nullString(tracking),
			"documentTypes":  types,
			"notes":          nullString(notes),
			"createdAt":      createdAt,
			"updatedAt":      updatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return results, len(results), time.Since(start).Milliseconds(), nil
}

func nullString(s sql.NullString) interface{} {
	if s.Valid {
		return s.String
	}
	return nil
}

func nullInt(n sql.NullInt64) interface{} {
	if n.Valid {
		return n.Int64
	}
	return nil
}
