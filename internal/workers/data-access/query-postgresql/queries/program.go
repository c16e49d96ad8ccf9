// internal/workers/data-access/query-postgresql/queries/program.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

func ActivePrograms(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	query := `
		SELECT id, country_name, country_code, program_name, program_type,
		       min_investment, processing_time_months, program_details
		FROM programs
		WHERE is_active = true`
	args := []interface{}{}

	// Optional filter on program type.
	if filters, ok := params["filters"].(map[string]interface{}); ok {
		if programType, ok := filters["programType"].(string); ok && programType != "" {
			query += ` AND program_type = $1`
			args = append(args, programType)
		}
	}
	query += ` ORDER BY country_name, program_name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var (
			id, countryName, countryCode string
			programName, programType     string
			minInvestment                string
			processingMonths             int
			details                      []byte
		)
		if err := rows.Scan(&id, &countryName, &countryCode, &programName,
			&programType, &minInvestment, &processingMonths, &details); err != nil {
			return nil, 0, 0, err
		}

		var detailMap map[string]interface{}
		_ = json.Unmarshal(details, &detailMap)

		results = append(results, map[string]interface{}{
			"id":                   id,
			"countryName":          countryName,
			"countryCode":          countryCode,
			"programName":          programName,
			"programType":          programType,
			"minInvestment":        minInvestment,
			"processingTimeMonths": processingMonths,
			"programDetails":       detailMap,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return results, len(results), time.Since(start).Milliseconds(), nil
}

func InvestmentOptions(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	programID, ok := params["programId"].(string)
	if !ok || programID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, program_id, option_name, option_type, base_amount,
		       description, sort_order
		FROM investment_options
		WHERE program_id = $1 AND is_active = true
		ORDER BY sort_order`, programID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var (
			id, progID, optionName, optionType string
			baseAmount                         string
			description                        sql.NullString
			sortOrder                          int
		)
		if err := rows.Scan(&id, &progID, &optionName, &optionType,
			&baseAmount, &description, &sortOrder); err != nil {
			return nil, 0, 0, err
		}

		results = append(results, map[string]interface{}{
			"id":          id,
			"programId":   progID,
			"optionName":  optionName,
			"optionType":  optionType,
			"baseAmount":  baseAmount,
			"description": nullString(description),
			"sortOrder":   sortOrder,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return results, len(results), time.Since(start).Milliseconds(), nil
}
