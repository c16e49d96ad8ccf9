// internal/store/program_store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/models"
)

// ProgramStore reads the program catalog and investment options. Catalog
// reads are ordered by country and program name so iteration order is
// stable between calls.
type ProgramStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewProgramStore(db *sql.DB, log logger.Logger) *ProgramStore {
	return &ProgramStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "program"}),
	}
}

func (s *ProgramStore) ListActivePrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, country_name, country_code, program_name, program_type,
		       min_investment, processing_time_months, program_details
		FROM programs
		WHERE is_active = true
		ORDER BY country_name, program_name`)
	if err != nil {
		return nil, fmt.Errorf("query active programs: %w", err)
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		var (
			p             models.Program
			minInvestment string
			details       []byte
		)
		if err := rows.Scan(&p.ID, &p.CountryName, &p.CountryCode, &p.ProgramName,
			&p.ProgramType, &minInvestment, &p.ProcessingTimeMonths, &details); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}

		p.MinInvestment, err = decimal.NewFromString(minInvestment)
		if err != nil {
			// A malformed catalog amount means the catalog itself is bad;
			// partial results would silently hide programs from scoring.
			return nil, fmt.Errorf("parse min_investment for program %s: %w", p.ID, err)
		}
		if len(details) > 0 {
			_ = json.Unmarshal(details, &p.ProgramDetails)
		}
		p.IsActive = true
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}

	return programs, nil
}

func (s *ProgramStore) ListActiveOptions(ctx context.Context, programID string) ([]models.InvestmentOption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, program_id, option_name, option_type, base_amount,
		       description, sort_order
		FROM investment_options
		WHERE program_id = $1 AND is_active = true
		ORDER BY sort_order`, programID)
	if err != nil {
		return nil, fmt.Errorf("query investment options: %w", err)
	}
	defer rows.Close()

	var options []models.InvestmentOption
	for rows.Next() {
		var (
			opt        models.InvestmentOption
			baseAmount string
			desc       sql.NullString
		)
		if err := rows.Scan(&opt.ID, &opt.ProgramID, &opt.OptionName, &opt.OptionType,
			&baseAmount, &desc, &opt.SortOrder); err != nil {
			return nil, fmt.Errorf("scan investment option: %w", err)
		}
		opt.BaseAmount, err = decimal.NewFromString(baseAmount)
		if err != nil {
			return nil, fmt.Errorf("parse base amount for option %s: %w", opt.ID, err)
		}
		opt.Description = desc.String
		opt.IsActive = true
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate investment options: %w", err)
	}

	return options, nil
}
