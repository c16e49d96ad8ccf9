// internal/workers/intake/validate-intake-data/models.go
package validateintakedata

import "crbi-workers/internal/common/validation"

type Input struct {
	ClientID   string                 `json:"clientId"`
	IntakeData map[string]interface{} `json:"intakeData"`
}

type Output struct {
	IsValid          bool                         `json:"isValid"`
	ValidatedData    map[string]interface{}       `json:"validatedData"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
}

// intakeSchema is the structural contract for intake submissions. Enum
// membership is checked here; cross-field rules live in the handler.
var intakeSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"firstName", "lastName", "email"},
	"properties": map[string]interface{}{
		"firstName": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
			"maxLength": 100,
		},
		"lastName": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
			"maxLength": 100,
		},
		"email": map[string]interface{}{
			"type": "string",
		},
		"phone": map[string]interface{}{
			"type": "string",
		},
		"nationality": map[string]interface{}{
			"type": "string",
		},
		"geographicPreferences": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"budgetRange": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"under_500k", "500k_1m", "1m_2m", "2m_plus"},
		},
		"desiredTimeline": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"immediate", "6_months", "1_year", "2_years", "exploring"},
		},
		"urgencyLevel": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"low", "medium", "high", "urgent"},
		},
		"primaryGoals": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{
					"global_mobility", "tax_optimization", "education",
					"lifestyle", "business_expansion", "family_security",
				},
			},
		},
		"employmentStatus": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"employed", "business_owner", "self_employed", "retired", "unemployed"},
		},
		"currentProfession": map[string]interface{}{
			"type": "string",
		},
		"industry": map[string]interface{}{
			"type": "string",
		},
		"yearsOfExperience": map[string]interface{}{
			"type":    "integer",
			"minimum": 0,
			"maximum": 80,
		},
		"sourceOfFundsReadiness": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"ready", "1_month", "3_months", "6_months", "not_ready"},
		},
		"criminalBackground": map[string]interface{}{
			"type": "boolean",
		},
		"visaDenials": map[string]interface{}{
			"type": "boolean",
		},
		"isPep": map[string]interface{}{
			"type": "boolean",
		},
	},
}
