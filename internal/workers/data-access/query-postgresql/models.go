// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "crbi-workers/internal/models"

type Input struct {
	QueryType string                 `json:"queryType"`
	ClientID  string                 `json:"clientId,omitempty"`
	ProgramID string                 `json:"programId,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeClientProfile     = models.QueryTypeClientProfile
	QueryTypeActivePrograms    = models.QueryTypeActivePrograms
	QueryTypeInvestmentOptions = models.QueryTypeInvestmentOptions
	QueryTypeClientDocuments   = models.QueryTypeClientDocuments
)
