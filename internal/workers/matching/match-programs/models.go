// internal/workers/matching/match-programs/models.go
package matchprograms

import "crbi-workers/internal/models"

type Input struct {
	ClientID string `json:"clientId"`
}

type Output struct {
	Qualification *models.ClientQualification `json:"qualification"`
	OverallScore  int                         `json:"overallScore"`
	MatchCount    int                         `json:"matchCount"`
}
