// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeClientProfile     QueryType = "client_profile"
	QueryTypeActivePrograms    QueryType = "active_programs"
	QueryTypeInvestmentOptions QueryType = "investment_options"
	QueryTypeClientDocuments   QueryType = "client_documents"
)
