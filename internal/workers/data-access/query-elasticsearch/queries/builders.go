package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ElasticsearchQuery defines the structure of a query request
type ElasticsearchQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	ProgramID  string
	Region     string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, eq ElasticsearchQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case "program_search":
		queryBody = buildProgramSearchQuery(eq)
	case "related_programs":
		queryBody = buildRelatedProgramsQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{eq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &eq.Pagination.From,
		Size:   &eq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildProgramSearchQuery builds the main program search query dynamically
func buildProgramSearchQuery(eq ElasticsearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search
	if keywords, ok := eq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"program_name^3", "country_name^2", "description"},
				"type":   "best_fields",
			},
		})
	}

	// Program type filter (citizenship or residency)
	if programType, ok := eq.Filters["programType"].(string); ok && programType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"program_type": programType},
		})
	}

	// Region filter
	if region, ok := eq.Filters["region"].(string); ok && region != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"region": region},
		})
	} else if eq.Region != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"region": eq.Region},
		})
	}

	// Investment range filter on the program's minimum investment
	if invRange, ok := eq.Filters["investmentRange"].(map[string]interface{}); ok {
		rangeClause := map[string]interface{}{}
		if minVal, ok := toFloat(invRange["min"]); ok && minVal > 0 {
			rangeClause["gte"] = minVal
		}
		if maxVal, ok := toFloat(invRange["max"]); ok && maxVal > 0 {
			rangeClause["lte"] = maxVal
		}
		if len(rangeClause) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{"min_investment": rangeClause},
			})
		}
	}

	// Maximum processing time in months
	if maxMonths, ok := toFloat(eq.Filters["maxProcessingMonths"]); ok && maxMonths > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"processing_time_months": map[string]interface{}{"lte": maxMonths},
			},
		})
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := eq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "min_investment":
			query["sort"] = []map[string]interface{}{{"min_investment": "asc"}}
		case "processing_time":
			query["sort"] = []map[string]interface{}{{"processing_time_months": "asc"}}
		case "country_name":
			query["sort"] = []map[string]interface{}{{"country_name": "asc"}}
		}
	}

	return query
}

// buildRelatedProgramsQuery builds "similar programs" query
func buildRelatedProgramsQuery(eq ElasticsearchQuery) map[string]interface{} {
	if eq.ProgramID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"program_name", "country_name", "description"},
				"like": []map[string]interface{}{
					{"_index": eq.Index, "_id": eq.ProgramID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
