// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crbi-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// programIndexMapping is the mapping for the program search index. Field
// names must stay in sync with the query builders in the
// query-elasticsearch worker.
const programIndexMapping = `{
	"mappings": {
		"properties": {
			"program_name":           {"type": "text"},
			"country_name":           {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"description":            {"type": "text"},
			"program_type":           {"type": "keyword"},
			"region":                 {"type": "keyword"},
			"min_investment":         {"type": "double"},
			"processing_time_months": {"type": "integer"}
		}
	}
}`

// ElasticsearchClient wraps the Elasticsearch client used for program search.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses:     cfg.Addresses,
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    3,
	}

	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{Client: es}, nil
}

// Ping checks that the cluster is reachable and responding.
func (c *ElasticsearchClient) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// EnsureProgramIndex creates the program search index with its mapping if it
// does not exist yet. Safe to call on every startup.
func (c *ElasticsearchClient) EnsureProgramIndex(ctx context.Context, index string) error {
	exists := esapi.IndicesExistsRequest{Index: []string{index}}
	res, err := exists.Do(ctx, c.Client)
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	create := esapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(programIndexMapping),
	}
	res, err = create.Do(ctx, c.Client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// A concurrent worker instance may have won the race.
		if strings.Contains(res.String(), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index %s: %s", index, res.Status())
	}
	return nil
}
