// internal/store/elasticsearch.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"compare-engine/internal/common/database"
	"compare-engine/internal/common/errors"
	"compare-engine/internal/engine/record"
	"compare-engine/pkg/registry"
)

// ElasticsearchStore reads product collections stored one index per
// category.
type ElasticsearchStore struct {
	client *database.ElasticsearchClient
}

// NewElasticsearch creates an ElasticsearchStore over an open client.
func NewElasticsearch(client *database.ElasticsearchClient) *ElasticsearchStore {
	return &ElasticsearchStore{client: client}
}

// Query issues one bounded search with a wildcard clause per predicate
// field under a bool/should.
func (s *ElasticsearchStore) Query(ctx context.Context, schema registry.CategorySchema, pred Predicate, limit int) ([]record.Product, error) {
	body, err := json.Marshal(buildSearchBody(pred))
	if err != nil {
		return nil, errors.NewStoreQueryFailedError(schema.Category, err)
	}

	req := esapi.SearchRequest{
		Index: []string{schema.Collection},
		Body:  strings.NewReader(string(body)),
		Size:  &limit,
	}

	res, err := req.Do(ctx, s.client.Client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewStoreQueryTimeoutError(schema.Category)
		}
		return nil, errors.NewStoreQueryFailedError(schema.Category, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewStoreQueryFailedError(
			schema.Category,
			fmt.Errorf("search returned %s", res.Status()),
		)
	}

	var parsed map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewStoreQueryFailedError(schema.Category, err)
	}

	return extractHits(parsed), nil
}

// buildSearchBody assembles the query body. An empty term becomes match_all
// so the same call path serves full-collection fetches.
func buildSearchBody(pred Predicate) map[string]interface{} {
	term := strings.TrimSpace(pred.Term)
	if term == "" || len(pred.Fields) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_all": map[string]interface{}{},
			},
		}
	}

	shouldClauses := make([]interface{}, 0, len(pred.Fields))
	for _, field := range pred.Fields {
		shouldClauses = append(shouldClauses, map[string]interface{}{
			"wildcard": map[string]interface{}{
				field: map[string]interface{}{
					"value":            "*" + term + "*",
					"case_insensitive": true,
				},
			},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               shouldClauses,
				"minimum_should_match": 1,
			},
		},
	}
}

func extractHits(parsed map[string]interface{}) []record.Product {
	hits, ok := parsed["hits"].(map[string]interface{})
	if !ok {
		return nil
	}
	hitList, ok := hits["hits"].([]interface{})
	if !ok {
		return nil
	}

	var records []record.Product
	for _, h := range hitList {
		hit, ok := h.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := hit["_source"].(map[string]interface{})
		if !ok {
			continue
		}

		rec := record.Product(source)
		if _, exists := rec["id"]; !exists {
			if id, ok := hit["_id"].(string); ok {
				rec["id"] = id
			}
		}
		records = append(records, rec)
	}
	return records
}
