// internal/store/postgres.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"compare-engine/internal/common/database"
	"compare-engine/internal/common/errors"
	"compare-engine/internal/engine/record"
	"compare-engine/pkg/registry"
)

// PostgresStore reads product collections stored one table per category,
// each row holding the raw document in a jsonb column.
type PostgresStore struct {
	client *database.PostgresClient
}

// NewPostgres creates a PostgresStore over an open client.
func NewPostgres(client *database.PostgresClient) *PostgresStore {
	return &PostgresStore{client: client}
}

// Query runs one ILIKE substring query over the predicate fields, OR-ed.
func (s *PostgresStore) Query(ctx context.Context, schema registry.CategorySchema, pred Predicate, limit int) ([]record.Product, error) {
	query, args := buildSelect(schema.Collection, pred, limit)

	rows, err := s.client.Query(ctx, query, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewStoreQueryTimeoutError(schema.Category)
		}
		return nil, errors.NewStoreQueryFailedError(schema.Category, err)
	}
	defer rows.Close()

	var records []record.Product
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, errors.NewStoreQueryFailedError(schema.Category, err)
		}

		var rec record.Product
		if err := json.Unmarshal(raw, &rec); err != nil {
			// A corrupt row is a data-quality issue, skip it rather than
			// fail the whole category.
			continue
		}
		if _, ok := rec["id"]; !ok {
			rec["id"] = id
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreQueryFailedError(schema.Category, err)
	}

	return records, nil
}

// buildSelect produces the bounded OR-of-ILIKE statement. Collection and
// field names come from the registry, never from user input.
func buildSelect(collection string, pred Predicate, limit int) (string, []interface{}) {
	term := strings.TrimSpace(pred.Term)
	if term == "" || len(pred.Fields) == 0 {
		return fmt.Sprintf("SELECT id, data FROM %s LIMIT %d", collection, limit), nil
	}

	conditions := make([]string, len(pred.Fields))
	for i, field := range pred.Fields {
		conditions[i] = fmt.Sprintf("data->>'%s' ILIKE $1", field)
	}

	query := fmt.Sprintf(
		"SELECT id, data FROM %s WHERE %s LIMIT %d",
		collection,
		strings.Join(conditions, " OR "),
		limit,
	)
	return query, []interface{}{"%" + term + "%"}
}
