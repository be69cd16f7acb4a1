// Package store abstracts the external product collections behind a single
// query interface. Backends never mutate the collections; the engine treats
// every record as a read-only snapshot.
package store

import (
	"context"

	"compare-engine/internal/engine/record"
	"compare-engine/pkg/registry"
)

// Predicate is an OR of substring-match conditions: the term matched against
// each named field. An empty term matches the whole collection.
type Predicate struct {
	Term   string
	Fields []string
}

// ProductStore issues one bounded query against a category's collection.
type ProductStore interface {
	Query(ctx context.Context, schema registry.CategorySchema, pred Predicate, limit int) ([]record.Product, error)
}
