// Package engine ties the search, filter, sort, and comparison components
// behind the three entry points the service layer calls.
package engine

import (
	"context"

	"compare-engine/internal/engine/compare"
	"compare-engine/internal/engine/filter"
	"compare-engine/internal/engine/record"
	"compare-engine/internal/engine/search"
	"compare-engine/internal/engine/sorting"
	"compare-engine/pkg/registry"
)

// Engine is the aggregate facade. All operations are request-scoped and
// stateless between calls.
type Engine struct {
	registry   *registry.Registry
	aggregator *search.Aggregator
	filter     *filter.Engine
	scorer     *compare.Scorer
}

// New creates an Engine.
func New(reg *registry.Registry, aggregator *search.Aggregator, scorer *compare.Scorer) *Engine {
	return &Engine{
		registry:   reg,
		aggregator: aggregator,
		filter:     filter.NewEngine(),
		scorer:     scorer,
	}
}

// Search fans the term out across every registered category.
func (e *Engine) Search(ctx context.Context, term string) (*search.Response, error) {
	return e.aggregator.Search(ctx, term)
}

// FilterAndSort applies the criteria and then orders the survivors. The
// category resolves the schema whose logo field drives the has-image sort
// rule; an unregistered category is the one caller-visible failure.
func (e *Engine) FilterAndSort(category string, records []record.Product, criteria filter.Criteria, spec sorting.Spec) ([]record.Product, error) {
	schema, err := e.registry.Get(category)
	if err != nil {
		return nil, err
	}

	filtered := e.filter.Apply(records, criteria)
	return sorting.NewEngine(schema).Sort(filtered, spec), nil
}

// Compare scores 2 or 3 same-category records side by side.
func (e *Engine) Compare(records []record.Product) (*compare.Report, error) {
	return e.scorer.Compare(records)
}
