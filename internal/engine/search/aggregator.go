// Package search fans one free-text query out across every registered
// category, normalizes the hits, and merges them into a single list. A
// failing category contributes zero results instead of failing the search.
package search

import (
	"context"
	"strings"
	"time"

	"compare-engine/internal/common/logger"
	"compare-engine/internal/common/metrics"
	"compare-engine/internal/engine/normalize"
	"compare-engine/internal/store"
	"compare-engine/pkg/registry"

	commonerrors "compare-engine/internal/common/errors"
)

// Response is one completed search: the merged results plus the completion
// time for caller bookkeeping.
type Response struct {
	Results   []normalize.Result `json:"results"`
	Timestamp time.Time          `json:"timestamp"`
}

// Options bound each per-category query.
type Options struct {
	PerCategoryLimit int
	QueryTimeout     time.Duration
}

// Aggregator coordinates the per-category fan-out.
type Aggregator struct {
	registry   *registry.Registry
	store      store.ProductStore
	normalizer *normalize.Normalizer
	cache      *Cache
	opts       Options
	logger     logger.Logger
	recovered  *commonerrors.Handler
}

// New creates an Aggregator. cache may be nil when response caching is
// disabled.
func New(reg *registry.Registry, st store.ProductStore, n *normalize.Normalizer, cache *Cache, opts Options, log logger.Logger) *Aggregator {
	if opts.PerCategoryLimit <= 0 {
		opts.PerCategoryLimit = 5
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 3 * time.Second
	}
	return &Aggregator{
		registry:   reg,
		store:      st,
		normalizer: n,
		cache:      cache,
		opts:       opts,
		logger:     log,
		recovered:  commonerrors.NewHandler(log),
	}
}

type categoryResult struct {
	index   int
	results []normalize.Result
}

// Search runs the fan-out. Result ordering is registry registration order
// across categories, store order within one. An empty or whitespace-only
// term short-circuits without touching the store.
func (a *Aggregator) Search(ctx context.Context, term string) (*Response, error) {
	started := time.Now()
	term = strings.TrimSpace(term)
	if term == "" {
		return &Response{Results: []normalize.Result{}, Timestamp: time.Now()}, nil
	}

	if a.cache != nil {
		if cached, ok := a.cache.Get(ctx, term); ok {
			metrics.SearchCacheHits.Inc()
			return cached, nil
		}
		metrics.SearchCacheMisses.Inc()
	}

	categories := a.registry.Categories()
	slots := make([][]normalize.Result, len(categories))

	resultCh := make(chan categoryResult, len(categories))
	for i, category := range categories {
		go a.queryCategory(ctx, i, category, term, resultCh)
	}
	for range categories {
		res := <-resultCh
		slots[res.index] = res.results
	}

	merged := []normalize.Result{}
	for _, slot := range slots {
		merged = append(merged, slot...)
	}

	response := &Response{Results: merged, Timestamp: time.Now()}

	if a.cache != nil {
		a.cache.Set(ctx, term, response)
	}

	metrics.SearchesTotal.Inc()
	metrics.SearchDuration.Observe(time.Since(started).Seconds())

	return response, nil
}

// queryCategory issues one bounded query and normalizes its hits. Any
// failure is logged and counted; the slot stays empty.
func (a *Aggregator) queryCategory(ctx context.Context, index int, category, term string, out chan<- categoryResult) {
	result := categoryResult{index: index}
	defer func() { out <- result }()

	schema, err := a.registry.Get(category)
	if err != nil {
		a.reportFailure(category, err)
		return
	}

	queryCtx, cancel := context.WithTimeout(ctx, a.opts.QueryTimeout)
	defer cancel()

	records, err := a.store.Query(queryCtx, schema, store.Predicate{
		Term:   term,
		Fields: schema.SearchFields,
	}, a.opts.PerCategoryLimit)
	if err != nil {
		a.reportFailure(category, err)
		return
	}

	results := make([]normalize.Result, 0, len(records))
	for _, rec := range records {
		results = append(results, a.normalizer.Normalize(rec, schema))
	}
	result.results = results
}

func (a *Aggregator) reportFailure(category string, err error) {
	code := string(commonerrors.Normalize(err).Code)
	metrics.CategoryQueryFailures.WithLabelValues(category, code).Inc()
	a.recovered.Recovered("search:"+category, err)
}
