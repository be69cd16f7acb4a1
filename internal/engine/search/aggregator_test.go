// internal/engine/search/aggregator_test.go
package search

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-engine/internal/common/database"
	"compare-engine/internal/common/errors"
	"compare-engine/internal/common/logger"
	"compare-engine/internal/engine/normalize"
	"compare-engine/internal/engine/record"
	"compare-engine/internal/store"
	"compare-engine/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

// storeFunc adapts a function to the ProductStore interface.
type storeFunc func(ctx context.Context, schema registry.CategorySchema, pred store.Predicate, limit int) ([]record.Product, error)

func (f storeFunc) Query(ctx context.Context, schema registry.CategorySchema, pred store.Predicate, limit int) ([]record.Product, error) {
	return f(ctx, schema, pred, limit)
}

func twoCategoryRegistry() *registry.Registry {
	r := registry.New()
	r.Register(registry.CategorySchema{
		Category:     registry.CategoryCreditCards,
		Collection:   "credit_cards",
		SearchFields: []string{"card_name", "brand"},
		NameField:    "card_name",
		BrandField:   "brand",
		LogoField:    "card_image",
	})
	r.Register(registry.CategorySchema{
		Category:     registry.CategoryBankAccounts,
		Collection:   "bank_accounts",
		SearchFields: []string{"account_name"},
		NameField:    "account_name",
		BrandField:   "brand",
		LogoField:    "logo",
	})
	return r
}

func newAggregator(t *testing.T, reg *registry.Registry, st store.ProductStore, cache *Cache) *Aggregator {
	log := logger.NewTestLogger(t)
	return New(reg, st, normalize.New(log), cache, Options{
		PerCategoryLimit: 5,
		QueryTimeout:     time.Second,
	}, log)
}

// ==========================
// Fan-Out Tests
// ==========================

func TestSearch_EmptyTermIssuesNoQueries(t *testing.T) {
	queried := false
	st := storeFunc(func(ctx context.Context, schema registry.CategorySchema, pred store.Predicate, limit int) ([]record.Product, error) {
		queried = true
		return nil, nil
	})

	agg := newAggregator(t, twoCategoryRegistry(), st, nil)

	for _, term := range []string{"", "   ", "\t\n"} {
		response, err := agg.Search(context.Background(), term)
		require.NoError(t, err)
		assert.Empty(t, response.Results)
		assert.NotNil(t, response.Results)
	}
	assert.False(t, queried, "empty terms must not reach the store")
}

func TestSearch_PartialFailureYieldsSurvivingResults(t *testing.T) {
	st := storeFunc(func(ctx context.Context, schema registry.CategorySchema, pred store.Predicate, limit int) ([]record.Product, error) {
		switch schema.Category {
		case registry.CategoryCreditCards:
			return nil, errors.NewStoreQueryFailedError(schema.Category, assert.AnError)
		case registry.CategoryBankAccounts:
			return []record.Product{
				{"id": "acc-1", "account_name": "Platinum Saver", "brand": "Acme"},
				{"id": "acc-2", "account_name": "Platinum Plus", "brand": "Acme"},
			}, nil
		}
		return nil, nil
	})

	agg := newAggregator(t, twoCategoryRegistry(), st, nil)

	response, err := agg.Search(context.Background(), "platinum")
	require.NoError(t, err, "a failing category must not fail the search")
	require.Len(t, response.Results, 2)
	assert.Equal(t, "Platinum Saver", response.Results[0].Name)
	assert.Equal(t, "Platinum Plus", response.Results[1].Name)
	assert.False(t, response.Timestamp.IsZero())
}

func TestSearch_MergePreservesRegistryOrder(t *testing.T) {
	st := storeFunc(func(ctx context.Context, schema registry.CategorySchema, pred store.Predicate, limit int) ([]record.Product, error) {
		switch schema.Category {
		case registry.CategoryCreditCards:
			// Slow category registered first must still come out first.
			time.Sleep(20 * time.Millisecond)
			return []record.Product{{"id": "c-1", "card_name": "Gold Card"}}, nil
		case registry.CategoryBankAccounts:
			return []record.Product{{"id": "a-1", "account_name": "Gold Account"}}, nil
		}
		return nil, nil
	})

	agg := newAggregator(t, twoCategoryRegistry(), st, nil)

	response, err := agg.Search(context.Background(), "gold")
	require.NoError(t, err)
	require.Len(t, response.Results, 2)
	assert.Equal(t, registry.CategoryCreditCards, response.Results[0].Category)
	assert.Equal(t, registry.CategoryBankAccounts, response.Results[1].Category)
}

func TestSearch_PredicateCarriesSchemaSearchFields(t *testing.T) {
	var seen store.Predicate
	st := storeFunc(func(ctx context.Context, schema registry.CategorySchema, pred store.Predicate, limit int) ([]record.Product, error) {
		if schema.Category == registry.CategoryCreditCards {
			seen = pred
		}
		return nil, nil
	})

	agg := newAggregator(t, twoCategoryRegistry(), st, nil)
	_, err := agg.Search(context.Background(), "gold")
	require.NoError(t, err)

	assert.Equal(t, "gold", seen.Term)
	assert.Equal(t, []string{"card_name", "brand"}, seen.Fields)
}

// ==========================
// Response Cache Tests
// ==========================

func TestSearch_CacheServesRepeatQueries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
	defer client.Close()

	cache := NewCache(client, time.Minute, logger.NewTestLogger(t))

	var calls int64
	st := storeFunc(func(ctx context.Context, schema registry.CategorySchema, pred store.Predicate, limit int) ([]record.Product, error) {
		atomic.AddInt64(&calls, 1)
		if schema.Category == registry.CategoryCreditCards {
			return []record.Product{{"id": "c-1", "card_name": "Gold Card"}}, nil
		}
		return nil, nil
	})

	agg := newAggregator(t, twoCategoryRegistry(), st, cache)

	first, err := agg.Search(context.Background(), "Gold")
	require.NoError(t, err)
	require.Len(t, first.Results, 1)
	firstCalls := atomic.LoadInt64(&calls)

	// Same term, different case: served from cache, no new store calls.
	second, err := agg.Search(context.Background(), "gold")
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	assert.Equal(t, firstCalls, atomic.LoadInt64(&calls))
	assert.Equal(t, first.Results[0].ID, second.Results[0].ID)
}

func TestCache_UnavailableRedisDegradesToLiveSearch(t *testing.T) {
	client := &database.RedisClient{Client: goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})}
	cache := NewCache(client, time.Minute, logger.NewTestLogger(t))

	st := storeFunc(func(ctx context.Context, schema registry.CategorySchema, pred store.Predicate, limit int) ([]record.Product, error) {
		if schema.Category == registry.CategoryCreditCards {
			return []record.Product{{"id": "c-1", "card_name": "Gold Card"}}, nil
		}
		return nil, nil
	})

	agg := newAggregator(t, twoCategoryRegistry(), st, cache)

	response, err := agg.Search(context.Background(), "gold")
	require.NoError(t, err)
	assert.Len(t, response.Results, 1)
}
