// internal/store/postgres_test.go
package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-engine/internal/common/database"
	"compare-engine/internal/common/errors"
	"compare-engine/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgres(&database.PostgresClient{DB: db}), mock
}

func cardSchema() registry.CategorySchema {
	return registry.CategorySchema{
		Category:     registry.CategoryCreditCards,
		Collection:   "credit_cards",
		SearchFields: []string{"card_name", "brand"},
		NameField:    "card_name",
		BrandField:   "brand",
	}
}

// ==========================
// Query Building Tests
// ==========================

func TestBuildSelect(t *testing.T) {
	query, args := buildSelect("credit_cards", Predicate{
		Term:   "platinum",
		Fields: []string{"card_name", "brand"},
	}, 5)

	assert.Equal(t,
		"SELECT id, data FROM credit_cards WHERE data->>'card_name' ILIKE $1 OR data->>'brand' ILIKE $1 LIMIT 5",
		query,
	)
	assert.Equal(t, []interface{}{"%platinum%"}, args)
}

func TestBuildSelect_EmptyTermFetchesCollection(t *testing.T) {
	query, args := buildSelect("credit_cards", Predicate{}, 10)
	assert.Equal(t, "SELECT id, data FROM credit_cards LIMIT 10", query)
	assert.Nil(t, args)
}

// ==========================
// Query Execution Tests
// ==========================

func TestPostgresStore_Query(t *testing.T) {
	st, mock := setupMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "data"}).
		AddRow("card-1", `{"card_name": "Platinum One", "annual_fee": "$450"}`).
		AddRow("card-2", `{"id": "explicit-2", "card_name": "Platinum Two"}`)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, data FROM credit_cards WHERE data->>'card_name' ILIKE $1 OR data->>'brand' ILIKE $1 LIMIT 5",
	)).WithArgs("%platinum%").WillReturnRows(rows)

	records, err := st.Query(context.Background(), cardSchema(), Predicate{
		Term:   "platinum",
		Fields: []string{"card_name", "brand"},
	}, 5)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "card-1", records[0]["id"], "row id injected when the document has none")
	assert.Equal(t, "explicit-2", records[1]["id"], "document id wins over the row id")
	assert.Equal(t, "Platinum One", records[0]["card_name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Query_SkipsCorruptRows(t *testing.T) {
	st, mock := setupMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "data"}).
		AddRow("card-1", `{"card_name": "Good"}`).
		AddRow("card-2", `{not json`)

	mock.ExpectQuery("SELECT id, data FROM credit_cards").
		WithArgs("%x%").WillReturnRows(rows)

	records, err := st.Query(context.Background(), cardSchema(), Predicate{
		Term:   "x",
		Fields: []string{"card_name", "brand"},
	}, 5)

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPostgresStore_Query_WrapsFailures(t *testing.T) {
	st, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT id, data FROM credit_cards").
		WithArgs("%x%").WillReturnError(assert.AnError)

	_, err := st.Query(context.Background(), cardSchema(), Predicate{
		Term:   "x",
		Fields: []string{"card_name", "brand"},
	}, 5)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStoreQueryFailed))
}
