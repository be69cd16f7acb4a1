// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-engine/internal/common/errors"
)

// ==========================
// Registration Tests
// ==========================

func TestDefault_RegistersAllCategories(t *testing.T) {
	r := Default()

	expected := []string{
		CategoryBankAccounts,
		CategoryCreditCards,
		CategoryPersonalLoans,
		CategoryMobilePlans,
		CategoryBroadband,
		CategoryEntertainment,
		CategoryMobilePayments,
		CategoryCarLoans,
		CategoryDiningOffers,
		CategoryInstantAccounts,
		CategoryFixedDeposits,
		CategoryBusinessLoans,
	}

	assert.Equal(t, expected, r.Categories())
	assert.Equal(t, len(expected), r.Len())
}

func TestRegistry_Get_UnknownCategory(t *testing.T) {
	r := Default()

	_, err := r.Get("cryptocurrency")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownCategory))
}

func TestRegistry_Register_KeepsOrderOnReplace(t *testing.T) {
	r := New()
	r.Register(CategorySchema{Category: "a", Collection: "a_records"})
	r.Register(CategorySchema{Category: "b", Collection: "b_records"})
	r.Register(CategorySchema{Category: "a", Collection: "a_records_v2"})

	assert.Equal(t, []string{"a", "b"}, r.Categories())

	schema, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a_records_v2", schema.Collection)
}

func TestRegistry_Get_ReturnsSchemaFields(t *testing.T) {
	r := Default()

	schema, err := r.Get(CategoryCreditCards)
	require.NoError(t, err)
	assert.Equal(t, "credit_cards", schema.Collection)
	assert.Equal(t, "card_name", schema.NameField)
	assert.Equal(t, "card_image", schema.LogoField)
	assert.Contains(t, schema.SearchFields, "description")
}

// ==========================
// Document Loading Tests
// ==========================

func TestLoad_ValidDocument(t *testing.T) {
	path := writeDocument(t, `{
		"version": "1",
		"categories": [
			{
				"category": "credit-cards",
				"collection": "cards",
				"searchFields": ["card_name"],
				"nameField": "card_name",
				"brandField": "brand"
			}
		]
	}`)

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Has("credit-cards"))
}

func TestLoad_RejectsInvalidDocument(t *testing.T) {
	path := writeDocument(t, `{"categories": [{"category": "x"}]}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write registry document: %v", err)
	}
	return path
}
