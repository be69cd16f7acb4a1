// internal/engine/normalize/normalizer_test.go
package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-engine/internal/common/logger"
	"compare-engine/internal/engine/record"
	"compare-engine/pkg/registry"
)

func newNormalizer(t *testing.T) *Normalizer {
	return New(logger.NewTestLogger(t))
}

func schemaFor(t *testing.T, category string) registry.CategorySchema {
	t.Helper()
	schema, err := registry.Default().Get(category)
	require.NoError(t, err)
	return schema
}

// ==========================
// Degradation Tests
// ==========================

func TestNormalize_NeverFailsOnMalformedInput(t *testing.T) {
	n := newNormalizer(t)

	tests := []struct {
		name     string
		category string
		rec      record.Product
	}{
		{"empty record", registry.CategoryCreditCards, record.Product{}},
		{"nil values everywhere", registry.CategoryCreditCards, record.Product{
			"card_name": nil, "brand": nil, "benefits": nil,
		}},
		{"malformed benefits", registry.CategoryCreditCards, record.Product{
			"card_name": "Test Card",
			"benefits":  `{"travel": tru`,
		}},
		{"malformed restaurants", registry.CategoryDiningOffers, record.Product{
			"provider":    "DineOut",
			"restaurants": `["Bistro"`,
		}},
		{"wrong types", registry.CategoryMobilePlans, record.Product{
			"plan_name":      42.0,
			"data_allowance": []interface{}{"50GB"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.Normalize(tt.rec, schemaFor(t, tt.category))
			assert.NotNil(t, result.Features, "features must never be nil")
			assert.Equal(t, tt.category, result.Category)
			assert.False(t, result.Name == "" && result.Brand == "",
				"name and brand must never both be empty")
		})
	}
}

func TestNormalize_FeaturesAlwaysArray(t *testing.T) {
	n := newNormalizer(t)
	for _, category := range registry.Default().Categories() {
		result := n.Normalize(record.Product{}, schemaFor(t, category))
		assert.NotNil(t, result.Features, "category %s returned nil features", category)
	}
}

// ==========================
// Credit Card Extraction Tests
// ==========================

func TestNormalize_CreditCardFeatures(t *testing.T) {
	n := newNormalizer(t)

	rec := record.Product{
		"id":        "card-1",
		"card_name": "Platinum Rewards",
		"brand":     "Acme Bank",
		"benefits": map[string]interface{}{
			"travel":    true,
			"insurance": "Yes",
			"rewards":   false,
		},
		"rewards_program":    "Acme Points",
		"lounge_access":      "Yes",
		"annual_fee":         "$450",
		"interest_free_days": "55",
		"card_image":         "https://cdn.example.com/platinum.png",
		"apply_link":         "https://example.com/apply",
	}

	result := n.Normalize(rec, schemaFor(t, registry.CategoryCreditCards))

	assert.Equal(t, "card-1", result.ID)
	assert.Equal(t, "Platinum Rewards", result.Name)
	assert.Equal(t, "Acme Bank", result.Brand)
	assert.Contains(t, result.Features, "Travel Benefits")
	assert.Contains(t, result.Features, "Complimentary Insurance")
	assert.NotContains(t, result.Features, "Rewards Points")
	assert.Contains(t, result.Features, "Acme Points rewards")
	assert.Contains(t, result.Features, "Airport Lounge Access")
	assert.Contains(t, result.Features, "Annual fee $450")
	assert.Contains(t, result.Features, "Up to 55 interest free days")
	assert.Equal(t, "https://cdn.example.com/platinum.png", result.LogoURL)
	assert.Equal(t, "https://example.com/apply", result.OutboundURL)
}

func TestNormalize_CreditCardStringEncodedBenefits(t *testing.T) {
	n := newNormalizer(t)

	rec := record.Product{
		"card_name": "Basic Card",
		"benefits":  `{"travel": true, "insurance": false, "rewards": "Yes"}`,
	}

	result := n.Normalize(rec, schemaFor(t, registry.CategoryCreditCards))
	assert.Contains(t, result.Features, "Travel Benefits")
	assert.Contains(t, result.Features, "Rewards Points")
	assert.NotContains(t, result.Features, "Complimentary Insurance")
}

// ==========================
// Plan Extraction Tests
// ==========================

func TestNormalize_MobilePlanFeatures(t *testing.T) {
	n := newNormalizer(t)

	rec := record.Product{
		"plan_name":      "Max 50",
		"brand":          "TelcoOne",
		"data_allowance": "50GB",
		"talk_time":      "Unlimited",
	}

	result := n.Normalize(rec, schemaFor(t, registry.CategoryMobilePlans))
	assert.Contains(t, result.Features, "50GB data")
	assert.Contains(t, result.Features, "Unlimited talk time")
	assert.Equal(t, "Mobile plan with 50GB of data", result.Description)
}

func TestNormalize_BroadbandFeatures(t *testing.T) {
	n := newNormalizer(t)

	rec := record.Product{
		"plan_name":      "Fibre 100",
		"provider":       "NetCo",
		"download_speed": "100Mbps",
		"upload_speed":   "40Mbps",
	}

	result := n.Normalize(rec, schemaFor(t, registry.CategoryBroadband))
	assert.Contains(t, result.Features, "100Mbps download")
	assert.Contains(t, result.Features, "40Mbps upload")
	assert.Equal(t, "NetCo", result.Brand)
}

// ==========================
// Dining Bundle Tests
// ==========================

func TestNormalize_DiningOfferExcerpt(t *testing.T) {
	n := newNormalizer(t)

	rec := record.Product{
		"provider": "DineOut Club",
		"restaurants": []interface{}{
			map[string]interface{}{"name": "Bistro Uno"},
			"Trattoria Due",
			map[string]interface{}{"name": "Cafe Tre"},
			map[string]interface{}{"name": "Grill Quattro"},
			map[string]interface{}{"name": "Sushi Cinque"},
		},
	}

	result := n.Normalize(rec, schemaFor(t, registry.CategoryDiningOffers))

	assert.Contains(t, result.Features, "5 restaurants")
	assert.Contains(t, result.Features, "Bistro Uno")
	assert.Contains(t, result.Features, "Trattoria Due")
	assert.Contains(t, result.Features, "Cafe Tre")
	assert.NotContains(t, result.Features, "Grill Quattro")
	assert.Contains(t, result.Features, "+2 more")
	assert.Equal(t, "2-for-1 offers at 5 restaurants", result.SpecialOffer)
}

func TestNormalize_DiningOfferSynthesizedTitle(t *testing.T) {
	n := newNormalizer(t)

	rec := record.Product{
		"restaurants": []interface{}{"One", "Two"},
	}

	result := n.Normalize(rec, schemaFor(t, registry.CategoryDiningOffers))
	assert.Equal(t, "Dining bundle (2 restaurants)", result.Name)
}

// ==========================
// Description & Offer Resolution Tests
// ==========================

func TestNormalize_DescriptionPriority(t *testing.T) {
	n := newNormalizer(t)
	schema := schemaFor(t, registry.CategoryCreditCards)

	tests := []struct {
		name     string
		rec      record.Product
		expected string
	}{
		{
			"explicit description wins",
			record.Product{"card_name": "C", "description": "Explicit", "tagline": "Tag"},
			"Explicit",
		},
		{
			"nested summary",
			record.Product{"card_name": "C", "description": map[string]interface{}{"summary": "From summary"}},
			"From summary",
		},
		{
			"tagline fallback",
			record.Product{"card_name": "C", "tagline": "Tag only"},
			"Tag only",
		},
		{
			"offer text last",
			record.Product{"card_name": "C", "offer_text": "Offer text"},
			"Offer text",
		},
		{
			"nothing available",
			record.Product{"card_name": "C"},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.Normalize(tt.rec, schema)
			assert.Equal(t, tt.expected, result.Description)
		})
	}
}

func TestNormalize_SpecialOfferResolution(t *testing.T) {
	n := newNormalizer(t)
	schema := schemaFor(t, registry.CategoryCreditCards)

	withOffer := n.Normalize(record.Product{
		"card_name":     "C",
		"special_offer": "100k bonus points",
		"offers":        "ignored",
	}, schema)
	assert.Equal(t, "100k bonus points", withOffer.SpecialOffer)

	fallback := n.Normalize(record.Product{
		"card_name": "C",
		"offers":    "0% balance transfer",
	}, schema)
	assert.Equal(t, "0% balance transfer", fallback.SpecialOffer)
}

func TestNormalize_GeneratesIDWhenMissing(t *testing.T) {
	n := newNormalizer(t)

	result := n.Normalize(record.Product{"card_name": "C"}, schemaFor(t, registry.CategoryCreditCards))
	assert.NotEmpty(t, result.ID)
}

func TestNormalize_RatingBecomesScore(t *testing.T) {
	n := newNormalizer(t)

	result := n.Normalize(record.Product{
		"card_name": "C",
		"rating":    4.5,
		"reviews":   []interface{}{map[string]interface{}{"stars": 5.0}},
	}, schemaFor(t, registry.CategoryCreditCards))

	require.NotNil(t, result.Score)
	assert.Equal(t, 4.5, *result.Score)
	assert.NotNil(t, result.Reviews)
}
