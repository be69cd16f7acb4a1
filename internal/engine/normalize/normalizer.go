// Package normalize converts raw category records into the uniform result
// shape returned by search. Normalization never fails; malformed fields on a
// record degrade to absent and get counted, the record still comes out.
package normalize

import (
	"fmt"

	"github.com/google/uuid"

	"compare-engine/internal/common/logger"
	"compare-engine/internal/common/metrics"
	"compare-engine/internal/engine/record"
	"compare-engine/pkg/registry"
)

// Result is the uniform shape every category normalizes into.
type Result struct {
	ID           string      `json:"id"`
	Category     string      `json:"category"`
	Name         string      `json:"name"`
	Brand        string      `json:"brand"`
	Description  string      `json:"description,omitempty"`
	Features     []string    `json:"features"`
	SpecialOffer string      `json:"specialOffer,omitempty"`
	LogoURL      string      `json:"logoUrl,omitempty"`
	Score        *float64    `json:"score,omitempty"`
	Reviews      interface{} `json:"reviews,omitempty"`
	OutboundURL  string      `json:"outboundUrl,omitempty"`
}

// Normalizer maps raw records into Results using per-category extraction
// rules.
type Normalizer struct {
	logger logger.Logger
}

// New creates a Normalizer.
func New(log logger.Logger) *Normalizer {
	return &Normalizer{logger: log}
}

// Normalize converts one raw record of the schema's category. It always
// returns a usable Result, falling back field by field when the record is
// missing or malformed.
func (n *Normalizer) Normalize(rec record.Product, schema registry.CategorySchema) Result {
	result := Result{
		ID:       n.resolveID(rec),
		Category: schema.Category,
		Name:     rec.String(schema.NameField),
		Brand:    rec.String(schema.BrandField),
		Features: []string{},
		LogoURL:  rec.String(schema.LogoField),
	}

	if schema.LinkField != "" {
		result.OutboundURL = rec.String(schema.LinkField)
	}

	if rec.Has("rating") {
		score := rec.Float("rating")
		result.Score = &score
	}
	if reviews, ok := rec["reviews"]; ok && reviews != nil {
		result.Reviews = reviews
	}

	result.Features = n.extractFeatures(rec, schema)
	result.Description = n.resolveDescription(rec, schema)
	result.SpecialOffer = n.resolveSpecialOffer(rec, schema)

	// Name and brand are never both empty. Bundled offers synthesize a
	// title from the partner count, everything else falls back to a
	// category literal.
	if result.Name == "" && result.Brand == "" {
		if schema.Category == registry.CategoryDiningOffers {
			result.Name = n.diningBundleTitle(rec)
		} else {
			result.Name = categoryFallbackName(schema.Category)
		}
	}

	return result
}

func (n *Normalizer) resolveID(rec record.Product) string {
	for _, field := range []string{"id", "_id"} {
		if id := rec.String(field); id != "" {
			return id
		}
		if rec.Has(field) {
			if v := rec.Float(field); v != 0 {
				return fmt.Sprintf("%.0f", v)
			}
		}
	}
	return uuid.New().String()
}

// resolveDescription walks the priority chain: explicit description, then a
// category synthetic, then tagline or offer text. First non-empty wins.
func (n *Normalizer) resolveDescription(rec record.Product, schema registry.CategorySchema) string {
	if desc := rec.String("description"); desc != "" {
		return desc
	}
	if m, ok := n.embeddedMap(rec, schema.Category, "description"); ok {
		if summary, isString := m["summary"].(string); isString && summary != "" {
			return summary
		}
	}

	if synthetic := n.syntheticDescription(rec, schema.Category); synthetic != "" {
		return synthetic
	}

	if tagline := rec.String("tagline"); tagline != "" {
		return tagline
	}
	return rec.String("offer_text")
}

func (n *Normalizer) syntheticDescription(rec record.Product, category string) string {
	switch category {
	case registry.CategoryDiningOffers:
		if count := n.diningPartnerCount(rec); count > 0 {
			return fmt.Sprintf("Buy one get one free at %d partner restaurants", count)
		}
	case registry.CategoryMobilePlans:
		data := rec.String("data_allowance")
		if data != "" {
			return fmt.Sprintf("Mobile plan with %s of data", data)
		}
	case registry.CategoryBroadband:
		speed := rec.String("download_speed")
		if speed != "" {
			return fmt.Sprintf("Broadband plan with %s download speed", speed)
		}
	}
	return ""
}

func (n *Normalizer) resolveSpecialOffer(rec record.Product, schema registry.CategorySchema) string {
	if schema.Category == registry.CategoryDiningOffers {
		count := n.diningPartnerCount(rec)
		if count > 0 {
			return fmt.Sprintf("2-for-1 offers at %d restaurants", count)
		}
		return "2-for-1 dining offers"
	}

	if offer := rec.String("special_offer"); offer != "" {
		return offer
	}
	return rec.String("offers")
}

// embeddedMap decodes a possibly string-encoded object field, recording a
// recovery metric when the payload is malformed.
func (n *Normalizer) embeddedMap(rec record.Product, category, field string) (map[string]interface{}, bool) {
	if !rec.Has(field) {
		return nil, false
	}
	m, ok := rec.Map(field)
	if !ok {
		if _, isMap := rec[field].(map[string]interface{}); !isMap {
			n.recoverField(category, field)
		}
		return nil, false
	}
	return m, true
}

// embeddedSlice is the array counterpart of embeddedMap.
func (n *Normalizer) embeddedSlice(rec record.Product, category, field string) ([]interface{}, bool) {
	if !rec.Has(field) {
		return nil, false
	}
	s, ok := rec.Slice(field)
	if !ok {
		n.recoverField(category, field)
		return nil, false
	}
	return s, true
}

func (n *Normalizer) recoverField(category, field string) {
	metrics.NormalizationRecoveries.WithLabelValues(category, field).Inc()
	n.logger.Debug("Malformed field treated as absent", map[string]interface{}{
		"category": category,
		"field":    field,
	})
}

func categoryFallbackName(category string) string {
	switch category {
	case registry.CategoryBankAccounts:
		return "Bank Account"
	case registry.CategoryCreditCards:
		return "Credit Card"
	case registry.CategoryPersonalLoans:
		return "Personal Loan"
	case registry.CategoryMobilePlans:
		return "Mobile Plan"
	case registry.CategoryBroadband:
		return "Broadband Plan"
	case registry.CategoryEntertainment:
		return "Entertainment Pack"
	case registry.CategoryMobilePayments:
		return "Mobile Payment Service"
	case registry.CategoryCarLoans:
		return "Car Loan"
	case registry.CategoryInstantAccounts:
		return "Instant Account"
	case registry.CategoryFixedDeposits:
		return "Fixed Deposit"
	case registry.CategoryBusinessLoans:
		return "Business Loan"
	}
	return "Product"
}
