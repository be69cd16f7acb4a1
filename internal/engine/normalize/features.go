// internal/engine/normalize/features.go
package normalize

import (
	"fmt"

	"compare-engine/internal/engine/record"
	"compare-engine/pkg/registry"
)

const diningExcerptSize = 3

// benefitLabels maps nested benefit flags on card records to display
// strings. Order fixes the output ordering so two normalizations of the
// same record agree.
var benefitLabels = []struct {
	key   string
	label string
}{
	{"travel", "Travel Benefits"},
	{"insurance", "Complimentary Insurance"},
	{"rewards", "Rewards Points"},
}

// extractFeatures applies the category's extraction rules. Each rule only
// reads the record, so a rule seeing garbage affects nothing but its own
// output line.
func (n *Normalizer) extractFeatures(rec record.Product, schema registry.CategorySchema) []string {
	features := []string{}

	switch schema.Category {
	case registry.CategoryCreditCards:
		features = append(features, n.cardFeatures(rec)...)
	case registry.CategoryMobilePlans:
		features = append(features, n.mobilePlanFeatures(rec)...)
	case registry.CategoryBroadband:
		features = append(features, n.broadbandFeatures(rec)...)
	case registry.CategoryDiningOffers:
		features = append(features, n.diningFeatures(rec)...)
	}

	return features
}

func (n *Normalizer) cardFeatures(rec record.Product) []string {
	var features []string

	if benefits, ok := n.embeddedMap(rec, registry.CategoryCreditCards, "benefits"); ok {
		for _, benefit := range benefitLabels {
			if truthy(benefits[benefit.key]) {
				features = append(features, benefit.label)
			}
		}
	}

	// rewards_program is sometimes a plain Yes/No flag and sometimes the
	// program name itself.
	if rewards := rec.String("rewards_program"); rewards != "" && !isNegative(rewards) {
		if rec.Flag("rewards_program") {
			features = append(features, "Rewards Program")
		} else {
			features = append(features, fmt.Sprintf("%s rewards", rewards))
		}
	}

	if rec.Flag("lounge_access") {
		features = append(features, "Airport Lounge Access")
	}
	if fee := rec.String("annual_fee"); fee != "" {
		features = append(features, fmt.Sprintf("Annual fee %s", fee))
	}
	if rec.Has("interest_free_days") {
		if days := rec.Float("interest_free_days"); days > 0 {
			features = append(features, fmt.Sprintf("Up to %.0f interest free days", days))
		}
	}

	return features
}

func (n *Normalizer) mobilePlanFeatures(rec record.Product) []string {
	var features []string

	if data := rec.String("data_allowance"); data != "" {
		features = append(features, fmt.Sprintf("%s data", data))
	}
	if talk := rec.String("talk_time"); talk != "" {
		features = append(features, fmt.Sprintf("%s talk time", talk))
	}
	if sms := rec.String("sms_allowance"); sms != "" {
		features = append(features, fmt.Sprintf("%s SMS", sms))
	}

	return features
}

func (n *Normalizer) broadbandFeatures(rec record.Product) []string {
	var features []string

	if speed := rec.String("download_speed"); speed != "" {
		features = append(features, fmt.Sprintf("%s download", speed))
	}
	if upload := rec.String("upload_speed"); upload != "" {
		features = append(features, fmt.Sprintf("%s upload", upload))
	}
	if data := rec.String("data_allowance"); data != "" {
		features = append(features, fmt.Sprintf("%s data", data))
	}

	return features
}

// diningFeatures produces the bundle summary: a restaurant count plus a
// short excerpt of sample names capped with a "+K more" suffix.
func (n *Normalizer) diningFeatures(rec record.Product) []string {
	restaurants, ok := n.embeddedSlice(rec, registry.CategoryDiningOffers, "restaurants")
	if !ok || len(restaurants) == 0 {
		return nil
	}

	features := []string{fmt.Sprintf("%d restaurants", len(restaurants))}

	shown := 0
	for _, entry := range restaurants {
		if shown == diningExcerptSize {
			break
		}
		name := restaurantName(entry)
		if name == "" {
			continue
		}
		features = append(features, name)
		shown++
	}

	if remaining := len(restaurants) - shown; remaining > 0 && shown > 0 {
		features = append(features, fmt.Sprintf("+%d more", remaining))
	}

	return features
}

func (n *Normalizer) diningPartnerCount(rec record.Product) int {
	if restaurants, ok := n.embeddedSlice(rec, registry.CategoryDiningOffers, "restaurants"); ok {
		return len(restaurants)
	}
	return 0
}

func (n *Normalizer) diningBundleTitle(rec record.Product) string {
	if count := n.diningPartnerCount(rec); count > 0 {
		return fmt.Sprintf("Dining bundle (%d restaurants)", count)
	}
	return "Dining Offers"
}

func restaurantName(entry interface{}) string {
	switch t := entry.(type) {
	case string:
		return t
	case map[string]interface{}:
		if name, ok := t["name"].(string); ok {
			return name
		}
	}
	return ""
}

func isNegative(s string) bool {
	return s == "No" || s == "no" || s == "false" || s == "0"
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "Yes" || t == "yes" || t == "true" || t == "1"
	case float64:
		return t != 0
	}
	return false
}
