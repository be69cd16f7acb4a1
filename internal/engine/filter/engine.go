// Package filter narrows a category-homogeneous record set by user-selected
// criteria. Criteria groups AND together; an empty group is no constraint,
// so empty criteria pass everything through untouched.
package filter

import (
	"compare-engine/internal/engine/record"
)

// Range is a numeric window on a stripped-and-parsed field. Nil bounds are
// open.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Criteria holds the active predicate groups.
//
// Memberships pass when the field value is in the selected set. Flags pass
// when the field holds the affirmative sentinel. NestedFlags require every
// selected key inside the nested object to be truthy, deliberately stricter
// than the OR semantics of Memberships. MinRating fails records with no
// rating once the threshold is above zero.
type Criteria struct {
	Memberships map[string][]string `json:"memberships,omitempty"`
	Ranges      map[string]Range    `json:"ranges,omitempty"`
	Flags       map[string]bool     `json:"flags,omitempty"`
	NestedFlags map[string][]string `json:"nestedFlags,omitempty"`
	MinRating   float64             `json:"minRating,omitempty"`

	// RatingField overrides the field MinRating reads. Empty means
	// "rating".
	RatingField string `json:"-"`
}

// Empty reports whether no predicate group is active.
func (c Criteria) Empty() bool {
	return len(c.Memberships) == 0 &&
		len(c.Ranges) == 0 &&
		len(c.Flags) == 0 &&
		len(c.NestedFlags) == 0 &&
		c.MinRating == 0
}

func (c Criteria) ratingField() string {
	if c.RatingField != "" {
		return c.RatingField
	}
	return "rating"
}

// Engine applies Criteria to record sets.
type Engine struct{}

// NewEngine creates a filter engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Apply returns the records satisfying every active predicate group. The
// input slice is never mutated.
func (e *Engine) Apply(records []record.Product, criteria Criteria) []record.Product {
	if criteria.Empty() {
		return records
	}

	out := make([]record.Product, 0, len(records))
	for _, rec := range records {
		if e.matches(rec, criteria) {
			out = append(out, rec)
		}
	}
	return out
}

func (e *Engine) matches(rec record.Product, criteria Criteria) bool {
	for field, allowed := range criteria.Memberships {
		if !matchesMembership(rec, field, allowed) {
			return false
		}
	}
	for field, bounds := range criteria.Ranges {
		if !matchesRange(rec, field, bounds) {
			return false
		}
	}
	for field, required := range criteria.Flags {
		// A false entry means the chip was never selected.
		if required && !rec.Flag(field) {
			return false
		}
	}
	for field, keys := range criteria.NestedFlags {
		if !matchesNestedFlags(rec, field, keys) {
			return false
		}
	}
	if criteria.MinRating > 0 {
		if !rec.Has(criteria.ratingField()) {
			return false
		}
		if rec.Float(criteria.ratingField()) < criteria.MinRating {
			return false
		}
	}
	return true
}

func matchesMembership(rec record.Product, field string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	value := rec.String(field)
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}

// matchesRange strips and parses the field value; unparsable values compare
// as 0, a documented limitation rather than an error.
func matchesRange(rec record.Product, field string, bounds Range) bool {
	value := rec.Float(field)
	if bounds.Min != nil && value < *bounds.Min {
		return false
	}
	if bounds.Max != nil && value > *bounds.Max {
		return false
	}
	return true
}

// matchesNestedFlags requires all selected keys truthy inside the nested
// object. A record whose nested object is missing or malformed fails any
// non-empty selection.
func matchesNestedFlags(rec record.Product, field string, keys []string) bool {
	if len(keys) == 0 {
		return true
	}
	nested, ok := rec.Map(field)
	if !ok {
		return false
	}
	for _, key := range keys {
		if !nestedTruthy(nested[key]) {
			return false
		}
	}
	return true
}

func nestedTruthy(v interface{}) bool {
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
