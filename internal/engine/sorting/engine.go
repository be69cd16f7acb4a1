// Package sorting orders a category-homogeneous record set by one field
// with a type-aware comparator. Records without a presentable image always
// sort after records with one, regardless of the requested field.
package sorting

import (
	"sort"

	"compare-engine/internal/engine/record"
	"compare-engine/pkg/registry"
)

// Direction selects sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Spec is the caller-held sort state: one field plus a direction. The
// engine itself is stateless; callers keep the Spec between interactions.
type Spec struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Toggle returns the next Spec after the user clicks a sort field. Clicking
// the active field flips direction; clicking a new field starts ascending.
func (s Spec) Toggle(field string) Spec {
	if s.Field == field {
		if s.Direction == Ascending {
			return Spec{Field: field, Direction: Descending}
		}
		return Spec{Field: field, Direction: Ascending}
	}
	return Spec{Field: field, Direction: Ascending}
}

// Engine sorts record sets for one category. The image field comes from the
// category schema so the has-image rule follows the registry, not a
// hard-coded field name.
type Engine struct {
	imageField string
}

// NewEngine creates a sort engine for one category.
func NewEngine(schema registry.CategorySchema) *Engine {
	return &Engine{imageField: schema.LogoField}
}

// Sort returns a stably sorted copy; the input slice is never mutated.
func (e *Engine) Sort(records []record.Product, spec Spec) []record.Product {
	out := make([]record.Product, len(records))
	copy(out, records)

	if spec.Field == "" {
		return out
	}

	direction := spec.Direction
	if direction != Descending {
		direction = Ascending
	}

	sort.SliceStable(out, func(i, j int) bool {
		// Image presence outranks the requested comparator and ignores
		// direction: missing images go last either way.
		hasI, hasJ := e.hasImage(out[i]), e.hasImage(out[j])
		if hasI != hasJ {
			return hasI
		}

		less, equal := compareField(out[i], out[j], spec.Field)
		if equal {
			return false
		}
		if direction == Descending {
			return !less
		}
		return less
	})

	return out
}

func (e *Engine) hasImage(rec record.Product) bool {
	if e.imageField == "" {
		return true
	}
	return rec.String(e.imageField) != ""
}

// compareField picks the comparator by field kind and reports both order
// and equality so direction reversal keeps equal records stable.
func compareField(a, b record.Product, field string) (less, equal bool) {
	switch field {
	case "lounge_access":
		ra, rb := loungeRank(a), loungeRank(b)
		return ra < rb, ra == rb
	case "rewards_program":
		ra, rb := flagRank(a, field), flagRank(b, field)
		return ra < rb, ra == rb
	default:
		va, vb := a.Float(field), b.Float(field)
		return va < vb, va == vb
	}
}

func flagRank(rec record.Product, field string) float64 {
	if rec.Flag(field) {
		return 1
	}
	return 0
}

// loungeRank builds the compound lounge key: availability is the primary
// component, visit count the secondary, moving together under one
// direction.
func loungeRank(rec record.Product) float64 {
	if !rec.Flag("lounge_access") {
		return 0
	}
	visits := rec.Float("lounge_visits")
	if visits == 0 {
		visits = rec.Float("visits")
	}
	return 1000 + visits
}
