// Package registry maps product categories to their collection layout. Every
// engine component that needs to know where a name, brand, or logo lives for
// a category asks the registry instead of hard-coding field names.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"compare-engine/internal/common/errors"
	"compare-engine/internal/common/validation"
)

// Registry holds category schemas and preserves registration order, which is
// the display order of aggregated search results.
type Registry struct {
	order   []string
	schemas map[string]CategorySchema
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		schemas: make(map[string]CategorySchema),
	}
}

// Default returns a registry populated with the built-in product categories.
func Default() *Registry {
	r := New()
	for _, schema := range builtinSchemas() {
		r.Register(schema)
	}
	return r
}

// Load reads a registry document from disk, validates it, and returns a
// registry holding exactly the categories it declares.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry document %s: %w", path, err)
	}

	result, err := validation.ValidateRegistryDocument(raw)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid registry document %s: %s", path, strings.Join(result.Errors, "; "))
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry document %s: %w", path, err)
	}

	r := New()
	for _, schema := range doc.Categories {
		r.Register(schema)
	}
	return r, nil
}

// Register adds or replaces a category schema. Re-registering a category
// keeps its original position in the ordering.
func (r *Registry) Register(schema CategorySchema) {
	if _, exists := r.schemas[schema.Category]; !exists {
		r.order = append(r.order, schema.Category)
	}
	r.schemas[schema.Category] = schema
}

// Get returns the schema for a category.
func (r *Registry) Get(category string) (CategorySchema, error) {
	schema, ok := r.schemas[category]
	if !ok {
		return CategorySchema{}, errors.NewUnknownCategoryError(category)
	}
	return schema, nil
}

// Has reports whether a category is registered.
func (r *Registry) Has(category string) bool {
	_, ok := r.schemas[category]
	return ok
}

// Categories returns the registered category keys in registration order.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	return len(r.order)
}
