// Package validation checks inbound JSON payloads at the service boundary
// before they reach the engine, and category-registry documents before they
// are loaded.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationResult mirrors the gojsonschema outcome in a transport-friendly
// shape.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

const searchRequestSchema = `{
	"type": "object",
	"required": ["term"],
	"properties": {
		"term": {"type": "string", "maxLength": 200}
	},
	"additionalProperties": false
}`

const filterSortRequestSchema = `{
	"type": "object",
	"required": ["category", "records"],
	"properties": {
		"category": {"type": "string", "minLength": 1},
		"records": {
			"type": "array",
			"items": {"type": "object"}
		},
		"criteria": {
			"type": "object",
			"properties": {
				"memberships": {
					"type": "object",
					"additionalProperties": {"type": "array", "items": {"type": "string"}}
				},
				"ranges": {
					"type": "object",
					"additionalProperties": {
						"type": "object",
						"properties": {
							"min": {"type": "number"},
							"max": {"type": "number"}
						},
						"additionalProperties": false
					}
				},
				"flags": {
					"type": "object",
					"additionalProperties": {"type": "boolean"}
				},
				"nestedFlags": {
					"type": "object",
					"additionalProperties": {"type": "array", "items": {"type": "string"}}
				},
				"minRating": {"type": "number", "minimum": 0, "maximum": 5}
			},
			"additionalProperties": false
		},
		"sort": {
			"type": "object",
			"required": ["field"],
			"properties": {
				"field": {"type": "string", "minLength": 1},
				"direction": {"type": "string", "enum": ["asc", "desc"]}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}`

const compareRequestSchema = `{
	"type": "object",
	"required": ["records"],
	"properties": {
		"records": {
			"type": "array",
			"minItems": 2,
			"maxItems": 3,
			"items": {"type": "object"}
		}
	},
	"additionalProperties": false
}`

const registryDocumentSchema = `{
	"type": "object",
	"required": ["categories"],
	"properties": {
		"version": {"type": "string"},
		"categories": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["category", "collection", "searchFields", "nameField", "brandField"],
				"properties": {
					"category": {"type": "string", "minLength": 1},
					"collection": {"type": "string", "minLength": 1},
					"searchFields": {
						"type": "array",
						"minItems": 1,
						"items": {"type": "string", "minLength": 1}
					},
					"nameField": {"type": "string"},
					"brandField": {"type": "string"},
					"logoField": {"type": "string"},
					"linkField": {"type": "string"}
				},
				"additionalProperties": false
			}
		}
	},
	"additionalProperties": false
}`

func validate(document []byte, schema string) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return out, nil
}

// ValidateSearchRequest checks a /search payload.
func ValidateSearchRequest(document []byte) (*ValidationResult, error) {
	return validate(document, searchRequestSchema)
}

// ValidateFilterSortRequest checks a /filter-sort payload.
func ValidateFilterSortRequest(document []byte) (*ValidationResult, error) {
	return validate(document, filterSortRequestSchema)
}

// ValidateCompareRequest checks a /compare payload, including the 2..3
// record arity the comparison engine supports.
func ValidateCompareRequest(document []byte) (*ValidationResult, error) {
	return validate(document, compareRequestSchema)
}

// ValidateRegistryDocument checks a category-registry JSON document before
// it replaces the built-in registrations.
func ValidateRegistryDocument(document []byte) (*ValidationResult, error) {
	return validate(document, registryDocumentSchema)
}
