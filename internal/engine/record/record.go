// Package record provides tolerant accessors over raw product documents.
// Collections are schemaless JSON, so every getter treats a missing field,
// a wrong type, and a malformed value the same way: as absent.
package record

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Product is one raw document from a category collection.
type Product map[string]interface{}

var numericPattern = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumeric extracts a number from display strings like "$450", "20.74%"
// or "1,500 points". Values with no parsable number come back as 0.
func ParseNumeric(s string) float64 {
	cleaned := numericPattern.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// String returns the field as a trimmed string, or "" when absent or not a
// string.
func (p Product) String(field string) string {
	v, ok := p[field]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Has reports whether the field is present with a non-empty value.
func (p Product) Has(field string) bool {
	v, ok := p[field]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Float returns the field as a float64. Numeric strings are parsed through
// ParseNumeric, so "$450" and 450 compare equal.
func (p Product) Float(field string) float64 {
	v, ok := p[field]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		return ParseNumeric(t)
	}
	return 0
}

// Flag reports whether the field holds an affirmative value. Collections mix
// booleans with "Yes"/"true"/"1" strings and numeric 1.
func (p Product) Flag(field string) bool {
	v, ok := p[field]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true", "1":
			return true
		}
		return false
	case float64:
		return t == 1
	case int:
		return t == 1
	}
	return false
}

// Map returns the field as an object. Embedded objects are sometimes stored
// as JSON strings; those get one decode attempt and are otherwise absent.
func (p Product) Map(field string) (map[string]interface{}, bool) {
	v, ok := p[field]
	if !ok {
		return nil, false
	}
	decoded, ok := DecodeEmbedded(v)
	if !ok {
		return nil, false
	}
	m, ok := decoded.(map[string]interface{})
	return m, ok
}

// Slice returns the field as an array, decoding string-embedded JSON the
// same way Map does.
func (p Product) Slice(field string) ([]interface{}, bool) {
	v, ok := p[field]
	if !ok {
		return nil, false
	}
	decoded, ok := DecodeEmbedded(v)
	if !ok {
		return nil, false
	}
	s, ok := decoded.([]interface{})
	return s, ok
}

// DecodeEmbedded resolves a value that may be a JSON-encoded string. A string
// that fails to decode reports ok=false so callers can count the malformed
// field and move on.
func DecodeEmbedded(v interface{}) (interface{}, bool) {
	s, isString := v.(string)
	if !isString {
		return v, true
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}
