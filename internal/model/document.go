package model

import (
	"encoding/json"
	"math"
)

// Document is a schema-less recipe record. Keys are not guaranteed to be
// present; absent keys, null values and values of the wrong type all read as
// "not present".
type Document map[string]any

// Has reports whether key holds a non-null value.
func (d Document) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

// Float returns the numeric value stored under key.
func (d Document) Float(key string) (float64, bool) {
	return toFloat(d[key])
}

// String returns the string stored under key.
func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Strings returns the array stored under key. Non-string elements are
// skipped; the second result is false only when key does not hold an array.
func (d Document) Strings(key string) ([]string, bool) {
	switch v := d[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// Len returns the length of the array stored under key.
func (d Document) Len(key string) (int, bool) {
	switch v := d[key].(type) {
	case []string:
		return len(v), true
	case []any:
		return len(v), true
	default:
		return 0, false
	}
}

// Values returns the non-null values stored under key with arrays flattened
// into their elements, the way the document store treats array fields in
// distinct queries.
func (d Document) Values(key string) []any {
	switch v := d[key].(type) {
	case nil:
		return nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			if item != nil {
				out = append(out, item)
			}
		}
		return out
	default:
		return []any{v}
	}
}

// Recipe projects the document onto the recipe fields.
func (d Document) Recipe() Recipe {
	r := Recipe{}
	r.Title, _ = d.String("title")
	r.Description, _ = d.String("desc")
	r.Date, _ = d.String("date")
	r.Directions, _ = d.Strings("directions")
	r.Ingredients, _ = d.Strings("ingredients")
	r.Categories, _ = d.Strings("categories")
	r.Rating = d.floatPtr("rating")
	r.Protein = d.floatPtr("protein")
	r.Calories = d.floatPtr("calories")
	r.Sodium = d.floatPtr("sodium")
	r.Fat = d.floatPtr("fat")
	return r
}

func (d Document) floatPtr(key string) *float64 {
	if f, ok := d.Float(key); ok {
		return &f
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
