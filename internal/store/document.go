package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the createdAt format: ISO-8601 UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Document is a schema-less record. The store manages "id" and "createdAt"
// on collection documents; everything else belongs to the caller.
type Document map[string]any

// ID returns the store-assigned identifier, or "" for singletons.
func (d Document) ID() string {
	s, _ := d["id"].(string)
	return s
}

// Clone returns a shallow copy.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Float reads a numeric field, treating anything non-numeric as 0.
func (d Document) Float(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

// String reads a string field, "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Map reads a nested object field as a Document (nil when absent).
func (d Document) Map(key string) Document {
	switch v := d[key].(type) {
	case map[string]any:
		return Document(v)
	case Document:
		return v
	}
	return nil
}

// Decode converts a document into a typed view (e.g. models.Influencer).
// Unknown fields are ignored by the view but stay on the stored document.
func Decode(d Document, v any) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// FromStruct converts a typed value into a Document suitable for Create/Update.
func FromStruct(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return d, nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
