// Package ids hands out identifiers for new documents.
//
// Identifiers are UUIDv7 strings: a millisecond timestamp followed by random
// bits. They happen to sort by creation time, but callers must treat them as
// opaque and never derive ordering from them.
package ids

import "github.com/google/uuid"

// Generator produces identifiers for new documents.
type Generator interface {
	Next() string
}

// UUIDv7 is the default Generator.
type UUIDv7 struct{}

// Next returns a fresh identifier. Collisions are not checked against any
// collection.
func (UUIDv7) Next() string {
	id, err := uuid.NewV7()
	if err != nil {
		// entropy failure; fall back to a fully random v4
		return uuid.New().String()
	}
	return id.String()
}

// Func adapts a plain function to Generator.
type Func func() string

func (f Func) Next() string { return f() }
