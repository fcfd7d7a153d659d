package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Singleton is a collection of exactly one unnamed document (brand, budget,
// config). It has no id or createdAt and is replaced wholesale on Put.
type Singleton struct {
	store *Store
	name  string
}

func (s *Store) Singleton(name string) *Singleton {
	return &Singleton{store: s, name: name}
}

func (s *Singleton) Name() string { return s.name }

// Get returns the stored document, or a copy of defaults when nothing was
// stored yet.
func (s *Singleton) Get(ctx context.Context, defaults Document) (Document, error) {
	b, err := s.store.readRaw(ctx, s.name)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return defaults.Clone(), nil
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.name, err)
	}
	if doc == nil {
		return defaults.Clone(), nil
	}
	return doc, nil
}

// Put replaces the stored document.
func (s *Singleton) Put(ctx context.Context, doc Document) error {
	if doc == nil {
		doc = Document{}
	}
	return s.store.writeRaw(ctx, s.name, doc)
}
