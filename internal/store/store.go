// Package store is the generic persistence layer behind every resource of the
// dashboard. A collection is a named, ordered sequence of documents that is
// read and written as one unit; a singleton is a single unnamed object.
//
// Update and Create are read-whole, mutate, write-whole. The per-name lock
// only guards the physical read and the physical write, never the cycle in
// between, so two interleaved writers can lose an update (last writer wins).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/emika-opensource/marketing-manager/internal/ids"
	"github.com/emika-opensource/marketing-manager/internal/store/backend"
	"github.com/emika-opensource/marketing-manager/pkg/logger"
	"github.com/emika-opensource/marketing-manager/pkg/metrics"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store hands out collections and singletons over one backend.
type Store struct {
	backend backend.Backend
	ids     ids.Generator
	now     func() time.Time
	locks   sync.Map // map[string]*sync.RWMutex
}

type Option func(*Store)

// WithIDGenerator overrides the identifier source (tests use fixed ids).
func WithIDGenerator(g ids.Generator) Option { return func(s *Store) { s.ids = g } }

// WithClock overrides the createdAt clock.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func New(b backend.Backend, opts ...Option) *Store {
	s := &Store{backend: b, ids: ids.UUIDv7{}, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Backend exposes the underlying medium (readiness checks, migration).
func (s *Store) Backend() backend.Backend { return s.backend }

func (s *Store) lock(name string) *sync.RWMutex {
	v, _ := s.locks.LoadOrStore(name, &sync.RWMutex{})
	return v.(*sync.RWMutex)
}

// readRaw returns the stored bytes, or nil when the name was never written.
func (s *Store) readRaw(ctx context.Context, name string) ([]byte, error) {
	mu := s.lock(name)
	mu.RLock()
	defer mu.RUnlock()
	b, err := s.backend.Read(ctx, name)
	if errors.Is(err, backend.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

func (s *Store) writeRaw(ctx context.Context, name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	mu := s.lock(name)
	mu.Lock()
	defer mu.Unlock()
	return s.backend.Write(ctx, name, b)
}

func (s *Store) load(ctx context.Context, name string) ([]Document, error) {
	b, err := s.readRaw(ctx, name)
	if err != nil {
		return nil, err
	}
	docs := []Document{}
	if b == nil {
		return docs, nil
	}
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// Collection returns the CRUD handle for name. Handles are cheap; the lock
// is shared by every handle of the same name.
func (s *Store) Collection(name string) *Collection {
	return &Collection{store: s, name: name}
}

// Collection is the CRUD surface of one named collection.
type Collection struct {
	store *Store
	name  string
}

func (c *Collection) Name() string { return c.name }

func (c *Collection) observe(op string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
		logger.Errorf("store %s %s: %v", c.name, op, err)
	}
	metrics.StoreOperations.WithLabelValues(c.name, op, outcome).Inc()
}

// List returns every document in insertion order. A collection that was
// never written is empty, not an error.
func (c *Collection) List(ctx context.Context) (docs []Document, err error) {
	defer func() { c.observe("list", err) }()
	return c.store.load(ctx, c.name)
}

// Create assigns a fresh id and createdAt, appends the document and
// persists the whole collection.
func (c *Collection) Create(ctx context.Context, fields Document) (doc Document, err error) {
	defer func() { c.observe("create", err) }()
	docs, err := c.store.load(ctx, c.name)
	if err != nil {
		return nil, err
	}
	doc = fields.Clone()
	doc["id"] = c.store.ids.Next()
	doc["createdAt"] = timestamp(c.store.now())
	docs = append(docs, doc)
	if err := c.store.writeRaw(ctx, c.name, docs); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns the document with the given id or ErrNotFound.
func (c *Collection) Get(ctx context.Context, id string) (doc Document, err error) {
	defer func() { c.observe("get", err) }()
	docs, err := c.store.load(ctx, c.name)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.ID() == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%s %q: %w", c.name, id, ErrNotFound)
}

// Update shallow-merges fields into the stored document: supplied keys
// overwrite, absent keys are kept, and id is re-asserted afterwards.
func (c *Collection) Update(ctx context.Context, id string, fields Document) (doc Document, err error) {
	defer func() { c.observe("update", err) }()
	docs, err := c.store.load(ctx, c.name)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, d := range docs {
		if d.ID() == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%s %q: %w", c.name, id, ErrNotFound)
	}
	merged := docs[idx].Clone()
	for k, v := range fields {
		merged[k] = v
	}
	merged["id"] = id
	docs[idx] = merged
	if err := c.store.writeRaw(ctx, c.name, docs); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete removes the document and persists the rest. Deleting an unknown id
// still rewrites the collection and succeeds.
func (c *Collection) Delete(ctx context.Context, id string) (err error) {
	defer func() { c.observe("delete", err) }()
	docs, err := c.store.load(ctx, c.name)
	if err != nil {
		return err
	}
	kept := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.ID() != id {
			kept = append(kept, d)
		}
	}
	return c.store.writeRaw(ctx, c.name, kept)
}
