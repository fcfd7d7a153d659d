package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emika-opensource/marketing-manager/internal/ids"
	"github.com/emika-opensource/marketing-manager/internal/store/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() ids.Generator {
	var n int64
	return ids.Func(func() string { return fmt.Sprintf("id-%d", atomic.AddInt64(&n, 1)) })
}

func newTestStore(t *testing.T, b backend.Backend) *Store {
	t.Helper()
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
	return New(b, WithIDGenerator(sequentialIDs()), WithClock(func() time.Time { return fixed }))
}

func TestCollection_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestStore(t, backend.NewMemory()).Collection("campaigns")

	created, err := c.Create(ctx, Document{"name": "Spring launch", "budget": 1500.0, "tags": []any{"a", "b"}})
	require.NoError(t, err)
	require.Equal(t, "id-1", created.ID())
	require.Equal(t, "2026-03-04T05:06:07.890Z", created["createdAt"])

	got, err := c.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "Spring launch", got["name"])
	assert.Equal(t, 1500.0, got["budget"])
	assert.Equal(t, []any{"a", "b"}, got["tags"])
	assert.Equal(t, created["createdAt"], got["createdAt"])
	assert.Len(t, got, 5)
}

func TestCollection_CreateOwnsIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	c := newTestStore(t, backend.NewMemory()).Collection("audiences")

	doc, err := c.Create(ctx, Document{"id": "caller", "createdAt": "yesterday", "name": "x"})
	require.NoError(t, err)
	require.Equal(t, "id-1", doc.ID())
	require.Equal(t, "2026-03-04T05:06:07.890Z", doc["createdAt"])
}

func TestCollection_CreateDoesNotAliasCallerMap(t *testing.T) {
	ctx := context.Background()
	c := newTestStore(t, backend.NewMemory()).Collection("audiences")
	fields := Document{"name": "x"}
	_, err := c.Create(ctx, fields)
	require.NoError(t, err)
	_, hasID := fields["id"]
	require.False(t, hasID)
}

func TestCollection_ListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	c := newTestStore(t, backend.NewMemory()).Collection("channels")
	for i := 0; i < 5; i++ {
		_, err := c.Create(ctx, Document{"n": float64(i)})
		require.NoError(t, err)
	}
	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, d := range list {
		assert.Equal(t, float64(i), d["n"])
	}
}

func TestCollection_UpdateIsShallowMerge(t *testing.T) {
	ctx := context.Background()
	c := newTestStore(t, backend.NewMemory()).Collection("influencers")
	doc, err := c.Create(ctx, Document{"a": 1.0, "b": 2.0, "nested": map[string]any{"x": 1.0, "y": 2.0}})
	require.NoError(t, err)

	merged, err := c.Update(ctx, doc.ID(), Document{"b": 3.0, "nested": map[string]any{"x": 9.0}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, merged["a"])
	assert.Equal(t, 3.0, merged["b"])
	// top-level only: the nested object is replaced, not merged
	assert.Equal(t, map[string]any{"x": 9.0}, merged["nested"])
	assert.Equal(t, doc.ID(), merged.ID())
	assert.Equal(t, doc["createdAt"], merged["createdAt"])

	got, err := c.Get(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, merged, got)
}

func TestCollection_UpdateReassertsID(t *testing.T) {
	ctx := context.Background()
	c := newTestStore(t, backend.NewMemory()).Collection("influencers")
	doc, err := c.Create(ctx, Document{"a": 1.0})
	require.NoError(t, err)

	merged, err := c.Update(ctx, doc.ID(), Document{"id": "hijack"})
	require.NoError(t, err)
	require.Equal(t, doc.ID(), merged.ID())

	_, err = c.Get(ctx, "hijack")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCollection_NotFoundContract(t *testing.T) {
	ctx := context.Background()
	c := newTestStore(t, backend.NewMemory()).Collection("creatives")

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	_, err = c.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.Update(ctx, "missing", Document{"a": 1.0})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCollection_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := newTestStore(t, backend.NewMemory()).Collection("campaigns")
	keep, err := c.Create(ctx, Document{"name": "keep"})
	require.NoError(t, err)
	drop, err := c.Create(ctx, Document{"name": "drop"})
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, drop.ID()))
	require.NoError(t, c.Delete(ctx, drop.ID()))
	require.NoError(t, c.Delete(ctx, "never-existed"))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, keep.ID(), list[0].ID())
}

func TestCollection_DeleteOnUnwrittenCollectionPersistsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	c := newTestStore(t, mem).Collection("channels")
	require.NoError(t, c.Delete(ctx, "x"))
	raw, err := mem.Read(ctx, "channels")
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}

func TestCollection_CorruptDataIsAnError(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	require.NoError(t, mem.Write(ctx, "campaigns", []byte("{not json")))
	c := newTestStore(t, mem).Collection("campaigns")

	_, err := c.List(ctx)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestCollection_NullFileReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	require.NoError(t, mem.Write(ctx, "campaigns", []byte("null")))
	list, err := newTestStore(t, mem).Collection("campaigns").List(ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestCollection_FileBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	fb, err := backend.NewFile(t.TempDir())
	require.NoError(t, err)
	s := newTestStore(t, fb)

	doc, err := s.Collection("influencers").Create(ctx, Document{"name": "Ada", "followers": 1200.0})
	require.NoError(t, err)

	// a second store over the same directory sees the persisted data
	again := New(fb)
	got, err := again.Collection("influencers").Get(ctx, doc.ID())
	require.NoError(t, err)
	require.Equal(t, "Ada", got["name"])
	require.Equal(t, 1200.0, got["followers"])
}

// holdingBackend parks a configurable number of reads until released, which
// lets a test force two writers to read the same stale snapshot.
type holdingBackend struct {
	backend.Backend
	hold    atomic.Int32
	arrived chan struct{}
	release chan struct{}
}

func (h *holdingBackend) Read(ctx context.Context, name string) ([]byte, error) {
	b, err := h.Backend.Read(ctx, name)
	if h.hold.Add(-1) >= 0 {
		h.arrived <- struct{}{}
		<-h.release
	}
	return b, err
}

func TestCollection_InterleavedUpdatesLoseOneWrite(t *testing.T) {
	ctx := context.Background()
	hb := &holdingBackend{Backend: backend.NewMemory(), arrived: make(chan struct{}, 2), release: make(chan struct{})}
	c := newTestStore(t, hb).Collection("creatives")

	doc, err := c.Create(ctx, Document{"status": "generating"})
	require.NoError(t, err)

	hb.hold.Store(2)
	var wg sync.WaitGroup
	for _, f := range []Document{{"first": true}, {"second": true}} {
		wg.Add(1)
		go func(fields Document) {
			defer wg.Done()
			_, err := c.Update(ctx, doc.ID(), fields)
			assert.NoError(t, err)
		}(f)
	}
	<-hb.arrived
	<-hb.arrived
	close(hb.release)
	wg.Wait()

	got, err := c.Get(ctx, doc.ID())
	require.NoError(t, err)
	_, first := got["first"]
	_, second := got["second"]
	// last writer wins: exactly one of the two field sets survives
	require.True(t, first != second, "expected a lost update, got %v", got)
	require.Equal(t, "generating", got["status"])
}

func TestCollection_ConcurrentCreatesKeepEncodingIntact(t *testing.T) {
	ctx := context.Background()
	fb, err := backend.NewFile(t.TempDir())
	require.NoError(t, err)
	c := New(fb).Collection("audiences")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Create(ctx, Document{"n": float64(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	require.LessOrEqual(t, len(list), 20)
}

func TestSingleton_DefaultsAndReplace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, backend.NewMemory()).Singleton("budget")
	defaults := Document{"total": 0.0, "period": "monthly"}

	got, err := s.Get(ctx, defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, got)
	got["total"] = 99.0
	require.Equal(t, 0.0, defaults["total"], "defaults must not be aliased")

	require.NoError(t, s.Put(ctx, Document{"total": 500.0}))
	got, err = s.Get(ctx, defaults)
	require.NoError(t, err)
	require.Equal(t, Document{"total": 500.0}, got)
	_, hasID := got["id"]
	require.False(t, hasID)
}

func TestDocumentHelpers(t *testing.T) {
	d := Document{"n": 3.5, "i": 2, "s": "x", "m": map[string]any{"k": "v"}}
	assert.Equal(t, 3.5, d.Float("n"))
	assert.Equal(t, 2.0, d.Float("i"))
	assert.Equal(t, 0.0, d.Float("s"))
	assert.Equal(t, "x", d.String("s"))
	assert.Equal(t, "", d.String("n"))
	assert.Equal(t, "v", d.Map("m")["k"])
	assert.Nil(t, d.Map("missing"))
}

func TestDecodeAndFromStruct(t *testing.T) {
	type view struct {
		Name      string  `json:"name"`
		Followers float64 `json:"followers"`
	}
	var v view
	require.NoError(t, Decode(Document{"name": "Ada", "followers": 10.0, "extra": true}, &v))
	require.Equal(t, view{Name: "Ada", Followers: 10}, v)

	d, err := FromStruct(v)
	require.NoError(t, err)
	require.Equal(t, Document{"name": "Ada", "followers": 10.0}, d)
}
