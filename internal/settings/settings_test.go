package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emika-opensource/marketing-manager/internal/store"
	"github.com/emika-opensource/marketing-manager/internal/store/backend"
)

func newService(envKey string) (*Service, *store.Store) {
	s := store.New(backend.NewMemory())
	return NewService(s, envKey), s
}

func TestBrand_DefaultsThenReplace(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService("")

	b, err := svc.Brand(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#f43f5e", b.Map("colors")["primary"])
	assert.Equal(t, []any{}, b["values"])

	_, err = svc.PutBrand(ctx, store.Document{"name": "Acme"})
	require.NoError(t, err)
	b, err = svc.Brand(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Document{"name": "Acme"}, b)
}

func TestBudget_RemainingIsDerived(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService("")

	b, err := svc.Budget(ctx)
	require.NoError(t, err)
	assert.Equal(t, "monthly", b["period"])

	got, err := svc.PutBudget(ctx, store.Document{"total": 1000.0, "spent": 250.0, "remaining": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 750.0, got["remaining"])

	got, err = svc.PutBudget(ctx, store.Document{"spent": 50.0})
	require.NoError(t, err)
	assert.Equal(t, -50.0, got["remaining"])

	stored, err := svc.Budget(ctx)
	require.NoError(t, err)
	assert.Equal(t, -50.0, stored["remaining"])
}

func TestConfig_MaskAndMerge(t *testing.T) {
	ctx := context.Background()
	svc, s := newService("")

	cfg, err := svc.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Document{"falKey": "", "notifications": true}, cfg)

	require.NoError(t, svc.PutConfig(ctx, store.Document{"falKey": "abcdefgh12345678wxyz"}))
	cfg, err = svc.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh...wxyz", cfg["falKey"])

	// echoing the masked key back keeps the real one
	require.NoError(t, svc.PutConfig(ctx, store.Document{"falKey": "abcdefgh...wxyz", "notifications": false}))
	raw, err := s.Singleton(store.Config).Get(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh12345678wxyz", raw["falKey"])
	assert.Equal(t, false, raw["notifications"])

	key, err := svc.FalKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh12345678wxyz", key)
}

func TestConfig_MaskedKeyWithoutStoredKeyIsDropped(t *testing.T) {
	ctx := context.Background()
	svc, s := newService("")
	require.NoError(t, svc.PutConfig(ctx, store.Document{"falKey": "xx...yy"}))
	raw, err := s.Singleton(store.Config).Get(ctx, nil)
	require.NoError(t, err)
	_, has := raw["falKey"]
	assert.False(t, has)
}

func TestFalKey_EnvWins(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService("from-env")
	require.NoError(t, svc.PutConfig(ctx, store.Document{"falKey": "stored"}))
	key, err := svc.FalKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "abcdefgh...6789", MaskKey("abcdefgh0123456789"))
	assert.Equal(t, "short...hort", MaskKey("short"))
	assert.Equal(t, "abc...abc", MaskKey("abc"))
}
