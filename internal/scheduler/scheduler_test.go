package scheduler

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emika-opensource/marketing-manager/internal/store"
	"github.com/emika-opensource/marketing-manager/internal/store/backend"
	"github.com/emika-opensource/marketing-manager/pkg/metrics"
)

func TestRefreshGauges(t *testing.T) {
	ctx := context.Background()
	s := store.New(backend.NewMemory())
	creatives := s.Collection(store.Creatives)
	for _, st := range []string{"generating", "ready", "generating"} {
		_, err := creatives.Create(ctx, store.Document{"status": st})
		require.NoError(t, err)
	}
	_, err := s.Collection(store.Channels).Create(ctx, store.Document{"name": "Email"})
	require.NoError(t, err)

	require.NoError(t, RefreshGauges(ctx, s))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.CollectionDocuments.WithLabelValues(store.Creatives)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CollectionDocuments.WithLabelValues(store.Channels)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.CollectionDocuments.WithLabelValues(store.Audiences)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.GenerationPending))
}

func TestRefreshGauges_ReportsCorruptCollection(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory()
	require.NoError(t, mem.Write(ctx, store.Campaigns, []byte("{")))
	err := RefreshGauges(ctx, store.New(mem))
	require.Error(t, err)
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	_, err := New(store.New(backend.NewMemory()), "not a schedule")
	require.Error(t, err)

	sch, err := New(store.New(backend.NewMemory()), "@every 1h")
	require.NoError(t, err)
	sch.Start()
	sch.Stop()
}
