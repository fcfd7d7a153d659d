package influencers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emika-opensource/marketing-manager/internal/store"
	"github.com/emika-opensource/marketing-manager/internal/store/backend"
)

func TestComputeScore_WritesScoreAndKeepsFields(t *testing.T) {
	ctx := context.Background()
	s := store.New(backend.NewMemory())
	require.NoError(t, s.Singleton(store.Brand).Put(ctx, store.Document{"industry": "fitness"}))
	inf, err := s.Collection(store.Influencers).Create(ctx, store.Document{
		"name":           "Ada",
		"handle":         "@ada",
		"followers":      1_200_000.0,
		"engagementRate": 4.5,
		"category":       "Fitness",
		"priceRange":     map[string]any{"min": 1000.0, "max": 24000.0},
	})
	require.NoError(t, err)

	svc := NewService(s)
	got, err := svc.ComputeScore(ctx, inf.ID())
	require.NoError(t, err)
	assert.Equal(t, 83, got["score"])
	assert.Equal(t, "@ada", got["handle"])

	stored, err := s.Collection(store.Influencers).Get(ctx, inf.ID())
	require.NoError(t, err)
	assert.Equal(t, 83.0, stored["score"])
	bd := stored.Map("scoreBreakdown")
	require.NotNil(t, bd)
	assert.Equal(t, map[string]any{"weight": "30%", "score": 90.0}, bd["engagement"])
}

func TestComputeScore_NoBrandUsesEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.New(backend.NewMemory())
	inf, err := s.Collection(store.Influencers).Create(ctx, store.Document{"followers": 0.0})
	require.NoError(t, err)

	got, err := NewService(s).ComputeScore(ctx, inf.ID())
	require.NoError(t, err)
	// 20*.2 + 0 + 50*.25 + 50*.15 + 50*.1 = 29
	assert.Equal(t, 29, got["score"])
}

func TestComputeScore_NotFound(t *testing.T) {
	_, err := NewService(store.New(backend.NewMemory())).ComputeScore(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestApproveCampaign(t *testing.T) {
	ctx := context.Background()
	s := store.New(backend.NewMemory())
	c, err := s.Collection(store.InfluencerCampaigns).Create(ctx, store.Document{"status": "proposed", "agreedPrice": 500.0})
	require.NoError(t, err)

	svc := NewService(s)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	got, err := svc.ApproveCampaign(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, "approved", got["status"])
	assert.Equal(t, "2026-01-02T03:04:05.000Z", got["approvedAt"])
	assert.Equal(t, 500.0, got["agreedPrice"])

	_, err = svc.ApproveCampaign(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSearchEchoesCriteria(t *testing.T) {
	min := 1000.0
	res := Search(SearchCriteria{Query: "vegan", MinFollowers: &min})
	assert.Equal(t, "vegan", res.Criteria.Query)
	assert.Len(t, res.Suggestions, 4)
	assert.NotEmpty(t, res.Message)
}
