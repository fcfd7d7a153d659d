package influencers

import (
	"context"
	"fmt"
	"time"

	"github.com/emika-opensource/marketing-manager/internal/models"
	"github.com/emika-opensource/marketing-manager/internal/scoring"
	"github.com/emika-opensource/marketing-manager/internal/store"
	"github.com/emika-opensource/marketing-manager/pkg/logger"
)

// Service holds the influencer operations that go beyond plain CRUD.
type Service struct {
	influencers *store.Collection
	campaigns   *store.Collection
	brand       *store.Singleton
	now         func() time.Time
}

func NewService(s *store.Store) *Service {
	return &Service{
		influencers: s.Collection(store.Influencers),
		campaigns:   s.Collection(store.InfluencerCampaigns),
		brand:       s.Singleton(store.Brand),
		now:         time.Now,
	}
}

// ComputeScore scores the influencer against the current brand and writes
// score and scoreBreakdown back. Other fields are left untouched.
func (s *Service) ComputeScore(ctx context.Context, id string) (store.Document, error) {
	doc, err := s.influencers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	brand, err := s.brand.Get(ctx, store.Document{})
	if err != nil {
		return nil, fmt.Errorf("load brand: %w", err)
	}
	total, breakdown := scoring.Score(models.InfluencerFrom(doc), models.BrandFrom(brand))
	bd, err := store.FromStruct(breakdown)
	if err != nil {
		return nil, err
	}
	logger.WithFields(map[string]interface{}{"influencer": id, "score": total}).Debug("influencer scored")
	return s.influencers.Update(ctx, id, store.Document{"score": total, "scoreBreakdown": bd})
}

// ApproveCampaign marks an influencer campaign approved and stamps approvedAt.
func (s *Service) ApproveCampaign(ctx context.Context, id string) (store.Document, error) {
	return s.campaigns.Update(ctx, id, store.Document{
		"status":     "approved",
		"approvedAt": s.now().UTC().Format(store.TimeLayout),
	})
}

// SearchCriteria is what the dashboard submits when looking for influencers.
type SearchCriteria struct {
	Query        string   `json:"query,omitempty"`
	Platform     string   `json:"platform,omitempty"`
	Category     string   `json:"category,omitempty"`
	MinFollowers *float64 `json:"minFollowers,omitempty"`
	MaxFollowers *float64 `json:"maxFollowers,omitempty"`
}

type SearchResult struct {
	Message     string         `json:"message"`
	Criteria    SearchCriteria `json:"criteria"`
	Suggestions []string       `json:"suggestions"`
}

// Search has no discovery backend; it echoes the criteria with guidance.
func Search(criteria SearchCriteria) SearchResult {
	return SearchResult{
		Message:  "Use the AI assistant to search for influencers. Provide criteria and the AI will help discover relevant influencers.",
		Criteria: criteria,
		Suggestions: []string{
			"Try searching social media platforms directly",
			"Use hashtag research to find niche influencers",
			"Check competitor collaborations",
			"Look at industry events and speakers",
		},
	}
}
