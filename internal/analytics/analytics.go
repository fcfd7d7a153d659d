// Package analytics aggregates the dashboard overview from the collections.
package analytics

import (
	"context"
	"strconv"

	"github.com/emika-opensource/marketing-manager/internal/models"
	"github.com/emika-opensource/marketing-manager/internal/store"
)

// conversionValue is the revenue credited per conversion when estimating ROI.
const conversionValue = 50

type ChannelPerformance struct {
	ID          any     `json:"id"`
	Name        any     `json:"name"`
	Type        any     `json:"type"`
	ROI         float64 `json:"roi"`
	Reach       float64 `json:"reach"`
	Conversions float64 `json:"conversions"`
	Budget      float64 `json:"budget"`
}

type Pipeline struct {
	Discovered  int `json:"discovered"`
	Contacted   int `json:"contacted"`
	Negotiating int `json:"negotiating"`
	Active      int `json:"active"`
	Completed   int `json:"completed"`
}

type Report struct {
	TotalSpent         float64              `json:"totalSpent"`
	BudgetTotal        float64              `json:"budgetTotal"`
	BudgetRemaining    float64              `json:"budgetRemaining"`
	OverallROI         any                  `json:"overallROI"` // "12.5" or 0 when nothing was spent
	ActiveCampaigns    int                  `json:"activeCampaigns"`
	ActiveInfluencers  int                  `json:"activeInfluencers"`
	CreativesGenerated int                  `json:"creativesGenerated"`
	TotalImpressions   float64              `json:"totalImpressions"`
	TotalClicks        float64              `json:"totalClicks"`
	TotalConversions   float64              `json:"totalConversions"`
	ChannelPerformance []ChannelPerformance `json:"channelPerformance"`
	RecentCampaigns    []store.Document     `json:"recentCampaigns"`
	InfluencerPipeline Pipeline             `json:"influencerPipeline"`
	RecentCreatives    []store.Document     `json:"recentCreatives"`
}

// Compute reads every collection it needs and builds the report.
func Compute(ctx context.Context, s *store.Store) (Report, error) {
	var r Report
	campaigns, err := s.Collection(store.Campaigns).List(ctx)
	if err != nil {
		return r, err
	}
	influencers, err := s.Collection(store.Influencers).List(ctx)
	if err != nil {
		return r, err
	}
	creatives, err := s.Collection(store.Creatives).List(ctx)
	if err != nil {
		return r, err
	}
	channels, err := s.Collection(store.Channels).List(ctx)
	if err != nil {
		return r, err
	}
	infCampaigns, err := s.Collection(store.InfluencerCampaigns).List(ctx)
	if err != nil {
		return r, err
	}
	budget, err := s.Singleton(store.Budget).Get(ctx, store.Document{"total": 0.0, "spent": 0.0})
	if err != nil {
		return r, err
	}
	return Build(campaigns, influencers, creatives, channels, infCampaigns, budget), nil
}

// Build is the pure aggregation behind Compute.
func Build(campaigns, influencers, creatives, channels, infCampaigns []store.Document, budget store.Document) Report {
	var spent, impressions, clicks, conversions float64
	active := 0
	for _, c := range campaigns {
		spent += c.Float("spent")
		m := c.Map("metrics")
		impressions += m.Float("impressions")
		clicks += m.Float("clicks")
		conversions += m.Float("conversions")
		if c.String("status") == "active" {
			active++
		}
	}

	var influencerSpend float64
	for _, c := range infCampaigns {
		influencerSpend += c.Float("agreedPrice")
	}

	var pipeline Pipeline
	for _, inf := range influencers {
		switch inf.String("status") {
		case models.InfluencerDiscovered:
			pipeline.Discovered++
		case models.InfluencerContacted:
			pipeline.Contacted++
		case models.InfluencerNegotiating:
			pipeline.Negotiating++
		case models.InfluencerActive:
			pipeline.Active++
		case models.InfluencerCompleted:
			pipeline.Completed++
		}
	}

	perf := make([]ChannelPerformance, 0, len(channels))
	for _, ch := range channels {
		p := ch.Map("performance")
		perf = append(perf, ChannelPerformance{
			ID:          ch["id"],
			Name:        ch["name"],
			Type:        ch["type"],
			ROI:         p.Float("roi"),
			Reach:       p.Float("reach"),
			Conversions: p.Float("conversions"),
			Budget:      ch.Float("budget"),
		})
	}

	var roi any = 0
	if spent > 0 {
		roi = strconv.FormatFloat((conversions*conversionValue-spent)/spent*100, 'f', 1, 64)
	}

	ready := make([]store.Document, 0, len(creatives))
	for _, c := range creatives {
		if c.String("status") == models.StatusReady {
			ready = append(ready, c)
		}
	}

	return Report{
		TotalSpent:         spent + influencerSpend,
		BudgetTotal:        budget.Float("total"),
		BudgetRemaining:    budget.Float("total") - budget.Float("spent"),
		OverallROI:         roi,
		ActiveCampaigns:    active,
		ActiveInfluencers:  pipeline.Active,
		CreativesGenerated: len(creatives),
		TotalImpressions:   impressions,
		TotalClicks:        clicks,
		TotalConversions:   conversions,
		ChannelPerformance: perf,
		RecentCampaigns:    lastReversed(campaigns, 5),
		InfluencerPipeline: pipeline,
		RecentCreatives:    lastReversed(ready, 6),
	}
}

// lastReversed returns up to n trailing documents, newest first.
func lastReversed(docs []store.Document, n int) []store.Document {
	start := len(docs) - n
	if start < 0 {
		start = 0
	}
	out := make([]store.Document, 0, len(docs)-start)
	for i := len(docs) - 1; i >= start; i-- {
		out = append(out, docs[i])
	}
	return out
}
