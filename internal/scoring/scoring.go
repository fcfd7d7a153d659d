// Package scoring rates an influencer against the brand on a 0-100 scale.
//
// Components and weights: followers 20%, engagement 30%, relevance 25%,
// value 15%, audience quality 10%. The total is the weighted sum rounded
// half up. Score is pure; persisting the result is the caller's job.
package scoring

import (
	"math"
	"strings"

	"github.com/emika-opensource/marketing-manager/internal/models"
)

// Weights in percent.
const (
	FollowersWeight       = 20
	EngagementWeight      = 30
	RelevanceWeight       = 25
	ValueWeight           = 15
	AudienceQualityWeight = 10
)

// Component is one line of the breakdown, e.g. {"weight":"20%","score":90}.
type Component struct {
	Weight string  `json:"weight"`
	Score  float64 `json:"score"`
}

type Breakdown struct {
	Followers       Component `json:"followers"`
	Engagement      Component `json:"engagement"`
	Relevance       Component `json:"relevance"`
	Value           Component `json:"value"`
	AudienceQuality Component `json:"audienceQuality"`
}

// Score returns the rounded total and the per-component breakdown.
func Score(inf models.Influencer, brand models.Brand) (int, Breakdown) {
	b := Breakdown{
		Followers:       Component{Weight: "20%", Score: followerScore(inf.Followers)},
		Engagement:      Component{Weight: "30%", Score: engagementScore(inf.EngagementRate)},
		Relevance:       Component{Weight: "25%", Score: relevanceScore(inf, brand)},
		Value:           Component{Weight: "15%", Score: valueScore(inf)},
		AudienceQuality: Component{Weight: "10%", Score: 50},
	}
	// integer weights keep 82.5 from drifting to 82.4999
	sum := b.Followers.Score*FollowersWeight +
		b.Engagement.Score*EngagementWeight +
		b.Relevance.Score*RelevanceWeight +
		b.Value.Score*ValueWeight +
		b.AudienceQuality.Score*AudienceQualityWeight
	return int(math.Floor(sum/100 + 0.5)), b
}

func followerScore(f float64) float64 {
	switch {
	case f >= 1_000_000:
		return 90
	case f >= 500_000:
		return 80
	case f >= 100_000:
		return 70
	case f >= 50_000:
		return 60
	case f >= 10_000:
		return 50
	case f >= 5_000:
		return 40
	case f >= 1_000:
		return 30
	}
	return 20
}

func engagementScore(rate float64) float64 {
	return math.Min(100, rate*20)
}

func relevanceScore(inf models.Influencer, brand models.Brand) float64 {
	score := 50.0
	cat := strings.ToLower(inf.Category)
	ind := strings.ToLower(brand.Industry)
	if cat != "" && ind != "" && (strings.Contains(cat, ind) || strings.Contains(ind, cat)) {
		score = 85
	}
	matches := 0
	for _, tag := range inf.Tags {
		if matchesAny(strings.ToLower(tag), brand.Values) {
			matches++
		}
	}
	if matches > 0 {
		score = math.Min(100, score+float64(matches)*10)
	}
	return score
}

// matchesAny reports whether tag and some value contain one another.
// Empty strings never match.
func matchesAny(tag string, values []string) bool {
	if tag == "" {
		return false
	}
	for _, v := range values {
		v = strings.ToLower(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, tag) || strings.Contains(tag, v) {
			return true
		}
	}
	return false
}

func valueScore(inf models.Influencer) float64 {
	if inf.PriceRange.Max <= 0 || inf.Followers <= 0 {
		return 50
	}
	ratio := inf.PriceRange.Max / inf.Followers
	switch {
	case ratio < 0.01:
		return 90
	case ratio < 0.03:
		return 75
	case ratio < 0.05:
		return 60
	case ratio < 0.1:
		return 40
	}
	return 25
}
