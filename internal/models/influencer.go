package models

import "github.com/emika-opensource/marketing-manager/internal/store"

// Influencer pipeline states.
const (
	InfluencerDiscovered  = "discovered"
	InfluencerContacted   = "contacted"
	InfluencerNegotiating = "negotiating"
	InfluencerActive      = "active"
	InfluencerCompleted   = "completed"
	InfluencerRejected    = "rejected"
)

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Influencer is the typed view the scoring engine reads. It is built from a
// stored document leniently: missing or mistyped fields take zero values.
type Influencer struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Followers      float64    `json:"followers"`
	EngagementRate float64    `json:"engagementRate"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	PriceRange     PriceRange `json:"priceRange"`
	Status         string     `json:"status"`
}

func InfluencerFrom(d store.Document) Influencer {
	pr := d.Map("priceRange")
	return Influencer{
		ID:             d.ID(),
		Name:           d.String("name"),
		Followers:      d.Float("followers"),
		EngagementRate: d.Float("engagementRate"),
		Category:       d.String("category"),
		Tags:           stringsOf(d["tags"]),
		PriceRange:     PriceRange{Min: pr.Float("min"), Max: pr.Float("max")},
		Status:         d.String("status"),
	}
}

// Brand is the slice of the brand singleton that scoring cares about.
type Brand struct {
	Name     string   `json:"name"`
	Industry string   `json:"industry"`
	Values   []string `json:"values"`
}

func BrandFrom(d store.Document) Brand {
	return Brand{
		Name:     d.String("name"),
		Industry: d.String("industry"),
		Values:   stringsOf(d["values"]),
	}
}

// stringsOf keeps the string elements of a JSON array.
func stringsOf(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, e := range vs {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
