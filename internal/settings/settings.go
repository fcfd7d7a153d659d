// Package settings owns the brand, budget and config singletons.
package settings

import (
	"context"
	"strings"

	"github.com/emika-opensource/marketing-manager/internal/store"
)

func BrandDefaults() store.Document {
	return store.Document{
		"name":        "",
		"description": "",
		"industry":    "",
		"values":      []any{},
		"tone":        "",
		"colors": map[string]any{
			"primary":   "#f43f5e",
			"secondary": "#1e1e2e",
			"accent":    "#c0c0c0",
		},
		"targetMarket": "",
		"usp":          "",
		"competitors":  []any{},
		"guidelines":   "",
	}
}

func BudgetDefaults() store.Document {
	return store.Document{"total": 0.0, "allocated": map[string]any{}, "spent": 0.0, "remaining": 0.0, "period": "monthly"}
}

func ConfigDefaults() store.Document {
	return store.Document{"falKey": "", "notifications": true}
}

type Service struct {
	brand  *store.Singleton
	budget *store.Singleton
	config *store.Singleton
	envKey string
}

// NewService wires the singletons. envKey, when set, takes precedence over
// the falKey stored in config.
func NewService(s *store.Store, envKey string) *Service {
	return &Service{
		brand:  s.Singleton(store.Brand),
		budget: s.Singleton(store.Budget),
		config: s.Singleton(store.Config),
		envKey: envKey,
	}
}

func (s *Service) Brand(ctx context.Context) (store.Document, error) {
	return s.brand.Get(ctx, BrandDefaults())
}

// PutBrand replaces the brand wholesale.
func (s *Service) PutBrand(ctx context.Context, doc store.Document) (store.Document, error) {
	if err := s.brand.Put(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) Budget(ctx context.Context) (store.Document, error) {
	return s.budget.Get(ctx, BudgetDefaults())
}

// PutBudget stores doc with remaining recomputed as total - spent.
func (s *Service) PutBudget(ctx context.Context, doc store.Document) (store.Document, error) {
	b := doc.Clone()
	b["remaining"] = b.Float("total") - b.Float("spent")
	if err := s.budget.Put(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Config returns the config with the key masked.
func (s *Service) Config(ctx context.Context) (store.Document, error) {
	cfg, err := s.config.Get(ctx, ConfigDefaults())
	if err != nil {
		return nil, err
	}
	masked := cfg.Clone()
	if k := masked.String("falKey"); k != "" {
		masked["falKey"] = MaskKey(k)
	}
	return masked, nil
}

// PutConfig merges patch into the stored config. A masked falKey echoed back
// by the dashboard does not overwrite the real one.
func (s *Service) PutConfig(ctx context.Context, patch store.Document) error {
	existing, err := s.config.Get(ctx, store.Document{})
	if err != nil {
		return err
	}
	updated := existing.Clone()
	for k, v := range patch {
		updated[k] = v
	}
	if k := patch.String("falKey"); strings.Contains(k, "...") {
		if old, ok := existing["falKey"]; ok {
			updated["falKey"] = old
		} else {
			delete(updated, "falKey")
		}
	}
	return s.config.Put(ctx, updated)
}

// FalKey resolves the generation credential: environment first, then the
// stored config.
func (s *Service) FalKey(ctx context.Context) (string, error) {
	if s.envKey != "" {
		return s.envKey, nil
	}
	cfg, err := s.config.Get(ctx, store.Document{})
	if err != nil {
		return "", err
	}
	return cfg.String("falKey"), nil
}

// MaskKey keeps the first 8 and last 4 characters.
func MaskKey(k string) string {
	head := k
	if len(head) > 8 {
		head = head[:8]
	}
	tail := k
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return head + "..." + tail
}
