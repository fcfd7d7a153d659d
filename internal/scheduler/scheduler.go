// Package scheduler refreshes the store gauges on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/emika-opensource/marketing-manager/internal/models"
	"github.com/emika-opensource/marketing-manager/internal/store"
	"github.com/emika-opensource/marketing-manager/pkg/logger"
	"github.com/emika-opensource/marketing-manager/pkg/metrics"
)

type Scheduler struct {
	cron  *cron.Cron
	store *store.Store
}

// New registers the gauge refresh under spec (standard cron or @every).
func New(s *store.Store, spec string) (*Scheduler, error) {
	c := cron.New()
	sch := &Scheduler{cron: c, store: s}
	if _, err := c.AddFunc(spec, sch.refresh); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return sch, nil
}

func (s *Scheduler) Start() {
	s.refresh()
	s.cron.Start()
}

// Stop waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := RefreshGauges(ctx, s.store); err != nil {
		logger.Warnf("gauge refresh: %v", err)
	}
}

// RefreshGauges sets the per-collection document gauge and the pending
// generation gauge from the stored data.
func RefreshGauges(ctx context.Context, s *store.Store) error {
	var firstErr error
	for _, name := range store.CollectionNames {
		docs, err := s.Collection(name).List(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		metrics.CollectionDocuments.WithLabelValues(name).Set(float64(len(docs)))
		if name != store.Creatives {
			continue
		}
		pending := 0
		for _, d := range docs {
			if d.String("status") == models.StatusGenerating {
				pending++
			}
		}
		metrics.GenerationPending.Set(float64(pending))
	}
	return firstErr
}
