// Package jobs runs creative generation off the request path.
//
// StartJob persists a creatives document in the generating state and hands
// the external call to a worker. The worker writes the outcome back through
// the store with Get then Update, so fields edited while the job ran survive
// unless the edit lands inside that final read/write window.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/emika-opensource/marketing-manager/internal/generation"
	"github.com/emika-opensource/marketing-manager/internal/models"
	"github.com/emika-opensource/marketing-manager/internal/store"
	"github.com/emika-opensource/marketing-manager/pkg/logger"
	"github.com/emika-opensource/marketing-manager/pkg/metrics"
)

var (
	ErrNotConfigured = errors.New("generation key not configured")
)

// Mirror copies a finished artifact into durable storage and returns its key.
type Mirror interface {
	Mirror(ctx context.Context, id, source string) (string, error)
}

// KeySource resolves the generation credential at job start.
type KeySource func(ctx context.Context) (string, error)

// Accepted is returned to the caller right after StartJob.
type Accepted struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type job struct {
	id  string
	key string
	req generation.Request
}

type Runner struct {
	creatives *store.Collection
	gen       generation.Generator
	key       KeySource
	mirror    Mirror
	workers   int
	queue     chan job
	started   atomic.Bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

type Option func(*Runner)

// WithMirror enables artifact mirroring after successful generations.
func WithMirror(m Mirror) Option { return func(r *Runner) { r.mirror = m } }

// WithWorkers sets the worker count and queue capacity.
func WithWorkers(workers, queueSize int) Option {
	return func(r *Runner) {
		if workers > 0 {
			r.workers = workers
		}
		if queueSize >= 0 {
			r.queue = make(chan job, queueSize)
		}
	}
}

func NewRunner(s *store.Store, gen generation.Generator, key KeySource, opts ...Option) *Runner {
	r := &Runner{
		creatives: s.Collection(store.Creatives),
		gen:       gen,
		key:       key,
		workers:   4,
		queue:     make(chan job, 64),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start launches the worker pool. Jobs accepted before Start run on their
// own goroutine.
func (r *Runner) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(ctx)
	}
	logger.Infof("generation runner started with %d workers", r.workers)
}

// Stop stops the workers and waits for in-flight jobs. Jobs still queued
// stay generating.
func (r *Runner) Stop() {
	if !r.started.Load() || r.cancel == nil {
		return
	}
	r.cancel()
	r.wg.Wait()
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-r.queue:
			r.run(j)
		}
	}
}

// StartJob validates the credential, persists the pending document and
// enqueues the external call. It never waits for the call.
func (r *Runner) StartJob(ctx context.Context, req generation.Request) (Accepted, error) {
	key, err := r.key(ctx)
	if err != nil {
		return Accepted{}, fmt.Errorf("resolve generation key: %w", err)
	}
	if key == "" {
		return Accepted{}, ErrNotConfigured
	}
	doc, err := r.creatives.Create(ctx, pendingDocument(req))
	if err != nil {
		return Accepted{}, err
	}
	metrics.GenerationStarted.Inc()

	j := job{id: doc.ID(), key: key, req: req}
	r.enqueue(j)
	return Accepted{ID: j.id, Status: models.StatusGenerating}, nil
}

func (r *Runner) enqueue(j job) {
	if !r.started.Load() {
		go r.run(j)
		return
	}
	select {
	case r.queue <- j:
	default:
		logger.Warnf("generation queue full; running job %s on its own goroutine", j.id)
		go r.run(j)
	}
}

// pendingDocument builds the stored shape of a new job with request
// defaults applied. The display name uses "Custom" when no style was given.
func pendingDocument(req generation.Request) store.Document {
	style, typ, platform, dims := req.Style, req.Type, req.Platform, req.Dimensions
	nameStyle := style
	if nameStyle == "" {
		nameStyle = "Custom"
	}
	if typ == "" {
		typ = "image"
	}
	if style == "" {
		style = "professional"
	}
	if platform == "" {
		platform = "general"
	}
	if dims == "" {
		dims = "1024x1024"
	}
	return store.Document{
		"name":       fmt.Sprintf("%s %s for %s", nameStyle, typ, platform),
		"type":       typ,
		"prompt":     req.Prompt,
		"style":      style,
		"platform":   platform,
		"dimensions": dims,
		"url":        nil,
		"status":     models.StatusGenerating,
	}
}

// run performs the call without a deadline of its own; a hung call leaves
// the job generating.
func (r *Runner) run(j job) {
	ctx := context.Background()
	log := logger.WithFields(map[string]interface{}{"job": j.id, "type": j.req.Type})

	fields := store.Document{"status": models.StatusReady}
	out, err := r.gen.Generate(ctx, j.key, j.req)
	switch {
	case err != nil:
		fields["error"] = err.Error()
	case out.Error != "":
		fields["error"] = out.Error
	default:
		fields["url"] = out.URL
		if r.mirror != nil && out.URL != "" {
			if storageKey, merr := r.mirror.Mirror(ctx, j.id, out.URL); merr != nil {
				log.Warnf("artifact mirror failed: %v", merr)
			} else {
				fields["storageKey"] = storageKey
			}
		}
	}

	outcome := "url"
	if _, failed := fields["error"]; failed {
		outcome = "error"
	}
	metrics.GenerationCompleted.WithLabelValues(outcome).Inc()

	if _, err := r.creatives.Get(ctx, j.id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("creative deleted before generation finished; dropping result")
			return
		}
		log.Errorf("load creative: %v", err)
		return
	}
	if _, err := r.creatives.Update(ctx, j.id, fields); err != nil {
		log.Errorf("write generation result: %v", err)
		return
	}
	log.WithField("outcome", outcome).Info("generation finished")
}

// GetStatus reports the job's current state.
func (r *Runner) GetStatus(ctx context.Context, id string) (models.JobStatus, error) {
	doc, err := r.creatives.Get(ctx, id)
	if err != nil {
		return models.JobStatus{}, err
	}
	var c models.Creative
	if err := store.Decode(doc, &c); err != nil {
		return models.JobStatus{}, err
	}
	return c.JobStatus(), nil
}
