package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emika-opensource/marketing-manager/internal/generation"
	"github.com/emika-opensource/marketing-manager/internal/influencers"
	"github.com/emika-opensource/marketing-manager/internal/jobs"
	"github.com/emika-opensource/marketing-manager/internal/models"
	"github.com/emika-opensource/marketing-manager/internal/settings"
	"github.com/emika-opensource/marketing-manager/internal/store"
)

// JobRunner is the slice of jobs.Runner the HTTP layer needs.
type JobRunner interface {
	StartJob(ctx context.Context, req generation.Request) (jobs.Accepted, error)
	GetStatus(ctx context.Context, id string) (models.JobStatus, error)
}

// ArtifactLinker presigns mirrored artifacts. Nil when mirroring is off.
type ArtifactLinker interface {
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// API serves the dashboard's JSON endpoints.
type API struct {
	store       *store.Store
	settings    *settings.Service
	influencers *influencers.Service
	runner      JobRunner
	artifacts   ArtifactLinker
}

func NewAPI(s *store.Store, st *settings.Service, inf *influencers.Service, runner JobRunner, artifacts ArtifactLinker) *API {
	return &API{store: s, settings: st, influencers: inf, runner: runner, artifacts: artifacts}
}

// Register mounts every route under /api on r.
func (a *API) Register(r gin.IRouter) {
	a.Mount(r.Group("/api"))
}

// Mount registers the routes on a group that already carries the /api
// prefix (and whatever middleware the caller attached).
func (a *API) Mount(api gin.IRouter) {
	api.POST("/influencers/search", a.SearchInfluencers)
	api.POST("/influencers/:id/score", a.ScoreInfluencer)
	api.POST("/influencer-campaigns/:id/approve", a.ApproveInfluencerCampaign)
	api.POST("/creatives/generate", a.GenerateCreative)
	api.GET("/creatives/:id/status", a.CreativeStatus)
	api.GET("/creatives/:id/artifact", a.CreativeArtifact)

	for _, name := range store.CollectionNames {
		RegisterCollectionRoutes(api, a.store.Collection(name))
	}

	api.GET("/brand", a.GetBrand)
	api.PUT("/brand", a.PutBrand)
	api.GET("/budget", a.GetBudget)
	api.PUT("/budget", a.PutBudget)
	api.GET("/config", a.GetConfig)
	api.PUT("/config", a.PutConfig)
	api.GET("/analytics", a.Analytics)
}

const notConfiguredMessage = "FAL_KEY not configured. Set it in Settings or as environment variable."

// writeError maps domain errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, jobs.ErrNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"error": notConfiguredMessage})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// bindDocument reads a JSON object body. An empty body or null is {}.
func bindDocument(c *gin.Context) (store.Document, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	doc := store.Document{}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return doc, true
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid JSON body: %v", err)})
		return nil, false
	}
	if doc == nil {
		doc = store.Document{}
	}
	return doc, true
}
