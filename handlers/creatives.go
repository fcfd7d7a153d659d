package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emika-opensource/marketing-manager/internal/generation"
	"github.com/emika-opensource/marketing-manager/internal/store"
)

const artifactLinkTTL = 15 * time.Minute

// GenerateCreative accepts {prompt,type,style,dimensions,platform} and
// answers {id,status:"generating"} without waiting for the provider.
func (a *API) GenerateCreative(c *gin.Context) {
	body, ok := bindDocument(c)
	if !ok {
		return
	}
	var req generation.Request
	if err := store.Decode(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	acc, err := a.runner.StartJob(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (a *API) CreativeStatus(c *gin.Context) {
	st, err := a.runner.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// CreativeArtifact redirects to the mirrored copy when there is one,
// otherwise to the provider URL.
func (a *API) CreativeArtifact(c *gin.Context) {
	ctx := c.Request.Context()
	doc, err := a.store.Collection(store.Creatives).Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if key := doc.String("storageKey"); key != "" && a.artifacts != nil {
		link, err := a.artifacts.PresignedURL(ctx, key, artifactLinkTTL)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Redirect(http.StatusFound, link)
		return
	}
	if u := doc.String("url"); u != "" {
		c.Redirect(http.StatusFound, u)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}
