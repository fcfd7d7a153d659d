package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emika-opensource/marketing-manager/internal/influencers"
	"github.com/emika-opensource/marketing-manager/internal/store"
)

func (a *API) ScoreInfluencer(c *gin.Context) {
	doc, err := a.influencers.ComputeScore(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (a *API) SearchInfluencers(c *gin.Context) {
	body, ok := bindDocument(c)
	if !ok {
		return
	}
	var criteria influencers.SearchCriteria
	if err := store.Decode(body, &criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, influencers.Search(criteria))
}

func (a *API) ApproveInfluencerCampaign(c *gin.Context) {
	doc, err := a.influencers.ApproveCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
