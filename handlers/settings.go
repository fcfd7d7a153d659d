package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emika-opensource/marketing-manager/internal/analytics"
)

func (a *API) GetBrand(c *gin.Context) {
	doc, err := a.settings.Brand(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (a *API) PutBrand(c *gin.Context) {
	body, ok := bindDocument(c)
	if !ok {
		return
	}
	doc, err := a.settings.PutBrand(c.Request.Context(), body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (a *API) GetBudget(c *gin.Context) {
	doc, err := a.settings.Budget(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (a *API) PutBudget(c *gin.Context) {
	body, ok := bindDocument(c)
	if !ok {
		return
	}
	doc, err := a.settings.PutBudget(c.Request.Context(), body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (a *API) GetConfig(c *gin.Context) {
	doc, err := a.settings.Config(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (a *API) PutConfig(c *gin.Context) {
	body, ok := bindDocument(c)
	if !ok {
		return
	}
	if err := a.settings.PutConfig(c.Request.Context(), body); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) Analytics(c *gin.Context) {
	report, err := analytics.Compute(c.Request.Context(), a.store)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
