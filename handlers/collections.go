package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emika-opensource/marketing-manager/internal/store"
)

// RegisterCollectionRoutes mounts list/create/get/update/delete for one
// collection under /<name>.
func RegisterCollectionRoutes(rg gin.IRoutes, col *store.Collection) {
	h := &collectionHandler{col: col}
	base := "/" + col.Name()
	rg.GET(base, h.list)
	rg.POST(base, h.create)
	rg.GET(base+"/:id", h.get)
	rg.PUT(base+"/:id", h.update)
	rg.DELETE(base+"/:id", h.delete)
}

type collectionHandler struct {
	col *store.Collection
}

func (h *collectionHandler) list(c *gin.Context) {
	docs, err := h.col.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *collectionHandler) create(c *gin.Context) {
	body, ok := bindDocument(c)
	if !ok {
		return
	}
	doc, err := h.col.Create(c.Request.Context(), body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *collectionHandler) get(c *gin.Context) {
	doc, err := h.col.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *collectionHandler) update(c *gin.Context) {
	body, ok := bindDocument(c)
	if !ok {
		return
	}
	doc, err := h.col.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *collectionHandler) delete(c *gin.Context) {
	if err := h.col.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
